package builder

import (
	"math/rand"

	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/models"
)

// Strategy names one of the four traject construction strategies, used
// by pkg/alns to label and select repair operators.
type Strategy int

const (
	Greedy Strategy = iota
	Random
	ReversedGreedy
	ReversedRandom
)

func (s Strategy) String() string {
	switch s {
	case Greedy:
		return "greedy"
	case Random:
		return "random"
	case ReversedGreedy:
		return "reversed_greedy"
	case ReversedRandom:
		return "reversed_random"
	default:
		return "unknown"
	}
}

func (b *Builder) construct(c models.Container, strategy Strategy) []models.LegCapacity {
	switch strategy {
	case Greedy:
		return b.GreedyTraject(c, true)
	case Random:
		return b.RandomTraject(c, true)
	case ReversedGreedy:
		return b.GreedyTraject(c, false)
	case ReversedRandom:
		return b.RandomTraject(c, false)
	default:
		return nil
	}
}

// Repair assigns a traject to every unplanned container in the
// planning, in a shuffled order, using the given construction strategy.
// Ad-hoc legs synthesized during construction are registered into the
// planning's arena before the traject is committed. It mutates b.Planning
// directly via Planning.AddTraject.
func (b *Builder) Repair(strategy Strategy) error {
	tePlannen := b.Planning.TePlannen()
	b.Rand.Shuffle(len(tePlannen), func(i, j int) {
		tePlannen[i], tePlannen[j] = tePlannen[j], tePlannen[i]
	})

	for _, containerID := range tePlannen {
		c, err := b.Planning.Container(containerID)
		if err != nil {
			return err
		}

		traject := b.construct(c, strategy)
		ids := make([]int, 0, len(traject))
		for _, lc := range traject {
			if lc.Adhoc {
				registered := b.Planning.AddAdhocLegCapacity(lc)
				ids = append(ids, registered.ID)
			} else {
				ids = append(ids, lc.ID)
			}
		}

		if len(ids) == 0 {
			continue
		}
		if err := b.Planning.AddTraject(containerID, ids...); err != nil {
			return err
		}
	}
	return nil
}

// NewRandomState returns a math/rand source seeded with seed, matching
// the reproducible-seed convention the ALNS driver exposes.
func NewRandomState(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
