// Package builder constructs a single container's traject greedily or
// randomly, forward (container.Van to container.Naar) or reverse
// (container.Naar back to container.Van), filling gaps with ad-hoc road
// legs synthesized by pkg/adhoc whenever no scheduled capacity chains to
// the next candidate.
package builder

import (
	"math/rand"

	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/adhoc"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/models"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/planning"
)

// Builder constructs trajecten for containers drawn from a Planning,
// falling back to ad-hoc legs synthesized by Synth when no scheduled
// capacity can extend the traject under construction.
type Builder struct {
	Planning *planning.Planning
	Synth    *adhoc.Synthesizer
	Rand     *rand.Rand
}

// New creates a Builder. If rng is nil, a new source with the fixed seed
// 1 is used, so runs without an explicit rng are reproducible.
func New(p *planning.Planning, synth *adhoc.Synthesizer, rng *rand.Rand) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Builder{Planning: p, Synth: synth, Rand: rng}
}

type candidate struct {
	capacity models.LegCapacity
	cost     float64
}

func minCost(candidates []candidate) candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.cost < best.cost {
			best = c
		}
	}
	return best
}

func (b *Builder) randomCandidate(candidates []candidate) candidate {
	return candidates[b.Rand.Intn(len(candidates))]
}

// select picks one candidate by the builder's strategy.
type selectFunc func(candidates []candidate) candidate

// forbiddenLocations returns the set of location IDs that may not appear
// as a non-final intermediate stop in c's traject: every shipper and
// empty depot, plus (forward construction) c's own origin, or (reverse
// construction) c's own destination. Only terminals may be passed
// through; the traject's own start/end is never revisited mid-chain.
func (b *Builder) forbiddenLocations(c models.Container, vanNaar bool) map[int]bool {
	forbidden := make(map[int]bool)
	for _, loc := range b.Planning.Locations() {
		if loc.IsShipper() || loc.IsEmptyDepot() {
			forbidden[loc.ID] = true
		}
	}
	if vanNaar {
		forbidden[c.Van.ID] = true
		delete(forbidden, c.Naar.ID)
	} else {
		forbidden[c.Naar.ID] = true
		delete(forbidden, c.Van.ID)
	}
	return forbidden
}

func (b *Builder) estimateCosts(capacities []models.LegCapacity, c models.Container, vanNaar bool) []candidate {
	out := make([]candidate, 0, len(capacities))
	for _, lc := range capacities {
		cost, ok := b.Synth.SchatTotaleKost(lc, c, vanNaar)
		if ok {
			out = append(out, candidate{capacity: lc, cost: cost})
		}
	}
	return out
}

// GreedyTraject constructs c's traject picking, at every step, the
// scheduled capacity with lowest estimated total cost.
func (b *Builder) GreedyTraject(c models.Container, vanNaar bool) []models.LegCapacity {
	if vanNaar {
		return b.buildVanNaar(c, minCost)
	}
	return b.buildNaarVan(c, minCost)
}

// RandomTraject constructs c's traject picking a uniformly random
// scheduled capacity at every step.
func (b *Builder) RandomTraject(c models.Container, vanNaar bool) []models.LegCapacity {
	if vanNaar {
		return b.buildVanNaar(c, b.randomCandidate)
	}
	return b.buildNaarVan(c, b.randomCandidate)
}

func (b *Builder) buildVanNaar(c models.Container, selecteer selectFunc) []models.LegCapacity {
	var traject []models.LegCapacity
	forbidden := b.forbiddenLocations(c, true)

	var starts []models.LegCapacity
	for _, lc := range b.Planning.LegCapacities() {
		if lc.IsPossibleStart(c) && !forbidden[lc.Leg.Naar.ID] {
			starts = append(starts, lc)
		}
	}
	candidates := b.estimateCosts(starts, c, true)
	if len(candidates) == 0 {
		if lc, ok := b.Synth.MaakLeg(c); ok {
			traject = append(traject, lc)
		}
		return traject
	}

	for {
		chosen := selecteer(candidates).capacity
		traject = append(traject, chosen)
		if chosen.Leg.Naar.ID == c.Naar.ID {
			return traject
		}

		forbidden[chosen.Leg.Naar.ID] = true
		var next []models.LegCapacity
		for _, lc := range b.Planning.LegCapacities() {
			if lc.Follows(chosen) && !forbidden[lc.Leg.Naar.ID] {
				next = append(next, lc)
			}
		}
		candidates = b.estimateCosts(next, c, true)
		if len(candidates) > 0 {
			continue
		}

		// no scheduled capacity continues the chain: backtrack trying an
		// ad-hoc lead-out leg from progressively shorter prefixes.
		var adhocLeg models.LegCapacity
		found := false
		for len(traject) > 0 && !found {
			last := traject[len(traject)-1]
			if lc, ok := b.Synth.MaakLegNaLeg(last.Leg, c); ok {
				adhocLeg = lc
				found = true
				break
			}
			traject = traject[:len(traject)-1]
			delete(forbidden, last.Leg.Naar.ID)
		}
		if !found {
			if lc, ok := b.Synth.MaakLeg(c); ok {
				adhocLeg = lc
				found = true
			}
		}
		if found {
			traject = append(traject, adhocLeg)
		}
		return traject
	}
}

func (b *Builder) buildNaarVan(c models.Container, selecteer selectFunc) []models.LegCapacity {
	var traject []models.LegCapacity
	forbidden := b.forbiddenLocations(c, false)

	var ends []models.LegCapacity
	for _, lc := range b.Planning.LegCapacities() {
		if lc.IsPossibleEnd(c) && !forbidden[lc.Leg.Van.ID] {
			ends = append(ends, lc)
		}
	}
	candidates := b.estimateCosts(ends, c, false)
	if len(candidates) == 0 {
		if lc, ok := b.Synth.MaakLeg(c); ok {
			traject = append(traject, lc)
		}
		return traject
	}

	for {
		chosen := selecteer(candidates).capacity
		traject = append(traject, chosen)
		if chosen.Leg.Van.ID == c.Van.ID {
			reverse(traject)
			return traject
		}

		forbidden[chosen.Leg.Van.ID] = true
		var prev []models.LegCapacity
		for _, lc := range b.Planning.LegCapacities() {
			if lc.Precedes(chosen) && !forbidden[lc.Leg.Van.ID] {
				prev = append(prev, lc)
			}
		}
		candidates = b.estimateCosts(prev, c, false)
		if len(candidates) > 0 {
			continue
		}

		var adhocLeg models.LegCapacity
		found := false
		for len(traject) > 0 && !found {
			last := traject[len(traject)-1]
			if lc, ok := b.Synth.MaakLegVoorLeg(last.Leg, c); ok {
				adhocLeg = lc
				found = true
				break
			}
			traject = traject[:len(traject)-1]
			delete(forbidden, last.Leg.Van.ID)
		}
		if !found {
			if lc, ok := b.Synth.MaakLeg(c); ok {
				adhocLeg = lc
				found = true
			}
		}
		if found {
			traject = append(traject, adhocLeg)
		}
		reverse(traject)
		return traject
	}
}

func reverse(s []models.LegCapacity) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
