package alns

import "math/rand"

// Outcome classifies how an iteration's accepted/rejected candidate
// compared to the running state, driving which reward an operator pair
// earns.
type Outcome int

const (
	// OutcomeBest is the candidate is the best solution seen so far.
	OutcomeBest Outcome = iota
	// OutcomeBetter is the candidate improves on the current state.
	OutcomeBetter
	// OutcomeAccepted is the candidate is accepted despite not improving.
	OutcomeAccepted
	// OutcomeRejected is the candidate is discarded.
	OutcomeRejected
)

// String renders an Outcome for logging and persistence.
func (o Outcome) String() string {
	switch o {
	case OutcomeBest:
		return "best"
	case OutcomeBetter:
		return "better"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// DefaultRewards is the reward earned by an operator for each outcome,
// indexed by Outcome: [best, better, accepted, rejected].
var DefaultRewards = [4]float64{3, 2, 1, 0.5}

// WeightTable tracks one adaptive selection weight per operator name and
// updates it by exponential decay toward the reward of its outcome:
// w <- decay*w + (1-decay)*reward[outcome].
type WeightTable struct {
	decay   float64
	rewards [4]float64
	weights map[string]float64
	order   []string // stable iteration order
}

// NewWeightTable creates a WeightTable for the given operator names, all
// starting at weight 1, with the given decay rate and reward vector. A
// nil rewards pointer uses DefaultRewards.
func NewWeightTable(names []string, decay float64, rewards *[4]float64) *WeightTable {
	wt := &WeightTable{
		decay:   decay,
		weights: make(map[string]float64, len(names)),
		order:   append([]string(nil), names...),
	}
	if rewards != nil {
		wt.rewards = *rewards
	} else {
		wt.rewards = DefaultRewards
	}
	for _, name := range names {
		wt.weights[name] = 1.0
	}
	return wt
}

// Update applies the decay/reward formula to name's weight for outcome.
func (wt *WeightTable) Update(name string, outcome Outcome) {
	w, ok := wt.weights[name]
	if !ok {
		return
	}
	wt.weights[name] = wt.decay*w + (1-wt.decay)*wt.rewards[outcome]
}

// Weight returns name's current weight.
func (wt *WeightTable) Weight(name string) float64 {
	return wt.weights[name]
}

// Select draws one operator name, weighted by current weight, using rng.
func (wt *WeightTable) Select(rng *rand.Rand) string {
	var total float64
	for _, name := range wt.order {
		total += wt.weights[name]
	}
	if total <= 0 {
		return wt.order[rng.Intn(len(wt.order))]
	}
	r := rng.Float64() * total
	for _, name := range wt.order {
		r -= wt.weights[name]
		if r <= 0 {
			return name
		}
	}
	return wt.order[len(wt.order)-1]
}
