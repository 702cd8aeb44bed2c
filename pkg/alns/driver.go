package alns

import (
	"context"
	"math/rand"

	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/builder"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/planning"
)

// Config parameterizes one Run of the ALNS search.
type Config struct {
	Iterations          int
	DegreeOfDestruction float64
	OperatorDecay       float64
	Seed                int64
	Criterion           AcceptanceCriterion
	DestroyOperators    []string // subset of "random", "worst"
	RepairOperators     []string // subset of "greedy", "random", "reversed_greedy", "reversed_random"
}

// DefaultConfig returns a Config matching the original tool's defaults:
// 10000 iterations, 25% destruction, 0.8 operator decay, hill climbing
// acceptance, and both destroy operators / all four repair operators
// enabled.
func DefaultConfig() Config {
	return Config{
		Iterations:          10000,
		DegreeOfDestruction: 0.25,
		OperatorDecay:       0.8,
		Criterion:           HillClimbing{},
		DestroyOperators:    []string{"random", "worst"},
		RepairOperators:     []string{"greedy", "random", "reversed_greedy", "reversed_random"},
	}
}

// IterationRecord captures one iteration's outcome for diagnostics and
// persistence.
type IterationRecord struct {
	Iteration int
	Destroy   string
	Repair    string
	Objective float64
	Outcome   Outcome
}

// Result is the outcome of a Run: the best planning found, its
// objective (total cost in euro), and the full iteration history.
type Result struct {
	Best       *planning.Planning
	BestCost   float64
	History    []IterationRecord
	InitialCost float64
}

var destroyOperatorsByName = map[string]DestroyOperator{
	"random": RandomRemoval,
	"worst":  WorstRemoval,
}

var repairOperatorsByName = map[string]RepairOperator{
	"greedy":          GreedyRepair,
	"random":          RandomRepair,
	"reversed_greedy": ReversedGreedyRepair,
	"reversed_random": ReversedRandomRepair,
}

// Run drives the ALNS search: it repairs the initial planning with a
// greedy pass, then alternates weighted-random destroy/repair operator
// pairs for cfg.Iterations iterations, accepting or rejecting each
// candidate via cfg.Criterion and updating both operators' selection
// weights from the outcome.
func Run(ctx context.Context, p *planning.Planning, b *builder.Builder, cfg Config) (*Result, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	if err := GreedyRepair(p, rng, b); err != nil {
		return nil, err
	}
	initialCost := p.TotaleKost()

	destroyWeights := NewWeightTable(cfg.DestroyOperators, cfg.OperatorDecay, nil)
	repairWeights := NewWeightTable(cfg.RepairOperators, cfg.OperatorDecay, nil)

	current := p
	best := p.Clone()
	bestCost := initialCost

	result := &Result{InitialCost: initialCost}

	for i := 0; i < cfg.Iterations; i++ {
		select {
		case <-ctx.Done():
			result.Best = best
			result.BestCost = bestCost
			return result, ctx.Err()
		default:
		}

		destroyName := destroyWeights.Select(rng)
		repairName := repairWeights.Select(rng)

		candidate := current.Clone()
		destroyOperatorsByName[destroyName](candidate, rng, cfg.DegreeOfDestruction)
		if err := repairOperatorsByName[repairName](candidate, rng, b); err != nil {
			return nil, err
		}

		candidateCost := candidate.TotaleKost()
		currentCost := current.TotaleKost()

		var outcome Outcome
		switch {
		case candidateCost < bestCost:
			outcome = OutcomeBest
		case candidateCost < currentCost:
			outcome = OutcomeBetter
		case cfg.Criterion.Accept(currentCost, candidateCost, rng):
			outcome = OutcomeAccepted
		default:
			outcome = OutcomeRejected
		}

		destroyWeights.Update(destroyName, outcome)
		repairWeights.Update(repairName, outcome)

		if outcome != OutcomeRejected {
			current = candidate
		}
		if candidateCost < bestCost {
			best = candidate.Clone()
			bestCost = candidateCost
		}

		result.History = append(result.History, IterationRecord{
			Iteration: i,
			Destroy:   destroyName,
			Repair:    repairName,
			Objective: candidateCost,
			Outcome:   outcome,
		})
	}

	result.Best = best
	result.BestCost = bestCost
	return result, nil
}
