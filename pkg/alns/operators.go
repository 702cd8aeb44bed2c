// Package alns implements Adaptive Large Neighborhood Search over a
// Planning: destroy operators remove a fraction of trajecten, repair
// operators (pkg/builder's four construction strategies) rebuild them,
// and operator selection weights adapt to which destroy/repair pairing
// has recently found the best, better, or merely accepted solutions.
package alns

import (
	"math/rand"
	"sort"

	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/builder"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/planning"
)

// DestroyOperator removes a subset of trajecten from a Planning clone,
// moving the affected containers back to unplanned.
type DestroyOperator func(p *planning.Planning, rng *rand.Rand, degreeOfDestruction float64)

// RandomRemoval removes trajecten from a random subset of containers,
// sized to degreeOfDestruction * total containers.
func RandomRemoval(p *planning.Planning, rng *rand.Rand, degreeOfDestruction float64) {
	gepland := p.Gepland()
	n := int(float64(len(p.Containers())) * degreeOfDestruction)
	if n > len(gepland) {
		n = len(gepland)
	}
	rng.Shuffle(len(gepland), func(i, j int) { gepland[i], gepland[j] = gepland[j], gepland[i] })
	for i := 0; i < n; i++ {
		_ = p.RemoveTraject(gepland[i])
	}
}

// WorstRemoval removes trajecten from the n containers with the highest
// individual cost, sized to degreeOfDestruction * total containers.
func WorstRemoval(p *planning.Planning, rng *rand.Rand, degreeOfDestruction float64) {
	gepland := p.Gepland()
	type costed struct {
		containerID int
		cost        float64
	}
	costs := make([]costed, 0, len(gepland))
	for _, id := range gepland {
		if prijs, err := p.PrijsVanContainerTraject(id); err == nil {
			_, _, boete, _ := p.BoeteVanContainerTraject(id)
			_, emissieKost, _ := p.EmissieVanContainerTraject(id)
			costs = append(costs, costed{containerID: id, cost: prijs + emissieKost + boete})
		}
	}
	sort.Slice(costs, func(i, j int) bool { return costs[i].cost > costs[j].cost })

	n := int(float64(len(p.Containers())) * degreeOfDestruction)
	if n > len(costs) {
		n = len(costs)
	}
	for i := 0; i < n; i++ {
		_ = p.RemoveTraject(costs[i].containerID)
	}
}

// RepairOperator rebuilds trajecten for every unplanned container in p.
type RepairOperator func(p *planning.Planning, rng *rand.Rand, b *builder.Builder) error

// repairWith runs one of pkg/builder's construction strategies over
// every unplanned container.
func repairWith(strategy builder.Strategy) RepairOperator {
	return func(p *planning.Planning, rng *rand.Rand, b *builder.Builder) error {
		b.Planning = p
		b.Rand = rng
		return b.Repair(strategy)
	}
}

// GreedyRepair, RandomRepair, ReversedGreedyRepair and ReversedRandomRepair
// wrap pkg/builder's four traject construction strategies as ALNS repair
// operators.
var (
	GreedyRepair         = repairWith(builder.Greedy)
	RandomRepair         = repairWith(builder.Random)
	ReversedGreedyRepair = repairWith(builder.ReversedGreedy)
	ReversedRandomRepair = repairWith(builder.ReversedRandom)
)
