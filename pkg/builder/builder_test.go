package builder

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/adhoc"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/models"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/planning"
)

func newTestSynth() *adhoc.Synthesizer {
	distances := adhoc.NewMapDistanceMatrix()
	distances.Set("Antwerpen", "Rotterdam", 100)
	distances.Set("Rotterdam", "Antwerpen", 100)
	return adhoc.NewSynthesizer(distances, 25, 1.5, 50, 0.1)
}

func newTestBuilder(t *testing.T) (*Builder, *planning.Planning, models.Location, models.Location, models.ContainerType) {
	t.Helper()
	p := planning.New("builder-test")
	antwerpen := p.AddLocation("Antwerpen", models.Terminal)
	rotterdam := p.AddLocation("Rotterdam", models.Terminal)
	ct := p.AddContainerType("40ft", 2.2)
	b := New(p, newTestSynth(), rand.New(rand.NewSource(42)))
	return b, p, antwerpen, rotterdam, ct
}

func addScheduledContainer(p *planning.Planning, van, naar models.Location, ct models.ContainerType) (models.Container, int) {
	order := p.AddOrder(models.Order{
		Van: van, Naar: naar,
		MinOphaaltijd: time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC),
		MaxOphaaltijd: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		MinLevertijd:  time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		MaxLevertijd:  time.Date(2026, 1, 1, 16, 0, 0, 0, time.UTC),
		UitersteLevertijd: time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC),
		BoeteTeVroeg: 5, BoeteTeLaat: 10, Emissiefactor: 0.05,
	})
	oc := p.AddOrderCapacity(order, 1, ct)
	containerID := oc.ContainerIDs[0]
	c, _ := p.Container(containerID)
	return c, containerID
}

func TestGreedyTrajectPicksScheduledLeg(t *testing.T) {
	b, p, antwerpen, rotterdam, ct := newTestBuilder(t)
	c, _ := addScheduledContainer(p, antwerpen, rotterdam, ct)

	leg := p.AddLeg(models.Leg{
		Van: antwerpen, Naar: rotterdam,
		Checkin: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), Vertrek: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		Aankomst: time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC),
	})
	p.AddLegCapacity(leg, 5, ct, 100, 50, false)

	traject := b.GreedyTraject(c, true)
	require.Len(t, traject, 1)
	require.False(t, traject[0].Adhoc)
	require.Equal(t, antwerpen.ID, traject[0].Leg.Van.ID)
	require.Equal(t, rotterdam.ID, traject[0].Leg.Naar.ID)
}

func TestGreedyTrajectFallsBackToAdhocWhenNoScheduleExists(t *testing.T) {
	b, p, antwerpen, rotterdam, ct := newTestBuilder(t)
	c, _ := addScheduledContainer(p, antwerpen, rotterdam, ct)

	traject := b.GreedyTraject(c, true)
	require.Len(t, traject, 1)
	require.True(t, traject[0].Adhoc)
	require.Equal(t, antwerpen.ID, traject[0].Leg.Van.ID)
	require.Equal(t, rotterdam.ID, traject[0].Leg.Naar.ID)
}

func TestReversedGreedyTrajectPicksScheduledLeg(t *testing.T) {
	b, p, antwerpen, rotterdam, ct := newTestBuilder(t)
	c, _ := addScheduledContainer(p, antwerpen, rotterdam, ct)

	leg := p.AddLeg(models.Leg{
		Van: antwerpen, Naar: rotterdam,
		Checkin: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), Vertrek: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		Aankomst: time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC),
	})
	p.AddLegCapacity(leg, 5, ct, 100, 50, false)

	traject := b.GreedyTraject(c, false)
	require.Len(t, traject, 1)
	require.Equal(t, antwerpen.ID, traject[0].Leg.Van.ID)
	require.Equal(t, rotterdam.ID, traject[0].Leg.Naar.ID)
}

func TestRandomTrajectSingleCandidate(t *testing.T) {
	b, p, antwerpen, rotterdam, ct := newTestBuilder(t)
	c, _ := addScheduledContainer(p, antwerpen, rotterdam, ct)

	leg := p.AddLeg(models.Leg{
		Van: antwerpen, Naar: rotterdam,
		Checkin: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), Vertrek: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		Aankomst: time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC),
	})
	p.AddLegCapacity(leg, 5, ct, 100, 50, false)

	traject := b.RandomTraject(c, true)
	require.Len(t, traject, 1)
	require.False(t, traject[0].Adhoc)
}

func TestForbiddenLocationsExcludesShippersAndEmptyDepots(t *testing.T) {
	b, p, antwerpen, rotterdam, ct := newTestBuilder(t)
	shipper := p.AddLocation("Factory", models.Shipper)
	depot := p.AddLocation("Depot", models.EmptyDepot)
	c, _ := addScheduledContainer(p, antwerpen, rotterdam, ct)

	forbidden := b.forbiddenLocations(c, true)
	require.True(t, forbidden[shipper.ID])
	require.True(t, forbidden[depot.ID])
	require.True(t, forbidden[antwerpen.ID], "own origin is forbidden as an intermediate stop in forward construction")
	require.False(t, forbidden[rotterdam.ID], "own destination must remain reachable")
}

func TestRepairAssignsEveryUnplannedContainer(t *testing.T) {
	b, p, antwerpen, rotterdam, ct := newTestBuilder(t)
	_, c1 := addScheduledContainer(p, antwerpen, rotterdam, ct)
	_, c2 := addScheduledContainer(p, antwerpen, rotterdam, ct)

	require.NoError(t, b.Repair(Greedy))

	require.Empty(t, p.TePlannen())
	require.Contains(t, p.Gepland(), c1)
	require.Contains(t, p.Gepland(), c2)
}

func addUnreachableContainer(p *planning.Planning, van, naar models.Location, ct models.ContainerType) int {
	order := p.AddOrder(models.Order{
		Van: van, Naar: naar,
		MinOphaaltijd:     time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC),
		MaxOphaaltijd:     time.Date(2026, 1, 1, 6, 30, 0, 0, time.UTC),
		MinLevertijd:      time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC),
		MaxLevertijd:      time.Date(2026, 1, 1, 7, 30, 0, 0, time.UTC),
		UitersteLevertijd: time.Date(2026, 1, 1, 7, 30, 0, 0, time.UTC), // only 1.5h, leg takes 2h at 50km/h
		BoeteTeVroeg:      5, BoeteTeLaat: 10, Emissiefactor: 0.05,
	})
	oc := p.AddOrderCapacity(order, 1, ct)
	return oc.ContainerIDs[0]
}

// TestRepairLeavesUnreachableContainerUnplanned covers the case where
// construct's final ad-hoc fallback is itself infeasible (the deadline
// can't be met by any road leg). Repair must not hand an empty traject
// to AddTraject; the container stays in TePlannen.
func TestRepairLeavesUnreachableContainerUnplanned(t *testing.T) {
	b, p, antwerpen, rotterdam, ct := newTestBuilder(t)
	containerID := addUnreachableContainer(p, antwerpen, rotterdam, ct)

	require.NoError(t, b.Repair(Greedy))

	require.Contains(t, p.TePlannen(), containerID)
	require.NotContains(t, p.Gepland(), containerID)
	require.Empty(t, p.ContainerTraject(containerID))
}

func TestStrategyString(t *testing.T) {
	cases := map[Strategy]string{
		Greedy: "greedy", Random: "random",
		ReversedGreedy: "reversed_greedy", ReversedRandom: "reversed_random",
		Strategy(99): "unknown",
	}
	for strategy, want := range cases {
		require.Equal(t, want, strategy.String())
	}
}

func TestNewRandomStateIsDeterministic(t *testing.T) {
	a := NewRandomState(7)
	bRng := NewRandomState(7)
	require.Equal(t, a.Int63(), bRng.Int63())
}
