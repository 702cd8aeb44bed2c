package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/models"
)

func setupAdhocPlanning(t *testing.T) (*Planning, models.Location, models.Location, models.ContainerType) {
	t.Helper()
	p := New("adhoc-dedup")
	antwerpen := p.AddLocation("Antwerpen", models.Terminal)
	rotterdam := p.AddLocation("Rotterdam", models.Terminal)
	ct := p.AddContainerType("40ft", 2.2)
	return p, antwerpen, rotterdam, ct
}

func adhocCapacity(van, naar models.Location, ct models.ContainerType, checkin time.Time) models.LegCapacity {
	return models.LegCapacity{
		Leg: models.Leg{
			ID: -999, Van: van, Naar: naar,
			Checkin: checkin, Vertrek: checkin, Aankomst: checkin.Add(2 * time.Hour),
			Modus: "road",
		},
		Aantal:        1,
		ContainerType: ct,
		Prijs:         40,
		Emissie:       20,
	}
}

func TestMakeUniqueAdhocMergesIdenticalLegs(t *testing.T) {
	p, antwerpen, rotterdam, ct := setupAdhocPlanning(t)
	checkin := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	order := p.AddOrder(models.Order{
		Van: antwerpen, Naar: rotterdam,
		MinOphaaltijd: checkin, MaxOphaaltijd: checkin,
		MinLevertijd: checkin.Add(2 * time.Hour), MaxLevertijd: checkin.Add(3 * time.Hour),
		UitersteLevertijd: checkin.Add(6 * time.Hour),
	})
	oc := p.AddOrderCapacity(order, 2, ct)
	c1, c2 := oc.ContainerIDs[0], oc.ContainerIDs[1]

	lc1 := p.AddAdhocLegCapacity(adhocCapacity(antwerpen, rotterdam, ct, checkin))
	lc2 := p.AddAdhocLegCapacity(adhocCapacity(antwerpen, rotterdam, ct, checkin))
	require.NotEqual(t, lc1.ID, lc2.ID, "distinct ad-hoc registrations get distinct arena ids before dedup")

	require.NoError(t, p.AddTraject(c1, lc1.ID))
	require.NoError(t, p.AddTraject(c2, lc2.ID))

	p.MakeUniqueAdhoc()

	traject1 := p.ContainerTraject(c1)
	traject2 := p.ContainerTraject(c2)
	require.Len(t, traject1, 1)
	require.Len(t, traject2, 1)
	require.Equal(t, traject1[0], traject2[0], "identical ad-hoc legs must be folded into the same merged capacity")
	require.Negative(t, traject1[0], "merged ad-hoc capacities get fresh negative ids")

	merged, ok := p.LegCapacity(traject1[0])
	require.True(t, ok)
	require.Equal(t, 2, merged.Aantal, "pooled slot count sums both folded capacities")
	require.ElementsMatch(t, []int{c1, c2}, merged.Reserved)
}

func TestMakeUniqueAdhocKeepsDistinctLegsSeparate(t *testing.T) {
	p, antwerpen, rotterdam, ct := setupAdhocPlanning(t)
	checkin := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	order := p.AddOrder(models.Order{
		Van: antwerpen, Naar: rotterdam,
		MinOphaaltijd: checkin, MaxOphaaltijd: checkin.Add(4 * time.Hour),
		MinLevertijd: checkin.Add(2 * time.Hour), MaxLevertijd: checkin.Add(8 * time.Hour),
		UitersteLevertijd: checkin.Add(10 * time.Hour),
	})
	oc := p.AddOrderCapacity(order, 2, ct)
	c1, c2 := oc.ContainerIDs[0], oc.ContainerIDs[1]

	lc1 := p.AddAdhocLegCapacity(adhocCapacity(antwerpen, rotterdam, ct, checkin))
	later := adhocCapacity(antwerpen, rotterdam, ct, checkin.Add(time.Hour))
	lc2 := p.AddAdhocLegCapacity(later)

	require.NoError(t, p.AddTraject(c1, lc1.ID))
	require.NoError(t, p.AddTraject(c2, lc2.ID))

	p.MakeUniqueAdhoc()

	traject1 := p.ContainerTraject(c1)
	traject2 := p.ContainerTraject(c2)
	require.NotEqual(t, traject1[0], traject2[0], "legs departing at different times must not be merged")
}

func TestSameAdhocCapacityComparesImmutableFields(t *testing.T) {
	_, antwerpen, rotterdam, ct := setupAdhocPlanning(t)
	checkin := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	a := adhocCapacity(antwerpen, rotterdam, ct, checkin)
	b := adhocCapacity(antwerpen, rotterdam, ct, checkin)
	require.True(t, sameAdhocCapacity(a, b))

	diffPrice := b
	diffPrice.Prijs = 999
	require.False(t, sameAdhocCapacity(a, diffPrice))

	diffTime := b
	diffTime.Leg.Checkin = checkin.Add(time.Minute)
	require.False(t, sameAdhocCapacity(a, diffTime))
}
