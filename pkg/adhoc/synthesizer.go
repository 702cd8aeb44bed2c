// Package adhoc synthesizes road-fallback leg capacities when no
// scheduled timetable leg connects two points a traject needs to join:
// a full container.Van-to-container.Naar leg, a lead-in leg ending at an
// existing leg's origin, or a lead-out leg starting at an existing leg's
// destination. It also estimates the price, emission, arrival and
// departure a candidate leg capacity would pick up if extended by road
// to or from a container's endpoint, without actually constructing the
// leg, for use as a traject-builder scoring heuristic.
package adhoc

import (
	"time"

	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/models"
)

// Synthesizer builds ad-hoc road legs using a fixed tariff model: a
// starting surcharge, a per-kilometre rate, a cruising speed and a
// per-tonne-kilometre emission factor. ExtraTransportKm is substituted
// whenever the distance matrix reports a zero distance between two
// distinct locations (e.g. first/last-mile legs not present in the base
// matrix).
type Synthesizer struct {
	Distances        DistanceMatrix
	StartTarief      float64 // euro, fixed surcharge per ad-hoc leg
	Tarief           float64 // euro per km
	Snelheid         float64 // km/h
	Emissie          float64 // kg CO2 per tonne-km
	ExtraTransportKm float64 // km substituted for a zero-distance lookup
}

// NewSynthesizer constructs a Synthesizer with the given tariff
// parameters and a default 10 km extra-transport fallback distance,
// matching the original tool's default.
func NewSynthesizer(distances DistanceMatrix, startTarief, tarief, snelheid, emissie float64) *Synthesizer {
	return &Synthesizer{
		Distances:        distances,
		StartTarief:      startTarief,
		Tarief:           tarief,
		Snelheid:         snelheid,
		Emissie:          emissie,
		ExtraTransportKm: 10.0,
	}
}

// afstand returns the road distance between van and naar, substituting
// ExtraTransportKm when the matrix reports zero for two distinct
// locations (an absent matrix entry, not a genuine zero-distance hop).
func (s *Synthesizer) afstand(van, naar models.Location) float64 {
	d := s.Distances.Distance(van, naar)
	if d == 0 && van.ID != naar.ID {
		return s.ExtraTransportKm
	}
	return d
}

func (s *Synthesizer) duur(km float64) time.Duration {
	return time.Duration(km / s.Snelheid * 3600.0 * float64(time.Second))
}

func (s *Synthesizer) prijs(km float64) float64 {
	return s.StartTarief + km*s.Tarief
}

func (s *Synthesizer) emissie(km float64, ct models.ContainerType) float64 {
	return s.Emissie * km * ct.Weight
}

func leggedCapacity(leg models.Leg, ct models.ContainerType, prijs, emissie float64) models.LegCapacity {
	return models.LegCapacity{
		LegID:         leg.ID,
		Leg:           leg,
		Aantal:        1,
		ContainerType: ct,
		Prijs:         prijs,
		Emissie:       emissie,
		Adhoc:         true,
	}
}

// MaakLeg synthesizes a full door-to-door ad-hoc leg for a container,
// from container.Van to container.Naar, choosing a departure time that
// respects the container's pickup and delivery windows. It returns
// false if even departing at the earliest possible moment the leg would
// blow through the container's hard uiterste_levertijd deadline.
func (s *Synthesizer) MaakLeg(c models.Container) (models.LegCapacity, bool) {
	afstand := s.afstand(c.Van, c.Naar)
	duur := s.duur(afstand)

	maxDuur := c.UitersteLevertijd.Sub(c.MinOphaaltijd)
	minDuur := c.MinLevertijd.Sub(c.MaxOphaaltijd)
	maxDuurGeenBoete := c.MaxLevertijd.Sub(c.MinOphaaltijd)

	if duur > maxDuur {
		return models.LegCapacity{}, false
	}

	var vertrek time.Time
	switch {
	case duur <= minDuur:
		vertrek = c.MaxOphaaltijd
	case duur >= maxDuurGeenBoete:
		vertrek = c.MinOphaaltijd
	default:
		ophaalvenster := c.MaxOphaaltijd.Sub(c.MinOphaaltijd)
		delta := duur - minDuur
		if delta >= ophaalvenster {
			vertrek = c.MinOphaaltijd
		} else {
			vertrek = c.MinLevertijd.Add(-duur)
		}
	}

	leg := models.Leg{
		ID:       -999,
		Van:      c.Van,
		Naar:     c.Naar,
		Checkin:  vertrek,
		Vertrek:  vertrek,
		Aankomst: vertrek.Add(duur),
		Modus:    "road",
	}
	return leggedCapacity(leg, c.ContainerType, s.prijs(afstand), s.emissie(afstand, c.ContainerType)), true
}

// MaakLegVoorLeg synthesizes a lead-in ad-hoc leg from container.Van to
// legErna's origin, departing at the container's earliest pickup time.
// It returns false if the lead-in cannot arrive before legErna's
// check-in.
func (s *Synthesizer) MaakLegVoorLeg(legErna models.Leg, c models.Container) (models.LegCapacity, bool) {
	afstand := s.afstand(c.Van, legErna.Van)
	duur := s.duur(afstand)
	if duur > legErna.Checkin.Sub(c.MinOphaaltijd) {
		return models.LegCapacity{}, false
	}
	vertrek := c.MinOphaaltijd
	leg := models.Leg{
		ID:       -999,
		Van:      c.Van,
		Naar:     legErna.Van,
		Checkin:  vertrek,
		Vertrek:  vertrek,
		Aankomst: vertrek.Add(duur),
		Modus:    "road",
	}
	return leggedCapacity(leg, c.ContainerType, s.prijs(afstand), s.emissie(afstand, c.ContainerType)), true
}

// MaakLegNaLeg synthesizes a lead-out ad-hoc leg from legErvoor's
// destination to container.Naar, departing as soon as legErvoor arrives
// unless that would land before the container's min_levertijd, in which
// case it waits. Returns false if it cannot reach container.Naar by the
// container's hard deadline.
func (s *Synthesizer) MaakLegNaLeg(legErvoor models.Leg, c models.Container) (models.LegCapacity, bool) {
	aankomst := legErvoor.Aankomst
	afstand := s.afstand(legErvoor.Naar, c.Naar)
	duur := s.duur(afstand)
	if duur > c.UitersteLevertijd.Sub(aankomst) {
		return models.LegCapacity{}, false
	}
	var vertrek time.Time
	if duur < c.MinLevertijd.Sub(aankomst) {
		vertrek = c.MinLevertijd.Add(-duur)
	} else {
		vertrek = aankomst
	}
	leg := models.Leg{
		ID:       -999,
		Van:      legErvoor.Naar,
		Naar:     c.Naar,
		Checkin:  vertrek,
		Vertrek:  vertrek,
		Aankomst: vertrek.Add(duur),
		Modus:    "road",
	}
	return leggedCapacity(leg, c.ContainerType, s.prijs(afstand), s.emissie(afstand, c.ContainerType)), true
}

// SchatPrijs estimates the price of extending lc by road to reach
// container.Naar (vanNaar=true, forward construction) or from
// container.Van to reach lc (vanNaar=false, reverse construction).
func (s *Synthesizer) SchatPrijs(lc models.LegCapacity, c models.Container, vanNaar bool) float64 {
	var afstand float64
	if vanNaar {
		afstand = s.afstand(lc.Leg.Naar, c.Naar)
	} else {
		afstand = s.afstand(c.Van, lc.Leg.Van)
	}
	if afstand > 0 {
		return lc.Prijs + s.StartTarief + afstand*s.Tarief
	}
	return lc.Prijs
}

// SchatEmissie estimates the emission of extending lc by road in the
// same direction convention as SchatPrijs.
func (s *Synthesizer) SchatEmissie(lc models.LegCapacity, c models.Container, vanNaar bool) float64 {
	var afstand float64
	if vanNaar {
		afstand = s.afstand(lc.Leg.Naar, c.Naar)
	} else {
		afstand = s.afstand(c.Van, lc.Leg.Van)
	}
	if afstand > 0 {
		return lc.Emissie + s.Emissie*afstand*lc.ContainerType.Weight
	}
	return lc.Emissie
}

// SchatAankomst estimates the arrival time at container.Naar if lc is
// extended by road all the way there.
func (s *Synthesizer) SchatAankomst(lc models.LegCapacity, c models.Container) time.Time {
	afstand := s.afstand(lc.Leg.Naar, c.Naar)
	if afstand > 0 {
		return lc.Leg.Aankomst.Add(s.duur(afstand))
	}
	return lc.Leg.Aankomst
}

// SchatVertrek estimates the departure time from container.Van needed
// to reach lc by road, for reverse construction.
func (s *Synthesizer) SchatVertrek(lc models.LegCapacity, c models.Container) time.Time {
	afstand := s.afstand(c.Van, lc.Leg.Van)
	if afstand > 0 {
		return lc.Leg.Checkin.Add(-s.duur(afstand))
	}
	return lc.Leg.Checkin
}

// SchatTotaleKost estimates lc's traject cost including the road
// extension to or from the container's endpoint and any earliness/
// lateness penalty that extension would incur. It returns false if the
// estimated arrival would miss the container's hard deadline (vanNaar)
// or the estimated departure would precede the container's earliest
// pickup (reverse construction).
func (s *Synthesizer) SchatTotaleKost(lc models.LegCapacity, c models.Container, vanNaar bool) (float64, bool) {
	prijs := s.SchatPrijs(lc, c, vanNaar)
	emissie := s.SchatEmissie(lc, c, vanNaar)

	if vanNaar {
		aankomst := s.SchatAankomst(lc, c)
		switch {
		case aankomst.After(c.UitersteLevertijd):
			return 0, false
		case aankomst.After(c.MaxLevertijd):
			urenTeLaat := aankomst.Sub(c.MaxLevertijd).Hours()
			return prijs + c.Emissiefactor*emissie + c.BoeteTeLaat*urenTeLaat, true
		case aankomst.Before(c.MinLevertijd):
			urenTeVroeg := c.MinLevertijd.Sub(aankomst).Hours()
			return prijs + c.Emissiefactor*emissie + c.BoeteTeVroeg*urenTeVroeg, true
		default:
			return prijs + c.Emissiefactor*emissie, true
		}
	}

	vertrek := s.SchatVertrek(lc, c)
	if vertrek.Before(c.MinOphaaltijd) {
		return 0, false
	}
	return prijs + c.Emissiefactor*emissie, true
}
