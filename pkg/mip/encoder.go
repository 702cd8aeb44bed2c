package mip

import (
	"fmt"

	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/models"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/planning"
)

// Encoder translates a Planning's unplanned containers into binary
// decision variables x[k,l] (container k travels leg l) and y[k,l1,l2]
// (container k travels l1 immediately followed by l2), registers the
// objective and every constraint, and reads back the chosen legs per
// container once the Oracle reports a solution.
type Encoder struct {
	planning *planning.Planning
	oracle   Oracle

	containers []models.Container
	legs       []models.Leg

	x map[xKey]VarID
	y map[yKey]VarID

	capacityByLegType map[legTypeKey]float64 // aantal, 0 if no capacity exists
}

type xKey struct {
	containerID int
	legID       int
}

type yKey struct {
	containerID int
	leg1ID      int
	leg2ID      int
}

type legTypeKey struct {
	legID           int
	containerTypeID int
}

// NewEncoder prepares an Encoder over every container in p that is
// currently unplanned.
func NewEncoder(p *planning.Planning, oracle Oracle) *Encoder {
	all := p.Containers()
	tePlannen := make(map[int]struct{})
	for _, id := range p.TePlannen() {
		tePlannen[id] = struct{}{}
	}

	var unplanned []models.Container
	for _, c := range all {
		if _, ok := tePlannen[c.ID]; ok {
			unplanned = append(unplanned, c)
		}
	}

	e := &Encoder{
		planning:          p,
		oracle:            oracle,
		containers:        unplanned,
		legs:              p.Legs(),
		x:                 make(map[xKey]VarID),
		y:                 make(map[yKey]VarID),
		capacityByLegType: make(map[legTypeKey]float64),
	}

	for _, lc := range p.LegCapacities() {
		key := legTypeKey{legID: lc.LegID, containerTypeID: lc.ContainerType.ID}
		e.capacityByLegType[key] += float64(lc.Aantal)
	}

	return e
}

// legCapacityFor returns the matching LegCapacity's price and emission
// for (legID, containerType), or zeros if no such capacity exists.
func (e *Encoder) legCapacityFor(legID int, ct models.ContainerType) (prijs, emissie float64) {
	for _, lc := range e.planning.LegCapacities() {
		if lc.LegID == legID && lc.ContainerType.ID == ct.ID {
			return lc.Prijs, lc.Emissie
		}
	}
	return 0, 0
}

func (e *Encoder) decisionVariables() {
	for _, c := range e.containers {
		for _, l1 := range e.legs {
			e.x[xKey{c.ID, l1.ID}] = e.oracle.AddBinaryVar(fmt.Sprintf("x_%d_%d", c.ID, l1.ID))
			for _, l2 := range e.legs {
				if l1.Naar.ID == l2.Van.ID {
					e.y[yKey{c.ID, l1.ID, l2.ID}] = e.oracle.AddBinaryVar(fmt.Sprintf("y_%d_%d_%d", c.ID, l1.ID, l2.ID))
				}
			}
		}
	}
}

// objectiveFunction registers sum(x[k,l]*(price+emission*factor)) plus
// the linearised earliness/lateness penalty terms for legs that arrive
// at the container's destination. Earliness and lateness are fixed
// constants computed from each (container, leg) pair at encode time —
// neither introduces an auxiliary variable, since leg arrival times are
// fixed timetable data, not decision variables.
func (e *Encoder) objectiveFunction() {
	var terms []Term
	for _, c := range e.containers {
		for _, l := range e.legs {
			prijs, emissie := e.legCapacityFor(l.ID, c.ContainerType)
			coef := prijs + emissie*c.Emissiefactor
			if l.Naar.ID == c.Naar.ID {
				coef += c.BoeteTeVroeg*c.Vroegheid(l.Aankomst) + c.BoeteTeLaat*c.Laatheid(l.Aankomst)
			}
			if coef != 0 {
				terms = append(terms, Term{Var: e.x[xKey{c.ID, l.ID}], Coef: coef})
			}
		}
	}
	e.oracle.SetObjective(terms)
}

// legConstraints registers flow conservation: at the container's origin
// one more leg must depart than arrive, at its destination one more must
// arrive than depart, and everywhere else departures and arrivals must
// balance.
func (e *Encoder) legConstraints() {
	locations := e.planning.Locations()
	for _, c := range e.containers {
		for _, v := range locations {
			var rhs float64
			switch v.ID {
			case c.Van.ID:
				rhs = -1
			case c.Naar.ID:
				rhs = 1
			}
			var terms []Term
			for _, l := range e.legs {
				if l.Naar.ID == v.ID {
					terms = append(terms, Term{Var: e.x[xKey{c.ID, l.ID}], Coef: 1})
				}
			}
			for _, l := range e.legs {
				if l.Van.ID == v.ID {
					terms = append(terms, Term{Var: e.x[xKey{c.ID, l.ID}], Coef: -1})
				}
			}
			e.oracle.AddConstraint(terms, EQ, rhs)
		}
	}
}

// capacityConstraints registers, for every (container type, leg) pair,
// that the number of containers of that type assigned to the leg cannot
// exceed the leg's pooled capacity for that type.
func (e *Encoder) capacityConstraints() {
	for _, ct := range e.planning.ContainerTypes() {
		for _, l := range e.legs {
			aantal := e.capacityByLegType[legTypeKey{legID: l.ID, containerTypeID: ct.ID}]
			var terms []Term
			for _, c := range e.containers {
				if c.ContainerType.ID == ct.ID {
					terms = append(terms, Term{Var: e.x[xKey{c.ID, l.ID}], Coef: -1})
				}
			}
			e.oracle.AddConstraint(terms, GE, -aantal)
		}
	}
}

// timeConstraints registers the pickup-window, delivery-deadline and
// transfer-feasibility constraints that tie x and y variables to each
// leg's fixed schedule.
func (e *Encoder) timeConstraints() {
	for _, c := range e.containers {
		for _, l1 := range e.legs {
			xk1 := e.x[xKey{c.ID, l1.ID}]

			if c.Van.ID == l1.Van.ID {
				e.oracle.AddConstraint([]Term{{Var: xk1, Coef: c.MinOphaaltijd.Sub(l1.Checkin).Seconds()}}, LE, 0)
				e.oracle.AddConstraint([]Term{{Var: xk1, Coef: l1.Checkin.Sub(c.MaxOphaaltijd).Seconds()}}, LE, 0)
			}
			if c.Naar.ID == l1.Naar.ID {
				e.oracle.AddConstraint([]Term{{Var: xk1, Coef: l1.Aankomst.Sub(c.UitersteLevertijd).Seconds()}}, LE, 0)
			}

			for _, l2 := range e.legs {
				if l1.Naar.ID != l2.Van.ID {
					continue
				}
				yKey := yKey{c.ID, l1.ID, l2.ID}
				yv := e.y[yKey]
				xk2 := e.x[xKey{c.ID, l2.ID}]

				e.oracle.AddConstraint([]Term{{Var: yv, Coef: l1.Aankomst.Sub(l2.Checkin).Seconds()}}, LE, 0)
				e.oracle.AddConstraint([]Term{{Var: xk1, Coef: 1}, {Var: xk2, Coef: 1}, {Var: yv, Coef: -1}}, LE, 1.5)
				e.oracle.AddConstraint([]Term{{Var: yv, Coef: 2}, {Var: xk1, Coef: -1}, {Var: xk2, Coef: -1}}, LE, 0.5)
			}
		}
	}
}

// Encode registers every decision variable, the objective and every
// constraint with the Oracle. Call Solve afterwards to obtain a result.
func (e *Encoder) Encode() {
	e.decisionVariables()
	e.objectiveFunction()
	e.legConstraints()
	e.capacityConstraints()
	e.timeConstraints()
}

// Legs exposes the leg arena the encoder indexed against, for callers
// building a Result from Oracle.Value readouts.
func (e *Encoder) Legs() []models.Leg {
	return e.legs
}

// Containers exposes the containers the encoder indexed against.
func (e *Encoder) Containers() []models.Container {
	return e.containers
}

// XVar returns the x[containerID,legID] variable handle, if registered.
func (e *Encoder) XVar(containerID, legID int) (VarID, bool) {
	v, ok := e.x[xKey{containerID, legID}]
	return v, ok
}
