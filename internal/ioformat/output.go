package ioformat

import (
	"sort"

	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/planning"
)

// LegUsage reports how much of one leg capacity's pool was consumed by
// the final planning.
type LegUsage struct {
	LegCapacityID int     `json:"leg_capacity_id"`
	Van           string  `json:"van"`
	Naar          string  `json:"naar"`
	ContainerType string  `json:"containertype"`
	Aantal        int     `json:"aantal"`
	Gebruikt      int     `json:"gebruikt"`
	Beschikbaar   int     `json:"beschikbaar"`
}

// LegsUse renders the legs_use view: usage of every scheduled (non
// ad-hoc) leg capacity in p.
func LegsUse(p *planning.Planning) []LegUsage {
	var out []LegUsage
	for _, lc := range p.LegCapacities() {
		if lc.Adhoc {
			continue
		}
		out = append(out, LegUsage{
			LegCapacityID: lc.ID,
			Van:           lc.Leg.Van.Name,
			Naar:          lc.Leg.Naar.Name,
			ContainerType: lc.ContainerType.Name,
			Aantal:        lc.Aantal,
			Gebruikt:      len(lc.Reserved),
			Beschikbaar:   lc.Beschikbaar(),
		})
	}
	return out
}

// AdhocLeg reports one synthesized ad-hoc leg capacity and its slot count.
type AdhocLeg struct {
	LegCapacityID int     `json:"leg_capacity_id"`
	Van           string  `json:"van"`
	Naar          string  `json:"naar"`
	ContainerType string  `json:"containertype"`
	Aantal        int     `json:"aantal"`
	Prijs         float64 `json:"prijs"`
	Emissie       float64 `json:"emissie"`
}

// AdhocLegs renders the adhoc_legs view: every ad-hoc leg capacity
// registered in p's arena, as returned by LegCapacities. The merged
// capacities that MakeUniqueAdhoc creates are not listed; each registered
// ad-hoc capacity appears on its own, with its original ID and count.
func AdhocLegs(p *planning.Planning) []AdhocLeg {
	var out []AdhocLeg
	for _, lc := range p.LegCapacities() {
		if !lc.Adhoc {
			continue
		}
		out = append(out, AdhocLeg{
			LegCapacityID: lc.ID,
			Van:           lc.Leg.Van.Name,
			Naar:          lc.Leg.Naar.Name,
			ContainerType: lc.ContainerType.Name,
			Aantal:        lc.Aantal,
			Prijs:         lc.Prijs,
			Emissie:       lc.Emissie,
		})
	}
	return out
}

// RouteStop is one leg of a route, in travel order.
type RouteStop struct {
	LegCapacityID int    `json:"leg_capacity_id"`
	Van           string `json:"van"`
	Naar          string `json:"naar"`
	Adhoc         bool   `json:"adhoc"`
}

// RouteForOrder is one distinct route taken by some of an order's
// containers, with aggregate statistics.
type RouteForOrder struct {
	Route   []RouteStop `json:"route"`
	Aantal  int         `json:"aantal"`
	Prijs   float64     `json:"prijs"`
	Emissie float64     `json:"emissie"`
	Boete   float64     `json:"boete"`
}

// OrderRoutes groups one order's distinct routes.
type OrderRoutes struct {
	OrderID int             `json:"order_id"`
	Routes  []RouteForOrder `json:"routes"`
}

// RoutesPerOrder renders the routes_per_order view: every order's
// distinct routes, each annotated with aggregate price/emission/penalty.
func RoutesPerOrder(p *planning.Planning) []OrderRoutes {
	perOrder := p.UniekeTrajectenPerOrder()

	orderIDs := make([]int, 0, len(perOrder))
	for id := range perOrder {
		orderIDs = append(orderIDs, id)
	}
	sort.Ints(orderIDs)

	out := make([]OrderRoutes, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		routes := perOrder[orderID]
		var rendered []RouteForOrder
		for _, agg := range routes {
			var stops []RouteStop
			for _, capID := range agg.Traject {
				lc, ok := p.LegCapacity(capID)
				if !ok {
					continue
				}
				stops = append(stops, RouteStop{
					LegCapacityID: capID,
					Van:           lc.Leg.Van.Name,
					Naar:          lc.Leg.Naar.Name,
					Adhoc:         lc.Adhoc,
				})
			}
			rendered = append(rendered, RouteForOrder{
				Route: stops, Aantal: agg.Aantal, Prijs: agg.Prijs, Emissie: agg.Emissie, Boete: agg.Boete,
			})
		}
		out = append(out, OrderRoutes{OrderID: orderID, Routes: rendered})
	}
	return out
}
