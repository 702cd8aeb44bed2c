// Package planning implements the Planning aggregate root: it owns every
// arena (locations, container types, legs, leg capacities, orders, order
// capacities, containers) by integer index, and tracks which containers
// still need a traject and which already have one.
package planning

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/models"
)

// ErrAmbiguousChain is returned by AddTraject when the given leg
// capacities cannot be linearised unambiguously into a single chain.
var ErrAmbiguousChain = errors.New("planning: traject legs are ambiguous, cannot be linearised")

// ErrUnknownContainer is returned when a container ID has no entry in
// the planning's container arena.
var ErrUnknownContainer = errors.New("planning: unknown container id")

// ErrEmptyTraject is returned by AddTraject when given no leg capacities.
// The container stays in tePlannen rather than being marked gepland with
// a zero-cost, zero-length traject.
var ErrEmptyTraject = errors.New("planning: traject has no legs")

// Planning is the aggregate root of one optimisation run. It is not safe
// for concurrent mutation from multiple goroutines without external
// synchronisation beyond what Clone/mu already provide for ALNS search.
type Planning struct {
	mu sync.Mutex

	Naam string

	locaties       []models.Location
	containertypes []models.ContainerType
	legs           []models.Leg
	legcapaciteiten []models.LegCapacity
	orders         []models.Order
	ordercapaciteiten []models.OrderCapacity

	containers []models.Container // containers[i] -> flattened view of container i

	adhocCapaciteiten []int // indices into legcapaciteiten that are ad-hoc, or negative ids after MakeUniqueAdhoc
	mergedAdhoc       map[int]models.LegCapacity // negative id -> merged ad-hoc capacity, set by MakeUniqueAdhoc

	trajecten [][]int   // trajecten[containerID] -> ordered legcapaciteit indices
	kosten    []*float64 // kosten[containerID] -> total cost, nil if unplanned

	tePlannen map[int]struct{}
	gepland   map[int]struct{}
}

// New creates an empty Planning aggregate.
func New(naam string) *Planning {
	if naam == "" {
		naam = "planning"
	}
	return &Planning{
		Naam:      naam,
		tePlannen: make(map[int]struct{}),
		gepland:   make(map[int]struct{}),
	}
}

// AddLocation appends a location and returns its assigned ID.
func (p *Planning) AddLocation(naam string, role models.LocationRole) models.Location {
	p.mu.Lock()
	defer p.mu.Unlock()
	loc := models.Location{ID: len(p.locaties), Name: naam, Role: role}
	p.locaties = append(p.locaties, loc)
	return loc
}

// AddContainerType appends a container type and returns its assigned ID.
func (p *Planning) AddContainerType(naam string, gewicht float64) models.ContainerType {
	p.mu.Lock()
	defer p.mu.Unlock()
	ct := models.ContainerType{ID: len(p.containertypes), Name: naam, Weight: gewicht}
	p.containertypes = append(p.containertypes, ct)
	return ct
}

// AddLeg appends a scheduled leg and returns its assigned ID.
func (p *Planning) AddLeg(leg models.Leg) models.Leg {
	p.mu.Lock()
	defer p.mu.Unlock()
	leg.ID = len(p.legs)
	p.legs = append(p.legs, leg)
	return leg
}

// AddLegCapacity appends a capacity pool on an existing leg. adhoc marks
// capacities synthesised by pkg/adhoc rather than part of the base
// timetable.
func (p *Planning) AddLegCapacity(leg models.Leg, aantal int, ct models.ContainerType, prijs, emissie float64, adhoc bool) models.LegCapacity {
	p.mu.Lock()
	defer p.mu.Unlock()
	lc := models.LegCapacity{
		ID:            len(p.legcapaciteiten),
		LegID:         leg.ID,
		Leg:           leg,
		Aantal:        aantal,
		ContainerType: ct,
		Prijs:         prijs,
		Emissie:       emissie,
		Adhoc:         adhoc,
	}
	p.legcapaciteiten = append(p.legcapaciteiten, lc)
	if adhoc {
		p.adhocCapaciteiten = append(p.adhocCapaciteiten, lc.ID)
	}
	return lc
}

// AddAdhocLegCapacity registers a freshly synthesized ad-hoc leg
// capacity (as produced by pkg/adhoc) into the arena and returns it with
// its assigned ID. Unlike AddLegCapacity, the capacity's own Leg is not
// expected to already exist in the leg arena: ad-hoc legs are synthesized
// per-traject and only later folded together by MakeUniqueAdhoc.
func (p *Planning) AddAdhocLegCapacity(lc models.LegCapacity) models.LegCapacity {
	p.mu.Lock()
	defer p.mu.Unlock()
	lc.ID = len(p.legcapaciteiten)
	lc.LegID = lc.Leg.ID
	lc.Adhoc = true
	p.legcapaciteiten = append(p.legcapaciteiten, lc)
	p.adhocCapaciteiten = append(p.adhocCapaciteiten, lc.ID)
	return lc
}

// AddOrder appends an order and returns its assigned ID.
func (p *Planning) AddOrder(order models.Order) models.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	order.ID = len(p.orders)
	p.orders = append(p.orders, order)
	return order
}

// AddOrderCapacity expands an order's demand for aantal containers of ct
// into aantal fresh Container handles, and returns the OrderCapacity.
func (p *Planning) AddOrderCapacity(order models.Order, aantal int, ct models.ContainerType) models.OrderCapacity {
	p.mu.Lock()
	defer p.mu.Unlock()

	oc := models.OrderCapacity{
		ID:            len(p.ordercapaciteiten),
		OrderID:       order.ID,
		Aantal:        aantal,
		ContainerType: ct,
	}

	for i := 0; i < aantal; i++ {
		containerID := len(p.containers)
		var c models.Container
		c.ID = containerID
		c.OrderID = order.ID
		c.ContainerType = ct
		c.FromOrder(order)
		p.containers = append(p.containers, c)
		p.trajecten = append(p.trajecten, nil)
		p.kosten = append(p.kosten, nil)
		p.tePlannen[containerID] = struct{}{}
		oc.ContainerIDs = append(oc.ContainerIDs, containerID)
	}

	p.ordercapaciteiten = append(p.ordercapaciteiten, oc)
	return oc
}

// Container returns a copy of container containerID's flattened view.
func (p *Planning) Container(containerID int) (models.Container, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if containerID < 0 || containerID >= len(p.containers) {
		return models.Container{}, ErrUnknownContainer
	}
	return p.containers[containerID], nil
}

// Legs returns copies of every scheduled leg in the arena (ad-hoc legs
// are not part of this arena; see LegCapacities for those).
func (p *Planning) Legs() []models.Leg {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Leg, len(p.legs))
	copy(out, p.legs)
	return out
}

// ContainerTypes returns copies of every container type in the arena.
func (p *Planning) ContainerTypes() []models.ContainerType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.ContainerType, len(p.containertypes))
	copy(out, p.containertypes)
	return out
}

// Locations returns copies of every location in the arena.
func (p *Planning) Locations() []models.Location {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Location, len(p.locaties))
	copy(out, p.locaties)
	return out
}

// Containers returns copies of every container's flattened view, in ID order.
func (p *Planning) Containers() []models.Container {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Container, len(p.containers))
	copy(out, p.containers)
	return out
}

// LegCapacities returns copies of every leg capacity in the arena.
func (p *Planning) LegCapacities() []models.LegCapacity {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.LegCapacity, len(p.legcapaciteiten))
	copy(out, p.legcapaciteiten)
	return out
}

// LegCapacity returns a copy of one leg capacity by ID. Negative IDs
// resolve through the merged ad-hoc table populated by MakeUniqueAdhoc.
func (p *Planning) LegCapacity(id int) (models.LegCapacity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id < 0 {
		lc, ok := p.mergedAdhoc[id]
		return lc, ok
	}
	if id >= len(p.legcapaciteiten) {
		return models.LegCapacity{}, false
	}
	return p.legcapaciteiten[id], true
}

// TePlannen returns the IDs of containers that do not yet have a traject.
func (p *Planning) TePlannen() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, 0, len(p.tePlannen))
	for id := range p.tePlannen {
		out = append(out, id)
	}
	return out
}

// Gepland returns the IDs of containers that already have a traject.
func (p *Planning) Gepland() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, 0, len(p.gepland))
	for id := range p.gepland {
		out = append(out, id)
	}
	return out
}

// AddTraject assigns a chain of leg capacities to containerID. The
// capacities need not already be in travel order: AddTraject attempts to
// linearise them by matching van/naar chaining, and fails with
// ErrAmbiguousChain if more than one capacity could follow the current
// cursor location at any step (a strict refusal of ambiguity, see
// DESIGN.md's Open Question resolutions).
func (p *Planning) AddTraject(containerID int, capacityIDs ...int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if containerID < 0 || containerID >= len(p.containers) {
		return ErrUnknownContainer
	}
	if len(capacityIDs) == 0 {
		return ErrEmptyTraject
	}
	sorted, ok := p.sortChain(containerID, capacityIDs)
	if !ok {
		return ErrAmbiguousChain
	}

	for _, capID := range sorted {
		lc := p.legcapaciteiten[capID]
		lc.Reserved = append(lc.Reserved, containerID)
		p.legcapaciteiten[capID] = lc
	}

	p.trajecten[containerID] = sorted
	kost := p.totaleKostVanContainerTraject(containerID)
	p.kosten[containerID] = &kost

	delete(p.tePlannen, containerID)
	p.gepland[containerID] = struct{}{}
	return nil
}

// sortChain returns capacityIDs in travel order starting from the
// container's origin, or ok=false if at any step zero or more than one
// remaining capacity could be next.
func (p *Planning) sortChain(containerID int, capacityIDs []int) ([]int, bool) {
	if len(capacityIDs) == 0 {
		return nil, true
	}
	remaining := append([]int(nil), capacityIDs...)
	van := p.containers[containerID].Van
	sorted := make([]int, 0, len(capacityIDs))
	for len(remaining) > 0 {
		matchIdx := -1
		for i, capID := range remaining {
			if p.legcapaciteiten[capID].Leg.Van.ID == van.ID {
				if matchIdx != -1 {
					return nil, false
				}
				matchIdx = i
			}
		}
		if matchIdx == -1 {
			return nil, false
		}
		capID := remaining[matchIdx]
		sorted = append(sorted, capID)
		van = p.legcapaciteiten[capID].Leg.Naar
		remaining = append(remaining[:matchIdx], remaining[matchIdx+1:]...)
	}
	return sorted, true
}

// RemoveTraject unreserves containerID's current traject, if any, and
// moves it back from gepland to tePlannen.
func (p *Planning) RemoveTraject(containerID int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.removeTrajectLocked(containerID)
}

func (p *Planning) removeTrajectLocked(containerID int) error {
	if containerID < 0 || containerID >= len(p.containers) {
		return ErrUnknownContainer
	}
	traject := p.trajecten[containerID]
	for _, capID := range traject {
		lc := p.legcapaciteiten[capID]
		lc.Reserved = removeInt(lc.Reserved, containerID)
		p.legcapaciteiten[capID] = lc
	}
	p.trajecten[containerID] = nil
	p.kosten[containerID] = nil
	delete(p.gepland, containerID)
	p.tePlannen[containerID] = struct{}{}
	return nil
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// ClearAllTrajecten unplans every container.
func (p *Planning) ClearAllTrajecten() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for containerID := range p.containers {
		_ = p.removeTrajectLocked(containerID)
	}
}

// ContainerTraject returns the ordered leg capacity IDs assigned to
// containerID, or nil if unplanned.
func (p *Planning) ContainerTraject(containerID int) []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if containerID < 0 || containerID >= len(p.trajecten) {
		return nil
	}
	out := make([]int, len(p.trajecten[containerID]))
	copy(out, p.trajecten[containerID])
	return out
}

// PrijsVanContainerTraject returns the total freight price of
// containerID's current traject, or an error if it is unplanned.
func (p *Planning) PrijsVanContainerTraject(containerID int) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	traject := p.trajecten[containerID]
	if len(traject) == 0 {
		return 0, fmt.Errorf("planning: container %d has no traject", containerID)
	}
	var prijs float64
	for _, capID := range traject {
		prijs += p.legcapaciteiten[capID].Prijs
	}
	return prijs, nil
}

// EmissieVanContainerTraject returns the raw emission (kg CO2) and its
// euro cost for containerID's current traject.
func (p *Planning) EmissieVanContainerTraject(containerID int) (emissie, kost float64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	traject := p.trajecten[containerID]
	if len(traject) == 0 {
		return 0, 0, fmt.Errorf("planning: container %d has no traject", containerID)
	}
	for _, capID := range traject {
		emissie += p.legcapaciteiten[capID].Emissie
	}
	return emissie, emissie * p.containers[containerID].Emissiefactor, nil
}

// BoeteVanContainerTraject returns the earliness/lateness hours and
// penalty cost for containerID's current traject's final arrival.
func (p *Planning) BoeteVanContainerTraject(containerID int) (urenTeVroeg, urenTeLaat, boete float64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	traject := p.trajecten[containerID]
	if len(traject) == 0 {
		return 0, 0, 0, fmt.Errorf("planning: container %d has no traject", containerID)
	}
	last := p.legcapaciteiten[traject[len(traject)-1]]
	c := p.containers[containerID]
	aankomst := last.Leg.Aankomst
	switch {
	case aankomst.After(c.MaxLevertijd):
		urenTeLaat = aankomst.Sub(c.MaxLevertijd).Hours()
		boete = urenTeLaat * c.BoeteTeLaat
	case aankomst.Before(c.MinLevertijd):
		urenTeVroeg = c.MinLevertijd.Sub(aankomst).Hours()
		boete = urenTeVroeg * c.BoeteTeVroeg
	}
	return urenTeVroeg, urenTeLaat, boete, nil
}

// totaleKostVanContainerTraject computes prijs + emissie-kost + boete for
// containerID's current traject. Caller must hold p.mu.
func (p *Planning) totaleKostVanContainerTraject(containerID int) float64 {
	traject := p.trajecten[containerID]
	var prijs float64
	for _, capID := range traject {
		prijs += p.legcapaciteiten[capID].Prijs
	}

	var emissie float64
	for _, capID := range traject {
		emissie += p.legcapaciteiten[capID].Emissie
	}
	c := p.containers[containerID]
	emissieKost := emissie * c.Emissiefactor

	var boete float64
	if len(traject) > 0 {
		last := p.legcapaciteiten[traject[len(traject)-1]]
		aankomst := last.Leg.Aankomst
		switch {
		case aankomst.After(c.MaxLevertijd):
			boete = aankomst.Sub(c.MaxLevertijd).Hours() * c.BoeteTeLaat
		case aankomst.Before(c.MinLevertijd):
			boete = c.MinLevertijd.Sub(aankomst).Hours() * c.BoeteTeVroeg
		}
	}

	return prijs + emissieKost + boete
}

// TotaleKost returns the sum of every planned container's traject cost.
func (p *Planning) TotaleKost() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	var total float64
	for _, k := range p.kosten {
		if k != nil {
			total += *k
		}
	}
	return total
}

// trajectKey turns an ordered leg-capacity-id chain into a stable map
// key: Go slices are not map-keyable, so trajecten are grouped by their
// comma-joined id sequence rather than by slice identity.
func trajectKey(traject []int) string {
	if len(traject) == 0 {
		return ""
	}
	parts := make([]string, len(traject))
	for i, id := range traject {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// RouteAggregate is one distinct traject of an order, as grouped by
// UniekeTrajectenPerOrder, with aggregate count/price/emission/penalty
// over the containers assigned to it.
type RouteAggregate struct {
	Traject []int
	Aantal  int
	Prijs   float64
	Emissie float64
	Boete   float64
}

// UniekeTrajectenPerOrder returns, for every order, a map from the
// order's distinct traject (keyed by its leg-capacity-id sequence) to
// its aggregate statistics.
func (p *Planning) UniekeTrajectenPerOrder() map[int]map[string]RouteAggregate {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make(map[int]map[string]RouteAggregate)
	for _, order := range p.orders {
		result[order.ID] = make(map[string]RouteAggregate)
	}

	for containerID, container := range p.containers {
		traject := p.trajecten[containerID]
		key := trajectKey(traject)
		perOrder := result[container.OrderID]
		agg := perOrder[key]
		agg.Traject = traject
		agg.Aantal++

		for _, capID := range traject {
			lc := p.legcapaciteiten[capID]
			agg.Prijs += lc.Prijs
			agg.Emissie += lc.Emissie
		}
		if len(traject) > 0 {
			last := p.legcapaciteiten[traject[len(traject)-1]]
			aankomst := last.Leg.Aankomst
			switch {
			case aankomst.After(container.MaxLevertijd):
				agg.Boete += aankomst.Sub(container.MaxLevertijd).Hours() * container.BoeteTeLaat
			case aankomst.Before(container.MinLevertijd):
				agg.Boete += container.MinLevertijd.Sub(aankomst).Hours() * container.BoeteTeVroeg
			}
		}
		perOrder[key] = agg
	}
	return result
}

// Clone returns a deep copy of the planning suitable for ALNS search
// branches: all arenas and bookkeeping maps/slices are copied so mutating
// the clone never affects the original.
func (p *Planning) Clone() *Planning {
	p.mu.Lock()
	defer p.mu.Unlock()

	clone := &Planning{
		Naam:              p.Naam,
		locaties:          append([]models.Location(nil), p.locaties...),
		containertypes:    append([]models.ContainerType(nil), p.containertypes...),
		legs:              append([]models.Leg(nil), p.legs...),
		legcapaciteiten:   make([]models.LegCapacity, len(p.legcapaciteiten)),
		orders:            append([]models.Order(nil), p.orders...),
		ordercapaciteiten: make([]models.OrderCapacity, len(p.ordercapaciteiten)),
		containers:        append([]models.Container(nil), p.containers...),
		adhocCapaciteiten: append([]int(nil), p.adhocCapaciteiten...),
		trajecten:         make([][]int, len(p.trajecten)),
		kosten:            make([]*float64, len(p.kosten)),
		tePlannen:         make(map[int]struct{}, len(p.tePlannen)),
		gepland:           make(map[int]struct{}, len(p.gepland)),
	}

	if p.mergedAdhoc != nil {
		clone.mergedAdhoc = make(map[int]models.LegCapacity, len(p.mergedAdhoc))
		for id, lc := range p.mergedAdhoc {
			lc.Reserved = append([]int(nil), lc.Reserved...)
			clone.mergedAdhoc[id] = lc
		}
	}

	for i, lc := range p.legcapaciteiten {
		lc.Reserved = append([]int(nil), lc.Reserved...)
		clone.legcapaciteiten[i] = lc
	}
	for i, oc := range p.ordercapaciteiten {
		oc.ContainerIDs = append([]int(nil), oc.ContainerIDs...)
		clone.ordercapaciteiten[i] = oc
	}
	for i, t := range p.trajecten {
		clone.trajecten[i] = append([]int(nil), t...)
	}
	for i, k := range p.kosten {
		if k != nil {
			v := *k
			clone.kosten[i] = &v
		}
	}
	for id := range p.tePlannen {
		clone.tePlannen[id] = struct{}{}
	}
	for id := range p.gepland {
		clone.gepland[id] = struct{}{}
	}

	return clone
}
