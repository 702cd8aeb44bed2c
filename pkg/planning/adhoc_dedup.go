package planning

import "github.com/vives-ai/synergie-optimalisation-algorithms/pkg/models"

// MakeUniqueAdhoc merges ad-hoc leg capacities that describe the exact
// same leg (same van/naar/checkin/vertrek/aankomst, same container type,
// price and emission) into single pooled capacities, and rewrites every
// affected traject to reference the merged capacity. Merged capacities
// are assigned fresh negative IDs in encounter order; these IDs are
// opaque to this run only and are never expected to resolve across
// separate calls (see DESIGN.md's Open Question resolutions).
func (p *Planning) MakeUniqueAdhoc() {
	p.mu.Lock()
	defer p.mu.Unlock()

	type merged struct {
		capacity models.LegCapacity
		oldIDs   []int // original legcapaciteiten indices folded into this one
	}

	var uniques []merged
	nextID := 0

	oldToNew := make(map[int]int) // old legcapaciteiten index -> index into uniques

	for _, oldID := range p.adhocCapaciteiten {
		old := p.legcapaciteiten[oldID]
		foundIdx := -1
		for i := range uniques {
			if sameAdhocCapacity(old, uniques[i].capacity) {
				foundIdx = i
				break
			}
		}
		if foundIdx == -1 {
			nextID--
			newCap := old
			newCap.ID = nextID
			newCap.Reserved = append([]int(nil), old.Reserved...)
			uniques = append(uniques, merged{capacity: newCap, oldIDs: []int{oldID}})
			foundIdx = len(uniques) - 1
		} else {
			uniques[foundIdx].capacity.Aantal += old.Aantal
			uniques[foundIdx].capacity.Reserved = append(uniques[foundIdx].capacity.Reserved, old.Reserved...)
			uniques[foundIdx].oldIDs = append(uniques[foundIdx].oldIDs, oldID)
		}
		oldToNew[oldID] = foundIdx
	}

	// Rewrite every traject: replace each old ad-hoc capacity id with its
	// merged capacity's new negative id.
	newIDByOldID := make(map[int]int, len(oldToNew))
	for oldID, idx := range oldToNew {
		newIDByOldID[oldID] = uniques[idx].capacity.ID
	}
	for containerID, traject := range p.trajecten {
		changed := false
		rewritten := make([]int, len(traject))
		for i, capID := range traject {
			if newID, ok := newIDByOldID[capID]; ok {
				rewritten[i] = newID
				changed = true
			} else {
				rewritten[i] = capID
			}
		}
		if changed {
			p.trajecten[containerID] = rewritten
		}
	}

	// Replace legcapaciteiten entries that were ad-hoc with their merged
	// forms, keyed by new negative id for lookup via LegCapacity(id).
	mergedByID := make(map[int]models.LegCapacity, len(uniques))
	for _, m := range uniques {
		mergedByID[m.capacity.ID] = m.capacity
	}
	p.mergedAdhoc = mergedByID

	newAdhocIDs := make([]int, 0, len(uniques))
	for _, m := range uniques {
		newAdhocIDs = append(newAdhocIDs, m.capacity.ID)
	}
	p.adhocCapaciteiten = newAdhocIDs
}

// sameAdhocCapacity compares the immutable leg fields and capacity
// pricing fields the Python original keys ad-hoc dedup on.
func sameAdhocCapacity(a, b models.LegCapacity) bool {
	return a.Leg.Van.ID == b.Leg.Van.ID &&
		a.Leg.Naar.ID == b.Leg.Naar.ID &&
		a.Leg.Checkin.Equal(b.Leg.Checkin) &&
		a.Leg.Vertrek.Equal(b.Leg.Vertrek) &&
		a.Leg.Aankomst.Equal(b.Leg.Aankomst) &&
		a.ContainerType.ID == b.ContainerType.ID &&
		a.Prijs == b.Prijs &&
		a.Emissie == b.Emissie
}
