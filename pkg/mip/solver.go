package mip

import (
	"context"
	"fmt"
)

// Solve encodes the planning's unplanned containers, asks the oracle to
// solve, and — on an optimal result — commits each container's chosen
// legs as a traject via Planning.AddTraject. It returns the oracle's
// status; any status other than StatusOptimal leaves the planning
// unchanged.
func (e *Encoder) Solve(ctx context.Context) (Status, error) {
	e.Encode()
	status, err := e.oracle.Solve(ctx)
	if err != nil {
		return status, err
	}
	if status != StatusOptimal {
		return status, nil
	}

	for _, c := range e.containers {
		var legIDs []int
		for _, l := range e.legs {
			v, ok := e.x[xKey{c.ID, l.ID}]
			if ok && e.oracle.Value(v) > 0.5 {
				legIDs = append(legIDs, l.ID)
			}
		}
		if len(legIDs) == 0 {
			continue
		}
		capacityIDs := make([]int, 0, len(legIDs))
		for _, legID := range legIDs {
			found := false
			for _, lc := range e.planning.LegCapacities() {
				if lc.LegID == legID && lc.ContainerType.ID == c.ContainerType.ID {
					capacityIDs = append(capacityIDs, lc.ID)
					found = true
					break
				}
			}
			if !found {
				return status, fmt.Errorf("mip: no leg capacity for leg %d, container type %d", legID, c.ContainerType.ID)
			}
		}
		if err := e.planning.AddTraject(c.ID, capacityIDs...); err != nil {
			return status, fmt.Errorf("mip: committing traject for container %d: %w", c.ID, err)
		}
	}

	return status, nil
}
