package adhoc

import "github.com/vives-ai/synergie-optimalisation-algorithms/pkg/models"

// DistanceMatrix resolves the road distance, in kilometres, between two
// locations. Implementations may be backed by a lookup table or a real
// routing service; the synthesizer only ever calls Distance.
type DistanceMatrix interface {
	Distance(van, naar models.Location) float64
}

// MapDistanceMatrix is a DistanceMatrix backed by a plain lookup table,
// keyed by location name pairs.
type MapDistanceMatrix struct {
	distances map[string]map[string]float64
}

// NewMapDistanceMatrix builds an empty distance matrix.
func NewMapDistanceMatrix() *MapDistanceMatrix {
	return &MapDistanceMatrix{distances: make(map[string]map[string]float64)}
}

// Set records the distance in km from van to naar. Distances are not
// assumed symmetric; set both directions if the network is symmetric.
func (m *MapDistanceMatrix) Set(van, naar string, km float64) {
	if m.distances[van] == nil {
		m.distances[van] = make(map[string]float64)
	}
	m.distances[van][naar] = km
}

// Distance returns the km distance between van and naar, or 0 if unknown.
func (m *MapDistanceMatrix) Distance(van, naar models.Location) float64 {
	row, ok := m.distances[van.Name]
	if !ok {
		return 0
	}
	return row[naar.Name]
}
