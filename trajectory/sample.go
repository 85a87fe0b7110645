package trajectory

import (
	"sort"

	"github.com/paulmach/orb"
)

// Sample is one telemetry reading as delivered by the data source.
type Sample struct {
	BusID        string  `json:"bus_id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	NumPassenger int     `json:"num_passenger"`
	Speed        float64 `json:"speed"`
	Timestamp    int64   `json:"timestamp"`
}

// Point is a projected trajectory vertex with its display label.
type Point struct {
	Coord orb.Point
	Label string
}

// Trajectory is one vehicle's points ordered oldest to newest.
type Trajectory []Point

// LineString returns the trajectory vertices in order.
func (t Trajectory) LineString() orb.LineString {
	ls := make(orb.LineString, len(t))
	for i, p := range t {
		ls[i] = p.Coord
	}
	return ls
}

// Map holds one trajectory per vehicle id.
type Map map[string]Trajectory

// VehicleIDs returns the vehicle ids in lexical order.
func (m Map) VehicleIDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
