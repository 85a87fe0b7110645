package trajectory

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Projection names accepted by ProjectionByName.
const (
	ProjectionGeographic  = "EPSG:4326"
	ProjectionWebMercator = "EPSG:3857"
)

// ProjectionByName maps a projection code to the orb projection used when
// building trajectories. Geographic coordinates need no projection and
// yield nil.
func ProjectionByName(name string) (orb.Projection, bool) {
	switch name {
	case ProjectionGeographic, "":
		return nil, true
	case ProjectionWebMercator:
		return project.WGS84.ToMercator, true
	}
	return nil, false
}

// SurfaceFor returns the Surface that maps trajectories built with the named
// projection onto the web-mercator display plane.
func SurfaceFor(name string) (Surface, bool) {
	switch name {
	case ProjectionGeographic, "":
		return Surface{Forward: project.WGS84.ToMercator, Inverse: project.Mercator.ToWGS84}, true
	case ProjectionWebMercator:
		return Surface{}, true
	}
	return Surface{}, false
}

// Build groups a newest-first batch into per-vehicle trajectories in
// geographic coordinates.
func Build(batch []Sample) Map {
	return BuildProjected(batch, nil)
}

// BuildProjected groups a newest-first batch into per-vehicle trajectories,
// passing every coordinate through proj. A nil proj keeps lon/lat.
//
// The batch is walked from its last (oldest) sample to its first (newest),
// so each trajectory ends with the vehicle's most recent sample. The input
// slice is not modified.
func BuildProjected(batch []Sample, proj orb.Projection) Map {
	m := make(Map)
	for i := len(batch) - 1; i >= 0; i-- {
		s := batch[i]
		m[s.BusID] = append(m[s.BusID], newPoint(s, proj))
	}
	return m
}

func newPoint(s Sample, proj orb.Projection) Point {
	c := orb.Point{s.Longitude, s.Latitude}
	if proj != nil {
		c = proj(c)
	}
	return Point{Coord: c, Label: strconv.Itoa(s.NumPassenger)}
}

// Center returns the geographic position of the newest sample in a
// newest-first batch.
func Center(batch []Sample) (orb.Point, bool) {
	if len(batch) == 0 {
		return orb.Point{}, false
	}
	return orb.Point{batch[0].Longitude, batch[0].Latitude}, true
}
