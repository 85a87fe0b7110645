// Package trajectory turns a batch of vehicle telemetry samples into
// per-vehicle trajectories and renders a trajectory as map features.
//
// This package handles:
// - Grouping a newest-first sample batch by vehicle, oldest sample first
// - Projecting sample coordinates into the map surface's projection
// - Rendering a trajectory as point, line and direction-arrow features
// - Encoding rendered features as GeoJSON for the browser map
//
// Everything here is a pure function of its input. A Map is rebuilt from
// scratch for every batch and never merged with a previous one.
package trajectory
