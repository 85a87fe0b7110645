package main

import (
	"github.com/paulmach/orb/geojson"

	"bustrack-visualizer/config"
	"bustrack-visualizer/trajectory"
)

// mapView is the initial map state sent to the browser.
type mapView struct {
	Center      [2]float64 `json:"center"`
	Zoom        int        `json:"zoom"`
	BaseTileURL string     `json:"baseTileUrl"`
	TileURL     string     `json:"tileUrl,omitempty"`
	Projection  string     `json:"projection"`
}

// newMapView centres on the newest sample when there is one and on the
// configured centre otherwise.
func newMapView(cfg config.MapConfig, snap *snapshot) mapView {
	v := mapView{
		Center:      [2]float64{cfg.CenterLon, cfg.CenterLat},
		Zoom:        cfg.ZoomLevel,
		BaseTileURL: config.DefaultBaseTileURL,
		TileURL:     cfg.TileURL,
		Projection:  cfg.Projection,
	}
	if snap != nil {
		if c, ok := trajectory.Center(snap.Batch); ok {
			v.Center = [2]float64{c.X(), c.Y()}
		}
	}
	return v
}

// vehicleSummary describes a vehicle's newest sample.
type vehicleSummary struct {
	ID         string  `json:"id"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Passengers int     `json:"passengers"`
	Speed      float64 `json:"speed"`
	Timestamp  int64   `json:"timestamp"`
	Samples    int     `json:"samples"`
}

// summarize returns one summary per vehicle in id order.
func summarize(snap *snapshot) []vehicleSummary {
	if snap == nil {
		return []vehicleSummary{}
	}
	newest := make(map[string]trajectory.Sample, len(snap.Trajectories))
	for _, s := range snap.Batch {
		if _, ok := newest[s.BusID]; !ok {
			newest[s.BusID] = s
		}
	}
	out := make([]vehicleSummary, 0, len(snap.Trajectories))
	for _, id := range snap.Trajectories.VehicleIDs() {
		s := newest[id]
		out = append(out, vehicleSummary{
			ID:         id,
			Lat:        s.Latitude,
			Lon:        s.Longitude,
			Passengers: s.NumPassenger,
			Speed:      s.Speed,
			Timestamp:  s.Timestamp,
			Samples:    len(snap.Trajectories[id]),
		})
	}
	return out
}

// Websocket messages.
const (
	msgHello  = "hello"
	msgUpdate = "update"
	msgSelect = "select"
)

type helloMessage struct {
	Type     string  `json:"type"`
	ClientID string  `json:"clientId"`
	View     mapView `json:"view"`
}

type updateMessage struct {
	Type      string                     `json:"type"`
	Vehicles  []string                   `json:"vehicles"`
	Selected  string                     `json:"selected"`
	Features  *geojson.FeatureCollection `json:"features"`
	FetchedAt int64                      `json:"fetchedAt"`
}

// selectMessage is sent by a client; an empty Vehicle clears the selection.
type selectMessage struct {
	Type    string `json:"type"`
	Vehicle string `json:"vehicle"`
}

// buildUpdate renders the selected vehicle's path, or every vehicle's
// points when nothing is selected or the selected vehicle is not in the
// snapshot.
func buildUpdate(snap *snapshot, selected string, styles trajectory.Styles) updateMessage {
	msg := updateMessage{
		Type:     msgUpdate,
		Vehicles: []string{},
		Selected: selected,
		Features: geojson.NewFeatureCollection(),
	}
	if snap == nil {
		return msg
	}
	msg.Vehicles = snap.Trajectories.VehicleIDs()
	msg.FetchedAt = snap.FetchedAt.UnixMilli()
	if t, ok := snap.Trajectories[selected]; ok && selected != "" {
		msg.Features = trajectory.RenderOn(t, snap.Surface).FeatureCollection(styles)
		return msg
	}
	msg.Features = styles.EncodePoints(snap.Trajectories)
	return msg
}
