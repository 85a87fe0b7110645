package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"bustrack-visualizer/trajectory"
)

type SiriJsonVehicleFeedSource struct {
	url        string
	httpClient *http.Client
}

func NewSiriJsonVehicleFeedSource(url string, timeout time.Duration) *SiriJsonVehicleFeedSource {
	return &SiriJsonVehicleFeedSource{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *SiriJsonVehicleFeedSource) Fetch(ctx context.Context) ([]trajectory.Sample, error) {
	body, err := fetchBody(ctx, s.httpClient, s.url, "siri json")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	// Minimal schema-walking: Siri?.ServiceDelivery.VehicleMonitoringDelivery[].VehicleActivity[]
	var root map[string]any
	if err := json.NewDecoder(body).Decode(&root); err != nil {
		return nil, err
	}
	if siri, ok := root["Siri"].(map[string]any); ok && siri != nil {
		root = siri
	}
	sd, _ := root["ServiceDelivery"].(map[string]any)
	vmdArr, _ := sd["VehicleMonitoringDelivery"].([]any)
	samples := make([]trajectory.Sample, 0, 256)
	for _, vmdAny := range vmdArr {
		vmd, _ := vmdAny.(map[string]any)
		vaArr, _ := vmd["VehicleActivity"].([]any)
		for _, vaAny := range vaArr {
			va, _ := vaAny.(map[string]any)
			mvj, _ := va["MonitoredVehicleJourney"].(map[string]any)
			if mvj == nil {
				continue
			}
			id := stringFrom(mvj["VehicleRef"])
			if id == "" {
				id = stringFromNested(mvj, "FramedVehicleJourneyRef", "DatedVehicleJourneyRef")
			}
			lat, lon := floatFromNested(mvj, "VehicleLocation", "Latitude"), floatFromNested(mvj, "VehicleLocation", "Longitude")
			if id == "" || (lat == 0 && lon == 0) {
				continue
			}
			samples = append(samples, trajectory.Sample{
				BusID:     id,
				Latitude:  lat,
				Longitude: lon,
				Speed:     floatFrom(mvj["Velocity"]),
				Timestamp: unixFromSiriTime(stringFrom(va["RecordedAtTime"])),
			})
		}
	}
	return samples, nil
}

func stringFrom(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case map[string]any:
		// SIRI JSON sometimes wraps references as {"value": "..."}.
		return stringFrom(v["value"])
	}
	return ""
}

func stringFromNested(m map[string]any, k1, k2 string) string {
	m1, _ := m[k1].(map[string]any)
	return stringFrom(m1[k2])
}

func floatFrom(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

func floatFromNested(m map[string]any, k1, k2 string) float64 {
	m1, _ := m[k1].(map[string]any)
	return floatFrom(m1[k2])
}

// unixFromSiriTime parses an xsd:dateTime into unix seconds; unparsable
// or empty values give 0.
func unixFromSiriTime(s string) int64 {
	if s == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0
	}
	return t.Unix()
}
