package main

import (
	"context"
	"io"
	"net/http"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"bustrack-visualizer/trajectory"
)

type GtfsRtVehicleFeedSource struct {
	url        string
	httpClient *http.Client
}

func NewGtfsRtVehicleFeedSource(url string, timeout time.Duration) *GtfsRtVehicleFeedSource {
	return &GtfsRtVehicleFeedSource{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *GtfsRtVehicleFeedSource) Fetch(ctx context.Context) ([]trajectory.Sample, error) {
	body, err := fetchBody(ctx, s.httpClient, s.url, "gtfs-rt")
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	var feed gtfs.FeedMessage
	if err := proto.Unmarshal(data, &feed); err != nil {
		return nil, err
	}
	return samplesFromFeed(&feed), nil
}

// samplesFromFeed keeps every vehicle position with an id and a location.
// Vehicles without their own timestamp take the feed header's. GTFS-RT has
// no passenger count, so the occupancy percentage stands in when present.
func samplesFromFeed(feed *gtfs.FeedMessage) []trajectory.Sample {
	headerTS := int64(feed.GetHeader().GetTimestamp())
	samples := make([]trajectory.Sample, 0, len(feed.Entity))
	for _, ent := range feed.Entity {
		if ent == nil || ent.Vehicle == nil {
			continue
		}
		vp := ent.Vehicle
		if vp.Vehicle == nil || vp.Position == nil {
			continue
		}
		id := vp.Vehicle.Id
		if id == nil || *id == "" {
			continue
		}
		lat := vp.Position.Latitude
		lon := vp.Position.Longitude
		if lat == nil || lon == nil {
			continue
		}
		s := trajectory.Sample{
			BusID:     *id,
			Latitude:  float64(*lat),
			Longitude: float64(*lon),
			Speed:     float64(vp.Position.GetSpeed()),
			Timestamp: headerTS,
		}
		if vp.Timestamp != nil {
			s.Timestamp = int64(*vp.Timestamp)
		}
		if vp.OccupancyPercentage != nil {
			s.NumPassenger = int(*vp.OccupancyPercentage)
		}
		samples = append(samples, s)
	}
	return samples
}
