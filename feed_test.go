package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"bustrack-visualizer/config"
	"bustrack-visualizer/trajectory"
)

func serve(t *testing.T, contentType string, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSampleFeedSource(t *testing.T) {
	t.Parallel()

	srv := serve(t, "application/json", []byte(`[
		{"bus_id":"A","longitude":1,"latitude":1,"num_passenger":7,"speed":12.5,"timestamp":3},
		{"bus_id":"B","longitude":5,"latitude":5,"num_passenger":0,"speed":0,"timestamp":1}
	]`))

	got, err := NewSampleFeedSource(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []trajectory.Sample{
		{BusID: "A", Longitude: 1, Latitude: 1, NumPassenger: 7, Speed: 12.5, Timestamp: 3},
		{BusID: "B", Longitude: 5, Latitude: 5, Timestamp: 1},
	}, got)
}

func TestFeedSourceHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := NewSampleFeedSource(srv.URL, time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "samples http status: 502")

	_, err = NewGtfsRtVehicleFeedSource(srv.URL, time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gtfs-rt http status: 502")
}

func gtfsFeed() *gtfs.FeedMessage {
	return &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(1700000000),
		},
		Entity: []*gtfs.FeedEntity{
			{
				Id: proto.String("e1"),
				Vehicle: &gtfs.VehiclePosition{
					Vehicle:             &gtfs.VehicleDescriptor{Id: proto.String("bus-1")},
					Position:            &gtfs.Position{Latitude: proto.Float32(37.5), Longitude: proto.Float32(23.5), Speed: proto.Float32(8)},
					Timestamp:           proto.Uint64(1700000010),
					OccupancyPercentage: proto.Uint32(40),
				},
			},
			{
				Id: proto.String("e2"),
				Vehicle: &gtfs.VehiclePosition{
					Vehicle:  &gtfs.VehicleDescriptor{Id: proto.String("bus-2")},
					Position: &gtfs.Position{Latitude: proto.Float32(38), Longitude: proto.Float32(24)},
				},
			},
			{
				Id:      proto.String("no-position"),
				Vehicle: &gtfs.VehiclePosition{Vehicle: &gtfs.VehicleDescriptor{Id: proto.String("bus-3")}},
			},
			{
				Id: proto.String("no-id"),
				Vehicle: &gtfs.VehiclePosition{
					Vehicle:  &gtfs.VehicleDescriptor{},
					Position: &gtfs.Position{Latitude: proto.Float32(1), Longitude: proto.Float32(1)},
				},
			},
			{Id: proto.String("trip-update-only")},
		},
	}
}

func TestGtfsRtVehicleFeedSource(t *testing.T) {
	t.Parallel()

	body, err := proto.Marshal(gtfsFeed())
	require.NoError(t, err)
	srv := serve(t, "application/x-protobuf", body)

	got, err := NewGtfsRtVehicleFeedSource(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "bus-1", got[0].BusID)
	assert.InDelta(t, 37.5, got[0].Latitude, 1e-6)
	assert.InDelta(t, 23.5, got[0].Longitude, 1e-6)
	assert.InDelta(t, 8, got[0].Speed, 1e-6)
	assert.Equal(t, int64(1700000010), got[0].Timestamp)
	assert.Equal(t, 40, got[0].NumPassenger)

	assert.Equal(t, "bus-2", got[1].BusID)
	assert.Equal(t, int64(1700000000), got[1].Timestamp, "falls back to header timestamp")
	assert.Zero(t, got[1].NumPassenger)
}

func TestSiriJsonVehicleFeedSource(t *testing.T) {
	t.Parallel()

	srv := serve(t, "application/json", []byte(`{"Siri":{"ServiceDelivery":{"VehicleMonitoringDelivery":[{"VehicleActivity":[
		{"RecordedAtTime":"2024-05-01T10:00:00Z","MonitoredVehicleJourney":{"VehicleRef":"V1","Velocity":"4.5","VehicleLocation":{"Latitude":60.1,"Longitude":24.9}}},
		{"RecordedAtTime":"2024-05-01T10:00:05Z","MonitoredVehicleJourney":{"FramedVehicleJourneyRef":{"DatedVehicleJourneyRef":"J2"},"VehicleLocation":{"Latitude":"60.2","Longitude":"25.0"}}},
		{"MonitoredVehicleJourney":{"VehicleRef":{"value":"V3"},"VehicleLocation":{"Latitude":60.3,"Longitude":25.1}}},
		{"MonitoredVehicleJourney":{"VehicleRef":"nowhere","VehicleLocation":{}}}
	]}]}}}`))

	got, err := NewSiriJsonVehicleFeedSource(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, trajectory.Sample{BusID: "V1", Latitude: 60.1, Longitude: 24.9, Speed: 4.5, Timestamp: 1714557600}, got[0])
	assert.Equal(t, "J2", got[1].BusID)
	assert.InDelta(t, 60.2, got[1].Latitude, 1e-9)
	assert.Equal(t, int64(1714557605), got[1].Timestamp)
	assert.Equal(t, "V3", got[2].BusID)
	assert.Zero(t, got[2].Timestamp)
}

const siriXML = `<?xml version="1.0" encoding="UTF-8"?>
<siri:Siri xmlns:siri="http://www.siri.org.uk/siri" version="2.0">
  <siri:ServiceDelivery>
    <siri:VehicleMonitoringDelivery>
      <siri:VehicleActivity>
        <siri:RecordedAtTime>2024-05-01T10:00:00+00:00</siri:RecordedAtTime>
        <siri:MonitoredVehicleJourney>
          <siri:VehicleRef>X1</siri:VehicleRef>
          <siri:Velocity>3</siri:Velocity>
          <siri:VehicleLocation>
            <siri:Longitude>24.9</siri:Longitude>
            <siri:Latitude>60.1</siri:Latitude>
          </siri:VehicleLocation>
        </siri:MonitoredVehicleJourney>
      </siri:VehicleActivity>
      <siri:VehicleActivity>
        <siri:MonitoredVehicleJourney>
          <siri:VehicleRef>X2</siri:VehicleRef>
          <siri:VehicleLocation>
            <siri:Longitude>bad</siri:Longitude>
            <siri:Latitude>60.2</siri:Latitude>
          </siri:VehicleLocation>
        </siri:MonitoredVehicleJourney>
      </siri:VehicleActivity>
    </siri:VehicleMonitoringDelivery>
  </siri:ServiceDelivery>
</siri:Siri>`

func TestSiriXmlVehicleFeedSource(t *testing.T) {
	t.Parallel()

	srv := serve(t, "application/xml", []byte(siriXML))
	got, err := NewSiriXmlVehicleFeedSource(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []trajectory.Sample{
		{BusID: "X1", Latitude: 60.1, Longitude: 24.9, Speed: 3, Timestamp: 1714557600},
	}, got)
}

func TestDecodeSiriXMLMalformed(t *testing.T) {
	t.Parallel()

	_, err := decodeSiriXML(strings.NewReader("<Siri><ServiceDelivery>"))
	assert.Error(t, err)
}

func TestNewFeedSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind    string
		replace bool
	}{
		{kind: config.FeedSamples, replace: true},
		{kind: config.FeedGTFSRT},
		{kind: config.FeedSiriJSON},
		{kind: config.FeedSiriXML},
	}
	for _, tt := range tests {
		src, replace, err := newFeedSource(tt.kind, "http://localhost/feed", time.Second)
		require.NoError(t, err, tt.kind)
		assert.NotNil(t, src)
		assert.Equal(t, tt.replace, replace, tt.kind)
	}

	_, _, err := newFeedSource("mqtt", "http://localhost/feed", time.Second)
	assert.Error(t, err)
}

func TestSelectFeed(t *testing.T) {
	t.Parallel()

	kind, url, err := selectFeed(map[string]string{config.FeedGTFSRT: "http://a", config.FeedSamples: ""})
	require.NoError(t, err)
	assert.Equal(t, config.FeedGTFSRT, kind)
	assert.Equal(t, "http://a", url)

	_, url, err = selectFeed(map[string]string{config.FeedGTFSRT: ""})
	require.NoError(t, err)
	assert.Empty(t, url)

	_, _, err = selectFeed(map[string]string{config.FeedGTFSRT: "http://a", config.FeedSiriXML: "http://b"})
	assert.Error(t, err)
}
