package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"bustrack-visualizer/config"
	"bustrack-visualizer/trajectory"
)

// VehicleFeedSource fetches one batch of samples from an upstream feed.
type VehicleFeedSource interface {
	Fetch(ctx context.Context) ([]trajectory.Sample, error)
}

// newFeedSource builds the source for a configured feed kind. The second
// result reports whether the source delivers the whole sample window
// (replace) or only current positions (accumulate).
func newFeedSource(kind, url string, timeout time.Duration) (VehicleFeedSource, bool, error) {
	switch kind {
	case config.FeedSamples:
		return NewSampleFeedSource(url, timeout), true, nil
	case config.FeedGTFSRT:
		return NewGtfsRtVehicleFeedSource(url, timeout), false, nil
	case config.FeedSiriJSON:
		return NewSiriJsonVehicleFeedSource(url, timeout), false, nil
	case config.FeedSiriXML:
		return NewSiriXmlVehicleFeedSource(url, timeout), false, nil
	}
	return nil, false, fmt.Errorf("unknown feed kind %q", kind)
}

// fetchBody issues a GET and returns the response body on 200.
func fetchBody(ctx context.Context, client *http.Client, url, name string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s http status: %d", name, resp.StatusCode)
	}
	return resp.Body, nil
}
