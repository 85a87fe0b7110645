package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bustrack-visualizer/trajectory"
)

// SampleFeedSource reads a JSON array of samples, newest first, in the
// shape produced by the telemetry query backend.
type SampleFeedSource struct {
	url        string
	httpClient *http.Client
}

func NewSampleFeedSource(url string, timeout time.Duration) *SampleFeedSource {
	return &SampleFeedSource{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *SampleFeedSource) Fetch(ctx context.Context) ([]trajectory.Sample, error) {
	body, err := fetchBody(ctx, s.httpClient, s.url, "samples")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var samples []trajectory.Sample
	if err := json.NewDecoder(body).Decode(&samples); err != nil {
		return nil, err
	}
	return samples, nil
}
