package main

import (
	"context"
	"log"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/paulmach/orb"

	"bustrack-visualizer/trajectory"
)

// snapshot is one published update: the sample window, newest first, and
// the trajectories rebuilt from it.
type snapshot struct {
	Batch        []trajectory.Sample
	Trajectories trajectory.Map
	// Surface maps Trajectories onto the map's display plane.
	Surface   trajectory.Surface
	FetchedAt time.Time
}

// poller maintains periodic fetches and publishes a snapshot whenever the
// sample window changes.
type poller struct {
	feed              VehicleFeedSource
	minRefreshSeconds int
	fetchTimeout      time.Duration
	replace           bool
	maxSamples        int
	proj              orb.Projection
	surface           trajectory.Surface
	onUpdate          func(*snapshot)

	mu                sync.Mutex
	lastPositions     map[string]orb.Point
	window            []trajectory.Sample
	current           *snapshot
	mostRecentFetchMs int64
}

type pollerOptions struct {
	MinRefreshSeconds int
	FetchTimeout      time.Duration
	// Replace makes every fetch the complete window instead of being
	// merged into it.
	Replace    bool
	MaxSamples int
	Projection orb.Projection
	Surface    trajectory.Surface
	OnUpdate   func(*snapshot)
}

func newPoller(feed VehicleFeedSource, opts pollerOptions) *poller {
	if opts.FetchTimeout == 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	return &poller{
		feed:              feed,
		minRefreshSeconds: opts.MinRefreshSeconds,
		fetchTimeout:      opts.FetchTimeout,
		replace:           opts.Replace,
		maxSamples:        opts.MaxSamples,
		proj:              opts.Projection,
		surface:           opts.Surface,
		onUpdate:          opts.OnUpdate,
		lastPositions:     make(map[string]orb.Point),
	}
}

func (p *poller) run(ctx context.Context) {
	interval := time.Duration(p.minRefreshSeconds) * time.Second
	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			start := time.Now()
			p.tick(ctx)
			elapsed := time.Since(start)
			if p.fetchedOnce() {
				interval = maxDuration(elapsed/2, time.Duration(p.minRefreshSeconds)*time.Second)
			}
			t.Reset(interval)
		}
	}
}

func (p *poller) tick(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()
	samples, err := p.feed.Fetch(cctx)
	if err != nil {
		log.Printf("poll error: %v", err)
		return
	}
	log.Printf("fetched samples: %d", len(samples))

	if snap := p.ingest(samples, time.Now()); snap != nil {
		log.Printf("trajectories updated: vehicles=%d samples=%d", len(snap.Trajectories), len(snap.Batch))
		if p.onUpdate != nil {
			p.onUpdate(snap)
		}
	}
}

// ingest folds a fetched batch into the window and returns the new
// snapshot, or nil when nothing changed.
func (p *poller) ingest(in []trajectory.Sample, now time.Time) *snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mostRecentFetchMs = now.UnixMilli()

	var changed bool
	if p.replace {
		changed = p.replaceWindow(in)
	} else {
		changed = p.mergeWindow(in)
	}
	if !changed && p.current != nil {
		return nil
	}

	p.current = &snapshot{
		Batch:        p.window,
		Trajectories: trajectory.BuildProjected(p.window, p.proj),
		Surface:      p.surface,
		FetchedAt:    now,
	}
	return p.current
}

func (p *poller) replaceWindow(in []trajectory.Sample) bool {
	if len(in) > p.maxSamples {
		in = in[:p.maxSamples]
	}
	if slices.Equal(in, p.window) {
		return false
	}
	p.window = slices.Clone(in)
	return true
}

// mergeWindow prepends the samples whose vehicle is new or has moved, newest
// first, and drops the oldest samples beyond maxSamples.
func (p *poller) mergeWindow(in []trajectory.Sample) bool {
	fresh := make([]trajectory.Sample, 0, len(in))
	for _, s := range in {
		pos := orb.Point{s.Longitude, s.Latitude}
		if prev, ok := p.lastPositions[s.BusID]; ok && prev == pos {
			continue
		}
		p.lastPositions[s.BusID] = pos
		fresh = append(fresh, s)
	}
	if len(fresh) == 0 {
		return false
	}
	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].Timestamp > fresh[j].Timestamp
	})

	window := make([]trajectory.Sample, 0, len(fresh)+len(p.window))
	window = append(window, fresh...)
	window = append(window, p.window...)
	if len(window) > p.maxSamples {
		window = window[:p.maxSamples]
		present := make(map[string]struct{}, len(p.lastPositions))
		for _, s := range window {
			present[s.BusID] = struct{}{}
		}
		for id := range p.lastPositions {
			if _, ok := present[id]; !ok {
				delete(p.lastPositions, id)
			}
		}
	}
	p.window = window
	return true
}

func (p *poller) fetchedOnce() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mostRecentFetchMs != 0
}

// snapshot returns the last published snapshot, or nil before the first
// successful fetch.
func (p *poller) snapshot() *snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
