package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paulmach/orb"

	"bustrack-visualizer/config"
	"bustrack-visualizer/trajectory"
)

var (
	configPath      = flag.String("config", "config.yml", "YAML configuration file")
	httpPort        = flag.Int("port", 0, "HTTP port (overrides config)")
	shutdownTimeout = flag.Duration("shutdown_timeout", 0, "HTTP server shutdown timeout (overrides config)")
	samplesURL      = flag.String("samples_url", "", "JSON sample batch URL, newest first")
	gtfsrtURL       = flag.String("gtfsrt_url", "", "GTFS-RT vehicle positions URL (protobuf)")
	siriXmlURL      = flag.String("siri_xml_url", "", "SIRI VehicleMonitoring XML URL")
	siriJsonURL     = flag.String("siri_json_url", "", "SIRI VehicleMonitoring JSON URL")
	refreshMinSecs  = flag.Int("refresh_min_secs", 0, "Minimum refresh interval in seconds (overrides config)")
	maxSamples      = flag.Int("max_samples", 0, "Samples retained in the window (overrides config)")
)

func main() {
	flag.Parse()
	initLogging()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	applyFlags(&cfg)
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Feed.URL == "" {
		log.Fatalf("no feed configured: set feed.url in %s or pass one of --samples_url, --gtfsrt_url, --siri_xml_url, --siri_json_url", *configPath)
	}

	feed, replace, err := newFeedSource(cfg.Feed.Kind, cfg.Feed.URL, time.Duration(cfg.Feed.TimeoutMS)*time.Millisecond)
	if err != nil {
		log.Fatalf("feed: %v", err)
	}
	proj, surface, err := resolveProjection(cfg.Map.Projection)
	if err != nil {
		log.Fatalf("map: %v", err)
	}

	styles := trajectory.DefaultStyles()
	srv := &server{cfg: cfg, styles: styles}
	poll := newPoller(feed, pollerOptions{
		MinRefreshSeconds: cfg.Feed.RefreshMinSecs,
		FetchTimeout:      time.Duration(cfg.Feed.TimeoutMS) * time.Millisecond,
		Replace:           replace,
		MaxSamples:        cfg.Buffer.MaxSamples,
		Projection:        proj,
		Surface:           surface,
	})
	hub := newHub(cfg.Map, styles, poll.snapshot)
	poll.onUpdate = hub.broadcast
	srv.poll, srv.hub = poll, hub

	mux := http.NewServeMux()
	srv.registerRoutes(mux)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("server starting on http://localhost:%d/ (feed=%s %s)", cfg.Server.Port, cfg.Feed.Kind, cfg.Feed.URL)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	pctx, pcancel := context.WithCancel(context.Background())
	go poll.run(pctx)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown initiated...")

	pcancel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Printf("HTTP server shut down successfully")
	}
}

// applyFlags overrides cfg with every flag that was set. At most one feed
// URL flag may be given.
func applyFlags(cfg *config.AppConfig) {
	if *httpPort != 0 {
		cfg.Server.Port = *httpPort
	}
	if *shutdownTimeout != 0 {
		cfg.Server.ShutdownTimeoutSecs = ceilSeconds(*shutdownTimeout)
	}
	if *refreshMinSecs != 0 {
		cfg.Feed.RefreshMinSecs = *refreshMinSecs
	}
	if *maxSamples != 0 {
		cfg.Buffer.MaxSamples = *maxSamples
	}

	kind, url, err := selectFeed(map[string]string{
		config.FeedSamples:  *samplesURL,
		config.FeedGTFSRT:   *gtfsrtURL,
		config.FeedSiriXML:  *siriXmlURL,
		config.FeedSiriJSON: *siriJsonURL,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	if url != "" {
		cfg.Feed.Kind, cfg.Feed.URL = kind, url
	}
}

// selectFeed picks the single non-empty feed URL. No URL at all is not an
// error; the config file's feed is used then.
func selectFeed(urls map[string]string) (string, string, error) {
	var kind, url string
	for k, u := range urls {
		if u == "" {
			continue
		}
		if url != "" {
			return "", "", fmt.Errorf("provide at most one of --samples_url, --gtfsrt_url, --siri_xml_url, --siri_json_url")
		}
		kind, url = k, u
	}
	return kind, url, nil
}

// ceilSeconds rounds d up to whole seconds so a sub-second timeout does not
// become zero.
func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

// resolveProjection returns the build projection for the configured map
// projection and the surface that maps its trajectories onto the display.
func resolveProjection(name string) (orb.Projection, trajectory.Surface, error) {
	proj, ok := trajectory.ProjectionByName(name)
	if !ok {
		return nil, trajectory.Surface{}, fmt.Errorf("unsupported projection %q", name)
	}
	surface, ok := trajectory.SurfaceFor(name)
	if !ok {
		return nil, trajectory.Surface{}, fmt.Errorf("no display surface for projection %q", name)
	}
	return proj, surface, nil
}
