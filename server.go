package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"gonum.org/v1/plot/vg"

	"bustrack-visualizer/config"
	"bustrack-visualizer/internal/chart"
	"bustrack-visualizer/trajectory"
)

type server struct {
	cfg    config.AppConfig
	styles trajectory.Styles
	poll   *poller
	hub    *wsHub
}

func (s *server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/data.json", s.hub.handleWebSocket)

	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("GET /api/vehicles", s.handleVehicles)
	mux.HandleFunc("GET /api/vehicles/{id}/path", s.handlePath)
	mux.HandleFunc("GET /api/vehicles/{id}/path.png", s.handlePathPNG)
	mux.HandleFunc("GET /api/vehicles/{id}/passengers", s.handlePassengers)

	fs := http.FileServer(http.Dir(s.cfg.Server.StaticDir))
	mux.Handle("/", withLogging(fs))
}

func withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		h.ServeHTTP(w, r)
	})
}

func (s *server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newMapView(s.cfg.Map, s.poll.snapshot()))
}

func (s *server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, summarize(s.poll.snapshot()))
}

// vehicleTrajectory is a trajectory resolved from a request together with
// the snapshot it came from.
type vehicleTrajectory struct {
	id   string
	t    trajectory.Trajectory
	snap *snapshot
}

// trajectoryFor resolves the {id} path value, writing a 404 when the
// vehicle is not in the current snapshot.
func (s *server) trajectoryFor(w http.ResponseWriter, r *http.Request) (vehicleTrajectory, bool) {
	vt := vehicleTrajectory{id: r.PathValue("id"), snap: s.poll.snapshot()}
	if vt.snap == nil {
		writeJSONError(w, http.StatusNotFound, "no data yet")
		return vt, false
	}
	t, ok := vt.snap.Trajectories[vt.id]
	if !ok {
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown vehicle %q", vt.id))
		return vt, false
	}
	vt.t = t
	return vt, true
}

func (s *server) handlePath(w http.ResponseWriter, r *http.Request) {
	vt, ok := s.trajectoryFor(w, r)
	if !ok {
		return
	}
	fc := trajectory.RenderOn(vt.t, vt.snap.Surface).FeatureCollection(s.styles)
	data, err := fc.MarshalJSON()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

func (s *server) handlePathPNG(w http.ResponseWriter, r *http.Request) {
	vt, ok := s.trajectoryFor(w, r)
	if !ok {
		return
	}
	// Plotted on the trajectory's own axes, so arrows use the same plane.
	var buf bytes.Buffer
	if err := chart.WritePathPNG(&buf, trajectory.Render(vt.t), "Vehicle "+vt.id, 8*vg.Inch, 6*vg.Inch); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render path: %v", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handlePassengers(w http.ResponseWriter, r *http.Request) {
	vt, ok := s.trajectoryFor(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := chart.WritePassengerChart(&buf, vt.id, vt.t); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
