package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"sync"
	"time"

	"github.com/signalsfoundry/satcom-simulator/core"
	"github.com/signalsfoundry/satcom-simulator/internal/config"
	"github.com/signalsfoundry/satcom-simulator/internal/logging"
	"github.com/signalsfoundry/satcom-simulator/internal/observability"
	"github.com/signalsfoundry/satcom-simulator/timectrl"
)

// server exposes a read-mostly HTTP surface over the engine. The
// engine itself is single-threaded; the server serializes every
// engine access (ticks included) behind one mutex so HTTP handlers
// never race the tick loop.
type server struct {
	mu     sync.Mutex
	engine *core.Engine
	log    logging.Logger
}

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	listenAddr := flag.String("listen", "", "listen address (overrides config)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Error(ctx, "failed to load config", logging.String("error", err.Error()))
			return
		}
		cfg = loaded
	}
	addr := cfg.Server.ListenAddr
	if *listenAddr != "" {
		addr = *listenAddr
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to init tracing", logging.String("error", err.Error()))
		return
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	collector, err := observability.NewSimCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to register metrics", logging.String("error", err.Error()))
		return
	}

	nations := []core.Nation{
		{ID: "nation-1", Name: "Pacifica", HomeLon: -122.3, HomeLat: 47.6, IsHuman: true},
		{ID: "nation-2", Name: "Borealis", HomeLon: 37.6, HomeLat: 55.7},
	}

	engine := core.NewEngine(cfg.Engine,
		core.WithNationResolver(core.DirectoryResolver(nations)),
		core.WithLogger(log),
		core.WithMetrics(collector),
	)
	engine.SeedHomeStations(nations)

	srv := &server{engine: engine, log: log}

	// Tick loop: real-time stepping at the configured interval.
	tc := timectrl.NewTimeController(engine.Now(), cfg.Run.Tick, timectrl.RealTime)
	tc.AddListener(func(_ time.Time, delta time.Duration) {
		srv.mu.Lock()
		engine.Tick(float64(delta) / float64(time.Millisecond))
		srv.mu.Unlock()
	})
	tc.Start(0)

	mux := srv.routes()
	mux.Handle("GET /metrics", collector.Handler())

	log.Info(ctx, "satsim server listening",
		logging.String("addr", addr),
		logging.Any("tick", cfg.Run.Tick.String()))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error(ctx, "server stopped", logging.String("error", err.Error()))
	}
}

// routes builds the API surface. The /metrics endpoint is attached by
// main so handler tests do not need a Prometheus registry.
func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/nations/{id}/status", s.handleNationStatus)
	mux.HandleFunc("GET /api/stations/{id}/visible", s.handleVisible)
	mux.HandleFunc("POST /api/satellites", s.handleDeploySatellite)
	mux.HandleFunc("POST /api/stations", s.handleBuildStation)
	mux.HandleFunc("POST /api/interference", s.handleAddInterference)
	mux.HandleFunc("POST /api/transmissions", s.handleTransmit)
	return mux
}

// handleSnapshot serves the full read-only state snapshot consumed by
// renderers. The snapshot is a deep copy taken at tick granularity.
func (s *server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.engine.Snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

func (s *server) handleNationStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.engine.NationSignalStatus(r.PathValue("id"))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, status)
}

func (s *server) handleVisible(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sats := s.engine.VisibleSatellites(r.PathValue("id"))
	out := make([]core.Satellite, 0, len(sats))
	for _, sat := range sats {
		out = append(out, *sat)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

type deploySatelliteRequest struct {
	OwnerID string             `json:"OwnerID"`
	Type    core.SatelliteType `json:"Type"`
	Name    string             `json:"Name"`
}

func (s *server) handleDeploySatellite(w http.ResponseWriter, r *http.Request) {
	var req deploySatelliteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	sat := s.engine.DeploySatellite(req.OwnerID, req.Type, req.Name)
	s.mu.Unlock()

	if sat == nil {
		http.Error(w, "unknown owner", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusCreated, sat)
}

type buildStationRequest struct {
	OwnerID string  `json:"OwnerID"`
	LonDeg  float64 `json:"LonDeg"`
	LatDeg  float64 `json:"LatDeg"`
	Name    string  `json:"Name"`
}

func (s *server) handleBuildStation(w http.ResponseWriter, r *http.Request) {
	var req buildStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	gs := s.engine.BuildGroundStation(req.OwnerID, req.LonDeg, req.LatDeg, req.Name)
	s.mu.Unlock()

	if gs == nil {
		http.Error(w, "unknown owner", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusCreated, gs)
}

type addInterferenceRequest struct {
	Type      core.InterferenceType `json:"Type"`
	LonDeg    float64               `json:"LonDeg"`
	LatDeg    float64               `json:"LatDeg"`
	Intensity float64               `json:"Intensity"`
}

func (s *server) handleAddInterference(w http.ResponseWriter, r *http.Request) {
	var req addInterferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	zone := s.engine.AddInterference(req.Type, req.LonDeg, req.LatDeg, req.Intensity)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, zone)
}

type transmitRequest struct {
	SatelliteID string `json:"SatelliteID"`
}

func (s *server) handleTransmit(w http.ResponseWriter, r *http.Request) {
	var req transmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// TransmitSignal is a deliberate no-op for missing or
	// non-operational satellites, so this always accepts.
	s.mu.Lock()
	s.engine.TransmitSignal(req.SatelliteID)
	s.mu.Unlock()
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
