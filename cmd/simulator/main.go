package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/signalsfoundry/satcom-simulator/core"
	"github.com/signalsfoundry/satcom-simulator/internal/config"
	"github.com/signalsfoundry/satcom-simulator/internal/logging"
	"github.com/signalsfoundry/satcom-simulator/internal/observability"
	"github.com/signalsfoundry/satcom-simulator/timectrl"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	tick := flag.Duration("tick", 1*time.Second, "tick interval")
	duration := flag.Duration("duration", 60*time.Second, "total simulation duration (0 = forever)")
	accelerated := flag.Bool("accelerated", true, "run in accelerated mode (vs real-time)")
	metricsAddr := flag.String("metrics-addr", ":9100", "address for the Prometheus /metrics endpoint (empty = disabled)")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
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
		*tick = cfg.Run.Tick
		*duration = cfg.Run.Duration
		*accelerated = cfg.Run.Accelerated
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
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
	}

	// Demo session: two factions, home stations for the human one,
	// and a small mixed constellation.
	nations := []core.Nation{
		{ID: "nation-1", Name: "Pacifica", HomeLon: -122.3, HomeLat: 47.6, IsHuman: true},
		{ID: "nation-2", Name: "Borealis", HomeLon: 37.6, HomeLat: 55.7},
	}

	opts := []core.Option{
		core.WithNationResolver(core.DirectoryResolver(nations)),
		core.WithLogger(log),
		core.WithMetrics(collector),
	}
	if *seed != 0 {
		opts = append(opts, core.WithRand(rand.New(rand.NewSource(*seed))))
	}
	engine := core.NewEngine(cfg.Engine, opts...)

	engine.SeedHomeStations(nations)
	engine.DeploySatellite("nation-1", core.SatelliteCommunication, "")
	engine.DeploySatellite("nation-1", core.SatelliteReconnaissance, "")
	engine.DeploySatellite("nation-1", core.SatelliteNavigation, "")
	engine.DeploySatellite("nation-2", core.SatelliteCommunication, "")
	engine.AddInterference(core.InterferenceAtmospheric, -120, 45, 0.6)

	mode := timectrl.RealTime
	if *accelerated {
		mode = timectrl.Accelerated
	}
	tc := timectrl.NewTimeController(engine.Now(), *tick, mode)

	tracer := otel.Tracer("satcom-simulator")
	tc.AddListener(func(simTime time.Time, delta time.Duration) {
		_, span := tracer.Start(ctx, "engine.tick")
		engine.Tick(float64(delta) / float64(time.Millisecond))
		snap := engine.Snapshot()
		span.SetAttributes(
			attribute.Int("satellites", len(snap.Satellites)),
			attribute.Int("transmissions", len(snap.Transmissions)),
		)
		span.End()

		printTickSummary(simTime, snap)
	})

	log.Info(ctx, "starting simulation",
		logging.Any("tick", tick.String()),
		logging.Any("duration", duration.String()),
		logging.Any("mode", mode))
	<-tc.Start(*duration)

	for _, n := range nations {
		status := engine.NationSignalStatus(n.ID)
		log.Info(ctx, "final signal status",
			logging.String("nation", n.Name),
			logging.Int("satellites", status.Satellites),
			logging.Int("ground_stations", status.GroundStations),
			logging.Int("active_signals", status.ActiveSignals),
			logging.Float64("average_quality", status.AverageQuality))
	}
	log.Info(ctx, "simulation complete")
}

func printTickSummary(simTime time.Time, snap core.Snapshot) {
	fmt.Printf("[%s] satellites=%d stations=%d transmissions=%d interference=%d\n",
		simTime.Format(time.RFC3339),
		len(snap.Satellites), len(snap.GroundStations),
		len(snap.Transmissions), len(snap.Interference))
	for _, gs := range snap.GroundStations {
		for _, sig := range gs.ReceivedSignals {
			fmt.Printf("↳ %-8s ← %-8s quality=%5.1f power=%7.1f dBm elev=%5.1f° rate=%6.1f Mbps active=%v\n",
				gs.ID, sig.SatelliteID, sig.Quality, sig.SignalStrengthDBm,
				sig.ElevationDeg, sig.DataRateMbps, sig.Active)
		}
	}
}
