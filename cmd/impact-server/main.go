package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/signalsfoundry/impact-simulator/core"
	"github.com/signalsfoundry/impact-simulator/internal/api"
	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/internal/observability"
	"github.com/signalsfoundry/impact-simulator/internal/population"
	"github.com/signalsfoundry/impact-simulator/kb"
	"github.com/signalsfoundry/impact-simulator/timectrl"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP address for the WebSocket API and /metrics")
	scenarioPath := flag.String("scenarios", "configs/asteroids.json", "path to a JSON scenario file")
	rasterURL := flag.String("raster-url", "", "population raster service URL (empty: offline static raster)")
	tick := flag.Duration("tick", 1*time.Second, "mission clock tick interval")
	timeScale := flag.Float64("time-scale", 86400*7, "simulated seconds per wall second")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}

	collector, err := observability.NewEngineCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}

	var source population.Source
	if *rasterURL != "" {
		source = population.NewHTTPSource(*rasterURL, log)
	} else {
		source = population.NewStaticSource(core.GlobalMeanDensityPerKm2)
	}

	store := kb.NewKnowledgeBase()
	loadScenarios(log, store, *scenarioPath)
	collector.TrackedScenarios.Set(float64(store.Len()))

	engine := core.NewEngine(source, log, collector)
	server := api.NewServer(engine, store, log, collector)

	// Mission clock drives trajectory updates into the KB; the API layer
	// broadcasts them from its subscription.
	tc := timectrl.NewTimeController(time.Now().UTC(), *tick, *timeScale)
	tc.AddListener(func(time.Time) {
		elapsedDays := tc.ElapsedDays()
		for _, sc := range store.ListScenarios() {
			state := engine.TrajectoryState(sc.Elements, elapsedDays)
			if err := store.UpdateTrajectory(sc.ID, state); err != nil {
				log.Warn(ctx, "trajectory update failed",
					logging.String("scenario", sc.ID),
					logging.String("error", err.Error()))
			}
		}
	})
	server.AttachClock(tc)
	_, stopClock := tc.Start(0)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.HandleWS)
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		log.Info(ctx, "starting impact server", logging.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "server exited", logging.String("error", err.Error()))
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down impact server")
	stopClock()
	engine.Estimator.Clear()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)
}

func loadScenarios(log logging.Logger, store *kb.KnowledgeBase, path string) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		log.Warn(context.Background(), "skipping scenario load",
			logging.String("path", path), logging.String("error", err.Error()))
		return
	}
	defer f.Close()

	summary, err := core.LoadScenarios(store, f)
	if err != nil {
		log.Warn(context.Background(), "scenario load failed",
			logging.String("path", path), logging.String("error", err.Error()))
		return
	}
	log.Info(context.Background(), "scenarios loaded", logging.Int("count", len(summary.ScenarioIDs)))
}
