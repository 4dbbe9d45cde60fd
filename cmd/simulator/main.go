package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/signalsfoundry/impact-simulator/core"
	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/internal/population"
	"github.com/signalsfoundry/impact-simulator/kb"
	"github.com/signalsfoundry/impact-simulator/timectrl"
)

func main() {
	duration := flag.Duration("duration", 30*time.Second, "total wall-clock run duration")
	tick := flag.Duration("tick", 1*time.Second, "tick interval")
	timeScale := flag.Float64("time-scale", 86400*30, "simulated seconds per wall second (default: one month per second)")
	scenarioPath := flag.String("scenarios", "configs/asteroids.json", "path to a JSON scenario file")
	densityDefault := flag.Float64("density", 60, "offline population density (people/km^2)")

	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	// ==== Scenario load ====

	store := kb.NewKnowledgeBase()
	f, err := os.Open(*scenarioPath)
	if err != nil {
		panic(fmt.Errorf("failed to open scenario file %q: %w", *scenarioPath, err))
	}
	defer f.Close()

	summary, err := core.LoadScenarios(store, f)
	if err != nil {
		panic(fmt.Errorf("failed to load scenarios: %w", err))
	}
	fmt.Printf("Loaded %d asteroid scenarios\n", len(summary.ScenarioIDs))

	// Offline runs use a static raster; the server wires the HTTP source.
	engine := core.NewEngine(population.NewStaticSource(*densityDefault), log, nil)

	// ==== One-shot impact effects per scenario ====

	for _, sc := range store.ListScenarios() {
		res, err := engine.ComputeImpactEffects(ctx, sc.Impact)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: scenario %q: %v\n", sc.ID, err)
			continue
		}
		fmt.Printf("%s: E=%.2f Mt, airburst=%v", sc.ID, res.EnergyMt, res.IsAirburst)
		if res.Crater != nil {
			fmt.Printf(", crater=%.0f m", res.Crater.FinalDiameterM)
		}
		if res.Seismic != nil {
			fmt.Printf(", M=%.1f", res.Seismic.Magnitude)
		}
		fmt.Printf(", blast(5kPa)=%.0f m, effect=%s\n", res.Blast.LightM, res.EarthEffect)

		if sc.Impact.HasLocation {
			est, err := engine.EstimateCasualties(ctx, sc.Impact.LatitudeDeg, sc.Impact.LongitudeDeg, res, sc.Impact)
			if err == nil {
				fmt.Printf("↳ casualties: %.0f deaths, %.0f injuries\n", est.Deaths, est.Injuries)
			}
		}
		if sc.Mitigation != nil {
			dr := engine.PlanDeflection(ctx, sc.Impact, *sc.Mitigation)
			fmt.Printf("↳ deflection %s: Δv %.3e/%.3e m/s, p=%.2f, difficulty=%s, recommend=%s\n",
				sc.Mitigation.Method, dr.DeliveredDeltaVMps, dr.RequiredDeltaVMps,
				dr.SuccessProbability, dr.Difficulty, dr.RecommendedMethod)
		}
	}

	// ==== Mission clock: stream trajectory states ====

	start := time.Now().UTC()
	tc := timectrl.NewTimeController(start, *tick, *timeScale)

	tc.AddListener(func(simTime time.Time) {
		elapsedDays := tc.ElapsedDays()
		for _, sc := range store.ListScenarios() {
			state := engine.TrajectoryState(sc.Elements, elapsedDays)
			if err := store.UpdateTrajectory(sc.ID, state); err != nil {
				fmt.Printf("update trajectory error: %v\n", err)
				continue
			}
			fmt.Printf("[%s] %s: r=%.3f AU, v=%.0f m/s, ν=%.1f°, T-%.0f days, p(impact)=%.3f\n",
				simTime.Format(time.RFC3339), sc.ID,
				state.DistanceAU, state.VelocityMps, state.TrueAnomalyDeg,
				state.TimeToEncounterDays, engine.ImpactProbability(sc.BPlane))
		}
	})

	fmt.Printf("Starting mission clock: duration=%s, tick=%s, scale=%.0fx\n", *duration, *tick, *timeScale)
	done, _ := tc.Start(*duration)
	<-done
	fmt.Println("Simulation complete.")
}
