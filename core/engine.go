package core

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/internal/observability"
	"github.com/signalsfoundry/impact-simulator/internal/population"
	"github.com/signalsfoundry/impact-simulator/model"
)

const tracerName = "github.com/signalsfoundry/impact-simulator/core"

// Overpressure thresholds (Pa) for the three displayed blast rings.
const (
	severeOverpressurePa   = 50000.0
	moderateOverpressurePa = 20000.0
	lightOverpressurePa    = 5000.0
)

// windReferenceRangeM is the ground range at which the headline wind speed
// is evaluated.
const windReferenceRangeM = 10000.0

// Engine is the surface API consumed by the UI and serving layers. The
// physics beneath it is pure; the engine adds input validation, casualty
// estimation with its cache, logging, metrics, and tracing.
type Engine struct {
	log       logging.Logger
	metrics   *observability.EngineCollector
	Estimator *CasualtyEstimator
}

// NewEngine wires an engine around a population raster source. metrics may
// be nil (e.g. in tests).
func NewEngine(source population.Source, log logging.Logger, metrics *observability.EngineCollector) *Engine {
	if log == nil {
		log = logging.Noop()
	}
	return &Engine{
		log:       log,
		metrics:   metrics,
		Estimator: NewCasualtyEstimator(source, log, metrics),
	}
}

// ValidateInputs enforces the scenario invariants the leaf physics assumes.
func ValidateInputs(in model.ImpactInputs) error {
	if in.DiameterM <= 0 {
		return fmt.Errorf("impact inputs: diameter must be positive, got %g", in.DiameterM)
	}
	if in.EntryAngleDeg <= 0 || in.EntryAngleDeg > 90 {
		return fmt.Errorf("impact inputs: entry angle must be in (0, 90], got %g", in.EntryAngleDeg)
	}
	if in.VelocityMps <= 0 {
		return fmt.Errorf("impact inputs: velocity must be positive, got %g", in.VelocityMps)
	}
	return nil
}

// ComputeImpactEffects derives the full set of physical consequences for
// one impact scenario. The result is a pure function of the inputs.
func (e *Engine) ComputeImpactEffects(ctx context.Context, in model.ImpactInputs) (model.ImpactResults, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "ComputeImpactEffects")
	defer span.End()

	if err := ValidateInputs(in); err != nil {
		span.RecordError(err)
		return model.ImpactResults{}, err
	}

	mass := in.MassKg
	if mass <= 0 {
		// Derive from a sphere of the given density.
		r := in.DiameterM / 2
		mass = in.DensityKgM3 * 4.0 / 3.0 * math.Pi * r * r * r
	}

	energyJ, energyMt := Energy(mass, in.VelocityMps)
	span.SetAttributes(attribute.Float64("energy_mt", energyMt))

	_, zStar, breaksUp := Breakup(in.DiameterM, in.DensityKgM3, in.VelocityMps, in.EntryAngleDeg)
	burstAltM := 0.0
	isAirburst := false
	if breaksUp {
		burstAltM = AirburstAltitude(in.DiameterM, in.DensityKgM3, in.EntryAngleDeg, zStar)
		isAirburst = burstAltM > 0
	}

	res := model.ImpactResults{
		EnergyJ:           energyJ,
		EnergyMt:          energyMt,
		RecurrenceYears:   RecurrenceYears(energyMt),
		BreakupAltitudeM:  zStar,
		AirburstAltitudeM: burstAltM,
		IsAirburst:        isAirburst,
		IonizationRadiusM: FireballRadius(energyJ),
		EarthEffect:       model.EarthNegligibleDisturbed,
	}

	if !isAirburst {
		vImpact := SurfaceVelocity(in.VelocityMps, in.DiameterM, in.DensityKgM3, in.EntryAngleDeg)
		dtc, dtcDepth := TransientCrater(in.DiameterM, in.DensityKgM3, vImpact, in.EntryAngleDeg, in.IsWaterTarget)
		dfr, dfrDepth := FinalCrater(dtc)
		volume, ratio, effect := CraterVolumeAndEffect(dtc)

		res.Crater = &model.CraterDimensions{
			TransientDiameterM: dtc,
			TransientDepthM:    dtcDepth,
			FinalDiameterM:     dfr,
			FinalDepthM:        dfrDepth,
			VolumeKm3:          volume,
		}
		res.EarthEffect = effect
		res.EarthVolumeRatio = ratio

		if in.IsWaterTarget {
			res.Tsunami = &model.TsunamiWave{
				RimAmplitudeM:     RimWaveAmplitude(dtc),
				AmplitudeAt50KmM:  WaveAmplitudeAt(dtc, 50e3),
				AmplitudeAt100KmM: WaveAmplitudeAt(dtc, 100e3),
			}
		}

		magnitude := SeismicMagnitude(energyJ)
		radiusM, severity := SeismicRadius(magnitude, DefaultSeismicThreshold)
		res.Seismic = &model.SeismicEffect{
			Magnitude: magnitude,
			RadiusM:   radiusM,
			Severity:  severity,
		}
	}

	res.Blast = model.BlastRadii{
		SevereM:   FindRadiusForOverpressure(severeOverpressurePa, energyMt, burstAltM, 0, 0),
		ModerateM: FindRadiusForOverpressure(moderateOverpressurePa, energyMt, burstAltM, 0, 0),
		LightM:    FindRadiusForOverpressure(lightOverpressurePa, energyMt, burstAltM, 0, 0),
	}
	clothing, third, second := BurnRadii(energyJ, energyMt)
	res.Burns = model.BurnRadii{
		ClothingIgnitionM: clothing,
		ThirdDegreeM:      third,
		SecondDegreeM:     second,
	}
	res.WindSpeedMps = WindSpeed(PeakOverpressure(windReferenceRangeM, energyMt, burstAltM))

	if e.metrics != nil {
		e.metrics.ImpactComputations.Inc()
	}
	return res, nil
}

// EstimateCasualties estimates deaths and injuries for an already-computed
// impact at the given coordinates. A newer call supersedes (cancels) any
// estimate still in flight.
func (e *Engine) EstimateCasualties(ctx context.Context, latDeg, lonDeg float64, res model.ImpactResults, in model.ImpactInputs) (model.CasualtyEstimate, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "EstimateCasualties")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("lat", latDeg),
		attribute.Float64("lon", lonDeg),
	)

	req := EstimateRequest{
		LatDeg:       latDeg,
		LonDeg:       lonDeg,
		Zones:        ZonesFromResults(res),
		EarthEffect:  res.EarthEffect,
		DiameterM:    in.DiameterM,
		IsAirburst:   res.IsAirburst,
		AirburstAltM: res.AirburstAltitudeM,
	}
	est, err := e.Estimator.EstimateLatest(ctx, req)
	if err != nil {
		span.RecordError(err)
		return model.CasualtyEstimate{}, err
	}
	return est, nil
}

// TrajectoryState reports the asteroid's orbital state after elapsedDays.
func (e *Engine) TrajectoryState(elements model.OrbitalElements, elapsedDays float64) model.TrajectoryState {
	return TrajectoryState(elements, elapsedDays)
}

// ImpactProbability evaluates the B-plane Gaussian capture integral.
func (e *Engine) ImpactProbability(b model.BPlaneState) float64 {
	return ImpactProbability(b)
}

// PlanDeflection evaluates one mitigation plan against an asteroid.
func (e *Engine) PlanDeflection(ctx context.Context, in model.ImpactInputs, plan model.MitigationPlan) model.DeflectionResult {
	_, span := otel.Tracer(tracerName).Start(ctx, "PlanDeflection")
	defer span.End()

	mass := in.MassKg
	if mass <= 0 {
		r := in.DiameterM / 2
		mass = in.DensityKgM3 * 4.0 / 3.0 * math.Pi * r * r * r
	}

	required := RequiredDeltaV(plan.LeadTimeYears, 0)
	delivered := DeliveredDeltaV(plan.Method, mass, plan.LeadTimeYears, plan.Params)
	difficulty := DeflectionDifficulty(mass, in.VelocityMps, plan.LeadTimeYears)
	success := SuccessProbability(plan.Method, difficulty, plan.LeadTimeYears, mass, delivered, required)

	if e.metrics != nil {
		e.metrics.DeflectionPlans.WithLabelValues(string(plan.Method)).Inc()
	}

	return model.DeflectionResult{
		RequiredDeltaVMps:  required,
		DeliveredDeltaVMps: delivered,
		SuccessProbability: success,
		Difficulty:         difficulty,
		RecommendedMethod:  RecommendMethod(difficulty, plan.LeadTimeYears, in.DiameterM),
	}
}

// ZonesFromResults folds the blast, burn, crater, and seismic radii into the
// four nested casualty zones, innermost first. Outer zones are forced to be
// at least as large as inner ones so ring areas never go negative.
func ZonesFromResults(res model.ImpactResults) CasualtyZones {
	lethal := res.Blast.SevereM
	if res.Crater != nil && res.Crater.FinalDiameterM/2 > lethal {
		lethal = res.Crater.FinalDiameterM / 2
	}

	severe := math.Max(res.Blast.ModerateM, res.Burns.ThirdDegreeM)
	if severe < lethal {
		severe = lethal
	}

	moderate := math.Max(res.Blast.LightM, res.Burns.SecondDegreeM)
	if moderate < severe {
		moderate = severe
	}

	light := moderate
	if res.Seismic != nil && res.Seismic.RadiusM > light {
		light = res.Seismic.RadiusM
	}

	return CasualtyZones{
		LethalRadiusM:   lethal,
		SevereRadiusM:   severe,
		ModerateRadiusM: moderate,
		LightRadiusM:    light,
	}
}
