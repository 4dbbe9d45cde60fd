package core

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/internal/observability"
	"github.com/signalsfoundry/impact-simulator/internal/population"
	"github.com/signalsfoundry/impact-simulator/model"
)

// CasualtyEstimator turns impact zones plus a population-density sample into
// death and injury counts. It is the only engine component with external
// I/O: density reads go to the population raster collaborator, results are
// cached by quantized coordinates with a TTL, and an in-flight estimate is
// cancelled when a newer one supersedes it.

const (
	defaultCacheTTL       = 5 * time.Minute
	defaultSampleWindow   = 5
	defaultSampleRadiusKm = 50.0

	// areaKneeKm2 is where linear population scaling gives way to the
	// diminishing-returns power law.
	areaKneeKm2 = 1.0e5
	areaKneeExp = 0.75

	// smallObjectDiameterM bounds the "small impactor" clamp: below this
	// size, deaths are capped by a local-density-dependent ceiling.
	smallObjectDiameterM  = 50.0
	smallObjectCapAreaKm2 = 50.0

	maxInjuryRatio = 3.0
	minInjuryRatio = 0.1
)

// Zone mortality/injury fractions, from the innermost (crater/50 kPa) zone
// outward.
var zoneFractions = []struct {
	mortality float64
	injury    float64
}{
	{1.00, 0.00}, // lethal: crater and severe blast
	{0.35, 0.45}, // severe: building collapse, third-degree burns
	{0.07, 0.35}, // moderate: residential damage
	{0.00, 0.10}, // light: glass breakage, minor trauma
}

// CasualtyZones are the concentric effect radii the estimator scales
// population over, innermost first. Zero radii are allowed.
type CasualtyZones struct {
	LethalRadiusM   float64
	SevereRadiusM   float64
	ModerateRadiusM float64
	LightRadiusM    float64
}

// EstimateRequest carries everything one casualty estimate needs.
type EstimateRequest struct {
	LatDeg, LonDeg float64
	Zones          CasualtyZones
	EarthEffect    model.EarthEffect
	DiameterM      float64
	IsAirburst     bool
	AirburstAltM   float64
}

type densityKey struct {
	latCenti, lonCenti int
	radiusKm           int
}

type densityEntry struct {
	density  float64
	storedAt time.Time
}

// CasualtyEstimator owns the density cache. Construct with
// NewCasualtyEstimator; the zero value is not usable.
type CasualtyEstimator struct {
	log     logging.Logger
	metrics *observability.EngineCollector
	source  population.Source

	// now is swappable for TTL tests.
	now func() time.Time

	CacheTTL       time.Duration
	SampleWindow   int
	SampleRadiusKm float64

	mu         sync.Mutex
	cache      map[densityKey]densityEntry
	cancelPrev context.CancelFunc
	generation uint64
}

// NewCasualtyEstimator constructs an estimator around a raster source.
func NewCasualtyEstimator(source population.Source, log logging.Logger, metrics *observability.EngineCollector) *CasualtyEstimator {
	if log == nil {
		log = logging.Noop()
	}
	return &CasualtyEstimator{
		log:            log,
		metrics:        metrics,
		source:         source,
		now:            time.Now,
		CacheTTL:       defaultCacheTTL,
		SampleWindow:   defaultSampleWindow,
		SampleRadiusKm: defaultSampleRadiusKm,
		cache:          make(map[densityKey]densityEntry),
	}
}

// Clear drops all cached densities and detaches any in-flight request.
// Call on session teardown.
func (e *CasualtyEstimator) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[densityKey]densityEntry)
	if e.cancelPrev != nil {
		e.cancelPrev()
		e.cancelPrev = nil
	}
}

// EstimateLatest runs Estimate after cancelling any previous in-flight
// estimate. Use this from interactive callers where only the newest impact
// point matters.
func (e *CasualtyEstimator) EstimateLatest(ctx context.Context, req EstimateRequest) (model.CasualtyEstimate, error) {
	ctx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	if e.cancelPrev != nil {
		e.cancelPrev()
	}
	e.cancelPrev = cancel
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	est, err := e.Estimate(ctx, req)

	// Only clear our own registration; a newer request may already have
	// replaced it.
	e.mu.Lock()
	if e.generation == gen {
		e.cancelPrev = nil
	}
	e.mu.Unlock()
	cancel()

	return est, err
}

// Estimate computes casualties for one impact. Cancellation via ctx is a
// control-flow signal: the estimate exits cleanly with ctx.Err() and never
// commits partial results to the cache.
func (e *CasualtyEstimator) Estimate(ctx context.Context, req EstimateRequest) (model.CasualtyEstimate, error) {
	// Civilization-ending cases never need a raster read.
	if req.EarthEffect == model.EarthDestroyed || req.EarthEffect == model.EarthStronglyDisturbed {
		return model.CasualtyEstimate{Deaths: GlobalPopulation, Injuries: 0}, nil
	}

	start := e.now()
	defer func() {
		if e.metrics != nil {
			e.metrics.EstimateDuration.Observe(e.now().Sub(start).Seconds())
		}
	}()

	ctx, reqID := logging.EnsureRequestID(ctx)

	density, err := e.localDensity(ctx, req.LatDeg, req.LonDeg)
	if err != nil {
		if ctx.Err() != nil {
			if e.metrics != nil {
				e.metrics.CasualtyCancelled.Inc()
			}
			return model.CasualtyEstimate{}, ctx.Err()
		}
		// Raster unavailable: degrade to the global mean rather than fail.
		if e.metrics != nil {
			e.metrics.RasterFallbacks.Inc()
		}
		e.log.Warn(ctx, "population raster unavailable, using default density",
			logging.String("request_id", reqID),
			logging.String("error", err.Error()))
		density = GlobalMeanDensityPerKm2
	}

	est := e.scale(req, density)
	return est, nil
}

// localDensity returns the neighborhood-maximum population density around
// the impact point, consulting the TTL cache first.
func (e *CasualtyEstimator) localDensity(ctx context.Context, latDeg, lonDeg float64) (float64, error) {
	key := quantizeKey(latDeg, lonDeg, e.SampleRadiusKm)

	e.mu.Lock()
	entry, ok := e.cache[key]
	e.mu.Unlock()
	if ok && e.now().Sub(entry.storedAt) < e.CacheTTL {
		if e.metrics != nil {
			e.metrics.CasualtyCacheHits.Inc()
		}
		return entry.density, nil
	}
	if e.metrics != nil {
		e.metrics.CasualtyCacheMisses.Inc()
	}

	samples, err := e.source.Sample(ctx, latDeg, lonDeg, e.SampleRadiusKm, e.SampleWindow)
	if err != nil {
		return 0, err
	}

	// Neighborhood maximum: sparse rasters under-sample cities badly when
	// a single point lands on water or farmland.
	density := 0.0
	for _, d := range samples {
		if d > density {
			density = d
		}
	}

	// A cancelled request must not overwrite the cache: a newer request
	// for a different point may already be in flight.
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	e.mu.Lock()
	e.cache[key] = densityEntry{density: density, storedAt: e.now()}
	e.mu.Unlock()

	return density, nil
}

// scale converts zone areas and density into death/injury counts.
func (e *CasualtyEstimator) scale(req EstimateRequest, localDensity float64) model.CasualtyEstimate {
	radii := []float64{
		req.Zones.LethalRadiusM,
		req.Zones.SevereRadiusM,
		req.Zones.ModerateRadiusM,
		req.Zones.LightRadiusM,
	}

	var deaths, injuries float64
	innerKm2 := 0.0
	for i, rM := range radii {
		outerKm2 := math.Pi * (rM / 1000) * (rM / 1000)
		if outerKm2 < innerKm2 {
			outerKm2 = innerKm2
		}
		ringKm2 := outerKm2 - innerKm2
		innerKm2 = outerKm2

		pop := effectivePopulation(ringKm2, localDensity)
		deaths += pop * zoneFractions[i].mortality
		injuries += pop * zoneFractions[i].injury
	}

	// Small objects cannot depopulate a region no matter what the zone
	// arithmetic says.
	if req.DiameterM > 0 && req.DiameterM < smallObjectDiameterM {
		ceiling := localDensity * smallObjectCapAreaKm2
		if deaths > ceiling {
			deaths = ceiling
		}
		if injuries > ceiling*maxInjuryRatio {
			injuries = ceiling * maxInjuryRatio
		}
	}

	if deaths > GlobalPopulation {
		deaths = GlobalPopulation
	}

	if injuries > deaths*maxInjuryRatio {
		injuries = deaths * maxInjuryRatio
	}
	if deaths < 0.9*GlobalPopulation && injuries < deaths*minInjuryRatio {
		injuries = deaths * minInjuryRatio
	}
	if deaths+injuries > GlobalPopulation {
		injuries = GlobalPopulation - deaths
	}

	return model.CasualtyEstimate{Deaths: deaths, Injuries: injuries}
}

// effectivePopulation scales population linearly in area up to the knee,
// then follows a diminishing-returns power law while blending the local
// density toward the global mean. Planet-spanning zones would otherwise
// extrapolate one city's density across an ocean.
func effectivePopulation(areaKm2, localDensity float64) float64 {
	if areaKm2 <= 0 {
		return 0
	}
	if areaKm2 <= areaKneeKm2 {
		return localDensity * areaKm2
	}

	excess := areaKm2 - areaKneeKm2
	effectiveArea := areaKneeKm2 + math.Pow(excess, areaKneeExp)*math.Pow(areaKneeKm2, 1-areaKneeExp)

	weight := areaKneeKm2 / areaKm2
	blended := weight*localDensity + (1-weight)*GlobalMeanDensityPerKm2

	return blended * effectiveArea
}

func quantizeKey(latDeg, lonDeg, radiusKm float64) densityKey {
	return densityKey{
		latCenti: int(math.Round(latDeg * 100)),
		lonCenti: int(math.Round(lonDeg * 100)),
		radiusKm: int(math.Round(radiusKm)),
	}
}
