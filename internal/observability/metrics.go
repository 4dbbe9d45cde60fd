package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EngineCollector bundles Prometheus metrics for the impact engine and its
// serving surface.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	ImpactComputations prometheus.Counter
	DeflectionPlans    *prometheus.CounterVec

	CasualtyCacheHits   prometheus.Counter
	CasualtyCacheMisses prometheus.Counter
	CasualtyCancelled   prometheus.Counter
	RasterFallbacks     prometheus.Counter
	EstimateDuration    prometheus.Histogram

	TrackedScenarios prometheus.Gauge
	ConnectedClients prometheus.Gauge
}

// NewEngineCollector registers engine Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	impacts, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "impact_computations_total",
		Help: "Total number of impact-effects computations.",
	}), "impact_computations_total")
	if err != nil {
		return nil, err
	}

	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deflection_plans_total",
		Help: "Total number of deflection plans evaluated, labeled by method.",
	}, []string{"method"})
	plans, err = registerCounterVec(reg, plans, "deflection_plans_total")
	if err != nil {
		return nil, err
	}

	cacheHits, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "casualty_cache_hits_total",
		Help: "Casualty estimates served from the TTL cache.",
	}), "casualty_cache_hits_total")
	if err != nil {
		return nil, err
	}
	cacheMisses, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "casualty_cache_misses_total",
		Help: "Casualty estimates that required a raster read.",
	}), "casualty_cache_misses_total")
	if err != nil {
		return nil, err
	}
	cancelled, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "casualty_estimates_cancelled_total",
		Help: "Casualty estimates abandoned because a newer request superseded them.",
	}), "casualty_estimates_cancelled_total")
	if err != nil {
		return nil, err
	}
	fallbacks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "population_raster_fallbacks_total",
		Help: "Raster reads that exhausted retries and fell back to the default density.",
	}), "population_raster_fallbacks_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "casualty_estimate_duration_seconds",
		Help:    "Casualty estimate latency in seconds, including raster reads.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})
	duration, err = registerHistogram(reg, duration, "casualty_estimate_duration_seconds")
	if err != nil {
		return nil, err
	}

	scenarios, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tracked_scenarios",
		Help: "Current number of asteroid scenarios in the knowledge base.",
	}), "tracked_scenarios")
	if err != nil {
		return nil, err
	}
	clients, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "connected_clients",
		Help: "Current number of connected WebSocket clients.",
	}), "connected_clients")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:            gatherer,
		ImpactComputations:  impacts,
		DeflectionPlans:     plans,
		CasualtyCacheHits:   cacheHits,
		CasualtyCacheMisses: cacheMisses,
		CasualtyCancelled:   cancelled,
		RasterFallbacks:     fallbacks,
		EstimateDuration:    duration,
		TrackedScenarios:    scenarios,
		ConnectedClients:    clients,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
