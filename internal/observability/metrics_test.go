package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestNewEngineCollector_CountersStartAtZero(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}

	if got := testutil.ToFloat64(collector.ImpactComputations); got != 0 {
		t.Errorf("impact_computations_total = %v, want 0", got)
	}
	if got := testutil.ToFloat64(collector.CasualtyCacheHits); got != 0 {
		t.Errorf("casualty_cache_hits_total = %v, want 0", got)
	}
}

func TestEngineCollector_CountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}

	collector.ImpactComputations.Inc()
	collector.DeflectionPlans.WithLabelValues("kinetic").Inc()
	collector.DeflectionPlans.WithLabelValues("kinetic").Inc()
	collector.DeflectionPlans.WithLabelValues("nuclear").Inc()
	collector.RasterFallbacks.Inc()

	if got := testutil.ToFloat64(collector.ImpactComputations); got != 1 {
		t.Errorf("impact_computations_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.DeflectionPlans.WithLabelValues("kinetic")); got != 2 {
		t.Errorf("deflection_plans_total{method=kinetic} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.DeflectionPlans.WithLabelValues("nuclear")); got != 1 {
		t.Errorf("deflection_plans_total{method=nuclear} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.RasterFallbacks); got != 1 {
		t.Errorf("population_raster_fallbacks_total = %v, want 1", got)
	}
}

func TestEngineCollector_HistogramRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}

	collector.EstimateDuration.Observe(0.02)
	collector.EstimateDuration.Observe(0.2)

	if count := histogramSampleCount(t, reg, "casualty_estimate_duration_seconds"); count != 2 {
		t.Errorf("histogram sample_count = %d, want 2", count)
	}
}

func TestEngineCollector_DoubleRegistrationTolerated(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("first NewEngineCollector: %v", err)
	}
	second, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("second NewEngineCollector must reuse existing collectors: %v", err)
	}

	first.ImpactComputations.Inc()
	if got := testutil.ToFloat64(second.ImpactComputations); got != 1 {
		t.Errorf("collectors must share the registered counter, got %v", got)
	}
}

func TestEngineCollector_HandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}
	collector.ImpactComputations.Inc()
	collector.TrackedScenarios.Set(3)
	collector.ConnectedClients.Set(2)
	collector.EstimateDuration.Observe(0.05)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"impact_computations_total",
		"casualty_estimate_duration_seconds",
		"tracked_scenarios",
		"connected_clients",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			var hist *dto.Histogram
			if hist = m.GetHistogram(); hist != nil {
				return hist.GetSampleCount()
			}
		}
	}
	return 0
}
