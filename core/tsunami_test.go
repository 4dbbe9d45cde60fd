package core

import (
	"context"
	"testing"

	"github.com/signalsfoundry/impact-simulator/internal/population"
	"github.com/signalsfoundry/impact-simulator/model"
)

func TestRimWaveAmplitude_FractionOfCavity(t *testing.T) {
	if got := RimWaveAmplitude(1410); got != 100 {
		t.Errorf("expected 100 m rim wave for a 1410 m cavity, got %g", got)
	}
	if got := RimWaveAmplitude(0); got != 0 {
		t.Errorf("no cavity, no wave: got %g", got)
	}
}

func TestWaveAmplitudeAt_DecaysWithDistance(t *testing.T) {
	const dtc = 2000.0
	rim := RimWaveAmplitude(dtc)
	if got := WaveAmplitudeAt(dtc, 500); got != rim {
		t.Errorf("inside the cavity the rim amplitude applies: got %g, want %g", got, rim)
	}
	prev := rim
	for _, d := range []float64{2e3, 10e3, 50e3, 200e3} {
		a := WaveAmplitudeAt(dtc, d)
		if a <= 0 || a >= prev {
			t.Fatalf("amplitude must fall with distance: %g m gave %g, previous %g", d, a, prev)
		}
		prev = a
	}
}

func TestComputeImpactEffects_WaterImpactReportsTsunami(t *testing.T) {
	engine := NewEngine(population.NewStaticSource(60), nil, nil)
	in := model.ImpactInputs{
		DiameterM:     226,
		DensityKgM3:   2600,
		VelocityMps:   17000,
		EntryAngleDeg: 45,
		IsWaterTarget: true,
	}

	res, err := engine.ComputeImpactEffects(context.Background(), in)
	if err != nil {
		t.Fatalf("ComputeImpactEffects: %v", err)
	}
	if res.IsAirburst {
		t.Fatal("226 m of rock reaches the water")
	}
	if res.Tsunami == nil {
		t.Fatal("ocean impact must report a wave")
	}
	if res.Tsunami.RimAmplitudeM <= 0 {
		t.Errorf("rim amplitude must be positive, got %g", res.Tsunami.RimAmplitudeM)
	}
	if res.Tsunami.AmplitudeAt100KmM >= res.Tsunami.AmplitudeAt50KmM {
		t.Errorf("wave must attenuate with distance: %g at 100 km >= %g at 50 km",
			res.Tsunami.AmplitudeAt100KmM, res.Tsunami.AmplitudeAt50KmM)
	}

	in.IsWaterTarget = false
	land, err := engine.ComputeImpactEffects(context.Background(), in)
	if err != nil {
		t.Fatalf("ComputeImpactEffects: %v", err)
	}
	if land.Tsunami != nil {
		t.Errorf("land impact must not report a wave: %+v", land.Tsunami)
	}
}
