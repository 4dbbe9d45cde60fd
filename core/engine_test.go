package core

import (
	"context"
	"math"
	"testing"

	"github.com/signalsfoundry/impact-simulator/internal/population"
	"github.com/signalsfoundry/impact-simulator/model"
)

func testEngine() *Engine {
	return NewEngine(population.NewStaticSource(60), nil, nil)
}

func TestValidateInputs_RejectsBadScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   model.ImpactInputs
	}{
		{"zero diameter", model.ImpactInputs{DiameterM: 0, EntryAngleDeg: 45, VelocityMps: 17000}},
		{"zero angle", model.ImpactInputs{DiameterM: 100, EntryAngleDeg: 0, VelocityMps: 17000}},
		{"angle over 90", model.ImpactInputs{DiameterM: 100, EntryAngleDeg: 91, VelocityMps: 17000}},
		{"zero velocity", model.ImpactInputs{DiameterM: 100, EntryAngleDeg: 45, VelocityMps: 0}},
	}
	for _, tc := range cases {
		if err := ValidateInputs(tc.in); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
	ok := model.ImpactInputs{DiameterM: 100, DensityKgM3: 2600, EntryAngleDeg: 45, VelocityMps: 17000}
	if err := ValidateInputs(ok); err != nil {
		t.Errorf("valid inputs rejected: %v", err)
	}
}

func TestComputeImpactEffects_EnergyAccounting(t *testing.T) {
	e := testEngine()
	in := model.ImpactInputs{
		MassKg:        2.6e10,
		DiameterM:     226,
		DensityKgM3:   2600,
		VelocityMps:   17000,
		EntryAngleDeg: 45,
	}
	res, err := e.ComputeImpactEffects(context.Background(), in)
	if err != nil {
		t.Fatalf("ComputeImpactEffects: %v", err)
	}
	wantJ := 0.5 * 2.6e10 * 17000 * 17000
	if res.EnergyJ != wantJ {
		t.Errorf("EnergyJ = %g, want %g", res.EnergyJ, wantJ)
	}
	if res.EnergyMt != wantJ/JoulesPerMegaton {
		t.Errorf("EnergyMt = %g, want %g", res.EnergyMt, wantJ/JoulesPerMegaton)
	}
	if res.RecurrenceYears <= 0 {
		t.Errorf("recurrence must be positive, got %g", res.RecurrenceYears)
	}
}

func TestComputeImpactEffects_MassDerivedFromDiameter(t *testing.T) {
	e := testEngine()
	in := model.ImpactInputs{
		DiameterM:     100,
		DensityKgM3:   3000,
		VelocityMps:   17000,
		EntryAngleDeg: 45,
	}
	res, err := e.ComputeImpactEffects(context.Background(), in)
	if err != nil {
		t.Fatalf("ComputeImpactEffects: %v", err)
	}
	wantMass := 3000.0 * 4.0 / 3.0 * math.Pi * 50 * 50 * 50
	wantJ := 0.5 * wantMass * 17000 * 17000
	if math.Abs(res.EnergyJ-wantJ)/wantJ > 1e-12 {
		t.Errorf("EnergyJ = %g, want sphere-derived %g", res.EnergyJ, wantJ)
	}
}

func TestComputeImpactEffects_AirburstHasNoCrater(t *testing.T) {
	e := testEngine()
	in := model.ImpactInputs{
		DiameterM:     19,
		DensityKgM3:   3300,
		VelocityMps:   19000,
		EntryAngleDeg: 18,
	}
	res, err := e.ComputeImpactEffects(context.Background(), in)
	if err != nil {
		t.Fatalf("ComputeImpactEffects: %v", err)
	}
	if !res.IsAirburst {
		t.Fatal("a Chelyabinsk-class bolide must airburst")
	}
	if res.Crater != nil {
		t.Errorf("airburst must not report a crater")
	}
	if res.Seismic != nil {
		t.Errorf("airburst must not report ground shaking")
	}
	if res.AirburstAltitudeM <= 0 || res.AirburstAltitudeM >= res.BreakupAltitudeM {
		t.Errorf("burst altitude %g must sit below breakup altitude %g",
			res.AirburstAltitudeM, res.BreakupAltitudeM)
	}
	if res.Blast.LightM <= 0 {
		t.Errorf("airbursts still produce blast damage on the ground")
	}
}

func TestComputeImpactEffects_SurfaceImpact(t *testing.T) {
	e := testEngine()
	in := model.ImpactInputs{
		DiameterM:     1100,
		DensityKgM3:   2200,
		VelocityMps:   21000,
		EntryAngleDeg: 60,
		IsWaterTarget: true,
	}
	res, err := e.ComputeImpactEffects(context.Background(), in)
	if err != nil {
		t.Fatalf("ComputeImpactEffects: %v", err)
	}
	if res.IsAirburst {
		t.Fatal("a kilometre-class impactor reaches the surface")
	}
	if res.Crater == nil || res.Crater.FinalDiameterM <= 0 {
		t.Fatal("surface impact must report a crater")
	}
	if res.Seismic == nil || res.Seismic.Magnitude <= 0 {
		t.Fatal("surface impact must report ground shaking")
	}
	// Higher overpressure thresholds give smaller radii.
	if !(res.Blast.SevereM < res.Blast.ModerateM && res.Blast.ModerateM < res.Blast.LightM) {
		t.Errorf("blast rings out of order: %g, %g, %g",
			res.Blast.SevereM, res.Blast.ModerateM, res.Blast.LightM)
	}
	if res.WindSpeedMps <= 0 {
		t.Errorf("expected positive reference wind speed")
	}
	if res.EarthEffect != model.EarthNegligibleDisturbed {
		t.Errorf("a 1.1 km impactor does not disturb the planet, got %v", res.EarthEffect)
	}
}

func TestComputeImpactEffects_InvalidInputs(t *testing.T) {
	e := testEngine()
	_, err := e.ComputeImpactEffects(context.Background(), model.ImpactInputs{})
	if err == nil {
		t.Fatal("expected validation error for empty inputs")
	}
}

func TestZonesFromResults_Nesting(t *testing.T) {
	res := model.ImpactResults{
		Blast: model.BlastRadii{SevereM: 5000, ModerateM: 3000, LightM: 2000},
		Burns: model.BurnRadii{ThirdDegreeM: 1000, SecondDegreeM: 1500},
		Crater: &model.CraterDimensions{
			FinalDiameterM: 16000, // radius 8000 exceeds the severe blast ring
		},
		Seismic: &model.SeismicEffect{RadiusM: 100000},
	}
	z := ZonesFromResults(res)
	if z.LethalRadiusM != 8000 {
		t.Errorf("crater rim must widen the lethal zone, got %g", z.LethalRadiusM)
	}
	if !(z.LethalRadiusM <= z.SevereRadiusM && z.SevereRadiusM <= z.ModerateRadiusM && z.ModerateRadiusM <= z.LightRadiusM) {
		t.Errorf("zones must nest outward: %+v", z)
	}
	if z.LightRadiusM != 100000 {
		t.Errorf("seismic reach extends the light zone, got %g", z.LightRadiusM)
	}
}

func TestEstimateCasualties_EndToEnd(t *testing.T) {
	src := population.NewStaticSource(50)
	src.SetCell(40.71, -74.0, 11000)
	e := NewEngine(src, nil, nil)

	in := model.ImpactInputs{
		MassKg:        2.6e10,
		DiameterM:     226,
		DensityKgM3:   2600,
		VelocityMps:   17000,
		EntryAngleDeg: 45,
	}
	res, err := e.ComputeImpactEffects(context.Background(), in)
	if err != nil {
		t.Fatalf("ComputeImpactEffects: %v", err)
	}
	est, err := e.EstimateCasualties(context.Background(), 40.71, -74.0, res, in)
	if err != nil {
		t.Fatalf("EstimateCasualties: %v", err)
	}
	if est.Deaths <= 0 {
		t.Errorf("a 200 m impactor on a dense city must kill, got %g", est.Deaths)
	}
}

func TestPlanDeflection_ConsistentResult(t *testing.T) {
	e := testEngine()
	in := model.ImpactInputs{
		MassKg:        5.2e9,
		DiameterM:     160,
		DensityKgM3:   2600,
		VelocityMps:   17000,
		EntryAngleDeg: 45,
	}
	plan := model.MitigationPlan{
		Method:        model.MethodKinetic,
		LeadTimeYears: 10,
		Params:        model.MethodParams{ImpactorMassKg: 500, ImpactVelocityMps: 6600, MomentumBeta: 3.6},
	}
	dr := e.PlanDeflection(context.Background(), in, plan)

	if dr.RequiredDeltaVMps <= 0 || dr.DeliveredDeltaVMps <= 0 {
		t.Fatalf("delta-v fields must be positive: %+v", dr)
	}
	// DART-scale push against a Dimorphos-scale body clears the 10 year
	// requirement, so success should be comfortably above the midpoint.
	if dr.DeliveredDeltaVMps < dr.RequiredDeltaVMps {
		t.Errorf("expected delivered %g to exceed required %g", dr.DeliveredDeltaVMps, dr.RequiredDeltaVMps)
	}
	if dr.SuccessProbability < 0.5 {
		t.Errorf("expected success above 0.5, got %g", dr.SuccessProbability)
	}
	if dr.SuccessProbability < 0.02 || dr.SuccessProbability > 0.98 {
		t.Errorf("success probability out of clamp range: %g", dr.SuccessProbability)
	}
	if dr.RecommendedMethod == "" {
		t.Errorf("recommendation must always be set")
	}
}
