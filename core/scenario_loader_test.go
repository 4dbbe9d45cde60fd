package core

import (
	"strings"
	"testing"

	"github.com/signalsfoundry/impact-simulator/kb"
	"github.com/signalsfoundry/impact-simulator/model"
)

const loaderFixture = `{
  "asteroids": [
    {
      "id": "a1",
      "name": "Test Rock",
      "diameter_m": 226,
      "density_kg_m3": 2600,
      "velocity_mps": 17000,
      "entry_angle_deg": 45,
      "latitude": 40.71,
      "longitude": -74.0,
      "orbit": {
        "semi_major_axis_au": 1.4,
        "eccentricity": 0.35,
        "initial_true_anomaly_deg": 190,
        "hyperbolic_excess_mps": 12400
      },
      "bplane": {"nominal_offset_km": 2100, "sigma_km": 3500},
      "mitigation": {"method": "tractor", "lead_time_years": 15}
    },
    {
      "id": "a2",
      "diameter_m": 19,
      "density_kg_m3": 3300,
      "velocity_mps": 19000,
      "entry_angle_deg": 18
    }
  ]
}`

func TestLoadScenarios_PopulatesStore(t *testing.T) {
	store := kb.NewKnowledgeBase()
	summary, err := LoadScenarios(store, strings.NewReader(loaderFixture))
	if err != nil {
		t.Fatalf("LoadScenarios: %v", err)
	}
	if len(summary.ScenarioIDs) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(summary.ScenarioIDs))
	}

	sc := store.GetScenario("a1")
	if sc == nil {
		t.Fatal("scenario a1 not stored")
	}
	if sc.Name != "Test Rock" || sc.Impact.DiameterM != 226 {
		t.Errorf("scenario fields lost: %+v", sc)
	}
	if !sc.Impact.HasLocation || sc.Impact.LatitudeDeg != 40.71 {
		t.Errorf("paired lat/lon must set the location: %+v", sc.Impact)
	}
	if sc.Elements.SemiMajorAxisAU != 1.4 {
		t.Errorf("orbit block not parsed: %+v", sc.Elements)
	}
	if sc.BPlane.CriticalRadiusKm <= EarthRadiusM/1000 {
		t.Errorf("capture radius must include gravitational focusing, got %g", sc.BPlane.CriticalRadiusKm)
	}
	if sc.Mitigation == nil || sc.Mitigation.Method != model.MethodGravityTractor {
		t.Errorf("mitigation alias 'tractor' not mapped: %+v", sc.Mitigation)
	}

	// Optional sections may be absent.
	sc2 := store.GetScenario("a2")
	if sc2 == nil {
		t.Fatal("scenario a2 not stored")
	}
	if sc2.Impact.HasLocation {
		t.Errorf("a2 has no coordinates, HasLocation must be false")
	}
	if sc2.Mitigation != nil {
		t.Errorf("a2 has no mitigation block")
	}
}

func TestLoadScenarios_RejectsInvalidPhysics(t *testing.T) {
	store := kb.NewKnowledgeBase()
	bad := `{"asteroids":[{"id":"x","diameter_m":100,"velocity_mps":17000,"entry_angle_deg":120}]}`
	if _, err := LoadScenarios(store, strings.NewReader(bad)); err == nil {
		t.Fatal("expected error for a 120 degree entry angle")
	}
}

func TestLoadScenarios_RejectsEmptyID(t *testing.T) {
	store := kb.NewKnowledgeBase()
	bad := `{"asteroids":[{"diameter_m":100,"velocity_mps":17000,"entry_angle_deg":45}]}`
	if _, err := LoadScenarios(store, strings.NewReader(bad)); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestLoadScenarios_RejectsMalformedJSON(t *testing.T) {
	store := kb.NewKnowledgeBase()
	if _, err := LoadScenarios(store, strings.NewReader("{")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestMethodFromString_Aliases(t *testing.T) {
	cases := map[string]model.MitigationMethod{
		"kinetic":         model.MethodKinetic,
		"":                model.MethodKinetic,
		"Nuclear":         model.MethodNuclear,
		"gravity_tractor": model.MethodGravityTractor,
		"ion":             model.MethodIonBeam,
		"laser":           model.MethodLaser,
		"warp drive":      model.MethodKinetic,
	}
	for in, want := range cases {
		if got := methodFromString(in); got != want {
			t.Errorf("methodFromString(%q) = %v, want %v", in, got, want)
		}
	}
}
