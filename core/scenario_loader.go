package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/signalsfoundry/impact-simulator/kb"
	"github.com/signalsfoundry/impact-simulator/model"
)

// ScenarioSummary is a small summary of what was loaded from JSON. It's
// mainly useful for logging or debugging from main().
type ScenarioSummary struct {
	ScenarioIDs []string
}

// internal JSON shapes - keep them unexported so we're free to evolve them.
type scenarioFileJSON struct {
	Asteroids []asteroidJSON `json:"asteroids"`
}

type asteroidJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	MassKg        float64 `json:"mass_kg"`
	DiameterM     float64 `json:"diameter_m"`
	DensityKgM3   float64 `json:"density_kg_m3"`
	VelocityMps   float64 `json:"velocity_mps"`
	EntryAngleDeg float64 `json:"entry_angle_deg"`
	IsWaterTarget bool    `json:"is_water_target"`

	LatitudeDeg  *float64 `json:"latitude"`
	LongitudeDeg *float64 `json:"longitude"`

	Orbit *orbitJSON `json:"orbit"`

	BPlane *bplaneJSON `json:"bplane"`

	Mitigation *mitigationJSON `json:"mitigation"`
}

type orbitJSON struct {
	SemiMajorAxisAU       float64 `json:"semi_major_axis_au"`
	Eccentricity          float64 `json:"eccentricity"`
	InclinationDeg        float64 `json:"inclination_deg"`
	AscendingNodeDeg      float64 `json:"ascending_node_deg"`
	ArgPeriapsisDeg       float64 `json:"arg_periapsis_deg"`
	InitialTrueAnomalyDeg float64 `json:"initial_true_anomaly_deg"`
	HyperbolicExcessMps   float64 `json:"hyperbolic_excess_mps"`
}

type bplaneJSON struct {
	NominalOffsetKm float64 `json:"nominal_offset_km"`
	SigmaKm         float64 `json:"sigma_km"`
}

type mitigationJSON struct {
	Method        string  `json:"method"`
	LeadTimeYears float64 `json:"lead_time_years"`

	ImpactorMassKg     float64 `json:"impactor_mass_kg"`
	ImpactVelocityMps  float64 `json:"impact_velocity_mps"`
	MomentumBeta       float64 `json:"momentum_beta"`
	YieldJ             float64 `json:"yield_j"`
	CouplingFraction   float64 `json:"coupling_fraction"`
	ExhaustVelocityMps float64 `json:"exhaust_velocity_mps"`
	SpacecraftMassKg   float64 `json:"spacecraft_mass_kg"`
	StandoffM          float64 `json:"standoff_m"`
	DutyCycle          float64 `json:"duty_cycle"`
	ThrustN            float64 `json:"thrust_n"`
	OperationFraction  float64 `json:"operation_fraction"`
}

// LoadScenarios reads a JSON scenario file from r, populates the
// KnowledgeBase with asteroid scenarios, and returns a summary of what was
// loaded.
//
// It deliberately fails only on JSON / structural errors and invalid
// physics invariants; optional sections (orbit, bplane, mitigation) may be
// omitted per asteroid.
func LoadScenarios(store *kb.KnowledgeBase, r io.Reader) (*ScenarioSummary, error) {
	if store == nil {
		return nil, fmt.Errorf("LoadScenarios: store is nil")
	}

	var payload scenarioFileJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenarios: decode failed: %w", err)
	}

	result := &ScenarioSummary{
		ScenarioIDs: make([]string, 0, len(payload.Asteroids)),
	}

	for _, ast := range payload.Asteroids {
		if ast.ID == "" {
			return nil, fmt.Errorf("LoadScenarios: asteroid with empty id")
		}

		inputs := model.ImpactInputs{
			MassKg:        ast.MassKg,
			DiameterM:     ast.DiameterM,
			DensityKgM3:   ast.DensityKgM3,
			VelocityMps:   ast.VelocityMps,
			EntryAngleDeg: ast.EntryAngleDeg,
			IsWaterTarget: ast.IsWaterTarget,
		}
		if ast.LatitudeDeg != nil && ast.LongitudeDeg != nil {
			inputs.LatitudeDeg = *ast.LatitudeDeg
			inputs.LongitudeDeg = *ast.LongitudeDeg
			inputs.HasLocation = true
		}
		if err := ValidateInputs(inputs); err != nil {
			return nil, fmt.Errorf("LoadScenarios: asteroid %q: %w", ast.ID, err)
		}

		scenario := &model.AsteroidScenario{
			ID:     ast.ID,
			Name:   ast.Name,
			Impact: inputs,
		}

		if ast.Orbit != nil {
			scenario.Elements = model.OrbitalElements{
				SemiMajorAxisAU:       ast.Orbit.SemiMajorAxisAU,
				Eccentricity:          ast.Orbit.Eccentricity,
				InclinationDeg:        ast.Orbit.InclinationDeg,
				AscendingNodeDeg:      ast.Orbit.AscendingNodeDeg,
				ArgPeriapsisDeg:       ast.Orbit.ArgPeriapsisDeg,
				InitialTrueAnomalyDeg: ast.Orbit.InitialTrueAnomalyDeg,
				HyperbolicExcessMps:   ast.Orbit.HyperbolicExcessMps,
			}
		}
		if ast.BPlane != nil {
			scenario.BPlane = model.BPlaneState{
				NominalOffsetKm:  ast.BPlane.NominalOffsetKm,
				SigmaKm:          ast.BPlane.SigmaKm,
				CriticalRadiusKm: GravitationalFocusingRadius(scenario.Elements.HyperbolicExcessMps),
			}
		}
		if ast.Mitigation != nil {
			scenario.Mitigation = &model.MitigationPlan{
				Method:        methodFromString(ast.Mitigation.Method),
				LeadTimeYears: ast.Mitigation.LeadTimeYears,
				Params: model.MethodParams{
					ImpactorMassKg:     ast.Mitigation.ImpactorMassKg,
					ImpactVelocityMps:  ast.Mitigation.ImpactVelocityMps,
					MomentumBeta:       ast.Mitigation.MomentumBeta,
					YieldJ:             ast.Mitigation.YieldJ,
					CouplingFraction:   ast.Mitigation.CouplingFraction,
					ExhaustVelocityMps: ast.Mitigation.ExhaustVelocityMps,
					SpacecraftMassKg:   ast.Mitigation.SpacecraftMassKg,
					StandoffM:          ast.Mitigation.StandoffM,
					DutyCycle:          ast.Mitigation.DutyCycle,
					ThrustN:            ast.Mitigation.ThrustN,
					OperationFraction:  ast.Mitigation.OperationFraction,
				},
			}
		}

		if err := store.AddScenario(scenario); err != nil {
			return nil, fmt.Errorf("LoadScenarios: %w", err)
		}
		result.ScenarioIDs = append(result.ScenarioIDs, ast.ID)
	}

	return result, nil
}

// methodFromString maps the JSON "method" string to our method constants.
//
// We keep this tolerant: unknown / empty values default to kinetic, because
// that's the baseline technique in most demo scenarios.
func methodFromString(s string) model.MitigationMethod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nuclear":
		return model.MethodNuclear
	case "gravity_tractor", "tractor":
		return model.MethodGravityTractor
	case "laser":
		return model.MethodLaser
	case "ion_beam", "ion":
		return model.MethodIonBeam
	case "kinetic", "":
		return model.MethodKinetic
	default:
		return model.MethodKinetic
	}
}
