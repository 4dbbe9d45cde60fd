package api

import "encoding/json"

// Message types exchanged with UI clients.
const (
	// client -> server
	MsgTypeListScenarios  = "list_scenarios"
	MsgTypeGetImpact      = "get_impact"
	MsgTypeSetImpactPoint = "set_impact_point"
	MsgTypeSetElapsed     = "set_elapsed"
	MsgTypePlanDeflection = "plan_deflection"

	// server -> client
	MsgTypeScenarios  = "scenarios"
	MsgTypeTrajectory = "trajectory"
	MsgTypeImpact     = "impact"
	MsgTypeCasualties = "casualties"
	MsgTypeDeflection = "deflection"
	MsgTypeError      = "error"
)

// ClientMessage represents a message from client to server.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage represents a message from server to client.
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SetImpactPointRequest moves the projected impact location. Each move
// supersedes the previous casualty estimate.
type SetImpactPointRequest struct {
	ScenarioID string  `json:"scenario_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	IsWater    bool    `json:"is_water"`
}

// SetElapsedRequest seeks the mission clock, letting the UI scrub the
// countdown. The resulting trajectory states stream back as usual.
type SetElapsedRequest struct {
	ElapsedDays float64 `json:"elapsed_days"`
}

// GetImpactRequest asks for the impact effects of one scenario.
type GetImpactRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// PlanDeflectionRequest evaluates a mitigation technique.
type PlanDeflectionRequest struct {
	ScenarioID    string  `json:"scenario_id"`
	Method        string  `json:"method"`
	LeadTimeYears float64 `json:"lead_time_years"`

	ImpactorMassKg     float64 `json:"impactor_mass_kg,omitempty"`
	ImpactVelocityMps  float64 `json:"impact_velocity_mps,omitempty"`
	MomentumBeta       float64 `json:"momentum_beta,omitempty"`
	YieldJ             float64 `json:"yield_j,omitempty"`
	CouplingFraction   float64 `json:"coupling_fraction,omitempty"`
	ExhaustVelocityMps float64 `json:"exhaust_velocity_mps,omitempty"`
	SpacecraftMassKg   float64 `json:"spacecraft_mass_kg,omitempty"`
	StandoffM          float64 `json:"standoff_m,omitempty"`
	DutyCycle          float64 `json:"duty_cycle,omitempty"`
	ThrustN            float64 `json:"thrust_n,omitempty"`
	OperationFraction  float64 `json:"operation_fraction,omitempty"`
}

// TrajectoryUpdate is pushed on every mission-clock tick.
type TrajectoryUpdate struct {
	ScenarioID           string  `json:"scenario_id"`
	DistanceAU           float64 `json:"distance_au"`
	DistanceKm           float64 `json:"distance_km"`
	VelocityMps          float64 `json:"velocity_mps"`
	TrueAnomalyDeg       float64 `json:"true_anomaly_deg"`
	TimeToEncounterDays  float64 `json:"time_to_encounter_days"`
	EncounterVelocityMps float64 `json:"encounter_velocity_mps"`
	ImpactProbability    float64 `json:"impact_probability"`
}

// CasualtyUpdate reports an estimate for the current impact point.
type CasualtyUpdate struct {
	ScenarioID string  `json:"scenario_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Deaths     float64 `json:"deaths"`
	Injuries   float64 `json:"injuries"`
}
