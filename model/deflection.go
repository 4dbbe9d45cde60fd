package model

// MitigationMethod enumerates the supported deflection techniques.
type MitigationMethod string

const (
	MethodKinetic        MitigationMethod = "kinetic"
	MethodNuclear        MitigationMethod = "nuclear"
	MethodGravityTractor MitigationMethod = "gravity_tractor"
	MethodLaser          MitigationMethod = "laser"
	MethodIonBeam        MitigationMethod = "ion_beam"
)

// MethodParams carries the per-technique knobs. Only the fields relevant to
// the chosen method are read; zero values fall back to mission defaults.
type MethodParams struct {
	// Kinetic impactor.
	ImpactorMassKg    float64
	ImpactVelocityMps float64
	MomentumBeta      float64

	// Nuclear standoff burst.
	YieldJ             float64
	CouplingFraction   float64
	ExhaustVelocityMps float64

	// Gravity tractor.
	SpacecraftMassKg float64
	StandoffM        float64
	DutyCycle        float64

	// Ion beam / laser ablation.
	ThrustN float64

	// Fraction of the lead time the system actually operates.
	OperationFraction float64
}

// MitigationPlan pairs a technique with its parameters and the available
// lead time before the projected impact.
type MitigationPlan struct {
	Method        MitigationMethod
	Params        MethodParams
	LeadTimeYears float64
}

// Difficulty buckets a deflection attempt by how demanding it is.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyModerate
	DifficultyDifficult
	DifficultyExtreme
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyModerate:
		return "moderate"
	case DifficultyDifficult:
		return "difficult"
	default:
		return "extreme"
	}
}

// DeflectionResult is the outcome of planning a deflection attempt.
type DeflectionResult struct {
	RequiredDeltaVMps  float64
	DeliveredDeltaVMps float64
	SuccessProbability float64
	Difficulty         Difficulty
	RecommendedMethod  MitigationMethod
}
