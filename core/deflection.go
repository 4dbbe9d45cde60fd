package core

import (
	"math"

	"github.com/signalsfoundry/impact-simulator/model"
)

// Deflection planning: required and delivered delta-v per technique, a
// heuristic difficulty score, a logistic success-probability model, and the
// method recommendation table.

const (
	// DefaultSafetyRadii is how many Earth radii the miss distance must be
	// shifted by for a comfortable margin.
	DefaultSafetyRadii = 2.5

	// alongTrackLeverage is the orbital amplification of an along-track
	// delta-v: a small speed change accumulates into a much larger
	// along-track displacement over many orbits. Tuned for plausible
	// display ranges rather than derived physically.
	alongTrackLeverage = 100.0
)

// Mission defaults applied when MethodParams leaves a knob at zero.
const (
	defaultImpactorMassKg    = 500.0
	defaultImpactVelocityMps = 6600.0
	defaultMomentumBeta      = 3.6

	defaultYieldJ             = 4.184e15 // 1 Mt
	defaultCouplingFraction   = 0.3
	defaultExhaustVelocityMps = 2.0e4

	defaultSpacecraftMassKg = 2.0e4
	defaultStandoffM        = 200.0
	defaultDutyCycle        = 0.5

	defaultThrustN           = 0.5
	defaultOperationFraction = 0.8
)

// RequiredDeltaV returns the along-track delta-v (m/s) needed to shift the
// miss distance by safetyRadii Earth radii within the available lead time.
// Pass 0 for safetyRadii to use the default margin.
func RequiredDeltaV(leadTimeYears, safetyRadii float64) float64 {
	if safetyRadii <= 0 {
		safetyRadii = DefaultSafetyRadii
	}
	if leadTimeYears < 0.01 {
		leadTimeYears = 0.01
	}
	return safetyRadii * EarthRadiusM / (alongTrackLeverage * leadTimeYears * SecondsPerYear)
}

// DeliveredDeltaV returns the delta-v (m/s) a technique imparts on an
// asteroid of the given mass over the available lead time.
func DeliveredDeltaV(method model.MitigationMethod, asteroidMassKg, leadTimeYears float64, params model.MethodParams) float64 {
	if asteroidMassKg <= 0 {
		asteroidMassKg = 1
	}
	opFrac := orDefault(params.OperationFraction, defaultOperationFraction)

	switch method {
	case model.MethodKinetic:
		beta := orDefault(params.MomentumBeta, defaultMomentumBeta)
		mi := orDefault(params.ImpactorMassKg, defaultImpactorMassKg)
		vi := orDefault(params.ImpactVelocityMps, defaultImpactVelocityMps)
		return beta * mi * vi / asteroidMassKg

	case model.MethodNuclear:
		coupling := orDefault(params.CouplingFraction, defaultCouplingFraction)
		if coupling > 1 {
			coupling = 1
		}
		yield := orDefault(params.YieldJ, defaultYieldJ)
		vExhaust := orDefault(params.ExhaustVelocityMps, defaultExhaustVelocityMps)
		return 2 * coupling * yield / (vExhaust * asteroidMassKg)

	case model.MethodGravityTractor:
		mSc := orDefault(params.SpacecraftMassKg, defaultSpacecraftMassKg)
		duty := orDefault(params.DutyCycle, defaultDutyCycle)
		radius := asteroidRadiusFromMass(asteroidMassKg) + orDefault(params.StandoffM, defaultStandoffM)
		accel := GravConstant * mSc / (radius * radius)
		return accel * leadTimeYears * SecondsPerYear * opFrac * duty

	case model.MethodIonBeam, model.MethodLaser:
		thrust := orDefault(params.ThrustN, defaultThrustN)
		return thrust / asteroidMassKg * leadTimeYears * SecondsPerYear * opFrac

	default:
		return 0
	}
}

// DeflectionDifficulty scores an attempt from normalized asteroid mass
// (weight 0.4), encounter velocity (0.3), and time scarcity (0.3).
func DeflectionDifficulty(asteroidMassKg, velocityMps, leadTimeYears float64) model.Difficulty {
	massNorm := clamp01((math.Log10(math.Max(asteroidMassKg, 1)) - 9) / 6)
	velNorm := clamp01((velocityMps - 11000) / (72000 - 11000))
	timeScarcity := clamp01(1 - leadTimeYears/20)

	score := 0.4*massNorm + 0.3*velNorm + 0.3*timeScarcity
	switch {
	case score < 0.3:
		return model.DifficultyEasy
	case score < 0.6:
		return model.DifficultyModerate
	case score < 0.8:
		return model.DifficultyDifficult
	default:
		return model.DifficultyExtreme
	}
}

// SuccessProbability scores an attempt: a logistic base centred so that
// delivering exactly the required delta-v gives 50%, plus additive
// adjustments for difficulty and method/lead-time fit, clamped to
// [0.02, 0.98].
func SuccessProbability(method model.MitigationMethod, difficulty model.Difficulty, leadTimeYears, asteroidMassKg, deliveredDV, requiredDV float64) float64 {
	if requiredDV <= 0 {
		requiredDV = math.SmallestNonzeroFloat64
	}
	ratio := deliveredDV / requiredDV
	p := logistic(5 * (ratio - 1))

	switch difficulty {
	case model.DifficultyEasy:
		p += 0.10
	case model.DifficultyModerate:
		p += 0.05
	case model.DifficultyDifficult:
		p -= 0.05
	case model.DifficultyExtreme:
		p -= 0.15
	}

	// Slow-push techniques need years of thrust; penalize short missions.
	if (method == model.MethodGravityTractor || method == model.MethodIonBeam) && leadTimeYears < 5 {
		p -= 0.15
	}
	if method == model.MethodKinetic && leadTimeYears >= 5 {
		p += 0.05
	}
	if method == model.MethodNuclear && (difficulty == model.DifficultyExtreme || asteroidMassKg >= 1e12) {
		p += 0.10
	}

	if p < 0.02 {
		p = 0.02
	} else if p > 0.98 {
		p = 0.98
	}
	return p
}

// RecommendMethod is a deterministic decision table. The branches overlap
// and their order is the tie-break, so keep it exactly as written.
func RecommendMethod(difficulty model.Difficulty, leadTimeYears, diameterM float64) model.MitigationMethod {
	if leadTimeYears >= 15 && difficulty != model.DifficultyExtreme {
		return model.MethodGravityTractor
	}
	if leadTimeYears >= 5 && (difficulty == model.DifficultyEasy || difficulty == model.DifficultyModerate) {
		return model.MethodKinetic
	}
	if difficulty == model.DifficultyExtreme || diameterM >= 1000 {
		return model.MethodNuclear
	}
	if leadTimeYears < 2 {
		return model.MethodNuclear
	}
	return model.MethodKinetic
}

// asteroidRadiusFromMass inverts a spherical rubble-pile density of
// 2000 kg/m^3 to approximate the body radius for tractor standoff geometry.
func asteroidRadiusFromMass(massKg float64) float64 {
	const bulkDensity = 2000.0
	return math.Cbrt(3 * massKg / (4 * math.Pi * bulkDensity))
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
