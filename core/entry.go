package core

import "math"

// Entry physics: energy bookkeeping, atmospheric drag, and the breakup /
// airburst model. All functions are pure and total across the physically
// valid input domain; out-of-domain angles and velocities are rejected by
// the engine's input validation, not here. Near-degenerate values are
// clamped so no call path can produce NaN or Inf.

// minSinAngle floors sin(entry angle) so grazing entries stay finite.
const minSinAngle = 1e-3

// pancakeFactor is the dispersion ratio at which the pancake model treats
// the fragmented impactor as fully dispersed.
const pancakeFactor = 7.0

// Energy returns the impact kinetic energy in joules and megatons TNT.
func Energy(massKg, velocityMps float64) (joules, megatons float64) {
	joules = 0.5 * massKg * velocityMps * velocityMps
	return joules, joules / JoulesPerMegaton
}

// RecurrenceYears estimates the mean interval between impacts of the given
// energy anywhere on Earth.
func RecurrenceYears(energyMt float64) float64 {
	if energyMt <= 0 {
		return 0
	}
	return 109.0 * math.Pow(energyMt, 0.78)
}

// SurfaceVelocity attenuates the entry velocity by exponential atmospheric
// drag down to the surface:
//
//	v = v0 * exp(-3 Cd rho0 H / (4 rho_i L sin(theta)))
func SurfaceVelocity(v0, diameterM, densityKgM3, angleDeg float64) float64 {
	sinTheta := clampedSin(angleDeg)
	if diameterM <= 0 || densityKgM3 <= 0 {
		return v0
	}
	exponent := -3.0 * DragCoefficient * SeaLevelAirKgM3 * ScaleHeightM /
		(4.0 * densityKgM3 * diameterM * sinTheta)
	return v0 * math.Exp(exponent)
}

// YieldStrength returns the bulk strength (Pa) of an impactor from its
// density, using the empirical strength-density correlation.
func YieldStrength(densityKgM3 float64) float64 {
	if densityKgM3 < 0 {
		densityKgM3 = 0
	}
	return math.Pow(10, 2.107+0.0624*math.Sqrt(densityKgM3))
}

// Breakup evaluates the breakup criterion. It returns the breakup parameter
// If, the altitude z* (metres) at which the stagnation pressure first
// exceeds the impactor strength, and whether the object breaks up at all.
// If >= 1 means the impactor reaches the surface intact; z* is then 0.
func Breakup(diameterM, densityKgM3, v0, angleDeg float64) (ifactor, zStarM float64, breaksUp bool) {
	sinTheta := clampedSin(angleDeg)
	yield := YieldStrength(densityKgM3)

	denom := densityKgM3 * diameterM * v0 * v0 * sinTheta
	if denom <= 0 {
		return math.Inf(1), 0, false
	}
	ifactor = DragCoefficient * ScaleHeightM * yield / denom
	if ifactor >= 1 {
		return ifactor, 0, false
	}

	// Analytic altitude of peak dynamic-pressure balance for a breaking
	// impactor (log-exponential energy balance).
	ratio := yield / (SeaLevelAirKgM3 * v0 * v0)
	if ratio <= 0 {
		ratio = math.SmallestNonzeroFloat64
	}
	zStarM = -ScaleHeightM * (math.Log(ratio) + 1.308 - 0.314*ifactor -
		1.303*math.Sqrt(1-ifactor))
	if zStarM < 0 {
		zStarM = 0
	}
	return ifactor, zStarM, true
}

// AirburstAltitude refines the breakup altitude into the final airburst
// altitude using the pancake-model dispersion length. A result clamped to 0
// means the fragment cloud reaches the ground before full dispersion, i.e.
// effectively a surface impact.
func AirburstAltitude(diameterM, densityKgM3, angleDeg, zStarM float64) float64 {
	sinTheta := clampedSin(angleDeg)

	airAtBreakup := SeaLevelAirKgM3 * math.Exp(-zStarM/ScaleHeightM)
	if airAtBreakup <= 0 {
		airAtBreakup = math.SmallestNonzeroFloat64
	}
	dispersionL := diameterM * sinTheta * math.Sqrt(densityKgM3/(DragCoefficient*airAtBreakup))

	spread := math.Sqrt(pancakeFactor*pancakeFactor - 1)
	zb := zStarM - 2.0*ScaleHeightM*math.Log(1+dispersionL/(2.0*ScaleHeightM)*spread)
	if zb < 0 {
		zb = 0
	}
	return zb
}

func clampedSin(angleDeg float64) float64 {
	s := math.Sin(angleDeg * math.Pi / 180)
	if s < minSinAngle {
		return minSinAngle
	}
	return s
}
