package core

import (
	"math"

	"github.com/signalsfoundry/impact-simulator/model"
)

// Crater scaling laws. The branch boundaries (3200 m simple/complex
// transition, Earth-diameter cap) are load-bearing parts of the empirical
// model's validity; do not smooth them.

const (
	rockTargetDensity  = 2500.0
	waterTargetDensity = 1000.0

	landCraterCoeff  = 1.161
	waterCraterCoeff = 1.365

	// simpleComplexDiameterM is the transient diameter above which craters
	// collapse into the complex morphology.
	simpleComplexDiameterM = 3200.0
)

// TransientCrater returns the transient crater diameter and depth (metres)
// from pi-group scaling of the impactor parameters.
func TransientCrater(diameterM, densityKgM3, impactVelocityMps, angleDeg float64, isWater bool) (dtcM, depthM float64) {
	coeff, targetDensity := landCraterCoeff, rockTargetDensity
	if isWater {
		coeff, targetDensity = waterCraterCoeff, waterTargetDensity
	}

	sinTheta := clampedSin(angleDeg)
	dtcM = coeff *
		math.Cbrt(densityKgM3/targetDensity) *
		math.Pow(diameterM, 0.78) *
		math.Pow(impactVelocityMps, 0.44) *
		math.Pow(EarthGravity, -0.22) *
		math.Cbrt(sinTheta)
	if dtcM > EarthDiameterM {
		dtcM = EarthDiameterM
	}
	return dtcM, dtcM / (2 * math.Sqrt2)
}

// FinalCrater applies the simple/complex collapse correction to a transient
// crater diameter. Simple craters widen by a fixed factor; complex craters
// follow a 1.13-exponent power law. Both results are capped at Earth's
// diameter so extreme inputs cannot run away.
func FinalCrater(dtcM float64) (finalDiameterM, finalDepthM float64) {
	if dtcM <= 0 {
		return 0, 0
	}
	if dtcM < simpleComplexDiameterM {
		finalDiameterM = 1.25 * dtcM
		finalDepthM = dtcM / (2 * math.Sqrt2)
	} else {
		finalDiameterM = 1.17 * math.Pow(dtcM, 1.13) / math.Pow(simpleComplexDiameterM, 0.13)
		// Complex craters are shallow relative to their width.
		finalDepthM = 400.0 * math.Pow(finalDiameterM/1000.0, 0.3)
	}
	if finalDiameterM > EarthDiameterM {
		finalDiameterM = EarthDiameterM
	}
	return finalDiameterM, finalDepthM
}

// CraterVolumeAndEffect returns the transient crater volume in km^3, its
// ratio to Earth's volume, and the resulting disruption category. A
// transient diameter at or beyond Earth's own diameter short-circuits to
// "destroyed" with ratio 1 so the cubic term cannot overflow.
func CraterVolumeAndEffect(dtcM float64) (volumeKm3, ratio float64, effect model.EarthEffect) {
	if dtcM >= EarthDiameterM {
		return EarthVolumeKm3, 1, model.EarthDestroyed
	}

	dtcKm := dtcM / 1000.0
	volumeKm3 = math.Pi * dtcKm * dtcKm * dtcKm / (16 * math.Sqrt2)
	ratio = volumeKm3 / EarthVolumeKm3

	switch {
	case ratio > 0.5:
		effect = model.EarthDestroyed
	case ratio >= 0.1:
		effect = model.EarthStronglyDisturbed
	default:
		effect = model.EarthNegligibleDisturbed
	}
	return volumeKm3, ratio, effect
}
