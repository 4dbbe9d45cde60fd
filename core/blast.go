package core

import "math"

// Blast-wave overpressure model. Distances are scaled by the cube root of
// yield to a 1-kiloton equivalent, then a surface burst follows a blended
// near/far power law while an airburst switches between an exponential
// regular-reflection law inside the Mach-stem region and the same blended
// law beyond it. The branch boundaries reproduce the shape of the standard
// blast curves without a lookup table.

const (
	// crossoverPressurePa and crossoverRadiusM1kt anchor the blended
	// power law at the near/far crossover of the 1 kt curve.
	crossoverPressurePa = 75000.0
	crossoverRadiusM1kt = 290.0

	// machTransitionAltitudeM1kt is the scaled burst altitude above which
	// no Mach stem forms at any ground range.
	machTransitionAltitudeM1kt = 550.0

	ambientPressurePa = 101325.0
	soundSpeedMps     = 340.0
)

// Overpressure radius defaults and solver bounds.
const (
	blastBracketMinM = 10.0
	blastBracketMaxM = 1.0e7
	blastMaxIter     = 200
	blastRelTol      = 1e-6
)

// Thermal exposure thresholds in J/m^2 for a 1 Mt burst; actual thresholds
// scale as EnergyMt^(1/6) to account for fireball duration.
const (
	thermalClothingIgnition = 1.0e6
	thermalThirdDegree      = 4.2e5
	thermalSecondDegree     = 2.5e5

	// luminousEfficiency is the fraction of impact energy radiated as
	// thermal energy by the fireball.
	luminousEfficiency = 3.0e-3

	// thermalHorizonM caps burn radii at the curvature-of-Earth
	// visibility limit for the fireball.
	thermalHorizonM = 1.5e6
)

// PeakOverpressure returns the blast overpressure (Pa) at ground range
// radiusM from a burst of energyMt megatons at burstAltitudeM metres.
func PeakOverpressure(radiusM, energyMt, burstAltitudeM float64) float64 {
	if energyMt <= 0 {
		return 0
	}
	if radiusM < 1 {
		radiusM = 1
	}

	// Scale to the 1 kt equivalent curve.
	yieldScale := math.Cbrt(energyMt * 1000.0)
	r1 := radiusM / yieldScale

	if burstAltitudeM <= 0 {
		return blendedPowerLaw(r1, crossoverRadiusM1kt)
	}

	z1 := burstAltitudeM / yieldScale
	if z1 >= machTransitionAltitudeM1kt {
		// Too high for a Mach stem anywhere: regular reflection only.
		return regularReflection(r1, z1)
	}

	machRadius := machTransitionAltitudeM1kt * z1 / (1.2 * (machTransitionAltitudeM1kt - z1))
	if r1 < machRadius {
		return regularReflection(r1, z1)
	}
	// Beyond the Mach region the curve rejoins the surface-burst shape,
	// with the crossover radius shifted by the burst altitude. For low
	// bursts the blended law can exceed the reflection branch near the
	// boundary; cap it at the boundary value so overpressure never rises
	// with range.
	p := blendedPowerLaw(r1, crossoverRadiusM1kt+0.65*z1)
	if lim := regularReflection(machRadius, z1); p > lim {
		p = lim
	}
	return p
}

// blendedPowerLaw is the near/far surface-burst curve: steep decay close
// in, shallow decay far out, blended around the crossover radius rx.
func blendedPowerLaw(r1, rx float64) float64 {
	if r1 <= 0 {
		r1 = 1e-3
	}
	return crossoverPressurePa * (rx / (4 * r1)) * (1 + 3*math.Pow(rx/(3*r1), 1.3))
}

// regularReflection is the exponential decay law that applies below the
// Mach transition, anchored to the scaled burst altitude z1.
func regularReflection(r1, z1 float64) float64 {
	if z1 < 1 {
		z1 = 1
	}
	p0 := 3.14e11 * math.Pow(z1, -2.6)
	beta := 34.87 * math.Pow(z1, -1.73)
	return p0 * math.Exp(-beta*r1)
}

// FindRadiusForOverpressure inverts PeakOverpressure by bisection over
// [rMinM, rMaxM]. Overpressure is non-increasing in radius, so the
// bracket is monotonic; targets outside the bracket's pressure range
// saturate to the nearest boundary instead of failing. Pass zeros to use
// the default bracket.
func FindRadiusForOverpressure(targetPa, energyMt, burstAltitudeM, rMinM, rMaxM float64) float64 {
	if rMinM <= 0 {
		rMinM = blastBracketMinM
	}
	if rMaxM <= rMinM {
		rMaxM = blastBracketMaxM
	}

	if targetPa >= PeakOverpressure(rMinM, energyMt, burstAltitudeM) {
		return rMinM
	}
	if targetPa <= PeakOverpressure(rMaxM, energyMt, burstAltitudeM) {
		return rMaxM
	}

	lo, hi := rMinM, rMaxM
	for i := 0; i < blastMaxIter; i++ {
		mid := 0.5 * (lo + hi)
		if PeakOverpressure(mid, energyMt, burstAltitudeM) > targetPa {
			lo = mid
		} else {
			hi = mid
		}
		if (hi-lo)/hi < blastRelTol {
			break
		}
	}
	return 0.5 * (lo + hi)
}

// BurnRadius solves the thermal-exposure radius for one scaled threshold:
// r = sqrt(eta * E / (2 pi * threshold)), capped at the horizon.
func BurnRadius(energyJ, energyMt, threshold1Mt float64) float64 {
	if energyJ <= 0 || threshold1Mt <= 0 {
		return 0
	}
	scaled := threshold1Mt * math.Pow(math.Max(energyMt, 1e-12), 1.0/6.0)
	r := math.Sqrt(luminousEfficiency * energyJ / (2 * math.Pi * scaled))
	if r > thermalHorizonM {
		r = thermalHorizonM
	}
	return r
}

// BurnRadii returns the clothing-ignition, third-degree, and second-degree
// thermal radii in metres.
func BurnRadii(energyJ, energyMt float64) (clothing, thirdDegree, secondDegree float64) {
	return BurnRadius(energyJ, energyMt, thermalClothingIgnition),
		BurnRadius(energyJ, energyMt, thermalThirdDegree),
		BurnRadius(energyJ, energyMt, thermalSecondDegree)
}

// WindSpeed returns the peak particle velocity (m/s) behind a shock front
// of the given overpressure, from the Rankine-Hugoniot relations.
func WindSpeed(overpressurePa float64) float64 {
	if overpressurePa <= 0 {
		return 0
	}
	ratio := overpressurePa / ambientPressurePa
	return (5.0 * ratio / 7.0) * soundSpeedMps / math.Sqrt(1+6.0*ratio/7.0)
}

// FireballRadius returns the radius (metres) of the ionized fireball.
func FireballRadius(energyJ float64) float64 {
	if energyJ <= 0 {
		return 0
	}
	return 0.002 * math.Cbrt(energyJ)
}
