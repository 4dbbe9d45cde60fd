package core

import (
	"math"

	"github.com/signalsfoundry/impact-simulator/model"
)

// Orbital mechanics: Kepler's equation, trajectory state as a function of
// elapsed time, and the B-plane impact-probability integral.

const (
	keplerMaxIter = 20
	keplerTol     = 1e-8
)

// SolveKepler finds the eccentric anomaly E satisfying
// E - e*sin(E) = M by Newton-Raphson from the initial guess E0 = M.
func SolveKepler(meanAnomaly, eccentricity float64) float64 {
	ecc := eccentricity
	if ecc < 0 {
		ecc = 0
	} else if ecc > 0.99 {
		ecc = 0.99
	}

	e := meanAnomaly
	for i := 0; i < keplerMaxIter; i++ {
		f := e - ecc*math.Sin(e) - meanAnomaly
		if math.Abs(f) < keplerTol {
			break
		}
		e -= f / (1 - ecc*math.Cos(e))
	}
	return e
}

// TrajectoryState advances the asteroid along its orbit by elapsedDays and
// reports its heliocentric state plus the time remaining to encounter.
// Encounter is the next perihelion passage: the mean anomaly counts down
// toward 2*pi, so TimeToEncounterDays shrinks as elapsedDays grows.
func TrajectoryState(elements model.OrbitalElements, elapsedDays float64) model.TrajectoryState {
	aM := elements.SemiMajorAxisAU * AstronomicalUnitM
	if aM <= 0 {
		aM = AstronomicalUnitM
	}
	ecc := elements.Eccentricity
	if ecc < 0 {
		ecc = 0
	} else if ecc > 0.99 {
		ecc = 0.99
	}

	// Mean motion (rad/s) and the starting mean anomaly from the initial
	// true anomaly.
	n := math.Sqrt(GMSun / (aM * aM * aM))
	nu0 := elements.InitialTrueAnomalyDeg * math.Pi / 180
	e0 := trueToEccentric(nu0, ecc)
	m0 := e0 - ecc*math.Sin(e0)
	if m0 < 0 {
		m0 += 2 * math.Pi
	}

	m := math.Mod(m0+n*elapsedDays*SecondsPerDay, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}

	eAnom := SolveKepler(m, ecc)
	nu := eccentricToTrue(eAnom, ecc)

	rM := aM * (1 - ecc*math.Cos(eAnom))
	if rM < 1e3 {
		rM = 1e3
	}

	// Vis-viva heliocentric speed.
	v := math.Sqrt(GMSun * (2/rM - 1/aM))

	remaining := (2*math.Pi - m) / n / SecondsPerDay

	vInf := elements.HyperbolicExcessMps
	encounterV := math.Sqrt(vInf*vInf + EarthEscapeMps*EarthEscapeMps)

	return model.TrajectoryState{
		DistanceAU:           rM / AstronomicalUnitM,
		DistanceKm:           rM / 1000.0,
		VelocityMps:          v,
		TrueAnomalyDeg:       normalizeDeg(nu * 180 / math.Pi),
		TimeToEncounterDays:  remaining,
		EncounterVelocityMps: encounterV,
	}
}

// GravitationalFocusingRadius returns the B-plane capture cross-section
// radius in km: Earth's physical radius enlarged by gravitational bending
// of the incoming trajectory.
func GravitationalFocusingRadius(vInfinityMps float64) float64 {
	if vInfinityMps < 1 {
		vInfinityMps = 1
	}
	ratio := EarthEscapeMps / vInfinityMps
	return EarthRadiusM / 1000.0 * math.Sqrt(1+ratio*ratio)
}

// ImpactProbability integrates a 1-D Gaussian over the capture interval
// [-bCritKm, bCritKm] centred on the nominal B-plane offset.
func ImpactProbability(b model.BPlaneState) float64 {
	sigma := b.SigmaKm
	if sigma <= 0 {
		// Perfect knowledge: inside the capture radius means certain hit.
		if math.Abs(b.NominalOffsetKm) <= b.CriticalRadiusKm {
			return 1
		}
		return 0
	}
	upper := (b.CriticalRadiusKm - b.NominalOffsetKm) / sigma
	lower := (-b.CriticalRadiusKm - b.NominalOffsetKm) / sigma
	p := stdNormalCDF(upper) - stdNormalCDF(lower)
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return p
}

// stdNormalCDF is Phi(x) via the Abramowitz-Stegun 7.1.26 error-function
// polynomial approximation (|error| < 1.5e-7).
func stdNormalCDF(x float64) float64 {
	return 0.5 * (1 + erfAS(x/math.Sqrt2))
}

func erfAS(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}

	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)

	t := 1.0 / (1.0 + p*x)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)
	return sign * y
}

func trueToEccentric(nu, ecc float64) float64 {
	return 2 * math.Atan2(
		math.Sqrt(1-ecc)*math.Sin(nu/2),
		math.Sqrt(1+ecc)*math.Cos(nu/2),
	)
}

func eccentricToTrue(eAnom, ecc float64) float64 {
	return 2 * math.Atan2(
		math.Sqrt(1+ecc)*math.Sin(eAnom/2),
		math.Sqrt(1-ecc)*math.Cos(eAnom/2),
	)
}

func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
