package core

import "math"

// Seismic magnitude and felt-radius model. The effective magnitude decays
// with epicentral distance under three different laws, each valid only in
// its own radius band. The bands are evaluated in a fixed order and the
// first whose solved radius lands inside its own validity range wins.

// DefaultSeismicThreshold is the effective magnitude at which buildings
// near the decay radius start collapsing.
const DefaultSeismicThreshold = 7.5

// SeismicMagnitude converts impact energy (J) to a Richter-style magnitude.
func SeismicMagnitude(energyJ float64) float64 {
	if energyJ <= 0 {
		return 0
	}
	return 0.67*math.Log10(energyJ) - 5.87
}

// severityLadder maps outsized magnitudes, for which no decay band yields a
// threshold-crossing radius at terrestrial scales, to a qualitative label.
var severityLadder = []struct {
	magnitude float64
	label     string
}{
	{13.0, "global crustal meltdown"},
	{12.0, "crust fractured on a hemispheric scale"},
	{11.0, "continent-wide destruction"},
	{10.3, "very large regional catastrophe"},
}

// SeismicRadius solves for the distance (metres) at which the effective
// magnitude decays to threshold. When the magnitude is too large for any
// band it returns radius 0 and a severity description from the ladder.
func SeismicRadius(magnitude, threshold float64) (radiusM float64, severity string) {
	drop := magnitude - threshold
	if drop <= 0 {
		return 0, ""
	}

	// Band 1: linear decay, valid below 60 km.
	if rKm := drop / 0.0238; rKm < 60 {
		return rKm * 1000, ""
	}
	// Band 2: shallower linear decay, valid 60-700 km.
	if rKm := (drop - 1.1644) / 0.0048; rKm >= 60 && rKm <= 700 {
		return rKm * 1000, ""
	}
	// Band 3: logarithmic decay, valid beyond 700 km.
	if rKm := math.Pow(10, (drop-6.399)/1.66); rKm > 700 && rKm <= 2*math.Pi*EarthRadiusM/1000 {
		return rKm * 1000, ""
	}

	if magnitude >= severityLadder[len(severityLadder)-1].magnitude {
		for _, step := range severityLadder {
			if magnitude >= step.magnitude {
				return 0, step.label
			}
		}
	}

	// The bands leave narrow gaps near their boundaries; fall back to the
	// near-field law so callers still get a finite best-effort radius.
	return drop / 0.0238 * 1000, ""
}
