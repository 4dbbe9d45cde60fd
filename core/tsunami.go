package core

import "math"

// Water-impact wave model. An ocean impact excavates a transient cavity in
// the water column; its collapse launches a rim wave whose initial
// amplitude is a fixed fraction of the cavity diameter and which decays
// roughly inversely with distance travelled.

const (
	// rimWaveDivisor relates the transient cavity diameter to the rim
	// wave amplitude at the cavity edge.
	rimWaveDivisor = 14.1

	// waveDecayExponent controls how fast the rim wave attenuates beyond
	// the cavity edge.
	waveDecayExponent = 1.0
)

// RimWaveAmplitude returns the wave amplitude (m) at the edge of the
// transient water cavity.
func RimWaveAmplitude(transientDiameterM float64) float64 {
	if transientDiameterM <= 0 {
		return 0
	}
	return transientDiameterM / rimWaveDivisor
}

// WaveAmplitudeAt returns the rim-wave amplitude (m) after propagating to
// distanceM from the impact point. Inside the cavity radius the rim
// amplitude applies unchanged.
func WaveAmplitudeAt(transientDiameterM, distanceM float64) float64 {
	amp := RimWaveAmplitude(transientDiameterM)
	rim := transientDiameterM / 2
	if amp == 0 || distanceM <= rim {
		return amp
	}
	return amp * math.Pow(rim/distanceM, waveDecayExponent)
}
