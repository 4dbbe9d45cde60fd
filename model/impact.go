package model

// EarthEffect categorises how badly an impact disturbs the planet as a whole.
type EarthEffect int

const (
	EarthNegligibleDisturbed EarthEffect = iota
	EarthStronglyDisturbed
	EarthDestroyed
)

// String returns the display name of the effect category.
func (e EarthEffect) String() string {
	switch e {
	case EarthDestroyed:
		return "destroyed"
	case EarthStronglyDisturbed:
		return "strongly_disturbed"
	default:
		return "negligible_disturbed"
	}
}

// ImpactInputs are the physical parameters an impact scenario is computed
// from. Invariants (checked by the engine, not the leaf physics):
// DiameterM > 0, 0 < EntryAngleDeg <= 90, VelocityMps > 0.
type ImpactInputs struct {
	MassKg        float64
	DiameterM     float64
	DensityKgM3   float64
	VelocityMps   float64
	EntryAngleDeg float64
	IsWaterTarget bool

	// Optional impact coordinates; only meaningful for casualty estimates.
	LatitudeDeg  float64
	LongitudeDeg float64
	HasLocation  bool
}

// CraterDimensions describes the transient and final crater. Only present
// for surface impacts (nil in ImpactResults for airbursts).
type CraterDimensions struct {
	TransientDiameterM float64
	TransientDepthM    float64
	FinalDiameterM     float64
	FinalDepthM        float64
	VolumeKm3          float64
}

// SeismicEffect describes the impact-induced quake. Nil for airbursts.
// RadiusM is zero when the magnitude is so large that no decay band yields a
// threshold-crossing radius; Severity then carries a qualitative description.
type SeismicEffect struct {
	Magnitude float64
	RadiusM   float64
	Severity  string
}

// BlastRadii holds the radii (metres) at which the blast wave reaches the
// fixed overpressure thresholds the UI displays.
type BlastRadii struct {
	SevereM   float64 // ~50 kPa: heavy structural damage
	ModerateM float64 // ~20 kPa: most residential buildings collapse
	LightM    float64 // ~5 kPa: window breakage, light damage
}

// BurnRadii holds the thermal-radiation radii (metres) for the three fixed
// exposure thresholds.
type BurnRadii struct {
	ClothingIgnitionM float64
	ThirdDegreeM      float64
	SecondDegreeM     float64
}

// TsunamiWave describes the water wave launched by an ocean impact. Nil
// for airbursts and land impacts.
type TsunamiWave struct {
	RimAmplitudeM     float64
	AmplitudeAt50KmM  float64
	AmplitudeAt100KmM float64
}

// ImpactResults is the immutable output of one impact-effects computation.
// It is a pure function of ImpactInputs and is never mutated afterwards.
type ImpactResults struct {
	EnergyJ  float64
	EnergyMt float64

	// RecurrenceYears is the mean interval between impacts of this energy.
	RecurrenceYears float64

	BreakupAltitudeM  float64
	AirburstAltitudeM float64
	IsAirburst        bool

	Crater  *CraterDimensions
	Seismic *SeismicEffect
	Tsunami *TsunamiWave

	Blast        BlastRadii
	Burns        BurnRadii
	WindSpeedMps float64

	EarthEffect      EarthEffect
	EarthVolumeRatio float64

	IonizationRadiusM float64
}

// CasualtyEstimate is the output of the casualty estimator.
type CasualtyEstimate struct {
	Deaths   float64
	Injuries float64
}
