package model

// OrbitalElements are the heliocentric Keplerian elements of an asteroid,
// fixed at scenario creation.
type OrbitalElements struct {
	SemiMajorAxisAU       float64
	Eccentricity          float64
	InclinationDeg        float64
	AscendingNodeDeg      float64
	ArgPeriapsisDeg       float64
	InitialTrueAnomalyDeg float64

	// HyperbolicExcessMps is v-infinity relative to Earth at encounter.
	HyperbolicExcessMps float64
}

// TrajectoryState is the asteroid's state after a given number of elapsed
// simulation days, derived from its orbital elements.
type TrajectoryState struct {
	DistanceAU           float64
	DistanceKm           float64
	VelocityMps          float64
	TrueAnomalyDeg       float64
	TimeToEncounterDays  float64
	EncounterVelocityMps float64
}

// BPlaneState is a 1-D Gaussian model of where the asteroid crosses Earth's
// encounter plane, relative to the Earth-centred capture cross-section.
type BPlaneState struct {
	NominalOffsetKm  float64
	SigmaKm          float64
	CriticalRadiusKm float64
}
