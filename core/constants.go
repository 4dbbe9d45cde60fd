package core

// Physical constants shared by the impact and deflection models. SI units
// unless the name says otherwise.
const (
	EarthRadiusM   = 6.371e6
	EarthDiameterM = 2 * EarthRadiusM
	EarthVolumeKm3 = 1.083e12
	EarthEscapeMps = 11186.0
	EarthGravity   = 9.81

	// GMSun is the solar gravitational parameter, m^3/s^2.
	GMSun = 1.32712440018e20

	GravConstant = 6.674e-11

	AstronomicalUnitM = 1.495978707e11

	SecondsPerDay  = 86400.0
	SecondsPerYear = 3.15576e7 // Julian year

	// JoulesPerMegaton converts impact energy to Mt TNT equivalent.
	JoulesPerMegaton = 4.184e15

	// GlobalPopulation is the configured world population used by the
	// casualty estimator's short-circuit paths.
	GlobalPopulation = 8.1e9

	// GlobalMeanDensityPerKm2 is the land-averaged population density the
	// estimator blends toward for planet-spanning zones, and the fallback
	// when the raster collaborator is unavailable.
	GlobalMeanDensityPerKm2 = 60.0
)

// Atmosphere model used by the entry physics.
const (
	DragCoefficient = 2.0
	SeaLevelAirKgM3 = 1.225
	ScaleHeightM    = 8000.0
)
