package core

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// Impact-site geolocation for real-object scenarios: the trajectory model
// produces an Earth-centered inertial crossing point at encounter time, and
// the ground hit depends on where Earth's rotation has carried the surface
// by then.

// ImpactSite converts an ECI position (kilometres) at the given instant
// into geodetic latitude/longitude in degrees.
func ImpactSite(eciXKm, eciYKm, eciZKm float64, at time.Time) (latDeg, lonDeg float64) {
	at = at.UTC()
	year, month, day := at.Date()
	hour, min, sec := at.Clock()

	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)

	pos := satellite.Vector3{X: eciXKm, Y: eciYKm, Z: eciZKm}
	_, _, ll := satellite.ECIToLLA(pos, gmst)
	deg := satellite.LatLongDeg(ll)
	return deg.Latitude, deg.Longitude
}

// SubpointAtEncounter places the projected impact point for a scenario whose
// B-plane crossing is expressed as an offset (km) from Earth's centre along
// the inertial X/Y axes of the encounter frame. It is a display-level
// approximation: the offset vector is treated as the ECI surface-crossing
// direction.
func SubpointAtEncounter(offsetXKm, offsetYKm float64, at time.Time) (latDeg, lonDeg float64) {
	// Project the offset onto the sphere so ECIToLLA sees a surface point.
	r := EarthRadiusM / 1000.0
	norm := offsetXKm*offsetXKm + offsetYKm*offsetYKm
	if norm == 0 {
		return ImpactSite(r, 0, 0, at)
	}
	scale := r / math.Sqrt(norm)
	return ImpactSite(offsetXKm*scale, offsetYKm*scale, 0, at)
}
