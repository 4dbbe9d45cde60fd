package core

import (
	"math"
	"testing"
	"time"
)

func TestImpactSite_EquatorialCrossing(t *testing.T) {
	at := time.Date(2029, 4, 13, 21, 46, 0, 0, time.UTC)
	lat, lon := ImpactSite(EarthRadiusM/1000, 0, 0, at)

	if math.Abs(lat) > 0.01 {
		t.Errorf("an equatorial-plane crossing must land on the equator, got lat %g", lat)
	}
	if lon < -180.001 || lon > 360.001 {
		t.Errorf("longitude out of range: %g", lon)
	}
}

func TestImpactSite_RotationMovesLongitude(t *testing.T) {
	at := time.Date(2029, 4, 13, 21, 46, 0, 0, time.UTC)
	_, lon1 := ImpactSite(EarthRadiusM/1000, 0, 0, at)
	// Six hours later the same inertial point sits over different ground.
	_, lon2 := ImpactSite(EarthRadiusM/1000, 0, 0, at.Add(6*time.Hour))

	diff := math.Mod(math.Abs(lon1-lon2), 360)
	if diff > 180 {
		diff = 360 - diff
	}
	if math.Abs(diff-90) > 2 {
		t.Errorf("six hours of rotation should shift longitude by ≈90 degrees, got %g", diff)
	}
}

func TestImpactSite_PolarCrossing(t *testing.T) {
	at := time.Date(2029, 4, 13, 21, 46, 0, 0, time.UTC)
	lat, _ := ImpactSite(0, 0, EarthRadiusM/1000, at)
	if lat < 85 {
		t.Errorf("a crossing on the spin axis must land near the pole, got lat %g", lat)
	}
}

func TestSubpointAtEncounter_ProjectsToSurface(t *testing.T) {
	at := time.Date(2029, 4, 13, 21, 46, 0, 0, time.UTC)

	// Offsets along +X of any magnitude project to the same surface point.
	lat1, lon1 := SubpointAtEncounter(100, 0, at)
	lat2, lon2 := SubpointAtEncounter(90000, 0, at)
	if math.Abs(lat1-lat2) > 1e-9 || math.Abs(lon1-lon2) > 1e-9 {
		t.Errorf("offset magnitude must not change the subpoint: (%g,%g) vs (%g,%g)",
			lat1, lon1, lat2, lon2)
	}

	// Zero offset degrades to the +X surface point.
	lat3, lon3 := SubpointAtEncounter(0, 0, at)
	if math.Abs(lat3-lat1) > 1e-9 || math.Abs(lon3-lon1) > 1e-9 {
		t.Errorf("zero offset should match the +X crossing, got (%g,%g)", lat3, lon3)
	}
}
