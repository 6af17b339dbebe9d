package core

import (
	"math"
	"testing"
)

func TestComputeLookAngles_Overhead(t *testing.T) {
	sat := GeoPosition{LonDeg: 0, LatDeg: 0, AltitudeKm: 500}
	la := ComputeLookAngles(sat, 0, 0)

	if math.Abs(la.ElevationDeg-90) > 0.01 {
		t.Errorf("elevation = %.3f°, want ~90°", la.ElevationDeg)
	}
	if math.Abs(la.DistanceKm-500) > 0.5 {
		t.Errorf("distance = %.2f km, want ~500 km", la.DistanceKm)
	}
}

func TestComputeLookAngles_FarSideBelowHorizon(t *testing.T) {
	// Satellite over the antipode: far below the station's horizon.
	sat := GeoPosition{LonDeg: 180, LatDeg: 0, AltitudeKm: 500}
	la := ComputeLookAngles(sat, 0, 0)

	if la.ElevationDeg > -45 {
		t.Errorf("elevation = %.1f°, want far below horizon", la.ElevationDeg)
	}
}

func TestComputeLookAngles_Azimuth(t *testing.T) {
	cases := []struct {
		name   string
		satLon float64
		satLat float64
		want   float64
	}{
		{"north", 0, 20, 0},
		{"east", 20, 0, 90},
		{"south", 0, -20, 180},
		{"west", -20, 0, 270},
	}
	for _, tc := range cases {
		sat := GeoPosition{LonDeg: tc.satLon, LatDeg: tc.satLat, AltitudeKm: 800}
		la := ComputeLookAngles(sat, 0, 0)
		if math.Abs(la.AzimuthDeg-tc.want) > 0.5 {
			t.Errorf("%s: azimuth = %.2f°, want %.0f°", tc.name, la.AzimuthDeg, tc.want)
		}
	}
}

func TestComputeLookAngles_ReferenceMeridianInvariance(t *testing.T) {
	// Only the longitude difference matters, so shifting both points
	// by the same offset must not change the result.
	sat := GeoPosition{LonDeg: 13, LatDeg: 4, AltitudeKm: 700}
	a := ComputeLookAngles(sat, 10, 0)

	shifted := GeoPosition{LonDeg: 13 + 100, LatDeg: 4, AltitudeKm: 700}
	b := ComputeLookAngles(shifted, 110, 0)

	if math.Abs(a.DistanceKm-b.DistanceKm) > 1e-6 ||
		math.Abs(a.ElevationDeg-b.ElevationDeg) > 1e-9 ||
		math.Abs(a.AzimuthDeg-b.AzimuthDeg) > 1e-9 {
		t.Fatalf("look angles changed under meridian shift: %+v vs %+v", a, b)
	}
}

func TestCanSee_MinElevationInclusive(t *testing.T) {
	sat := &Satellite{Position: GeoPosition{LonDeg: 10, LatDeg: 0, AltitudeKm: 1200}}
	la := ComputeLookAngles(sat.Position, 0, 0)

	gs := &GroundStation{LonDeg: 0, LatDeg: 0, MinElevationDeg: la.ElevationDeg}
	if !gs.CanSee(sat) {
		t.Errorf("elevation exactly at the minimum must count as visible")
	}

	gs.MinElevationDeg = la.ElevationDeg + 1
	if gs.CanSee(sat) {
		t.Errorf("elevation one degree below the minimum must not be visible")
	}
}

func TestGroundDistanceKm_QuarterCircle(t *testing.T) {
	got := GroundDistanceKm(0, 0, 90, 0)
	want := math.Pi * EarthRadiusKm / 2
	if math.Abs(got-want) > 1 {
		t.Fatalf("quarter-circle distance = %.1f km, want %.1f km", got, want)
	}
}

func TestGroundDistanceKm_SamePoint(t *testing.T) {
	if d := GroundDistanceKm(12.5, -33.1, 12.5, -33.1); d > 1e-6 {
		t.Fatalf("distance to self = %v, want 0", d)
	}
}
