package core

import (
	"math"
	"testing"
	"time"
)

func TestClampIntensity(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-3, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{5, 1},
	}
	for _, tc := range cases {
		if got := ClampIntensity(tc.in); got != tc.want {
			t.Errorf("ClampIntensity(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLossAtDB_LinearFalloff(t *testing.T) {
	zone := &SignalInterference{
		LonDeg: 0, LatDeg: 0,
		RadiusKm:  1000,
		Intensity: 0.5,
	}

	// Centre: full intensity·20 dB.
	if got := zone.LossAtDB(0, 0); math.Abs(got-10) > 1e-9 {
		t.Errorf("loss at centre = %v dB, want 10 dB", got)
	}

	// Halfway out the loss halves.
	halfLon := radToDeg(500 / EarthRadiusKm)
	if got := zone.LossAtDB(halfLon, 0); math.Abs(got-5) > 0.01 {
		t.Errorf("loss at half radius = %v dB, want ~5 dB", got)
	}

	// On and beyond the edge nothing is contributed.
	edgeLon := radToDeg(1000 / EarthRadiusKm)
	if got := zone.LossAtDB(edgeLon, 0); got != 0 {
		t.Errorf("loss at edge = %v dB, want 0", got)
	}
	if got := zone.LossAtDB(90, 0); got != 0 {
		t.Errorf("loss far outside = %v dB, want 0", got)
	}
}

func TestLossAtDB_ZeroRadius(t *testing.T) {
	zone := &SignalInterference{Intensity: 1}
	if got := zone.LossAtDB(0, 0); got != 0 {
		t.Errorf("zero-radius zone loss = %v, want 0", got)
	}
}

func TestInterferenceExpired(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	zone := &SignalInterference{StartedAt: start, Duration: 10 * time.Second}

	if zone.Expired(start.Add(9 * time.Second)) {
		t.Errorf("zone expired before its duration elapsed")
	}
	// The boundary itself counts as expired.
	if !zone.Expired(start.Add(10 * time.Second)) {
		t.Errorf("zone not expired exactly at its duration")
	}
	if !zone.Expired(start.Add(time.Minute)) {
		t.Errorf("zone not expired after its duration")
	}
}
