package core

import (
	"math"
	"time"
)

// InterferenceType classifies a signal interference zone.
type InterferenceType string

const (
	InterferenceAtmospheric InterferenceType = "atmospheric"
	InterferenceSolar       InterferenceType = "solar"
	InterferenceMultipath   InterferenceType = "multipath"
	InterferenceTerrestrial InterferenceType = "terrestrial"
)

// interferenceTypes is the pool stochastic spawning picks from.
var interferenceTypes = []InterferenceType{
	InterferenceAtmospheric,
	InterferenceSolar,
	InterferenceMultipath,
	InterferenceTerrestrial,
}

// SignalInterference is a time-bounded circular zone that adds extra
// path loss to link computations near its centre.
type SignalInterference struct {
	ID   string           `json:"ID"`
	Type InterferenceType `json:"Type"`

	LonDeg   float64 `json:"LonDeg"`
	LatDeg   float64 `json:"LatDeg"`
	RadiusKm float64 `json:"RadiusKm"`

	// Intensity is always within [0, 1]; constructor input outside
	// that range is clamped.
	Intensity float64 `json:"Intensity"`

	StartedAt   time.Time     `json:"StartedAt"`
	Duration    time.Duration `json:"Duration"`
	Description string        `json:"Description,omitempty"`
}

// Expired reports whether the zone's duration has elapsed.
func (z *SignalInterference) Expired(now time.Time) bool {
	return now.Sub(z.StartedAt) >= z.Duration
}

// LossAtDB returns the extra path loss (dB) this zone contributes to
// a ground station at the given location. The loss falls off linearly
// from `intensity × 20` dB at the centre to zero at the edge.
func (z *SignalInterference) LossAtDB(lonDeg, latDeg float64) float64 {
	if z.RadiusKm <= 0 {
		return 0
	}
	dist := GroundDistanceKm(lonDeg, latDeg, z.LonDeg, z.LatDeg)
	if dist >= z.RadiusKm {
		return 0
	}
	return z.Intensity * 20 * (1 - dist/z.RadiusKm)
}

// ClampIntensity limits an interference intensity to [0, 1].
func ClampIntensity(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
