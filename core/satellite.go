package core

import "time"

// SatelliteType determines the orbital band a deployed satellite is
// placed in and its nominal RF characteristics.
type SatelliteType string

const (
	SatelliteCommunication  SatelliteType = "communication"
	SatelliteReconnaissance SatelliteType = "reconnaissance"
	SatelliteNavigation     SatelliteType = "navigation"
	SatelliteWeather        SatelliteType = "weather"
)

// MotionSource indicates how a satellite's position is propagated.
type MotionSource int

const (
	// MotionKeplerian propagates from the six Keplerian elements.
	// This is the default for satellites deployed in-simulation.
	MotionKeplerian MotionSource = iota
	// MotionTLE propagates with SGP4 from a two-line element set,
	// for injecting real catalog satellites into a session.
	MotionTLE
)

// Satellite is an orbiting transmitter owned by a nation. Position is
// derived state: it is recomputed from the orbital elements on every
// tick and never mutated directly.
type Satellite struct {
	ID      string        `json:"ID"`
	OwnerID string        `json:"OwnerID"`
	Name    string        `json:"Name"`
	Type    SatelliteType `json:"Type"`

	Elements OrbitalElements `json:"Elements"`
	Position GeoPosition     `json:"Position"`

	MotionSource MotionSource `json:"MotionSource,omitempty"`
	TLELine1     string       `json:"TLELine1,omitempty"`
	TLELine2     string       `json:"TLELine2,omitempty"`

	TransmitPowerDBW float64 `json:"TransmitPowerDBW"`
	AntennaGainDBi   float64 `json:"AntennaGainDBi"`
	FrequencyGHz     float64 `json:"FrequencyGHz"`

	Operational bool    `json:"Operational"`
	Health      float64 `json:"Health"` // 0-100

	DeployedAt time.Time     `json:"DeployedAt"`
	TTL        time.Duration `json:"TTL"`
}

// Expired reports whether the satellite's time-to-live has elapsed.
func (s *Satellite) Expired(now time.Time) bool {
	return now.Sub(s.DeployedAt) > s.TTL
}
