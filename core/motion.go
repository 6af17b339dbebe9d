package core

import (
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// MotionModel recomputes a satellite's geographic position for a
// given simulation time.
type MotionModel interface {
	UpdatePosition(simTime time.Time, s *Satellite)
}

// KeplerianMotionModel propagates from the satellite's own orbital
// elements. This is the default for satellites deployed in-session.
type KeplerianMotionModel struct{}

// UpdatePosition recomputes the position from the elements; it never
// reads the previous position.
func (KeplerianMotionModel) UpdatePosition(simTime time.Time, s *Satellite) {
	s.Position = PropagateGeodetic(s.Elements, simTime)
}

// SGP4MotionModel propagates a real catalog satellite from a TLE.
type SGP4MotionModel struct {
	sat satellite.Satellite
}

// NewSGP4MotionModel constructs an SGP4 model from TLE lines.
func NewSGP4MotionModel(line1, line2 string) *SGP4MotionModel {
	return &SGP4MotionModel{sat: satellite.TLEToSat(line1, line2, satellite.GravityWGS72)}
}

// UpdatePosition propagates to simTime and stores the geodetic result.
func (m *SGP4MotionModel) UpdatePosition(simTime time.Time, s *Satellite) {
	year, month, day := simTime.Date()
	hour, min, sec := simTime.Clock()

	pos, _ := satellite.Propagate(m.sat, year, int(month), day, hour, min, sec)
	gmst := satellite.GSTimeFromDate(year, int(month), day, hour, min, sec)
	alt, _, ll := satellite.ECIToLLA(pos, gmst)

	s.Position = GeoPosition{
		LonDeg:     normalizeLonDeg(radToDeg(ll.Longitude)),
		LatDeg:     radToDeg(ll.Latitude),
		AltitudeKm: alt,
	}
}

// motionModelFor picks the propagator for a satellite. Satellites
// flagged MotionTLE with a complete element set use SGP4; everything
// else is Keplerian.
func motionModelFor(s *Satellite) MotionModel {
	if s.MotionSource == MotionTLE && s.TLELine1 != "" && s.TLELine2 != "" {
		return NewSGP4MotionModel(s.TLELine1, s.TLELine2)
	}
	return KeplerianMotionModel{}
}
