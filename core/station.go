package core

import "time"

// GroundStation is a fixed receiver on the Earth's surface.
//
// ReceivedSignals is transient per-tick state: the tick fully replaces
// it from the current geometry. SignalHistory is a bounded ring of the
// most recent distinct reception events.
type GroundStation struct {
	ID      string `json:"ID"`
	OwnerID string `json:"OwnerID"`
	Name    string `json:"Name"`

	LonDeg float64 `json:"LonDeg"`
	LatDeg float64 `json:"LatDeg"`

	AntennaDiameterM       float64 `json:"AntennaDiameterM"`
	ReceiverSensitivityDBm float64 `json:"ReceiverSensitivityDBm"` // negative
	MinElevationDeg        float64 `json:"MinElevationDeg"`

	Operational bool `json:"Operational"`

	ReceivedSignals []ReceivedSignal `json:"ReceivedSignals,omitempty"`
	SignalHistory   []ReceivedSignal `json:"SignalHistory,omitempty"`
}

// CanSee reports whether the satellite clears this station's minimum
// elevation. The threshold is inclusive.
func (g *GroundStation) CanSee(sat *Satellite) bool {
	la := ComputeLookAngles(sat.Position, g.LonDeg, g.LatDeg)
	return la.ElevationDeg >= g.MinElevationDeg
}

// ReceivedSignal is the per-tick reception record a ground station
// derives for one visible satellite. It is recomputed from scratch on
// every tick and never carried forward.
type ReceivedSignal struct {
	SatelliteID       string    `json:"SatelliteID"`
	SignalStrengthDBm float64   `json:"SignalStrengthDBm"`
	Quality           float64   `json:"Quality"` // 0-100
	DelaySeconds      float64   `json:"DelaySeconds"`
	DistanceKm        float64   `json:"DistanceKm"`
	ElevationDeg      float64   `json:"ElevationDeg"`
	AzimuthDeg        float64   `json:"AzimuthDeg"`
	ReceivedAt        time.Time `json:"ReceivedAt"`
	Active            bool      `json:"Active"`
	DataRateMbps      float64   `json:"DataRateMbps"`
	BitErrorRate      float64   `json:"BitErrorRate"`
}
