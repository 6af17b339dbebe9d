package core

import "time"

// SignalTransmission is an animated downlink burst from a satellite to
// the ground stations that could see it when the transmission started.
// Target stations are snapshotted at creation; stations that vanish
// afterwards are simply ignored by consumers.
type SignalTransmission struct {
	ID          string `json:"ID"`
	SatelliteID string `json:"SatelliteID"`

	TargetStationIDs []string    `json:"TargetStationIDs"`
	StartPosition    GeoPosition `json:"StartPosition"`

	Progress  float64   `json:"Progress"` // 0-1
	StartedAt time.Time `json:"StartedAt"`

	FrequencyGHz float64 `json:"FrequencyGHz"`
	PowerDBW     float64 `json:"PowerDBW"`

	// WavePhase only drives the renderer's beam animation; it has no
	// physical meaning.
	WavePhase float64 `json:"WavePhase"`
	Completed bool    `json:"Completed"`
}
