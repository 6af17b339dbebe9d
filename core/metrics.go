package core

import "time"

// MetricsRecorder receives engine activity so hosts can export it
// (e.g. to Prometheus) without the core depending on a metrics
// library. All methods are called from the tick path.
type MetricsRecorder interface {
	ObserveTick(d time.Duration)
	SetEntityCounts(satellites, stations, transmissions, interference int)
	SatelliteExpired()
	InterferenceSpawned()
	TransmissionStarted()
}

// noopMetrics is used when no recorder is wired.
type noopMetrics struct{}

func (noopMetrics) ObserveTick(time.Duration)      {}
func (noopMetrics) SetEntityCounts(_, _, _, _ int) {}
func (noopMetrics) SatelliteExpired()              {}
func (noopMetrics) InterferenceSpawned()           {}
func (noopMetrics) TransmissionStarted()           {}
