package core

import "time"

// Config is the engine tuning. Zero values are replaced with the
// defaults from DefaultConfig when the engine is constructed, so
// hosts can set only the knobs they care about.
type Config struct {
	// MaxHistorySize caps each ground station's signal history ring.
	MaxHistorySize int

	// HistoryDedupWindow collapses reception events for the same
	// satellite that arrive within this window into one entry.
	HistoryDedupWindow time.Duration

	// SignalLostThreshold is the quality (0-100) below which a link
	// is recorded but considered inactive.
	SignalLostThreshold float64

	// BaseDataRateMbps is the full-quality data rate; actual rates
	// roll off quadratically with quality.
	BaseDataRateMbps float64

	// TransmissionDuration is the visualization time a transmission
	// takes to animate from satellite to ground.
	TransmissionDuration time.Duration

	// AutoTransmitProbability is the per-tick chance that an idle
	// operational satellite with a visible same-owner station starts
	// a transmission on its own.
	AutoTransmitProbability float64

	// InterferenceSpawnProbability is the per-tick chance of a new
	// stochastic interference zone appearing.
	InterferenceSpawnProbability float64

	// ObstructionProbability is the per-link chance of a transient
	// blockage penalty, uncorrelated with any interference zone.
	ObstructionProbability float64

	// ObstructionLossDB is the penalty applied when a transient
	// blockage occurs.
	ObstructionLossDB float64
}

// DefaultConfig returns the engine tuning used when a host supplies
// nothing.
func DefaultConfig() Config {
	return Config{
		MaxHistorySize:               50,
		HistoryDedupWindow:           5 * time.Second,
		SignalLostThreshold:          20,
		BaseDataRateMbps:             100,
		TransmissionDuration:         3 * time.Second,
		AutoTransmitProbability:      0.01,
		InterferenceSpawnProbability: 0.002,
		ObstructionProbability:       0.05,
		ObstructionLossDB:            30,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
// Probabilities are left alone: zero is a meaningful setting there
// (tests rely on disabling the stochastic paths).
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxHistorySize <= 0 {
		c.MaxHistorySize = def.MaxHistorySize
	}
	if c.HistoryDedupWindow <= 0 {
		c.HistoryDedupWindow = def.HistoryDedupWindow
	}
	if c.SignalLostThreshold == 0 {
		c.SignalLostThreshold = def.SignalLostThreshold
	}
	if c.BaseDataRateMbps <= 0 {
		c.BaseDataRateMbps = def.BaseDataRateMbps
	}
	if c.TransmissionDuration <= 0 {
		c.TransmissionDuration = def.TransmissionDuration
	}
	if c.ObstructionLossDB == 0 {
		c.ObstructionLossDB = def.ObstructionLossDB
	}
	return c
}
