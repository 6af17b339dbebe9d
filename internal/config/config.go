package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/satcom-simulator/core"
)

// Config is the effective configuration consumed by the satcom
// binaries. Engine tuning maps straight onto core.Config; run and
// server settings belong to the hosts, not the engine.
type Config struct {
	Run    RunConfig
	Engine core.Config
	Server ServerConfig
}

// RunConfig controls the host's tick loop.
type RunConfig struct {
	Tick        time.Duration
	Duration    time.Duration
	Accelerated bool
}

// ServerConfig controls the HTTP snapshot server.
type ServerConfig struct {
	ListenAddr string
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Run: RunConfig{
			Tick:        16 * time.Millisecond,
			Duration:    0, // run until interrupted
			Accelerated: false,
		},
		Engine: core.DefaultConfig(),
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
	}
}

// Duration decodes YAML duration strings like "16ms" or "2m". Plain
// integers are taken as nanoseconds for compatibility with marshalled
// time.Duration values.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!int" {
		var ns int64
		if err := value.Decode(&ns); err != nil {
			return err
		}
		*d = Duration(ns)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// fileConfig is the on-disk YAML schema. Every field is a pointer so
// absent keys fall through to the defaults while explicit zeros (for
// example disabling a probability) are honored.
type fileConfig struct {
	Run    fileRunConfig    `yaml:"run"`
	Engine fileEngineConfig `yaml:"engine"`
	Server fileServerConfig `yaml:"server"`
}

type fileRunConfig struct {
	Tick        *Duration `yaml:"tick"`
	Duration    *Duration `yaml:"duration"`
	Accelerated *bool     `yaml:"accelerated"`
}

type fileEngineConfig struct {
	MaxHistorySize               *int      `yaml:"max_history_size"`
	HistoryDedupWindow           *Duration `yaml:"history_dedup_window"`
	SignalLostThreshold          *float64  `yaml:"signal_lost_threshold"`
	BaseDataRateMbps             *float64  `yaml:"base_data_rate_mbps"`
	TransmissionDuration         *Duration `yaml:"transmission_duration"`
	AutoTransmitProbability      *float64  `yaml:"auto_transmit_probability"`
	InterferenceSpawnProbability *float64  `yaml:"interference_spawn_probability"`
	ObstructionProbability       *float64  `yaml:"obstruction_probability"`
	ObstructionLossDB            *float64  `yaml:"obstruction_loss_db"`
}

type fileServerConfig struct {
	ListenAddr *string `yaml:"listen_addr"`
}

// Load reads and validates a YAML configuration file, applying
// defaults for anything left unset.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return Config{}, err
	}

	cfg := Default()
	fc.apply(&cfg)

	if cfg.Run.Tick <= 0 {
		return Config{}, fmt.Errorf("run.tick must be > 0")
	}
	if cfg.Run.Duration < 0 {
		return Config{}, fmt.Errorf("run.duration must be >= 0")
	}
	if cfg.Engine.ObstructionProbability < 0 || cfg.Engine.ObstructionProbability > 1 {
		return Config{}, fmt.Errorf("engine.obstruction_probability must be within [0, 1]")
	}
	if cfg.Engine.InterferenceSpawnProbability < 0 || cfg.Engine.InterferenceSpawnProbability > 1 {
		return Config{}, fmt.Errorf("engine.interference_spawn_probability must be within [0, 1]")
	}
	if cfg.Engine.AutoTransmitProbability < 0 || cfg.Engine.AutoTransmitProbability > 1 {
		return Config{}, fmt.Errorf("engine.auto_transmit_probability must be within [0, 1]")
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}

	return cfg, nil
}

func (fc fileConfig) apply(cfg *Config) {
	if fc.Run.Tick != nil {
		cfg.Run.Tick = time.Duration(*fc.Run.Tick)
	}
	if fc.Run.Duration != nil {
		cfg.Run.Duration = time.Duration(*fc.Run.Duration)
	}
	if fc.Run.Accelerated != nil {
		cfg.Run.Accelerated = *fc.Run.Accelerated
	}

	e := fc.Engine
	if e.MaxHistorySize != nil {
		cfg.Engine.MaxHistorySize = *e.MaxHistorySize
	}
	if e.HistoryDedupWindow != nil {
		cfg.Engine.HistoryDedupWindow = time.Duration(*e.HistoryDedupWindow)
	}
	if e.SignalLostThreshold != nil {
		cfg.Engine.SignalLostThreshold = *e.SignalLostThreshold
	}
	if e.BaseDataRateMbps != nil {
		cfg.Engine.BaseDataRateMbps = *e.BaseDataRateMbps
	}
	if e.TransmissionDuration != nil {
		cfg.Engine.TransmissionDuration = time.Duration(*e.TransmissionDuration)
	}
	if e.AutoTransmitProbability != nil {
		cfg.Engine.AutoTransmitProbability = *e.AutoTransmitProbability
	}
	if e.InterferenceSpawnProbability != nil {
		cfg.Engine.InterferenceSpawnProbability = *e.InterferenceSpawnProbability
	}
	if e.ObstructionProbability != nil {
		cfg.Engine.ObstructionProbability = *e.ObstructionProbability
	}
	if e.ObstructionLossDB != nil {
		cfg.Engine.ObstructionLossDB = *e.ObstructionLossDB
	}

	if fc.Server.ListenAddr != nil {
		cfg.Server.ListenAddr = *fc.Server.ListenAddr
	}
}
