package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "satsim.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "run:\n  tick: 16ms\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Run.Tick != 16*time.Millisecond {
		t.Errorf("run.tick = %v, want 16ms", cfg.Run.Tick)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("server.listen_addr = %q, want default :8080", cfg.Server.ListenAddr)
	}
	if cfg.Engine.MaxHistorySize != 50 {
		t.Errorf("engine.max_history_size = %d, want default 50", cfg.Engine.MaxHistorySize)
	}
}

func TestLoadOverridesEngineTuning(t *testing.T) {
	path := writeConfig(t, `
run:
  tick: 32ms
  duration: 2m
  accelerated: true
engine:
  max_history_size: 10
  signal_lost_threshold: 35
  obstruction_probability: 0.2
server:
  listen_addr: ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Run.Tick != 32*time.Millisecond || cfg.Run.Duration != 2*time.Minute || !cfg.Run.Accelerated {
		t.Errorf("run section not applied: %+v", cfg.Run)
	}
	if cfg.Engine.MaxHistorySize != 10 {
		t.Errorf("engine.max_history_size = %d, want 10", cfg.Engine.MaxHistorySize)
	}
	if cfg.Engine.SignalLostThreshold != 35 {
		t.Errorf("engine.signal_lost_threshold = %v, want 35", cfg.Engine.SignalLostThreshold)
	}
	if cfg.Engine.ObstructionProbability != 0.2 {
		t.Errorf("engine.obstruction_probability = %v, want 0.2", cfg.Engine.ObstructionProbability)
	}
	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("server.listen_addr = %q, want :9090", cfg.Server.ListenAddr)
	}
}

func TestLoadHonorsExplicitZeroProbabilities(t *testing.T) {
	path := writeConfig(t, `
engine:
  auto_transmit_probability: 0
  interference_spawn_probability: 0
  obstruction_probability: 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.AutoTransmitProbability != 0 ||
		cfg.Engine.InterferenceSpawnProbability != 0 ||
		cfg.Engine.ObstructionProbability != 0 {
		t.Errorf("explicit zero probabilities overridden: %+v", cfg.Engine)
	}
}

func TestDurationAcceptsNanosecondIntegers(t *testing.T) {
	path := writeConfig(t, "run:\n  tick: 16000000\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Run.Tick != 16*time.Millisecond {
		t.Errorf("run.tick = %v, want 16ms from integer nanoseconds", cfg.Run.Tick)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"zero tick", "run:\n  tick: 0s\n"},
		{"negative duration", "run:\n  tick: 16ms\n  duration: -1s\n"},
		{"obstruction probability above one", "engine:\n  obstruction_probability: 1.5\n"},
		{"negative spawn probability", "engine:\n  interference_spawn_probability: -0.1\n"},
		{"auto transmit probability above one", "engine:\n  auto_transmit_probability: 2\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.yaml)); err == nil {
				t.Fatalf("Load accepted invalid config:\n%s", tc.yaml)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load of a missing file should fail")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "run: [not a mapping")); err == nil {
		t.Fatal("Load of malformed YAML should fail")
	}
}
