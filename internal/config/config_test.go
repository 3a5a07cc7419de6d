package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	def := Default()
	if cfg.Listen != def.Listen || cfg.Seed != def.Seed {
		t.Errorf("empty path did not yield defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := `
listen: ":9090"
seed: "mountains"
active_radius: 3
remove_radius: 5
max_inflight: 2
tick_interval: 50ms
compress: false
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":9090" || cfg.Seed != "mountains" {
		t.Errorf("basic fields: %+v", cfg)
	}
	if cfg.ActiveRadius != 3 || cfg.RemoveRadius != 5 || cfg.MaxInflight != 2 {
		t.Errorf("radii: %+v", cfg)
	}
	if cfg.TickInterval.Duration() != 50*time.Millisecond {
		t.Errorf("tick_interval=%v, want 50ms", cfg.TickInterval.Duration())
	}
	if cfg.Compress {
		t.Error("compress should be false")
	}
	// Unset fields fall back to defaults.
	if cfg.QueueSize != Default().QueueSize {
		t.Errorf("queue_size default not applied: %d", cfg.QueueSize)
	}
}

func TestLoadRejectsBadRadii(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "seed: x\nactive_radius: 8\nremove_radius: 4\nmax_inflight: 1\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("remove_radius < active_radius must be a fatal config error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file should fail")
	}
}

func TestDurationUnmarshal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "seed: x\ntick_interval: 1500000000\n" // nanoseconds
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TickInterval.Duration() != 1500*time.Millisecond {
		t.Errorf("numeric duration=%v, want 1.5s", cfg.TickInterval.Duration())
	}

	data = "seed: x\ntick_interval: soon\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("unparseable duration should fail")
	}
}
