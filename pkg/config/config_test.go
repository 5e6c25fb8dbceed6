package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skeinviz/skein/pkg/errors"
	"github.com/skeinviz/skein/pkg/layout"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skein.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[force]
repel_hub = 2000.0
alpha_target = 0.05

[ring]
hub_radius = 160.0

[smooth]
factor = 0.25
`)

	tuning, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if tuning.Force.RepelHub != 2000 {
		t.Errorf("RepelHub = %v, want 2000", tuning.Force.RepelHub)
	}
	if tuning.Force.AlphaTarget != 0.05 {
		t.Errorf("AlphaTarget = %v, want 0.05", tuning.Force.AlphaTarget)
	}
	if tuning.Ring.HubRadius != 160 {
		t.Errorf("HubRadius = %v, want 160", tuning.Ring.HubRadius)
	}
	if tuning.Smooth.Factor != 0.25 {
		t.Errorf("Smooth.Factor = %v, want 0.25", tuning.Smooth.Factor)
	}

	// Untouched keys keep their defaults.
	def := layout.DefaultTuning()
	if tuning.Force.Damping != def.Force.Damping {
		t.Errorf("Damping = %v, want default %v", tuning.Force.Damping, def.Force.Damping)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, `
[force]
repel_hub = 2000.0
repell_leaf = 700.0
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() accepted a config with an unknown key")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want invalid config", errors.GetCode(err))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("Load() accepted a missing file")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want file not found", errors.GetCode(err))
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, `[force`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() accepted malformed TOML")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want invalid config", errors.GetCode(err))
	}
}

func TestLoadOrDefault(t *testing.T) {
	tuning, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault(\"\") error: %v", err)
	}
	if tuning != layout.DefaultTuning() {
		t.Error("LoadOrDefault(\"\") differs from defaults")
	}
}
