// Package config loads layout tuning overrides from a TOML file.
//
// All tuning constants have compiled-in defaults (layout.DefaultTuning);
// a config file overrides only the keys it sets. Example skein.toml:
//
//	[force]
//	repel_hub = 2000
//	alpha_target = 0.05
//
//	[ring]
//	hub_radius = 160
//
//	[smooth]
//	factor = 0.15
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/skeinviz/skein/pkg/errors"
	"github.com/skeinviz/skein/pkg/layout"
)

// Load reads tuning overrides from the TOML file at path, applied on top
// of the defaults. Unknown keys are an error so typos do not silently
// fall back to defaults.
func Load(path string) (layout.Tuning, error) {
	tuning := layout.DefaultTuning()

	meta, err := toml.DecodeFile(path, &tuning)
	if err != nil {
		if os.IsNotExist(err) {
			return tuning, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return tuning, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return tuning, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q in %s", undecoded[0].String(), path)
	}
	return tuning, nil
}

// LoadOrDefault returns Load(path) when path is non-empty, otherwise the
// defaults.
func LoadOrDefault(path string) (layout.Tuning, error) {
	if path == "" {
		return layout.DefaultTuning(), nil
	}
	return Load(path)
}
