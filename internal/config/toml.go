// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Study StudyConfig `toml:"study"`
	Pacer PacerConfig `toml:"pacer"`
}

// StudyConfig maps study session settings.
type StudyConfig struct {
	Category *string `toml:"category"`
	Status   *string `toml:"status"`
	Mode     *string `toml:"mode"`
	Shuffle  *bool   `toml:"shuffle"`
	Seed     *int64  `toml:"seed"`
	Images   *string `toml:"images"`
}

// PacerConfig maps hold-to-advance timing. Durations are in milliseconds.
type PacerConfig struct {
	Start          *int `toml:"start"`
	IntervalMs     *int `toml:"interval-ms"`
	AccelEveryMs   *int `toml:"accel-every-ms"`
	AccelStepMs    *int `toml:"accel-step-ms"`
	MinIntervalMs  *int `toml:"min-interval-ms"`
	ReleaseAfterMs *int `toml:"release-after-ms"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
