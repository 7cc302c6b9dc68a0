// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Explore ExploreConfig `toml:"explore"`
}

// ExploreConfig maps explorer settings. Pointer fields distinguish unset
// values so CLI flags can take precedence.
type ExploreConfig struct {
	DataDir   *string `toml:"data-dir"`
	PageSize  *int    `toml:"pagesize"`
	TimingOff *bool   `toml:"timing-off"`
	All       *bool   `toml:"all"`
	NoCache   *bool   `toml:"no-cache"`
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
