// Package config holds the settings of mmcif_restore. They come from
// defaults, then a TOML file, then MMCIF_RESTORE_* environment variables.
// Command line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Restore RestoreConfig `toml:"restore"`
	Log     LogConfig     `toml:"log"`
	Fetch   FetchConfig   `toml:"fetch"`
}

type RestoreConfig struct {
	Categories []string `toml:"categories"` // used when -c is not given
}

type LogConfig struct {
	Level      string `toml:"level"` // debug, info, warn or error
	File       string `toml:"file"`  // "", "stdout" or a path
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

type FetchConfig struct {
	Site        int `toml:"site"` // index into the mirror list
	TimeoutSecs int `toml:"timeout_secs"`
}

// Locations are tried in order when Load is given no path.
func Locations() []string {
	return []string{
		".mmcif_restore.toml",
		filepath.Join(os.Getenv("HOME"), ".config", "mmcif_restore", "config.toml"),
	}
}

// Load reads the file at path, or the first of Locations that exists if
// path is empty. No file at all is fine, a broken one is not.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	} else {
		for _, loc := range Locations() {
			if _, err := os.Stat(loc); err != nil {
				continue
			}
			if _, err := toml.DecodeFile(loc, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", loc, err)
			}
			break
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Fetch: FetchConfig{
			Site:        0,
			TimeoutSecs: 60,
		},
	}
}

// Validate returns a list of complaints, empty if the config is usable.
func Validate(cfg *Config) []string {
	var warnings []string
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, "log level must be one of debug, info, warn, error, not "+strconv.Quote(cfg.Log.Level))
	}
	if cfg.Log.MaxSizeMB < 1 {
		warnings = append(warnings, "log max_size_mb must be at least 1")
	}
	if cfg.Log.MaxBackups < 0 {
		warnings = append(warnings, "log max_backups cannot be negative")
	}
	if cfg.Fetch.Site < 0 {
		warnings = append(warnings, "fetch site cannot be negative")
	}
	if cfg.Fetch.TimeoutSecs < 1 {
		warnings = append(warnings, "fetch timeout_secs must be at least 1 second")
	}
	return warnings
}

// SplitList turns "_entity., _struct_conn" into its parts, dropping
// empty ones.
func SplitList(s string) []string {
	var ret []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			ret = append(ret, p)
		}
	}
	return ret
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MMCIF_RESTORE_CATEGORIES"); v != "" {
		cfg.Restore.Categories = SplitList(v)
	}
	if v := os.Getenv("MMCIF_RESTORE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MMCIF_RESTORE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("MMCIF_RESTORE_FETCH_SITE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.Site = i
		}
	}
	if v := os.Getenv("MMCIF_RESTORE_FETCH_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.TimeoutSecs = i
		}
	}
}
