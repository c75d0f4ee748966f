package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent sucker configuration stored as config.toml
// in the .sucker/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Storage  StorageConfig  `toml:"storage"`
	Input    InputConfig    `toml:"input"`
	Report   ReportConfig   `toml:"report"`
	Analysis AnalysisConfig `toml:"analysis"`
}

// StorageConfig holds the export database settings.
type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// InputConfig says where session logs are found when no paths are given.
type InputConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
	Pattern string `toml:"pattern,omitempty"`
}

// ReportConfig holds report rendering settings.
type ReportConfig struct {
	Format string `toml:"format,omitempty"`
	Width  uint   `toml:"width,omitempty"`
	Pretty bool   `toml:"pretty"`
}

type AnalysisConfig struct {
	ExcerptLen uint `toml:"excerpt_len,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func parseUint(key, v string) (uint, error) {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return uint(n), nil
}

func formatUint(n uint) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(n), 10)
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"input.data_dir": {
		get: func(c *Config) string { return c.Input.DataDir },
		set: func(c *Config, v string) error { c.Input.DataDir = v; return nil },
	},
	"input.pattern": {
		get: func(c *Config) string { return c.Input.Pattern },
		set: func(c *Config, v string) error { c.Input.Pattern = v; return nil },
	},
	"report.format": {
		get: func(c *Config) string { return c.Report.Format },
		set: func(c *Config, v string) error {
			if !IsValidFormat(v) {
				return fmt.Errorf("invalid value for report.format: %q (available: %v)", v, ValidFormats())
			}
			c.Report.Format = v
			return nil
		},
	},
	"report.width": {
		get: func(c *Config) string { return formatUint(c.Report.Width) },
		set: func(c *Config, v string) error {
			n, err := parseUint("report.width", v)
			if err != nil {
				return err
			}
			c.Report.Width = n
			return nil
		},
	},
	"report.pretty": {
		get: func(c *Config) string { return strconv.FormatBool(c.Report.Pretty) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for report.pretty: %w", err)
			}
			c.Report.Pretty = b
			return nil
		},
	},
	"analysis.excerpt_len": {
		get: func(c *Config) string { return formatUint(c.Analysis.ExcerptLen) },
		set: func(c *Config, v string) error {
			n, err := parseUint("analysis.excerpt_len", v)
			if err != nil {
				return err
			}
			c.Analysis.ExcerptLen = n
			return nil
		},
	},
}
