// Package config loads and validates the JSON configuration that backs the
// CLI's persistent flags, the same Load/Validate shape as the teacher's
// internal/config/cfg.go (per-field validateX helpers, enum-allowed-value
// maps), adapted to hify's own settings instead of muserv's UPnP/content
// hierarchy ones.
package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// allowedLogLevels mirrors the teacher's enum-allowed-value map idiom
// (cfg.go's allowedHierarchies/allowedSortFields), applied to logrus's
// parseable level names instead.
var allowedLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "warning": true, "error": true,
	"fatal": true, "panic": true,
}

// Cfg is the on-disk configuration document, optionally overridden by CLI
// flags the same way the teacher's run.go layers flags over cfg.Load.
type Cfg struct {
	MusicDir string `json:"music_dir"`
	DataDir  string `json:"data_dir"`
	Addr     string `json:"addr"`
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`
	LogDir   string `json:"log_dir"`
}

// Default returns the built-in defaults (§6): addr 0.0.0.0, port 8893, info
// logging. DataDir is left blank; the caller fills in the OS-specific user
// data dir the same way cmd/hify's root command does.
func Default() Cfg {
	return Cfg{
		Addr:     "0.0.0.0",
		Port:     8893,
		LogLevel: "info",
	}
}

// Load reads a JSON config file at path, starting from Default() so any
// field the file omits keeps its built-in value, matching the teacher's
// cfg.Load reading straight into a zero-value Cfg, just pre-seeded here
// since hify's config is optional where muserv's was mandatory.
func Load(path string) (Cfg, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Cfg{}, errors.Wrapf(err, "config file %q couldn't be read", path)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Cfg{}, errors.Wrapf(err, "config file %q couldn't be parsed", path)
	}
	return cfg, nil
}

// Validate checks that the configuration is complete and correct, the same
// sequence-of-validateX-calls shape as the teacher's Cfg.Validate.
func (c *Cfg) Validate() error {
	if err := validateDir(c.MusicDir, "music_dir"); err != nil {
		return err
	}
	if err := validateDir(c.DataDir, "data_dir"); err != nil {
		return err
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("port %d is not a valid TCP port", c.Port)
	}
	if !allowedLogLevels[c.LogLevel] {
		return errors.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// validateDir checks that dir is set and refers to an existing directory,
// porting the teacher's validateDir helper (cfg.go) verbatim in shape.
func validateDir(dir, field string) error {
	if dir == "" {
		return errors.Errorf("%s must be set", field)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "%s %q is not accessible", field, dir)
	}
	if !info.IsDir() {
		return errors.Errorf("%s %q is not a directory", field, dir)
	}
	return nil
}
