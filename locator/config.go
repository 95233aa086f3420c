package locator

import (
	"github.com/hazyhaar/xpick/internal/config"
)

// Config tunes candidate generation. Re-exported from internal.
type Config = config.Locator

// ClassRules is the class-stability rule set.
type ClassRules = config.ClassRules

// FileConfig is the full xpick configuration file.
type FileConfig = config.Config

// BrowserConfig controls the live picker.
type BrowserConfig = config.Browser

// SinkConfig defines an output backend.
type SinkConfig = config.SinkConfig

// DefaultConfig returns the built-in locator configuration.
func DefaultConfig() *Config {
	var c Config
	c.ApplyDefaults()
	return &c
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*FileConfig, error) {
	return config.LoadFile(path)
}
