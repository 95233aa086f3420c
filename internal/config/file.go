// CLAUDE:SUMMARY Defines xpick config structs and parses YAML configuration files with defaults.
// Package config handles xpick configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level xpick configuration.
type Config struct {
	Locator Locator      `yaml:"locator"`
	Browser Browser      `yaml:"browser"`
	Sinks   []SinkConfig `yaml:"sinks"`
	Server  Server       `yaml:"server"`
}

// Locator tunes candidate generation.
type Locator struct {
	Attributes      []string   `yaml:"attributes"`
	InputAttributes []string   `yaml:"input_attributes"`
	MinTextLen      int        `yaml:"min_text_len"`
	MaxTextLen      int        `yaml:"max_text_len"`
	InlineTags      []string   `yaml:"inline_tags"`
	MaxWrappers     int        `yaml:"max_wrappers"`
	Validation      string     `yaml:"validation"` // exact | contains | any
	Classes         ClassRules `yaml:"classes"`
}

// ClassRules is the declarative class-stability rule set.
type ClassRules struct {
	MinLength    int      `yaml:"min_length"`
	Deny         []string `yaml:"deny"`
	RejectDigits *bool    `yaml:"reject_digits"`
}

// Browser controls the live picker.
type Browser struct {
	Remote           string        `yaml:"remote"`
	Stealth          string        `yaml:"stealth"` // none | headless | headful
	NavTimeout       time.Duration `yaml:"nav_timeout"`
	ResourceBlocking []string      `yaml:"resource_blocking"`
}

// SinkConfig defines an output backend.
type SinkConfig struct {
	Type    string `yaml:"type"` // stdout | webhook | clipboard
	URL     string `yaml:"url"`  // for webhook
	Retries int    `yaml:"retries"`
}

// Server controls the HTTP surface.
type Server struct {
	Listen string `yaml:"listen"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	c.Locator.ApplyDefaults()
	if c.Browser.Stealth == "" {
		c.Browser.Stealth = "headless"
	}
	if c.Browser.NavTimeout <= 0 {
		c.Browser.NavTimeout = 30 * time.Second
	}
	if c.Server.Listen == "" {
		c.Server.Listen = "127.0.0.1:8088"
	}
	for i := range c.Sinks {
		if c.Sinks[i].Type == "webhook" && c.Sinks[i].Retries <= 0 {
			c.Sinks[i].Retries = 3
		}
	}
}

// ApplyDefaults fills zero locator fields. Attribute and tag lists are left
// empty so the engine's built-in lists apply.
func (l *Locator) ApplyDefaults() {
	if l.MinTextLen <= 0 {
		l.MinTextLen = 2
	}
	if l.MaxTextLen <= 0 {
		l.MaxTextLen = 100
	}
	if l.MaxWrappers <= 0 {
		l.MaxWrappers = 5
	}
	if l.Validation == "" {
		l.Validation = "exact"
	}
	if l.Classes.MinLength <= 0 {
		l.Classes.MinLength = 4
	}
	if l.Classes.RejectDigits == nil {
		reject := true
		l.Classes.RejectDigits = &reject
	}
}
