// Package config loads the server configuration file and builds the summary
// engine it describes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/S2thend/cursor-history-mcp/pkg/wrapped"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/sanitize"
)

// MaskRule is one additional masking pattern applied during sanitization,
// after the built-in rules.
type MaskRule struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// ServerConfig is the on-disk configuration for the history server and the
// summary engine defaults.
type ServerConfig struct {
	DBPath           string     `yaml:"db_path"`
	Language         string     `yaml:"language"`
	MaxRecords       int        `yaml:"max_records"`
	MaxSamples       int        `yaml:"max_samples"`
	MaxSampleLength  int        `yaml:"max_sample_length"`
	TopicsCount      int        `yaml:"topics_count"`
	MaxContentLength int        `yaml:"max_content_length"`
	ExtraStopwords   []string   `yaml:"extra_stopwords"`
	MaskRules        []MaskRule `yaml:"mask_rules"`
}

// Default returns the configuration used when no file is given.
func Default() ServerConfig {
	return ServerConfig{
		DBPath:           "history.db",
		Language:         "en",
		MaxSamples:       5,
		MaxSampleLength:  160,
		TopicsCount:      5,
		MaxContentLength: 2000,
	}
}

// Load reads a YAML configuration file over the defaults. An empty path
// returns the defaults unchanged; absent keys keep their default values.
func Load(path string) (ServerConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// BuildEngine constructs the summary engine with the configured mask rules
// and extra stopwords applied.
func (c ServerConfig) BuildEngine() (*wrapped.Engine, error) {
	s := sanitize.New()
	for _, rule := range c.MaskRules {
		if err := s.AddRule(rule.Name, rule.Pattern, rule.Replacement); err != nil {
			return nil, fmt.Errorf("mask rule %q: %w", rule.Name, err)
		}
	}

	engine := wrapped.NewWithSanitizer(s)
	engine.AddStopwords(c.ExtraStopwords...)
	return engine, nil
}

// EngineConfig materializes a per-run engine configuration for one year,
// taking any unset field from the engine defaults.
func (c ServerConfig) EngineConfig(year int) wrapped.Config {
	cfg := wrapped.DefaultConfig(year)
	if c.Language != "" {
		cfg.Language = c.Language
	}
	if c.MaxSamples > 0 {
		cfg.MaxSamples = c.MaxSamples
	}
	if c.MaxSampleLength > 0 {
		cfg.MaxSampleLength = c.MaxSampleLength
	}
	if c.TopicsCount > 0 {
		cfg.TopicsCount = c.TopicsCount
	}
	if c.MaxContentLength > 0 {
		cfg.MaxContentLength = c.MaxContentLength
	}
	return cfg
}
