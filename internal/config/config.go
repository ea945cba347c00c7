package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"dirwatch/internal/match"
)

const DefaultInterval = time.Second

type Config struct {
	Exclude      []string      `yaml:"exclude"`
	ExcludeRegex []string      `yaml:"exclude_regex"`
	Interval     time.Duration `yaml:"interval"`
	Notify       bool          `yaml:"notify"`
	Progress     bool          `yaml:"progress"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude: []string{
			".git",
			".svn",
			".hg",
			"node_modules",
			"__pycache__",
			"*.o",
			"*.so",
			"*.tmp",
			"*.swp",
			"*~",
			".DS_Store",
			"Thumbs.db",
		},
		ExcludeRegex: []string{},
		Interval:     DefaultInterval,
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Initialize slices if nil (for empty configs)
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if cfg.ExcludeRegex == nil {
		cfg.ExcludeRegex = []string{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	return &cfg, nil
}

// Rules compiles the configured exclusions.
func (c *Config) Rules() (match.Set, error) {
	rules, err := match.Compile(c.Exclude, c.ExcludeRegex)
	if err != nil {
		return nil, fmt.Errorf("invalid exclusion: %w", err)
	}
	return rules, nil
}
