package strict

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds client settings loadable from a TOML or YAML file. It is a
// convenience layer over New; all fields other than BaseURL are optional.
type Config struct {
	BaseURL        string  `toml:"base_url" yaml:"base_url"`
	APIKey         string  `toml:"api_key" yaml:"api_key"`
	TimeoutSeconds float64 `toml:"timeout_seconds" yaml:"timeout_seconds"`
	UserAgent      string  `toml:"user_agent" yaml:"user_agent"`
}

// LoadConfig reads a client configuration file. The format is chosen by
// extension: .toml, or .yaml/.yml.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("config %s: base_url is required", path)
	}
	return &cfg, nil
}

// Client builds a Client from the configuration. Additional options are
// applied after the config-derived ones and take precedence.
func (cfg *Config) Client(opts ...Option) *Client {
	var all []Option
	if cfg.TimeoutSeconds > 0 {
		all = append(all, withTimeoutSeconds(cfg.TimeoutSeconds))
	}
	if cfg.UserAgent != "" {
		all = append(all, WithUserAgent(cfg.UserAgent))
	}
	all = append(all, opts...)
	return New(cfg.BaseURL, cfg.APIKey, all...)
}
