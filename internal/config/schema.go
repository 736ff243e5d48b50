// Package config defines the configuration schema for secagent.
//
// YAML keys use camelCase; unset keys keep their default values.
package config

import (
	"os"
	"path/filepath"

	"github.com/secagent/secagent/internal/config/tool"
	"github.com/secagent/secagent/internal/schema"
)

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	OTLPEndpoint string `yaml:"otlpEndpoint"`
	ServiceName  string `yaml:"serviceName"`
}

func defaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		OTLPEndpoint: "http://localhost:4317",
		ServiceName:  "secagent",
	}
}

// Config is the root configuration object, loaded from ~/.secagent/config.yaml.
type Config struct {
	Model             string  `yaml:"model"`
	Host              string  `yaml:"host"`
	Backend           string  `yaml:"backend"`
	APIKey            string  `yaml:"apiKey"`
	Mode              string  `yaml:"mode"`
	Temperature       float64 `yaml:"temperature"`
	TopP              float64 `yaml:"topP"`
	MaxToolIterations int     `yaml:"maxToolIterations"`

	Tools     tool.ToolsConfig `yaml:"tools"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Model:             schema.DefaultModel,
		Host:              schema.DefaultHost,
		Backend:           schema.DefaultBackend,
		Mode:              schema.DefaultMode,
		Temperature:       schema.DefaultTemperature,
		TopP:              schema.DefaultTopP,
		MaxToolIterations: schema.DefaultMaxToolIterations,
		Tools:             tool.DefaultToolConfigs(),
		Telemetry:         defaultTelemetryConfig(),
	}
}

// Settings extracts the conversation settings.
func (c *Config) Settings() schema.Settings {
	return schema.Settings{
		Model:             c.Model,
		Host:              c.Host,
		Backend:           c.Backend,
		Mode:              c.Mode,
		Temperature:       c.Temperature,
		TopP:              c.TopP,
		MaxToolIterations: c.MaxToolIterations,
	}
}

// WorkingDirPath returns the tool working directory with "~/" expanded.
func (c *Config) WorkingDirPath() string {
	ws := c.Tools.WorkingDir
	if ws == "" {
		ws = "."
	}
	if len(ws) >= 2 && ws[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			ws = filepath.Join(home, ws[2:])
		}
	}
	return ws
}
