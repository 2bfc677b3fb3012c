// Package config loads stepviz settings from an optional YAML file and STEPVIZ_* environment
// variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/wilhg/stepviz/pkg/algorithms/script"
	"github.com/wilhg/stepviz/pkg/player"
	"github.com/wilhg/stepviz/pkg/trace"
)

// EnvPrefix prefixes every environment variable name.
const EnvPrefix = "STEPVIZ_"

// Config holds the settings shared by every command.
type Config struct {
	// BaseInterval is the delay between auto-advance steps at speed 1.
	BaseInterval time.Duration `yaml:"baseInterval" env:"BASE_INTERVAL"`
	Speed        float64       `yaml:"speed" env:"SPEED"`
	// MaxEvents caps a single materialization.
	MaxEvents int    `yaml:"maxEvents" env:"MAX_EVENTS"`
	LogLevel  string `yaml:"logLevel" env:"LOG_LEVEL"`
	LogFile   string `yaml:"logFile" env:"LOG_FILE"`
	// Tracing exports spans to stderr.
	Tracing         bool   `yaml:"tracing" env:"TRACING"`
	ScriptsDir      string `yaml:"scriptsDir" env:"SCRIPTS_DIR"`
	MaxScriptEvents int    `yaml:"maxScriptEvents" env:"MAX_SCRIPT_EVENTS"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseInterval:    player.DefaultBaseInterval,
		Speed:           1,
		MaxEvents:       trace.DefaultMaxEvents,
		LogLevel:        "info",
		MaxScriptEvents: script.DefaultMaxEvents,
	}
}

// Load applies the YAML file at path (if path is non-empty) and then the environment on top
// of Default, and validates the result.
func Load(path string) (Config, error) {
	return load(path, env.Options{Prefix: EnvPrefix})
}

func load(path string, opts env.Options) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.BaseInterval <= 0 {
		errs = append(errs, errors.New("baseInterval must be greater than 0"))
	}
	if c.Speed < player.MinSpeed || c.Speed > player.MaxSpeed {
		errs = append(errs, fmt.Errorf("speed must be between %g and %g", player.MinSpeed, player.MaxSpeed))
	}
	if c.MaxEvents <= 0 {
		errs = append(errs, errors.New("maxEvents must be greater than 0"))
	}
	if c.MaxScriptEvents <= 0 {
		errs = append(errs, errors.New("maxScriptEvents must be greater than 0"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal":
	default:
		errs = append(errs, fmt.Errorf("logLevel %q is not one of debug, info, warn, error, fatal", c.LogLevel))
	}
	if c.MaxEvents > 0 && c.MaxScriptEvents > c.MaxEvents {
		errs = append(errs, errors.New("maxScriptEvents must not exceed maxEvents"))
	}
	return errors.Join(errs...)
}
