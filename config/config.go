package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the CLI configuration. The analytics packages take everything
// they need as arguments; config only wires the edges (curve source,
// scenario fan-out, logging mode).
type Config struct {
	Development bool           `mapstructure:"development"`
	Curve       CurveConfig    `mapstructure:"curve"`
	Scenario    ScenarioConfig `mapstructure:"scenario"`
}

type CurveConfig struct {
	// Source selects the benchmark-curve provider: "builtin" (bundled
	// presets) or "postgres".
	Source string `mapstructure:"source"`
	// Name is the curve to load (e.g. "UST").
	Name string `mapstructure:"name"`
	// DSN is the Postgres connection string when Source is "postgres".
	DSN string `mapstructure:"dsn"`
}

type ScenarioConfig struct {
	// Workers bounds the scenario fan-out; 0 means one per CPU core.
	Workers int `mapstructure:"workers"`
}

// Load reads configuration from the given file (optional) and from
// BONDCALC_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("development", false)
	v.SetDefault("curve.source", "builtin")
	v.SetDefault("curve.name", "UST")
	v.SetDefault("scenario.workers", 0)

	v.SetEnvPrefix("BONDCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Curve.Source {
	case "builtin", "postgres":
	default:
		return fmt.Errorf("config: unknown curve source %q", c.Curve.Source)
	}
	if c.Curve.Source == "postgres" && c.Curve.DSN == "" {
		return fmt.Errorf("config: curve.dsn is required for the postgres source")
	}
	if c.Scenario.Workers < 0 {
		return fmt.Errorf("config: scenario.workers must be >= 0")
	}
	return nil
}
