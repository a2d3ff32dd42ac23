package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexiusacademia/gorebar/internal/mass"
	"github.com/alexiusacademia/gorebar/internal/units"
	"github.com/spf13/viper"
)

// ServerConfig holds configuration for the HTTP API.
type ServerConfig struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
	TokenKey  string  `mapstructure:"token_key"`
}

// Config holds all runtime configuration.
// Values are populated from .gorebar.toml, GOREBAR_* env vars, and CLI flags.
type Config struct {
	Unit      string       `mapstructure:"unit"`
	Density   float64      `mapstructure:"density"`
	ArcModel  string       `mapstructure:"arc_model"`
	Workers   int          `mapstructure:"workers"`
	Precision int          `mapstructure:"precision"`
	LogLevel  string       `mapstructure:"log_level"`
	Verbose   bool         `mapstructure:"verbose"`
	Server    ServerConfig `mapstructure:"server"`

	// UnitExplicit is set when Unit came from a flag, the environment or a
	// config file rather than the built-in default.
	UnitExplicit bool `mapstructure:"-"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	_ = viper.BindEnv("unit", "GOREBAR_UNIT")
	viper.SetDefault("density", units.SteelDensity)
	viper.SetDefault("arc_model", string(mass.ArcAnnular))
	viper.SetDefault("workers", 0)
	viper.SetDefault("precision", units.DefaultPrecision)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("verbose", false)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.rate_limit", 5.0)
	viper.SetDefault("server.burst", 10)
	viper.SetDefault("server.token_key", "")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	// unit has no viper default so that an explicit setting can be told
	// apart from the fallback.
	cfg.UnitExplicit = strings.TrimSpace(cfg.Unit) != ""
	if !cfg.UnitExplicit {
		cfg.Unit = units.Millimeters.Name
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if _, err := units.Lookup(c.Unit); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Density <= 0 {
		return fmt.Errorf("config: density must be positive, got %g", c.Density)
	}
	if _, err := mass.ParseArcModel(c.ArcModel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if c.Precision < 0 {
		return fmt.Errorf("config: precision must not be negative, got %d", c.Precision)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Server.RateLimit <= 0 || c.Server.Burst <= 0 {
		return fmt.Errorf("config: server rate_limit and burst must be positive")
	}
	return nil
}

// System returns the configured working unit.
func (c Config) System() units.System {
	s, err := units.Lookup(c.Unit)
	if err != nil {
		return units.Millimeters
	}
	return s
}

// SystemFor resolves the working unit of a selection whose file names
// fileUnit. An explicitly configured unit overrides the file; the default
// applies only when the file names none.
func (c Config) SystemFor(fileUnit string) (units.System, error) {
	if strings.TrimSpace(fileUnit) == "" {
		return c.System(), nil
	}
	fromFile, err := units.Lookup(fileUnit)
	if err != nil {
		return units.System{}, err
	}
	if !c.UnitExplicit {
		return fromFile, nil
	}
	configured := c.System()
	if configured != fromFile {
		slog.Warn("configured unit overrides selection unit", "selection", fromFile.Name, "configured", configured.Name)
	}
	return configured, nil
}

// Engine builds a mass engine for system using the configured density,
// arc model and worker count.
func (c Config) Engine(system units.System) *mass.Engine {
	e := mass.NewEngine(system, c.Density)
	e.ArcModel, _ = mass.ParseArcModel(c.ArcModel)
	e.Workers = c.Workers
	return e
}

// Level returns the slog level named by LogLevel; Verbose forces debug.
func (c Config) Level() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return lvl, nil
}
