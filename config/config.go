// Package config loads staffing run settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"agent-staffing/demand"
	"agent-staffing/scheduler"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all staffing run configuration
type Config struct {
	// ServiceRate is calls per hour one agent handles
	ServiceRate float64 `yaml:"service_rate"`
	// TargetProbability is the highest accepted chance of waiting
	TargetProbability float64 `yaml:"target_probability"`
	// MaxServers caps the per-hour search
	MaxServers int `yaml:"max_servers"`
	// ClosedHours are forced to zero agents after solving
	ClosedHours []int `yaml:"closed_hours"`
	// HourlyLoad is arrivals per hour, normally 24 buckets
	HourlyLoad []float64 `yaml:"hourly_load"`
	// Capacity is the maximum agents per hour for customer schedules (0 = unlimited)
	Capacity int `yaml:"capacity"`
	// WrapUpSeconds is added to the mean service time when estimating service rate
	WrapUpSeconds float64 `yaml:"wrap_up_seconds"`
	// Weekday selects the day analysed from a call log
	Weekday string `yaml:"weekday"`

	Log LogConfig `yaml:"log"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		ServiceRate:       demand.DefaultServiceRate,
		TargetProbability: demand.DefaultTargetProbability,
		MaxServers:        scheduler.DefaultMaxServers,
		ClosedHours:       append([]int(nil), demand.DefaultClosedHours...),
		WrapUpSeconds:     demand.DefaultWrapUp.Seconds(),
		Weekday:           time.Wednesday.String(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// (validated against the embedded CUE schema), a .env file if present and
// environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
		if len(strings.TrimSpace(string(data))) > 0 {
			if err := ValidateWithCue(path, data); err != nil {
				return nil, err
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cannot unmarshal config: %w", err)
			}
		}
	}

	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment variables")
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var errs []string

	if v, ok := lookup("STAFFING_SERVICE_RATE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("STAFFING_SERVICE_RATE: %v", err))
		}
		c.ServiceRate = f
	}
	if v, ok := lookup("STAFFING_TARGET_PROBABILITY"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("STAFFING_TARGET_PROBABILITY: %v", err))
		}
		c.TargetProbability = f
	}
	if v, ok := lookup("STAFFING_MAX_SERVERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("STAFFING_MAX_SERVERS: %v", err))
		}
		c.MaxServers = n
	}
	if v, ok := lookup("STAFFING_CLOSED_HOURS"); ok {
		hours, err := ParseHours(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("STAFFING_CLOSED_HOURS: %v", err))
		}
		c.ClosedHours = hours
	}
	if v, ok := lookup("STAFFING_WEEKDAY"); ok {
		c.Weekday = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		c.Log.Format = v
	}

	if len(errs) > 0 {
		return errors.New("invalid environment:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	if c.ServiceRate <= 0 {
		errs = append(errs, "service rate must be positive")
	}
	if !(c.TargetProbability > 0 && c.TargetProbability < 1) {
		errs = append(errs, "target probability must be within (0, 1)")
	}
	if c.MaxServers < 0 {
		errs = append(errs, "max servers must not be negative")
	}
	if c.Capacity < 0 {
		errs = append(errs, "capacity must not be negative")
	}
	if c.WrapUpSeconds < 0 {
		errs = append(errs, "wrap-up must not be negative")
	}
	for _, h := range c.ClosedHours {
		if h < 0 || h > 23 {
			errs = append(errs, fmt.Sprintf("closed hour %d is outside 0-23", h))
		}
	}
	for h, load := range c.HourlyLoad {
		if load < 0 {
			errs = append(errs, fmt.Sprintf("hourly load for hour %d is negative", h))
		}
	}
	if _, err := demand.ParseWeekday(c.Weekday); err != nil {
		errs = append(errs, err.Error())
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log format must be json or text (got %q)", c.Log.Format))
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

// WrapUp returns the wrap-up time as a duration.
func (c *Config) WrapUp() time.Duration {
	return time.Duration(c.WrapUpSeconds * float64(time.Second))
}

// ParseHours parses a comma separated list of hours. "none" yields no hours.
func ParseHours(value string) ([]int, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "none") {
		return []int{}, nil
	}
	parts := strings.Split(value, ",")
	hours := make([]int, 0, len(parts))
	for _, part := range parts {
		h, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid hour %q", part)
		}
		hours = append(hours, h)
	}
	return hours, nil
}

// ParseLoads parses a comma separated list of hourly arrival counts.
func ParseLoads(value string) ([]float64, error) {
	parts := strings.Split(value, ",")
	loads := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid load %q", part)
		}
		loads = append(loads, f)
	}
	return loads, nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
