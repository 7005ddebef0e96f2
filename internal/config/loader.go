package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"eventgen/internal/generator"
)

// Duration is a time.Duration that reads and writes as "1s", "100ms", ...
// in every supported config format and in environment variables.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ProducerConfig overrides one producer's cadence. Unset fields keep the
// stock value.
type ProducerConfig struct {
	Delay    *Duration `json:"delay,omitempty" yaml:"delay,omitempty" toml:"delay,omitempty" validate:"omitempty,gte=0"`
	Interval *Duration `json:"interval,omitempty" yaml:"interval,omitempty" toml:"interval,omitempty" validate:"omitempty,gt=0"`
}

// Config holds runtime parameters for the service.
type Config struct {
	Addr           string   `json:"addr" yaml:"addr" toml:"addr" env:"ADDR" validate:"required_without=DisableHTTP"`
	DisableHTTP    bool     `json:"disable_http" yaml:"disable_http" toml:"disable_http" env:"DISABLE_HTTP"`
	LogLevel       string   `json:"log_level" yaml:"log_level" toml:"log_level" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	LogFormat      string   `json:"log_format" yaml:"log_format" toml:"log_format" env:"LOG_FORMAT" validate:"omitempty,oneof=console json"`
	AccessLogLevel string   `json:"access_log_level" yaml:"access_log_level" toml:"access_log_level" env:"ACCESS_LOG_LEVEL" validate:"omitempty,oneof=off error info debug"`
	LogFile        string   `json:"log_file" yaml:"log_file" toml:"log_file" env:"LOG_FILE"`
	OTelEndpoint   string   `json:"otel_endpoint" yaml:"otel_endpoint" toml:"otel_endpoint" env:"OTEL_ENDPOINT" validate:"omitempty,url"`
	ServiceName    string   `json:"service_name" yaml:"service_name" toml:"service_name" env:"SERVICE_NAME" validate:"required"`
	GracePeriod    Duration `json:"grace_period" yaml:"grace_period" toml:"grace_period" env:"GRACE_PERIOD" validate:"gte=0"`
	StatusInterval Duration `json:"status_interval" yaml:"status_interval" toml:"status_interval" env:"STATUS_INTERVAL" validate:"gte=0"`
	CORSEnabled    bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled" env:"CORS_ENABLED"`
	CORSOrigins    []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`

	Producers map[string]ProducerConfig `json:"producers,omitempty" yaml:"producers,omitempty" toml:"producers,omitempty" validate:"omitempty,dive,keys,oneof=exception warn info debug,endkeys"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Addr:           ":8080",
		LogLevel:       "debug",
		LogFormat:      "console",
		AccessLogLevel: "info",
		ServiceName:    "eventgen",
		GracePeriod:    Duration(time.Second),
		StatusInterval: Duration(5 * time.Second),
	}
}

// Load reads a configuration file based on its extension on top of Default.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Schedules converts producer overrides to generator schedules. Producers
// without an override are omitted so the generator keeps their defaults.
// Names are case-sensitive, matching Validate.
func (c Config) Schedules() map[generator.ProducerName]generator.Schedule {
	if len(c.Producers) == 0 {
		return nil
	}
	defaults := generator.DefaultSchedules()
	out := make(map[generator.ProducerName]generator.Schedule, len(c.Producers))
	for name, pc := range c.Producers {
		pn := generator.ProducerName(name)
		if !pn.Valid() {
			continue
		}
		s := defaults[pn]
		if pc.Delay != nil {
			s.Delay = pc.Delay.Std()
		}
		if pc.Interval != nil {
			s.Interval = pc.Interval.Std()
		}
		out[pn] = s
	}
	return out
}

// YAML renders cfg for display.
func (c Config) YAML() (string, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
