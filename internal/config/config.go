package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ksenchenko/apportionment/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort           = "8080"
	defaultTotalSeats     = 538
	defaultBaseSeats      = 3
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string        `yaml:"port"`
	InitialPopulations   []int64       `yaml:"populations"`
	TotalSeats           int           `yaml:"total_seats"`
	BaseSeats            int           `yaml:"base_seats"`
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration `yaml:"write_timeout"`
	IdleTimeout          time.Duration `yaml:"idle_timeout"`
	EnableRequestLogging bool          `yaml:"enable_request_logging"`
	RateLimitRPS         float64       `yaml:"-"`
	RateLimitBurst       int           `yaml:"-"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	Populations          []int64       `yaml:"populations"`
	TotalSeats           int           `yaml:"total_seats"`
	BaseSeats            *int          `yaml:"base_seats"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging bool          `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	PopulationsStr *string
	TotalSeats     *int
	BaseSeats      *int
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply environment variables (override YAML)
	applyEnvConfig(&cfg)

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values. The seat defaults are
// the American electoral college: 538 electors, every state starting with 3.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		InitialPopulations:   storage.DefaultPopulations(),
		TotalSeats:           defaultTotalSeats,
		BaseSeats:            defaultBaseSeats,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if len(yamlCfg.Populations) > 0 {
		cfg.InitialPopulations = yamlCfg.Populations
	}

	if yamlCfg.TotalSeats > 0 {
		cfg.TotalSeats = yamlCfg.TotalSeats
	}

	// base_seats: 0 is a meaningful value, so only a present key applies
	if yamlCfg.BaseSeats != nil && *yamlCfg.BaseSeats >= 0 {
		cfg.BaseSeats = *yamlCfg.BaseSeats
	}

	if yamlCfg.ShutdownGracePeriod != "" {
		if d, err := time.ParseDuration(yamlCfg.ShutdownGracePeriod); err == nil {
			cfg.ShutdownGracePeriod = d
		}
	}

	if yamlCfg.ReadHeaderTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.ReadHeaderTimeout); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}

	if yamlCfg.WriteTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.WriteTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if yamlCfg.IdleTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.IdleTimeout); err == nil {
			cfg.IdleTimeout = d
		}
	}

	cfg.EnableRequestLogging = yamlCfg.EnableRequestLogging

	if yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rawPopulations := strings.TrimSpace(os.Getenv("POPULATIONS")); rawPopulations != "" {
		populations, err := parsePopulations(rawPopulations)
		if err == nil && len(populations) > 0 {
			cfg.InitialPopulations = populations
		}
	}

	if totalSeats := strings.TrimSpace(os.Getenv("TOTAL_SEATS")); totalSeats != "" {
		if value, err := strconv.Atoi(totalSeats); err == nil && value > 0 {
			cfg.TotalSeats = value
		}
	}

	if baseSeats := strings.TrimSpace(os.Getenv("BASE_SEATS")); baseSeats != "" {
		if value, err := strconv.Atoi(baseSeats); err == nil && value >= 0 {
			cfg.BaseSeats = value
		}
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.PopulationsStr != nil && *overrides.PopulationsStr != "" {
		populations, err := parsePopulations(*overrides.PopulationsStr)
		if err != nil {
			return fmt.Errorf("parse populations: %w", err)
		}
		cfg.InitialPopulations = populations
	}

	if overrides.TotalSeats != nil && *overrides.TotalSeats > 0 {
		cfg.TotalSeats = *overrides.TotalSeats
	}

	if overrides.BaseSeats != nil && *overrides.BaseSeats >= 0 {
		cfg.BaseSeats = *overrides.BaseSeats
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if len(cfg.InitialPopulations) == 0 {
		return fmt.Errorf("populations cannot be empty")
	}
	if cfg.TotalSeats <= 0 {
		return fmt.Errorf("total seats must be positive")
	}
	if cfg.BaseSeats < 0 {
		return fmt.Errorf("base seats must be >= 0")
	}
	if cfg.TotalSeats < cfg.BaseSeats*len(cfg.InitialPopulations) {
		return fmt.Errorf("total seats %d cannot cover %d base seats for %d entities",
			cfg.TotalSeats, cfg.BaseSeats, len(cfg.InitialPopulations))
	}
	return nil
}

// parsePopulations parses a comma-separated string of populations into a
// slice of integers. It validates that all values are non-negative.
func parsePopulations(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	populations := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", part)
		}
		if value < 0 {
			return nil, fmt.Errorf("population must be non-negative, got %d", value)
		}
		populations = append(populations, value)
	}
	if len(populations) == 0 {
		return nil, fmt.Errorf("no populations provided")
	}
	return populations, nil
}
