// Package config loads cashdesk configuration.
//
// Precedence, lowest first: built-in defaults, an optional YAML file, then
// environment variables (a .env file in the working directory is loaded
// into the environment first if present). Command-line flags are applied
// on top by the binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend names accepted by store.Open.
const (
	BackendMemory   = "memory"
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config represents the application configuration.
type Config struct {
	Port           int      `yaml:"port"`
	Backend        string   `yaml:"backend"`
	DSN            string   `yaml:"dsn"` // file path for json/sqlite, connection string for postgres
	Timezone       string   `yaml:"timezone"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	Debug          bool     `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           8080,
		Backend:        BackendSQLite,
		DSN:            "cashdesk.db",
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
	}
}

// Load builds the configuration. yamlPath may be empty. A missing .env is
// fine; a missing YAML file named explicitly is an error. Load does not
// validate: callers apply their flags and then call Validate.
func Load(yamlPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if yamlPath != "" {
		raw, err := os.ReadFile(yamlPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", yamlPath, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("CASHDESK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CASHDESK_PORT: %s", v)
		}
		cfg.Port = port
	}
	cfg.Backend = getEnvOrDefault("CASHDESK_BACKEND", cfg.Backend)
	cfg.DSN = getEnvOrDefault("CASHDESK_DSN", cfg.DSN)
	cfg.Timezone = getEnvOrDefault("CASHDESK_TIMEZONE", cfg.Timezone)
	if v := os.Getenv("CASHDESK_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("CASHDESK_DEBUG"); v != "" {
		cfg.Debug = v == "true" || v == "1"
	}
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	var problems []string

	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range", c.Port))
	}
	switch c.Backend {
	case BackendMemory:
	case BackendJSON, BackendSQLite, BackendPostgres:
		if c.DSN == "" {
			problems = append(problems, fmt.Sprintf("backend %s needs a dsn", c.Backend))
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown backend %q", c.Backend))
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// Location resolves Timezone. Empty means the machine's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	return loc, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
