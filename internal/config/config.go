package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const appName = "todo"

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Display   DisplayConfig   `mapstructure:"display"`
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type DisplayConfig struct {
	TimeFormat string `mapstructure:"time_format" validate:"oneof=12h 24h"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host" validate:"required"`
	Port           int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int     `mapstructure:"burst" validate:"min=1"`
}

// Default returns the built-in configuration before any file or environment
// overrides.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: DefaultDatabasePath(),
		},
		Display: DisplayConfig{
			TimeFormat: "24h",
		},
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           7070,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			AllowedOrigins: []string{"http://localhost", "http://localhost:*", "http://127.0.0.1", "http://127.0.0.1:*"},
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
	}
}

// Load layers defaults, the YAML config file and TODO_* environment
// variables, in that order. path selects the file; when empty, TODO_CONFIG
// or the default location is used. A file named explicitly must exist; the
// default file is optional.
func Load(path string) (*Config, error) {
	config := Default()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv("TODO_CONFIG"); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultConfigPath()
		}
	}

	if path != "" {
		if err := loadFile(expandPath(path), config); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	applyEnv(config)
	config.Database.Path = expandPath(config.Database.Path)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(config)
}

func applyEnv(config *Config) {
	config.Database.Path = getEnv("TODO_DB_PATH", config.Database.Path)
	config.Display.TimeFormat = getEnv("TODO_TIME_FORMAT", config.Display.TimeFormat)
	config.Log.Debug = getEnvAsBool("TODO_DEBUG", config.Log.Debug)
	config.Server.Host = getEnv("TODO_SERVER_HOST", config.Server.Host)
	config.Server.Port = getEnvAsInt("TODO_SERVER_PORT", config.Server.Port)
	config.Server.ReadTimeout = getEnvAsDuration("TODO_SERVER_READ_TIMEOUT", config.Server.ReadTimeout)
	config.Server.WriteTimeout = getEnvAsDuration("TODO_SERVER_WRITE_TIMEOUT", config.Server.WriteTimeout)
	config.RateLimit.Enabled = getEnvAsBool("TODO_RATE_LIMIT_ENABLED", config.RateLimit.Enabled)
	config.RateLimit.RequestsPerSecond = getEnvAsFloat("TODO_RATE_LIMIT_RPS", config.RateLimit.RequestsPerSecond)
	config.RateLimit.Burst = getEnvAsInt("TODO_RATE_LIMIT_BURST", config.RateLimit.Burst)
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DefaultDatabasePath follows the XDG base directory layout:
// $XDG_DATA_HOME/todo/todo.db, falling back to ~/.local/share.
func DefaultDatabasePath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName, "todo.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "todo.db")
	}
	return filepath.Join(home, ".local", "share", appName, "todo.db")
}

// DefaultConfigPath is <user config dir>/todo/config.yaml, or empty when the
// platform has no config directory.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// expandPath resolves a leading ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
