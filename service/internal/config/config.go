// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the service configuration.
type Config struct {
	HTTPAddr      string        `env:"GEMDUEL_HTTP_ADDR" envDefault:":8080"`
	RedisAddr     string        `env:"GEMDUEL_REDIS_ADDR"`
	RedisDB       int           `env:"GEMDUEL_REDIS_DB" envDefault:"0"`
	DatabaseURL   string        `env:"GEMDUEL_DATABASE_URL"`
	SQLitePath    string        `env:"GEMDUEL_SQLITE_PATH"`
	JWTSecret     string        `env:"GEMDUEL_JWT_SECRET"`
	TokenTTL      time.Duration `env:"GEMDUEL_TOKEN_TTL" envDefault:"12h"`
	AIDelay       time.Duration `env:"GEMDUEL_AI_DELAY" envDefault:"1s"`
	FinishedTTL   time.Duration `env:"GEMDUEL_FINISHED_TTL" envDefault:"10m"`
	LogLevel      string        `env:"GEMDUEL_LOG_LEVEL" envDefault:"info"`
	ReplayVersion string        `env:"GEMDUEL_REPLAY_VERSION" envDefault:"1.0.0"`
}

// Load reads an optional .env file from the working directory and parses
// the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks settings that have no usable default.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("GEMDUEL_JWT_SECRET is required")
	}
	if c.DatabaseURL != "" && c.SQLitePath != "" {
		return fmt.Errorf("set only one of GEMDUEL_DATABASE_URL and GEMDUEL_SQLITE_PATH")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("GEMDUEL_LOG_LEVEL: %w", err)
	}
	return nil
}

// ConfigureLogging applies the log level to the standard logrus logger.
func (c Config) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
