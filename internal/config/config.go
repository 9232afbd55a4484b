// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	EnvAppEnv            = "APP_ENV"
	EnvLogLevel          = "LOG_LEVEL"
	EnvInputDir          = "INPUT_DIR"
	EnvOutputDir         = "OUTPUT_DIR"
	EnvDataSourceTimeout = "DATA_SOURCE_TIMEOUT"
)

const (
	DefaultEnv               = "development"
	DefaultLogLevel          = "info"
	DefaultInputDir          = "input"
	DefaultOutputDir         = "output"
	DefaultDataSourceTimeout = 30 * time.Second
)

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Config holds the environment-driven settings for a run.
type Config struct {
	Env               string        `validate:"required,oneof=development staging production"`
	LogLevel          string        `validate:"required,oneof=debug info warn error"`
	InputDir          string        `validate:"required"`
	OutputDir         string        `validate:"required"`
	DataSourceTimeout time.Duration `validate:"required,min=1s"`
}

// FromEnv builds a Config from the process environment, applying
// defaults for unset or empty variables.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:       envOrDefault(EnvAppEnv, DefaultEnv),
		LogLevel:  envOrDefault(EnvLogLevel, DefaultLogLevel),
		InputDir:  envOrDefault(EnvInputDir, DefaultInputDir),
		OutputDir: envOrDefault(EnvOutputDir, DefaultOutputDir),
	}

	timeout, err := parseTimeout(os.Getenv(EnvDataSourceTimeout))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", EnvDataSourceTimeout, err)
	}
	cfg.DataSourceTimeout = timeout

	if err := configValidator.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no environment variables
// are set.
func Default() Config {
	return Config{
		Env:               DefaultEnv,
		LogLevel:          DefaultLogLevel,
		InputDir:          DefaultInputDir,
		OutputDir:         DefaultOutputDir,
		DataSourceTimeout: DefaultDataSourceTimeout,
	}
}

// parseTimeout accepts either a bare integer number of seconds or a Go
// duration string such as "45s" or "2m".
func parseTimeout(value string) (time.Duration, error) {
	if value == "" {
		return DefaultDataSourceTimeout, nil
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %d", seconds)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse '%s' as seconds or duration", value)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", timeout)
	}

	return timeout, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
