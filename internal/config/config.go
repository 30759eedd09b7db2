package config

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string `env:"LOG_FORMAT" envDefault:"console"`
	InputPath          string `env:"PREDICTOR_INPUT" envDefault:"-"` // "-" reads stdin
	OutputPath         string `env:"PREDICTOR_OUTPUT" envDefault:"-"`
	TuningFile         string `env:"PREDICTOR_TUNING_FILE"`
	ClassifierArtifact string `env:"CLASSIFIER_ARTIFACT"` // path or http(s) URL
	Workers            int    `env:"PREDICTOR_WORKERS" envDefault:"4"`
	RequestTimeout     int    `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	ArtifactRPS        int    `env:"ARTIFACT_RPS" envDefault:"5"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getEnvWithDefault("LOG_FORMAT", "console")
	cfg.InputPath = getEnvWithDefault("PREDICTOR_INPUT", "-")
	cfg.OutputPath = getEnvWithDefault("PREDICTOR_OUTPUT", "-")
	cfg.TuningFile = os.Getenv("PREDICTOR_TUNING_FILE")
	cfg.ClassifierArtifact = os.Getenv("CLASSIFIER_ARTIFACT")
	cfg.Workers = getEnvIntWithDefault("PREDICTOR_WORKERS", 4)
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.ArtifactRPS = getEnvIntWithDefault("ARTIFACT_RPS", 5)

	// Нулевое или отрицательное число воркеров не имеет смысла
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.RequestTimeout < 1 {
		cfg.RequestTimeout = 30
	}
	if cfg.ArtifactRPS < 1 {
		cfg.ArtifactRPS = 5
	}

	return &cfg, nil
}

// Timeout returns the request timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT
func (c *Config) NewLogger(out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	if c.LogFormat != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
