package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultEnvFiles are loaded in order when present.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Config is the console's runtime configuration, read from the environment.
type Config struct {
	Port               string        `env:"PORT" envDefault:"3001" validate:"required,numeric"`
	APIBaseURL         string        `env:"API_BASE_URL" envDefault:"https://custom-cms-backend.vercel.app" validate:"required,http_url"`
	IDField            string        `env:"ID_FIELD" envDefault:"_id" validate:"required"`
	HTTPClientTimeout  time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	MaxAttachmentBytes int64         `env:"MAX_ATTACHMENT_BYTES" envDefault:"12582912" validate:"gt=0"`
	DefaultPageSize    int           `env:"DEFAULT_PAGE_SIZE" envDefault:"10" validate:"oneof=10 20 50"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=silent error warn info debug"`
	GinMode            string        `env:"GIN_MODE" envDefault:"release" validate:"oneof=debug release test"`
	SessionCookie      string        `env:"SESSION_COOKIE" envDefault:"cms_session" validate:"required"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"2h" validate:"gt=0"`
	MetricsPath        string        `env:"METRICS_PATH" envDefault:"/metrics" validate:"startswith=/"`
	RequestIDHeader    string        `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID" validate:"required"`
}

// LoadEnv loads the env files that exist and reports how many were found.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads env files, parses the environment and validates the result.
func Load(envFiles ...string) (*Config, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Address is the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + c.Port
}

// LogrusLogLevel maps LOG_LEVEL onto logrus levels.
func (c *Config) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// Logger builds the process logger: JSON in release mode, text otherwise.
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogrusLogLevel())
	if c.GinMode == "release" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
