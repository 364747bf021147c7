package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIURL = "http://localhost:3000/recipes"

type Config struct {
	API     APIConfig     `json:"api"`
	Server  ServerConfig  `json:"server"`
	Logging LoggingConfig `json:"logging"`
}

// APIConfig points at the remote recipe collection.
type APIConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"` // zero means no timeout
	Retries int           `json:"retries"`

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client `json:"-"`
}

type ServerConfig struct {
	Addr string `json:"addr"`
}

type LoggingConfig struct {
	Level        slog.Level `json:"level"`
	Format       string     `json:"format"` // "text" or "json"
	OTLPEndpoint string     `json:"otlp_endpoint"`
}

func (l LoggingConfig) OTLPEnabled() bool {
	return l.OTLPEndpoint != ""
}

// Load reads an optional .env file from the working directory and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	config := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnvOrDefault("RECIPES_API_URL", DefaultAPIURL), "/"),
		},
		Server: ServerConfig{
			Addr: getEnvOrDefault("ADDR", ":8080"),
		},
		Logging: LoggingConfig{
			Format:       strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
	}

	u, err := url.Parse(config.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid RECIPES_API_URL %q: %w", config.API.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid RECIPES_API_URL %q: scheme must be http or https", config.API.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid RECIPES_API_URL %q: missing host", config.API.BaseURL)
	}

	if v := os.Getenv("RECIPES_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RECIPES_API_TIMEOUT: %w", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid RECIPES_API_TIMEOUT %q: must not be negative", v)
		}
		config.API.Timeout = d
	}

	if v := os.Getenv("RECIPES_API_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RECIPES_API_RETRIES: %w", err)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid RECIPES_API_RETRIES %q: must not be negative", v)
		}
		config.API.Retries = n
	}

	if err := config.Logging.Level.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if config.Logging.Format != "text" && config.Logging.Format != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: use text or json", config.Logging.Format)
	}

	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
