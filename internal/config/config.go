package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Setting keys recognised by the plugin. Both are optional.
const (
	KeyWeatherAPIKey = "WEATHER_API_KEY"
	KeyFetchAIAPIKey = "FETCH_AI_API_KEY"
)

const (
	// DefaultWeatherAPIKey is the placeholder key used when none is configured.
	DefaultWeatherAPIKey = "demo"

	// DefaultWeatherBaseURL is the OpenWeatherMap current weather endpoint.
	DefaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"
)

var validate = validator.New()

type AppConfig struct {
	WeatherAPIKey  string `validate:"required,printascii"`
	FetchAIAPIKey  string `validate:"omitempty,printascii"`
	WeatherBaseURL string `validate:"required,url"`

	// HTTPTimeout bounds each upstream call (0 = http.Client default, no timeout).
	HTTPTimeout time.Duration `validate:"min=0"`

	// MaxRetries for transient upstream failures (0 = single attempt).
	MaxRetries int `validate:"min=0,max=10"`

	// BreakerFailures opens the upstream circuit breaker after that many
	// consecutive failures (0 = never open).
	BreakerFailures int `validate:"min=0,max=1000"`

	Port string `validate:"required,numeric"`

	// MCPAddr is the listen address of the MCP SSE server; empty disables it.
	MCPAddr string `validate:"omitempty,hostname_port"`

	LogLevel  string `validate:"oneof=debug info warn warning error"`
	LogFormat string `validate:"oneof=text json"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherAPIKey = getenvDefault(KeyWeatherAPIKey, DefaultWeatherAPIKey)
	cfg.FetchAIAPIKey = os.Getenv(KeyFetchAIAPIKey)
	cfg.WeatherBaseURL = getenvDefault("WEATHER_API_BASE_URL", DefaultWeatherBaseURL)

	timeoutStr := getenvDefault("WEATHER_HTTP_TIMEOUT", "0s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.MaxRetries = getenvInt("WEATHER_MAX_RETRIES", 0)
	cfg.BreakerFailures = getenvInt("WEATHER_BREAKER_FAILURES", 0)
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.MCPAddr = os.Getenv("MCP_ADDR")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "text")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is set in the environment.
func Default() *AppConfig {
	return &AppConfig{
		WeatherAPIKey:  DefaultWeatherAPIKey,
		WeatherBaseURL: DefaultWeatherBaseURL,
		Port:           "8080",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Validate checks the configuration once, at startup.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// pluginSettings is the schema for settings handed to the plugin by its host.
type pluginSettings struct {
	WeatherAPIKey string `validate:"omitempty,printascii"`
	FetchAIAPIKey string `validate:"omitempty,printascii"`
}

// WithSettings returns a copy of c with explicit plugin settings applied.
// A non-empty setting overrides the environment-derived value; unknown keys
// are ignored. c itself is never modified.
func (c *AppConfig) WithSettings(settings map[string]string) (*AppConfig, error) {
	s := pluginSettings{
		WeatherAPIKey: settings[KeyWeatherAPIKey],
		FetchAIAPIKey: settings[KeyFetchAIAPIKey],
	}
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("invalid plugin configuration: %w", err)
	}

	out := *c
	if s.WeatherAPIKey != "" {
		out.WeatherAPIKey = s.WeatherAPIKey
	}
	if s.FetchAIAPIKey != "" {
		out.FetchAIAPIKey = s.FetchAIAPIKey
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetServerAddr returns the server address in the format ":port".
func (c *AppConfig) GetServerAddr() string {
	return ":" + c.Port
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
