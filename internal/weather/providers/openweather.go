package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-agent/internal/weather"
)

const defaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherConfig configures an OpenWeatherProvider. Zero values select
// the public endpoint, a single attempt per request and a breaker that
// never opens.
type OpenWeatherConfig struct {
	APIKey     string
	BaseURL    string
	MaxRetries int

	// BreakerFailures is the number of consecutive upstream failures that
	// opens the circuit breaker; 0 disables tripping.
	BreakerFailures uint32
}

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, cfg OpenWeatherConfig) *OpenWeatherProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenWeatherURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      cfg.MaxRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newCircuitBreaker("openweather", cfg.BreakerFailures),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Fetch returns the current conditions for a free-form location ("London",
// "Paris,FR") in metric units.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, location string) (*weather.Reading, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", location)
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reading weather.Reading
	if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
		return nil, fmt.Errorf("decode openweather response: %w", err)
	}

	return &reading, nil
}
