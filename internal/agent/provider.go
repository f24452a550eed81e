package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/i474232898/weather-agent/internal/weather"
)

const (
	WeatherProviderName = "weather"

	promptForLocation = "I need a location to provide weather information. Try asking about the weather in a specific city."
)

// WeatherProvider answers free-text weather questions. Errors never reach the
// caller: a failed lookup is reported as an apology and logged.
type WeatherProvider struct {
	service   weather.Fetcher
	extractor LocationExtractor
	logger    *slog.Logger
}

// NewWeatherProvider returns a provider using extractor to find the location;
// a nil extractor selects RegexExtractor.
func NewWeatherProvider(svc weather.Fetcher, extractor LocationExtractor, logger *slog.Logger) (*WeatherProvider, error) {
	if svc == nil {
		return nil, weather.ErrServiceUnavailable
	}
	if extractor == nil {
		extractor = RegexExtractor{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WeatherProvider{service: svc, extractor: extractor, logger: logger}, nil
}

func (p *WeatherProvider) Name() string { return WeatherProviderName }

func (p *WeatherProvider) Description() string {
	return "Provides weather information for a location"
}

func (p *WeatherProvider) Get(ctx context.Context, msg Message, _ State) ProviderResult {
	location, ok := p.extractor.ExtractLocation(msg.Text)
	if !ok {
		return emptyProviderResult(promptForLocation)
	}

	reading, err := p.service.GetWeatherData(ctx, location)
	if err == nil {
		var summary weather.Summary
		if summary, err = reading.Summary(); err == nil {
			return ProviderResult{
				Text: fmt.Sprintf(
					"The current weather in %s, %s is %s with a temperature of %s°C, humidity at %d%%, and wind speed of %s m/s.",
					summary.Location,
					summary.Country,
					summary.Description,
					formatNumber(summary.Temperature),
					summary.Humidity,
					formatNumber(summary.WindSpeed),
				),
				Values: map[string]any{
					"location":    summary.Location,
					"country":     summary.Country,
					"temperature": summary.Temperature,
					"description": summary.Description,
				},
				Data: map[string]any{
					"weather": reading,
				},
			}
		}
	}

	p.logger.Error("error in weather provider", "location", location, "error", err)
	return emptyProviderResult(fmt.Sprintf(
		"I'm sorry, I couldn't get the weather information for %s. Please try again later.", location,
	))
}

// formatNumber renders v in its shortest form: 15.5 -> "15.5", 15 -> "15".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
