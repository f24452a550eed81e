package agent

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-agent/internal/weather"
)

const GetWeatherActionName = "GET_WEATHER"

var validate = validator.New()

// ActionParams are the structured inputs of GET_WEATHER.
type ActionParams struct {
	Location string `json:"location" validate:"required"`
}

// ActionResult is the structured output of GET_WEATHER.
type ActionResult struct {
	Success bool             `json:"success"`
	Data    *weather.Summary `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// GetWeatherAction looks up current weather for a named location.
type GetWeatherAction struct {
	service weather.Fetcher
	logger  *slog.Logger
}

func NewGetWeatherAction(svc weather.Fetcher, logger *slog.Logger) (*GetWeatherAction, error) {
	if svc == nil {
		return nil, weather.ErrServiceUnavailable
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GetWeatherAction{service: svc, logger: logger}, nil
}

func (a *GetWeatherAction) Name() string { return GetWeatherActionName }

func (a *GetWeatherAction) Description() string {
	return "Get weather information for a specific location"
}

func (a *GetWeatherAction) Parameters() map[string]Parameter {
	return map[string]Parameter{
		"location": {
			Type:        "string",
			Description: "The city or location to get weather for",
			Required:    true,
		},
	}
}

// Handle never returns an error; failures are reported in the result.
func (a *GetWeatherAction) Handle(ctx context.Context, params ActionParams) ActionResult {
	if err := validate.Struct(params); err != nil {
		return ActionResult{Success: false, Error: "Location is required"}
	}

	reading, err := a.service.GetWeatherData(ctx, params.Location)
	if err != nil {
		return a.fail(err)
	}

	summary, err := reading.Summary()
	if err != nil {
		return a.fail(err)
	}

	return ActionResult{Success: true, Data: &summary}
}

func (a *GetWeatherAction) fail(err error) ActionResult {
	a.logger.Error("error in GET_WEATHER action", "error", err)
	return ActionResult{
		Success: false,
		Error:   "Failed to get weather: " + err.Error(),
	}
}
