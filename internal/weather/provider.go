package weather

import (
	"context"
	"errors"
)

var (
	// ErrFetchFailed wraps every failure to obtain a reading from the provider.
	ErrFetchFailed = errors.New("Failed to fetch weather data")

	// ErrMalformedReading is returned when a reading lacks an expected field.
	ErrMalformedReading = errors.New("malformed weather reading")

	// ErrServiceUnavailable is returned by constructors handed no weather service.
	ErrServiceUnavailable = errors.New("Weather service not available")

	// ErrServiceNotFound is returned when stopping a service that is not running.
	ErrServiceNotFound = errors.New("Weather service not found")

	// ErrNotImplemented marks capabilities that have no real integration yet.
	ErrNotImplemented = errors.New("not implemented")
)

// Provider abstracts an upstream current-weather source (e.g. OpenWeatherMap).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, location string) (*Reading, error)
}

// Fetcher is what the agent's entry points need from the weather service.
type Fetcher interface {
	GetWeatherData(ctx context.Context, location string) (*Reading, error)
}
