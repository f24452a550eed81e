package weather

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// ServiceType is the name the weather service is known by to the host.
	ServiceType = "weather"

	CapabilityDescription = "This service provides weather data through Fetch.ai integration using MCP."
)

// Service is the single path every entry point uses to reach the provider.
type Service struct {
	provider Provider
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(provider Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("weather service initialized", "provider", provider.Name())
	return &Service{
		provider: provider,
		logger:   logger,
	}
}

// Start constructs a running service instance.
func Start(provider Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("starting weather service", "at", time.Now().UTC().Format(time.RFC3339))
	return NewService(provider, logger)
}

// StopService stops a running service.
func StopService(s *Service) error {
	if s == nil {
		return ErrServiceNotFound
	}
	s.Stop()
	return nil
}

// Stop releases nothing; the service holds no resources of its own.
func (s *Service) Stop() {
	s.logger.Info("weather service stopped")
}

// GetWeatherData fetches the current reading for location. The caller is
// responsible for rejecting an empty location.
func (s *Service) GetWeatherData(ctx context.Context, location string) (*Reading, error) {
	logger := s.logger
	if id := RequestIDFrom(ctx); id != "" {
		logger = logger.With("request_id", id)
	}

	reading, err := s.provider.Fetch(ctx, location)
	if err != nil {
		logger.ErrorContext(ctx, "error fetching weather data",
			"provider", s.provider.Name(),
			"location", location,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	logger.DebugContext(ctx, "weather data fetched", "location", location, "name", reading.Name)
	return reading, nil
}

// RegisterWithAgentNetwork would announce this agent to an external agent
// network. No such integration exists.
func (s *Service) RegisterWithAgentNetwork(ctx context.Context) error {
	s.logger.Info("agent network registration requested")
	return fmt.Errorf("register with agent network: %w", ErrNotImplemented)
}
