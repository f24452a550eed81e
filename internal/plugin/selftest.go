package plugin

import (
	"context"
	"errors"
	"fmt"

	"github.com/i474232898/weather-agent/internal/agent"
)

// TestCase is a check a host runs against a live plugin.
type TestCase struct {
	Name string
	Fn   func(ctx context.Context, p *Plugin) error
}

// TestSuite groups the plugin's self-checks.
type TestSuite struct {
	Name  string
	Tests []TestCase
}

// Run executes every test case and joins their failures.
func (s TestSuite) Run(ctx context.Context, p *Plugin) error {
	var errs []error
	for _, tc := range s.Tests {
		if err := tc.Fn(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", s.Name, tc.Name, err))
		}
	}
	return errors.Join(errs...)
}

var selfTests = TestSuite{
	Name: "weather_agent_test_suite",
	Tests: []TestCase{
		{
			Name: "service_availability_test",
			Fn: func(ctx context.Context, p *Plugin) error {
				p.logger.DebugContext(ctx, "testing weather service availability")
				if p.Service() == nil {
					return errors.New("Weather service not found")
				}
				return nil
			},
		},
		{
			Name: "weather_action_test",
			Fn: func(ctx context.Context, p *Plugin) error {
				p.logger.DebugContext(ctx, "testing weather action registration")
				for _, a := range p.Actions() {
					if a.Name() == agent.GetWeatherActionName {
						return nil
					}
				}
				return errors.New("GET_WEATHER action not found in plugin")
			},
		},
	},
}
