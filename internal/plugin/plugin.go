// Package plugin assembles the weather agent: configuration, the weather
// service and every entry point built on it.
package plugin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/i474232898/weather-agent/internal/agent"
	httpapi "github.com/i474232898/weather-agent/internal/api/http"
	"github.com/i474232898/weather-agent/internal/config"
	"github.com/i474232898/weather-agent/internal/weather"
	"github.com/i474232898/weather-agent/internal/weather/providers"
	"github.com/i474232898/weather-agent/internal/weathermcp"
)

const (
	Name        = "plugin-weather-agent"
	Description = "Weather Data Agent with Fetch.ai integration for elizaOS"
	Version     = "1.0.0"
)

var errNotStarted = errors.New("plugin not started")

// Plugin is the weather agent as seen by a host runtime.
type Plugin struct {
	Name        string
	Description string

	Models map[agent.ModelType]agent.ModelHandler
	Events map[agent.EventType][]agent.EventHandler
	Tests  []TestSuite

	logger *slog.Logger

	mu        sync.RWMutex
	cfg       *config.AppConfig
	service   *weather.Service
	action    *agent.GetWeatherAction
	provider  *agent.WeatherProvider
	connector *weathermcp.Connector
}

func New(cfg *config.AppConfig, logger *slog.Logger) *Plugin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Plugin{
		Name:        Name,
		Description: Description,
		Models: map[agent.ModelType]agent.ModelHandler{
			agent.ModelTextSmall: agent.TextSmall,
		},
		Events: map[agent.EventType][]agent.EventHandler{
			agent.EventMessageReceived: {agent.MessageReceivedHandler(logger)},
		},
		Tests:  []TestSuite{selfTests},
		logger: logger,
		cfg:    cfg,
	}
}

// Init validates settings from the host and overlays them on the
// configuration. It must be called before Start to take effect.
func (p *Plugin) Init(settings map[string]string) error {
	p.logger.Info("initializing weather agent plugin")

	p.mu.Lock()
	defer p.mu.Unlock()

	cfg, err := p.cfg.WithSettings(settings)
	if err != nil {
		return err
	}
	p.cfg = cfg
	return nil
}

// Config returns the configuration in effect.
func (p *Plugin) Config() *config.AppConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// Start builds the weather service and the entry points that depend on it.
func (p *Plugin) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	client := &http.Client{Timeout: p.cfg.HTTPTimeout}
	provider := providers.NewOpenWeatherProvider(client, providers.OpenWeatherConfig{
		APIKey:          p.cfg.WeatherAPIKey,
		BaseURL:         p.cfg.WeatherBaseURL,
		MaxRetries:      p.cfg.MaxRetries,
		BreakerFailures: uint32(p.cfg.BreakerFailures),
	})
	return p.startWith(provider)
}

func (p *Plugin) startWith(provider weather.Provider) error {
	svc := weather.Start(provider, p.logger)

	action, err := agent.NewGetWeatherAction(svc, p.logger)
	if err != nil {
		return err
	}
	wp, err := agent.NewWeatherProvider(svc, agent.RegexExtractor{}, p.logger)
	if err != nil {
		return err
	}
	connector, err := weathermcp.NewConnector(svc, p.logger)
	if err != nil {
		return err
	}

	p.service = svc
	p.action = action
	p.provider = wp
	p.connector = connector
	return nil
}

// Stop stops the weather service. It fails with weather.ErrServiceNotFound
// when the plugin was never started.
func (p *Plugin) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger.Info("stopping weather service")
	if err := weather.StopService(p.service); err != nil {
		return err
	}
	p.service = nil
	p.action = nil
	p.provider = nil
	p.connector = nil
	return nil
}

// ServiceInfo describes a service the plugin provides to its host.
type ServiceInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Running     bool   `json:"running"`
}

// Services lists the plugin's services and whether each is running.
func (p *Plugin) Services() []ServiceInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return []ServiceInfo{{
		Type:        weather.ServiceType,
		Description: weather.CapabilityDescription,
		Running:     p.service != nil,
	}}
}

// Service returns the running weather service, or nil before Start.
func (p *Plugin) Service() *weather.Service {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.service
}

// Actions returns the registered actions; empty before Start.
func (p *Plugin) Actions() []agent.Action {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.action == nil {
		return nil
	}
	return []agent.Action{p.action}
}

// GetWeatherAction returns the GET_WEATHER action, or nil before Start.
func (p *Plugin) GetWeatherAction() *agent.GetWeatherAction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.action
}

// Providers returns the registered providers; empty before Start.
func (p *Plugin) Providers() []agent.Provider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.provider == nil {
		return nil
	}
	return []agent.Provider{p.provider}
}

// Connector returns the MCP connector, or nil before Start.
func (p *Plugin) Connector() *weathermcp.Connector {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connector
}

// Routes returns the plugin's HTTP route table.
func (p *Plugin) Routes() ([]httpapi.Route, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.service == nil {
		return nil, errNotStarted
	}
	return httpapi.Routes(p.service, p.connector, p.logger), nil
}
