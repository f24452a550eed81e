package weathermcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/i474232898/weather-agent/internal/weather"
)

const ToolGetWeather = "get_weather"

// Server exposes the connector as an MCP tool.
type Server struct {
	connector *Connector
	logger    *slog.Logger
	mcp       *server.MCPServer
	sse       *server.SSEServer
}

func NewServer(connector *Connector, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		connector: connector,
		logger:    logger,
		mcp:       server.NewMCPServer("weather_agent", version, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(
		mcp.NewTool(ToolGetWeather,
			mcp.WithDescription("Get the current weather for a city or location"),
			mcp.WithString("location",
				mcp.Required(),
				mcp.Description("The city or location to get weather for, e.g. London or Paris,FR"),
			),
		),
		s.handleGetWeather,
	)
	s.sse = server.NewSSEServer(s.mcp,
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
	)
	return s
}

// handleGetWeather runs the connector and returns its envelope as JSON text.
// Envelope failures are flagged as tool errors.
func (s *Server) handleGetWeather(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Tool calls carry no HTTP request ID, so each gets its own.
	id := uuid.NewString()
	ctx = weather.WithRequestID(ctx, id)
	s.logger.DebugContext(ctx, "processing MCP tool call", "tool", ToolGetWeather, "request_id", id)

	result := s.connector.HandleRequest(ctx, Request{
		Location: locationText(req.GetArguments()["location"]),
	})

	body, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return mcp.NewToolResultError(string(body)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

// ListenAndServe serves the tool over SSE on addr until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("MCP SSE server listening", "addr", addr)
	return s.sse.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.sse.Shutdown(ctx)
}
