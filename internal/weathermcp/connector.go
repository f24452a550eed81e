package weathermcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/i474232898/weather-agent/internal/weather"
)

// Request is the MCP weather request envelope.
type Request struct {
	Location string `json:"location"`
}

// DecodeRequest reads a request from a JSON body. Any well-formed JSON is
// accepted: an empty body, a non-object, or a location that is null, false,
// zero or "" all yield an empty location. Other scalars are formatted as
// text. Only malformed JSON is an error.
func DecodeRequest(body []byte) (Request, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Request{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Request{}, err
	}
	if dec.More() {
		return Request{}, fmt.Errorf("invalid character after top-level value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return Request{}, nil
	}
	return Request{Location: locationText(obj["location"])}, nil
}

func locationText(v any) string {
	switch loc := v.(type) {
	case nil:
		return ""
	case string:
		return loc
	case bool:
		if !loc {
			return ""
		}
		return "true"
	case json.Number:
		if f, err := loc.Float64(); err == nil && f == 0 {
			return ""
		}
		return loc.String()
	case float64:
		if loc == 0 {
			return ""
		}
		return strconv.FormatFloat(loc, 'f', -1, 64)
	default:
		return fmt.Sprint(loc)
	}
}

// Result is the MCP weather response envelope. Success is a pointer because
// the missing-location response carries no success field at all.
type Result struct {
	Success *bool            `json:"success,omitempty"`
	Data    *weather.Reading `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// OK reports whether r is a successful result.
func (r Result) OK() bool {
	return r.Success != nil && *r.Success
}

// Connector wraps weather lookups in the MCP envelope.
type Connector struct {
	service weather.Fetcher
	logger  *slog.Logger
}

func NewConnector(svc weather.Fetcher, logger *slog.Logger) (*Connector, error) {
	if svc == nil {
		return nil, weather.ErrServiceUnavailable
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("weather MCP connector initialized")
	return &Connector{service: svc, logger: logger}, nil
}

func (c *Connector) HandleRequest(ctx context.Context, req Request) Result {
	if req.Location == "" {
		return Result{Error: "Location is required for weather data"}
	}

	reading, err := c.service.GetWeatherData(ctx, req.Location)
	if err != nil {
		c.logger.Error("error handling MCP request", "location", req.Location, "error", err)
		return Failure(err)
	}

	success := true
	return Result{Success: &success, Data: reading}
}

// Failure builds the envelope for a request that could not be processed.
func Failure(err error) Result {
	success := false
	return Result{
		Success: &success,
		Error:   "Failed to process MCP request: " + err.Error(),
	}
}
