package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/i474232898/weather-agent/internal/weather"
	"github.com/i474232898/weather-agent/internal/weather/providers"
	"github.com/i474232898/weather-agent/internal/weathermcp"
)

const londonJSON = `{"name":"London","sys":{"country":"GB"},"main":{"temp":15.5,"humidity":76},"weather":[{"description":"partly cloudy"}],"wind":{"speed":4.2}}`

// newTestApp wires the real service and provider against a stubbed upstream.
func newTestApp(t *testing.T, status int, body string) (*fiber.App, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(upstream.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := providers.NewOpenWeatherProvider(upstream.Client(), providers.OpenWeatherConfig{
		APIKey:  "test",
		BaseURL: upstream.URL,
	})
	svc := weather.NewService(provider, logger)
	connector, err := weathermcp.NewConnector(svc, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, Routes(svc, connector, logger))
	return app, &calls
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, body
}

func decodeMap(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestRoutesTable(t *testing.T) {
	routes := Routes(nil, nil, nil)

	got := map[string]string{}
	for _, r := range routes {
		got[r.Path] = r.Method
	}
	want := map[string]string{"/weather": http.MethodGet, "/weather/mcp": http.MethodPost}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("routes = %v, want %v", got, want)
	}
}

func TestGetWeather(t *testing.T) {
	app, calls := newTestApp(t, http.StatusOK, londonJSON)

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/weather?location=London", nil))

	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	want := map[string]any{"success": true, "data": decodeMap(t, londonJSON)}
	if !reflect.DeepEqual(body, want) {
		t.Errorf("body = %v, want %v", body, want)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1", calls.Load())
	}
}

func TestGetWeatherMissingLocation(t *testing.T) {
	app, calls := newTestApp(t, http.StatusOK, londonJSON)

	for _, target := range []string{"/weather", "/weather?location="} {
		status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, target, nil))

		if status != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", target, status, http.StatusBadRequest)
		}
		want := map[string]any{"error": "Location parameter is required"}
		if !reflect.DeepEqual(body, want) {
			t.Errorf("%s: body = %v, want %v", target, body, want)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("upstream calls = %d, want 0", calls.Load())
	}
}

func TestGetWeatherUpstreamFailure(t *testing.T) {
	app, _ := newTestApp(t, http.StatusNotFound, `{"cod":"404","message":"city not found"}`)

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/weather?location=Atlantis", nil))

	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", status, http.StatusInternalServerError)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	msg, _ := body["error"].(string)
	if !strings.HasPrefix(msg, "Failed to get weather data: Failed to fetch weather data") {
		t.Errorf("error = %q", msg)
	}
}

func postMCP(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/weather/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestPostMCP(t *testing.T) {
	app, calls := newTestApp(t, http.StatusOK, londonJSON)

	status, body := doRequest(t, app, postMCP(`{"location":"London"}`))

	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	want := map[string]any{"success": true, "data": decodeMap(t, londonJSON)}
	if !reflect.DeepEqual(body, want) {
		t.Errorf("body = %v, want %v", body, want)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1", calls.Load())
	}
}

func TestPostMCPMissingLocation(t *testing.T) {
	app, calls := newTestApp(t, http.StatusOK, londonJSON)

	for _, payload := range []string{`{}`, ``, `[]`, `{"location":null}`} {
		status, body := doRequest(t, app, postMCP(payload))

		if status != http.StatusOK {
			t.Errorf("%q: status = %d, want %d", payload, status, http.StatusOK)
		}
		want := map[string]any{"error": "Location is required for weather data"}
		if !reflect.DeepEqual(body, want) {
			t.Errorf("%q: body = %v, want %v", payload, body, want)
		}
		if _, ok := body["success"]; ok {
			t.Errorf("%q: body has a success key", payload)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("upstream calls = %d, want 0", calls.Load())
	}
}

func TestPostMCPNumericLocation(t *testing.T) {
	app, calls := newTestApp(t, http.StatusOK, londonJSON)

	status, body := doRequest(t, app, postMCP(`{"location":123}`))

	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if body["success"] != true {
		t.Errorf("body = %v, want success", body)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1", calls.Load())
	}
}

func TestPostMCPUpstreamFailure(t *testing.T) {
	app, _ := newTestApp(t, http.StatusBadGateway, ``)

	status, body := doRequest(t, app, postMCP(`{"location":"London"}`))

	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	msg, _ := body["error"].(string)
	if !strings.HasPrefix(msg, "Failed to process MCP request: ") {
		t.Errorf("error = %q", msg)
	}
}

func TestPostMCPInvalidBody(t *testing.T) {
	app, calls := newTestApp(t, http.StatusOK, londonJSON)

	status, body := doRequest(t, app, postMCP(`{"location":`))

	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", status, http.StatusBadRequest)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if calls.Load() != 0 {
		t.Errorf("upstream calls = %d, want 0", calls.Load())
	}
}

func TestGetWeatherRecoversWithUpstream(t *testing.T) {
	var healthy atomic.Bool
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !healthy.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(londonJSON))
	}))
	t.Cleanup(upstream.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := providers.NewOpenWeatherProvider(upstream.Client(), providers.OpenWeatherConfig{
		APIKey:  "test",
		BaseURL: upstream.URL,
	})
	svc := weather.NewService(provider, logger)
	connector, err := weathermcp.NewConnector(svc, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	app := fiber.New()
	RegisterRoutes(app, Routes(svc, connector, logger))

	for i := 0; i < 6; i++ {
		status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/weather?location=Atlantis", nil))
		if status != http.StatusInternalServerError {
			t.Fatalf("attempt %d: status = %d, want %d", i, status, http.StatusInternalServerError)
		}
	}

	healthy.Store(true)
	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/weather?location=London", nil))
	if status != http.StatusOK || body["success"] != true {
		t.Errorf("status = %d body = %v, want 200 success", status, body)
	}
	if calls.Load() != 7 {
		t.Errorf("upstream calls = %d, want 7", calls.Load())
	}
}

func TestCorrelationID(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(weather.RequestIDFrom(c.UserContext()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	got, _ := io.ReadAll(resp.Body)
	if string(got) != "req-42" {
		t.Errorf("request id in context = %q, want req-42", got)
	}
}
