package httpapi

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-agent/internal/weather"
	"github.com/i474232898/weather-agent/internal/weathermcp"
)

var validate = validator.New()

// Route is one entry of the plugin's route table.
type Route struct {
	Method  string
	Path    string
	Handler fiber.Handler
}

// Routes builds the weather route table.
func Routes(service weather.Fetcher, connector *weathermcp.Connector, logger *slog.Logger) []Route {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{service: service, connector: connector, logger: logger}

	return []Route{
		{Method: fiber.MethodGet, Path: "/weather", Handler: h.getWeather},
		{Method: fiber.MethodPost, Path: "/weather/mcp", Handler: h.postMCP},
	}
}

// RegisterRoutes wires the route table into a Fiber router.
func RegisterRoutes(router fiber.Router, routes []Route) {
	for _, r := range routes {
		router.Add(r.Method, r.Path, r.Handler)
	}
}

// CorrelationID copies the request ID set by Fiber's requestid middleware
// into the user context, so service logs can be tied to the HTTP request.
// It must be registered after requestid.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals(requestIDLocal).(string); ok && id != "" {
			c.SetUserContext(weather.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// requestIDLocal is the locals key used by Fiber's requestid middleware.
const requestIDLocal = "requestid"

type handlers struct {
	service   weather.Fetcher
	connector *weathermcp.Connector
	logger    *slog.Logger
}

// weatherQuery holds query parameters for GET /weather.
type weatherQuery struct {
	Location string `validate:"required"`
}

func (h *handlers) getWeather(c *fiber.Ctx) error {
	q := weatherQuery{Location: c.Query("location")}
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Location parameter is required",
		})
	}

	reading, err := h.service.GetWeatherData(c.UserContext(), q.Location)
	if err != nil {
		h.logger.Error("error in /weather endpoint", "location", q.Location, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to get weather data: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reading,
	})
}

// postMCP answers 200 with the connector's envelope for any well-formed
// JSON body; only malformed JSON is rejected with 400.
func (h *handlers) postMCP(c *fiber.Ctx) error {
	req, err := weathermcp.DecodeRequest(c.Body())
	if err != nil {
		h.logger.Error("error in /weather/mcp endpoint", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(weathermcp.Failure(err))
	}

	return c.JSON(h.connector.HandleRequest(c.UserContext(), req))
}
