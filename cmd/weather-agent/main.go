package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/i474232898/weather-agent/internal/api/http"
	"github.com/i474232898/weather-agent/internal/config"
	"github.com/i474232898/weather-agent/internal/plugin"
	"github.com/i474232898/weather-agent/internal/weathermcp"
)

func main() {
	selfTest := flag.Bool("self-test", false, "start the plugin, run its self-test suite and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg := cfg.NewLogger()
	slog.SetDefault(lg)

	p := plugin.New(cfg, lg)
	if err := p.Start(context.Background()); err != nil {
		log.Fatalf("failed to start plugin: %v", err)
	}
	defer func() {
		if err := p.Stop(); err != nil {
			lg.Error("error stopping plugin", "error", err)
		}
	}()

	if *selfTest {
		code := runSelfTests(p, lg)
		if err := p.Stop(); err != nil {
			lg.Error("error stopping plugin", "error", err)
		}
		os.Exit(code)
	}

	routes, err := p.Routes()
	if err != nil {
		log.Fatalf("failed to build routes: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "weather-agent",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(httpapi.CorrelationID())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  p.Name,
			"services": p.Services(),
		})
	})

	httpapi.RegisterRoutes(app, routes)

	go func() {
		lg.Info("starting server", "addr", cfg.GetServerAddr())
		if err := app.Listen(cfg.GetServerAddr()); err != nil {
			lg.Error("fiber server stopped", "error", err)
		}
	}()

	var mcpServer *weathermcp.Server
	if cfg.MCPAddr != "" {
		mcpServer = weathermcp.NewServer(p.Connector(), plugin.Version, lg)
		go func() {
			if err := mcpServer.ListenAndServe(cfg.MCPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				lg.Error("mcp server stopped", "error", err)
			}
		}()
	}

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		lg.Error("error during shutdown", "error", err)
	}
	if mcpServer != nil {
		if err := mcpServer.Shutdown(shutdownCtx); err != nil {
			lg.Error("error during mcp shutdown", "error", err)
		}
	}
}

func runSelfTests(p *plugin.Plugin, lg *slog.Logger) int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	code := 0
	for _, suite := range p.Tests {
		if err := suite.Run(ctx, p); err != nil {
			lg.Error("self-test suite failed", "suite", suite.Name, "error", err)
			code = 1
			continue
		}
		lg.Info("self-test suite passed", "suite", suite.Name)
	}
	return code
}
