// Package gateway provides the HTTP surface of the AI security gateway.
// It accepts chat completion requests, runs them through the moderation
// pipeline, relays clean requests to the upstream provider, and records an
// audit event for every handled request via an async worker pool.
package gateway

import (
	"fmt"
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/papercomputeco/aegis/gateway/worker"
	"github.com/papercomputeco/aegis/pkg/audit"
	"github.com/papercomputeco/aegis/pkg/moderation"
	"github.com/papercomputeco/aegis/pkg/upstream"
)

// Gateway is the HTTP server wrapping the moderation pipeline.
type Gateway struct {
	config      Config
	pipeline    *moderation.Pipeline
	client      *upstream.Client
	auditDriver audit.Driver
	workerPool  *worker.Pool
	logger      *zap.Logger
	server      *fiber.App
}

// New creates a new Gateway.
// The audit driver is injected to handle async persistence of audit events.
func New(config Config, client *upstream.Client, driver audit.Driver, logger *zap.Logger) (*Gateway, error) {
	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(config.AllowedOrigins, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	wp, err := worker.NewPool(&worker.Config{
		Driver: driver,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create worker pool: %w", err)
	}

	g := &Gateway{
		config:      config,
		pipeline:    moderation.New(client, logger),
		client:      client,
		auditDriver: driver,
		workerPool:  wp,
		logger:      logger,
		server:      app,
	}

	app.Get("/", g.handleRoot)
	app.Get("/health", g.handleHealth)
	app.Post("/api/chat", g.handleChat)
	app.Get("/api/audit", g.handleAuditList)

	return g, nil
}

// Run starts the gateway server on the configured listening address.
func (g *Gateway) Run() error {
	g.logger.Info("starting gateway server",
		zap.String("listen", g.config.ListenAddr),
		zap.Bool("upstream_configured", g.client.Configured()),
	)

	return g.server.Listen(g.config.ListenAddr)
}

// RunWithListener starts the gateway server using the provided listener.
func (g *Gateway) RunWithListener(listener net.Listener) error {
	g.logger.Info("starting gateway server",
		zap.String("listen", listener.Addr().String()),
		zap.Bool("upstream_configured", g.client.Configured()),
	)

	return g.server.Listener(listener)
}

// Close gracefully shuts down the gateway and waits for the worker pool to drain.
func (g *Gateway) Close() error {
	err := g.server.Shutdown()
	g.workerPool.Close()
	return err
}
