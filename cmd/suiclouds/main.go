package main

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/container"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/middleware"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/repository/migrations"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/routes"
	"github.com/anhkhoavan24-art/SuiClouds/common/bootstrap"
	"github.com/anhkhoavan24-art/SuiClouds/common/db"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (config, logger, DB, cache)
	components, err := bootstrap.Setup(ctx, "suiclouds",
		bootstrap.WithDBInitHook(func(pool *db.DB) error {
			return db.RunMigrations(ctx, pool.DSN(), migrations.Migrations)
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap suiclouds: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e)
	setupHealthCheck(e, components)
	registerRoutes(e, serviceContainer)

	startServer(e, components)
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.ExtractIdentity())
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(503, map[string]string{
				"status":  "degraded",
				"service": "suiclouds",
				"error":   err.Error(),
			})
		}
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"service": "suiclouds",
		})
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterUploadRoutes(e, serviceContainer)
	routes.RegisterFileRoutes(e, serviceContainer)
	routes.RegisterQuoteRoutes(e, serviceContainer)
}

// startServer starts the Echo server on the configured port
func startServer(e *echo.Echo, components *bootstrap.Components) {
	port := components.Config.Service.Port
	components.Logger.Info("Starting suiclouds", "port", port)

	if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
