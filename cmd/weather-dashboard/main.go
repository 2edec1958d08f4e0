package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/registry"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration (.env first, then environment).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local storage for the selected cities.
	localStorage, err := store.Open(cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		log.Fatalf("failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	defer localStorage.Close()

	fallback, err := providers.Fallback()
	if err != nil {
		log.Fatalf("failed to load fallback forecast: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	provider := providers.NewWeatherAPIProvider(providers.HTTPClientConfig{
		Client:           httpClient,
		BreakerThreshold: uint32(cfg.BreakerThreshold),
		BreakerCooldown:  cfg.BreakerCooldown,
	}, cfg.WeatherAPIBaseURL, cfg.WeatherAPIKey)

	service := weather.NewService(provider, fallback)
	dash := dashboard.NewApp(
		registry.New(localStorage),
		service,
		dashboard.NewReconciler(nil, nil, nil),
	)

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := dash.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("ERROR: dashboard loop stopped: %v", err)
		}
	}()

	if err := dash.Start(ctx); err != nil {
		log.Fatalf("failed to start dashboard: %v", err)
	}

	// Periodic "refresh all", if configured.
	sched := scheduler.New(cfg.RefreshInterval, dash)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, dash, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: dashboard listening on :%s", cfg.Port)

	<-ctx.Done()
	log.Println("INFO: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sched.Stop()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	<-loopDone
	if err := dash.Shutdown(shutdownCtx); err != nil {
		log.Printf("error waiting for in-flight fetches: %v", err)
	}
}
