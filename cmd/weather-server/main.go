package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-history/internal/api/http"
	"github.com/i474232898/weather-history/internal/config"
	applog "github.com/i474232898/weather-history/internal/logger"
	"github.com/i474232898/weather-history/internal/store"
	"github.com/i474232898/weather-history/internal/weather"
	"github.com/i474232898/weather-history/internal/weather/providers"
)

func main() {
	port := flag.StringP("port", "p", "", "listen port (overrides PORT)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}

	log, err := applog.New(applog.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var resolver weather.CoordinateResolver
	if cfg.GeocoderProvider == config.GeocoderGoogle {
		resolver = providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey, cfg.HTTPTimeout, log)
	} else {
		resolver = providers.NewYandexGeocoder(httpClient, cfg.GeocoderURL, cfg.GeocoderAPIKey, log)
	}

	// Lookups are recorded to the JSON file when configured, otherwise kept
	// in memory for the lifetime of the process.
	var history httpapi.HistoryReader
	var storages []weather.Storage
	if cfg.HistoryJSONPath != "" {
		js, err := store.NewJSONFileStore(cfg.HistoryJSONPath)
		if err != nil {
			log.Fatal("failed to open JSON history", zap.Error(err))
		}
		history = js
		storages = append(storages, js)
	} else {
		mem := store.NewMemoryStore(cfg.MemoryHistoryMax)
		history = mem
		storages = append(storages, mem)
	}
	if cfg.HistoryTxtPath != "" {
		storages = append(storages, store.NewPlainFileStore(cfg.HistoryTxtPath))
	}

	service := weather.NewService(
		resolver,
		providers.NewYandexWeatherProvider(httpClient, cfg.WeatherURL, cfg.WeatherAPIKey, log),
		storages,
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:               "weather-history",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * cfg.HTTPTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-history",
		})
	})

	httpapi.RegisterRoutes(app, service, history)

	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
}
