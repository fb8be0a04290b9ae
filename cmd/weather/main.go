package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/i474232898/weather-history/internal/config"
	"github.com/i474232898/weather-history/internal/logger"
	"github.com/i474232898/weather-history/internal/scheduler"
	"github.com/i474232898/weather-history/internal/store"
	"github.com/i474232898/weather-history/internal/weather"
	"github.com/i474232898/weather-history/internal/weather/providers"
)

// User-facing messages, one per failing stage.
const (
	msgCoordinates = "Не смог получить координаты"
	msgWeather     = "Не смог получить погоду от API-сервиса погоды"
	msgHistory     = "Не смог записать погоду в историю"
	msgNoAddress   = "Адрес не введён"
	msgUnknown     = "Не смог получить погоду"
)

func main() {
	os.Exit(realMain())
}

// realMain wires the pipeline from configuration. It is split from main so
// deferred calls run before the process exits.
func realMain() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	storages, err := buildStorages(cfg)
	if err != nil {
		log.Error("failed to open history stores", zap.Error(err))
		fmt.Fprintln(os.Stdout, errorMessage(err))
		return 1
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	service := weather.NewService(
		buildResolver(cfg, httpClient, log),
		providers.NewYandexWeatherProvider(httpClient, cfg.WeatherURL, cfg.WeatherAPIKey, log),
		storages,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, service, os.Stdin, os.Stdout, log)
}

// run performs one interactive lookup and, when a watch interval is
// configured, keeps repeating it until ctx is cancelled. It returns the
// process exit code.
func run(ctx context.Context, cfg *config.AppConfig, service *weather.Service, in io.Reader, out io.Writer, log *zap.Logger) int {
	address, err := readAddress(bufio.NewReader(in), out)
	if err != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, errorMessage(err))
		return 1
	}

	w, err := service.Lookup(ctx, address)
	if err != nil {
		fmt.Fprintln(out, errorMessage(err))
		return 1
	}
	fmt.Fprintln(out, weather.Format(w))

	if cfg.WatchInterval <= 0 {
		return 0
	}

	sched := scheduler.New(address, cfg.WatchInterval, cfg.HTTPTimeout*2, service, func(w weather.Weather, err error) {
		if err != nil {
			fmt.Fprintln(out, errorMessage(err))
			return
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, weather.Format(w))
	}, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", zap.Error(err))
		return 1
	}
	defer sched.Stop()

	<-ctx.Done()
	return 0
}

func buildResolver(cfg *config.AppConfig, client *http.Client, log *zap.Logger) weather.CoordinateResolver {
	if cfg.GeocoderProvider == config.GeocoderGoogle {
		return providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey, cfg.HTTPTimeout, log)
	}
	return providers.NewYandexGeocoder(client, cfg.GeocoderURL, cfg.GeocoderAPIKey, log)
}

// buildStorages opens the history stores that have a path configured.
func buildStorages(cfg *config.AppConfig) ([]weather.Storage, error) {
	var storages []weather.Storage
	if cfg.HistoryTxtPath != "" {
		storages = append(storages, store.NewPlainFileStore(cfg.HistoryTxtPath))
	}
	if cfg.HistoryJSONPath != "" {
		js, err := store.NewJSONFileStore(cfg.HistoryJSONPath)
		if err != nil {
			return nil, err
		}
		storages = append(storages, js)
	}
	return storages, nil
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, weather.ErrCoordinates):
		return msgCoordinates
	case errors.Is(err, weather.ErrWeatherService):
		return msgWeather
	case errors.Is(err, weather.ErrHistoryWrite):
		return msgHistory
	case errors.Is(err, errNoAddress):
		return msgNoAddress
	default:
		return msgUnknown
	}
}
