package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	GeocoderYandex = "yandex"
	GeocoderGoogle = "google"
)

type AppConfig struct {
	// Geocoding.
	GeocoderProvider     string `validate:"oneof=yandex google"`
	GeocoderURL          string `validate:"required,url"`
	GeocoderAPIKey       string `validate:"required_if=GeocoderProvider yandex"`
	GoogleGeocoderAPIKey string `validate:"required_if=GeocoderProvider google"`

	// Weather service; the key is sent as X-Yandex-API-Key.
	WeatherURL    string `validate:"required,url"`
	WeatherAPIKey string `validate:"required"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	// History stores; an empty path disables the store.
	HistoryTxtPath  string
	HistoryJSONPath string

	// WatchInterval repeats the lookup periodically when > 0.
	WatchInterval time.Duration `validate:"gte=0"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=console json"`

	// HTTP server only.
	Port             string `validate:"required,numeric"`
	MemoryHistoryMax int    `validate:"gte=0"`
}

// fileConfig mirrors AppConfig for the optional TOML file. Durations are
// strings in Go duration syntax ("10s").
type fileConfig struct {
	GeocoderProvider     string `toml:"geocoder_provider"`
	GeocoderURL          string `toml:"geocoder_url"`
	GeocoderAPIKey       string `toml:"geocoder_api_key"`
	GoogleGeocoderAPIKey string `toml:"google_geocoder_api_key"`
	WeatherURL           string `toml:"weather_url"`
	WeatherAPIKey        string `toml:"weather_api_key"`
	HTTPTimeout          string `toml:"http_timeout"`
	HistoryTxtPath       string `toml:"history_txt_path"`
	HistoryJSONPath      string `toml:"history_json_path"`
	WatchInterval        string `toml:"watch_interval"`
	LogLevel             string `toml:"log_level"`
	LogFormat            string `toml:"log_format"`
	Port                 string `toml:"port"`
	MemoryHistoryMax     *int   `toml:"memory_history_max"`
}

var validate = validator.New()

// Load reads configuration from .env, an optional TOML file named by
// WEATHER_CONFIG_FILE and the environment, in increasing precedence, and
// validates the result.
func Load() (*AppConfig, error) {
	// A missing .env file is normal.
	_ = godotenv.Load()

	var fc fileConfig
	if path := os.Getenv("WEATHER_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}

	cfg.GeocoderProvider = getenvDefault("GEOCODER_PROVIDER", fc.GeocoderProvider, GeocoderYandex)
	cfg.GeocoderURL = getenvDefault("GEOCODER_URL", fc.GeocoderURL, "https://geocode-maps.yandex.ru/1.x/")
	cfg.GeocoderAPIKey = getenvDefault("GEOCODER_API_KEY", fc.GeocoderAPIKey, "")
	cfg.GoogleGeocoderAPIKey = getenvDefault("GOOGLE_GEOCODER_API_KEY", fc.GoogleGeocoderAPIKey, "")

	cfg.WeatherURL = getenvDefault("WEATHER_URL", fc.WeatherURL, "https://api.weather.yandex.ru/v2/forecast")
	cfg.WeatherAPIKey = getenvDefault("WEATHER_API_KEY", fc.WeatherAPIKey, "")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", fc.HTTPTimeout, "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.HistoryTxtPath = getenvDefault("HISTORY_TXT_PATH", fc.HistoryTxtPath, "")
	cfg.HistoryJSONPath = getenvDefault("HISTORY_JSON_PATH", fc.HistoryJSONPath, "")

	watch, err := time.ParseDuration(getenvDefault("WATCH_INTERVAL", fc.WatchInterval, "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WATCH_INTERVAL: %w", err)
	}
	cfg.WatchInterval = watch

	cfg.LogLevel = getenvDefault("LOG_LEVEL", fc.LogLevel, "warn")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", fc.LogFormat, "console")

	cfg.Port = getenvDefault("PORT", fc.Port, "8080")
	// Zero is a valid choice (unlimited), so only an absent key falls back.
	memMax := 100
	if fc.MemoryHistoryMax != nil {
		memMax = *fc.MemoryHistoryMax
	}
	cfg.MemoryHistoryMax = getenvInt("MEMORY_HISTORY_MAX", memMax)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// getenvDefault returns the environment value of key, else the value from
// the config file, else def.
func getenvDefault(key, fileValue, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
