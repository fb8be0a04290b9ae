package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/weather-history/internal/weather"
)

// yandexAPIKeyHeader carries the weather service credential.
const yandexAPIKeyHeader = "X-Yandex-API-Key"

// YandexWeatherProvider implements the weather.Provider interface for the Yandex Weather forecast API.
type YandexWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewYandexWeatherProvider(client *http.Client, baseURL, apiKey string, logger *zap.Logger) *YandexWeatherProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YandexWeatherProvider{
		name:    "yandex-weather",
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("yandex-weather"),
		logger:  logger.Named("yandex-weather"),
	}
}

func (p *YandexWeatherProvider) Name() string {
	return p.name
}

func (p *YandexWeatherProvider) Fetch(ctx context.Context, coords weather.Coordinates) (weather.Weather, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
		values.Set("lang", "ru_RU")
		values.Set("limit", "1")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set(yandexAPIKeyHeader, p.apiKey)
		return req, nil
	}

	body, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.Weather{}, fmt.Errorf("%w: %v", weather.ErrWeatherService, err)
	}

	w, err := parseWeatherResponse(body)
	if err != nil {
		p.logger.Debug("unparsable weather response", zap.ByteString("body", body), zap.Error(err))
		return weather.Weather{}, fmt.Errorf("%w: %v", weather.ErrWeatherService, err)
	}
	return w, nil
}

type yandexWeatherPayload struct {
	Fact struct {
		Temp      *float64 `json:"temp"`
		Condition string   `json:"condition"`
	} `json:"fact"`
	Forecasts []struct {
		Sunrise string `json:"sunrise"`
		Sunset  string `json:"sunset"`
	} `json:"forecasts"`
	GeoObject struct {
		Locality struct {
			Name string `json:"name"`
		} `json:"locality"`
	} `json:"geo_object"`
}

// parseWeatherResponse extracts the five fields of a weather.Weather from a
// forecast response. It stops at the first missing or malformed field.
func parseWeatherResponse(body []byte) (weather.Weather, error) {
	var payload yandexWeatherPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Weather{}, fmt.Errorf("decode weather response: %w", err)
	}

	temperature, err := parseTemperature(payload)
	if err != nil {
		return weather.Weather{}, err
	}
	condition, err := weather.ParseCondition(payload.Fact.Condition)
	if err != nil {
		return weather.Weather{}, err
	}
	sunrise, err := parseSunTime(payload, "sunrise")
	if err != nil {
		return weather.Weather{}, err
	}
	sunset, err := parseSunTime(payload, "sunset")
	if err != nil {
		return weather.Weather{}, err
	}
	city, err := parseCity(payload)
	if err != nil {
		return weather.Weather{}, err
	}

	return weather.Weather{
		Temperature: temperature,
		Condition:   condition,
		Sunrise:     sunrise,
		Sunset:      sunset,
		City:        city,
	}, nil
}

func parseTemperature(payload yandexWeatherPayload) (weather.Celsius, error) {
	if payload.Fact.Temp == nil {
		return 0, fmt.Errorf("missing fact.temp")
	}
	temp := *payload.Fact.Temp
	if !finite(temp) || temp < minCelsius || temp > maxCelsius {
		return 0, fmt.Errorf("fact.temp %v out of range", temp)
	}
	return weather.Celsius(math.Round(temp)), nil
}

// parseSunTime reads sunrise or sunset from the first forecast entry only.
func parseSunTime(payload yandexWeatherPayload, field string) (time.Time, error) {
	if len(payload.Forecasts) == 0 {
		return time.Time{}, fmt.Errorf("missing forecasts")
	}

	var raw string
	switch field {
	case "sunrise":
		raw = payload.Forecasts[0].Sunrise
	case "sunset":
		raw = payload.Forecasts[0].Sunset
	default:
		return time.Time{}, fmt.Errorf("unknown sun time field %q", field)
	}
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing forecasts[0].%s", field)
	}

	t, err := time.Parse(weather.TimeOfDayLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid forecasts[0].%s %q: %w", field, raw, err)
	}
	return t, nil
}

func parseCity(payload yandexWeatherPayload) (string, error) {
	name := payload.GeoObject.Locality.Name
	if name == "" {
		return "", fmt.Errorf("missing geo_object.locality.name")
	}
	return name, nil
}
