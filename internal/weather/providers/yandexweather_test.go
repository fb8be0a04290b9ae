package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/weather-history/internal/weather"
)

const sampleForecast = `{
  "now": 1718000000,
  "geo_object": {"locality": {"id": 213, "name": "Москва"}},
  "fact": {"temp": 19.4, "feels_like": 17, "condition": "облачно"},
  "forecasts": [
    {"date": "2024-06-10", "sunrise": "05:12", "sunset": "20:47"},
    {"date": "2024-06-11", "sunrise": "05:11", "sunset": "20:48"}
  ]
}`

func weatherBody(temp, condition, sunrise, sunset, city string) string {
	return fmt.Sprintf(`{"geo_object":{"locality":{"name":%q}},"fact":{"temp":%s,"condition":%q},"forecasts":[{"sunrise":%q,"sunset":%q}]}`,
		city, temp, condition, sunrise, sunset)
}

func TestYandexWeatherFetch(t *testing.T) {
	var gotKey, gotLat, gotLon string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Yandex-API-Key")
		gotLat = r.URL.Query().Get("lat")
		gotLon = r.URL.Query().Get("lon")
		fmt.Fprint(w, sampleForecast)
	}))
	defer srv.Close()

	p := NewYandexWeatherProvider(srv.Client(), srv.URL, "weather-key", nil)

	w, err := p.Fetch(context.Background(), weather.Coordinates{Longitude: 37.617, Latitude: 55.752})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "weather-key" {
		t.Fatalf("credential header not sent, got %q", gotKey)
	}
	if gotLat != "55.752" || gotLon != "37.617" {
		t.Fatalf("unexpected coordinates in request: lat=%q lon=%q", gotLat, gotLon)
	}

	if w.Temperature != 19 {
		t.Fatalf("expected temperature 19, got %d", w.Temperature)
	}
	if w.Condition != weather.ConditionCloudy {
		t.Fatalf("expected cloudy, got %q", w.Condition)
	}
	if got := w.Sunrise.Format(weather.TimeOfDayLayout); got != "05:12" {
		t.Fatalf("expected sunrise from the first forecast, got %s", got)
	}
	if got := w.Sunset.Format(weather.TimeOfDayLayout); got != "20:47" {
		t.Fatalf("expected sunset from the first forecast, got %s", got)
	}
	if w.City != "Москва" {
		t.Fatalf("unexpected city %q", w.City)
	}
}

func TestParseWeatherResponseTemperatureRounding(t *testing.T) {
	tests := []struct {
		raw  string
		want weather.Celsius
	}{
		{"20.6", 21},
		{"19.4", 19},
		{"20.5", 21},
		{"-3.6", -4},
		{"0", 0},
		{"25", 25},
	}

	for _, tt := range tests {
		w, err := parseWeatherResponse([]byte(weatherBody(tt.raw, "clear", "05:00", "21:00", "Казань")))
		if err != nil {
			t.Fatalf("temp %s: unexpected error: %v", tt.raw, err)
		}
		if w.Temperature != tt.want {
			t.Fatalf("temp %s: got %d, want %d", tt.raw, w.Temperature, tt.want)
		}
	}
}

func TestParseWeatherResponseTemperatureRange(t *testing.T) {
	for _, raw := range []string{"1e300", "-1e300", "100.1", "-273.15"} {
		if _, err := parseWeatherResponse([]byte(weatherBody(raw, "clear", "05:00", "21:00", "Казань"))); err == nil {
			t.Errorf("temp %s: expected error", raw)
		}
	}
	for _, raw := range []string{"-89.2", "56.7"} {
		if _, err := parseWeatherResponse([]byte(weatherBody(raw, "clear", "05:00", "21:00", "Казань"))); err != nil {
			t.Errorf("temp %s: unexpected error: %v", raw, err)
		}
	}
}

func TestParseWeatherResponseCondition(t *testing.T) {
	w, err := parseWeatherResponse([]byte(weatherBody("10", "ясно", "05:00", "21:00", "Казань")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Condition != weather.ConditionClear || w.Condition.Label() != "ясно" {
		t.Fatalf("unexpected condition %q", w.Condition)
	}

	w, err = parseWeatherResponse([]byte(weatherBody("10", "partly-cloudy", "05:00", "21:00", "Казань")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Condition != weather.ConditionPartlyCloudy {
		t.Fatalf("unexpected condition %q", w.Condition)
	}
}

func TestYandexWeatherFetchFailures(t *testing.T) {
	bodies := map[string]string{
		"unknown condition":     weatherBody("10", "tornado", "05:00", "21:00", "Казань"),
		"non-numeric temp":      weatherBody(`"warm"`, "clear", "05:00", "21:00", "Казань"),
		"huge temp":             weatherBody("1e300", "clear", "05:00", "21:00", "Казань"),
		"huge negative temp":    weatherBody("-1e300", "clear", "05:00", "21:00", "Казань"),
		"bad sunrise":           weatherBody("10", "clear", "5am", "21:00", "Казань"),
		"missing city":          weatherBody("10", "clear", "05:00", "21:00", ""),
		"missing temp":          `{"geo_object":{"locality":{"name":"Казань"}},"fact":{"condition":"clear"},"forecasts":[{"sunrise":"05:00","sunset":"21:00"}]}`,
		"missing forecasts":     `{"geo_object":{"locality":{"name":"Казань"}},"fact":{"temp":1,"condition":"clear"}}`,
		"empty forecasts":       `{"geo_object":{"locality":{"name":"Казань"}},"fact":{"temp":1,"condition":"clear"},"forecasts":[]}`,
		"invalid json":          `{"fact":`,
		"missing sunset":        `{"geo_object":{"locality":{"name":"Казань"}},"fact":{"temp":1,"condition":"clear"},"forecasts":[{"sunrise":"05:00"}]}`,
		"missing condition key": `{"geo_object":{"locality":{"name":"Казань"}},"fact":{"temp":1},"forecasts":[{"sunrise":"05:00","sunset":"21:00"}]}`,
	}

	for name, body := range bodies {
		body := body
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer srv.Close()

			_, err := NewYandexWeatherProvider(srv.Client(), srv.URL, "k", nil).Fetch(context.Background(), weather.Coordinates{})
			if !errors.Is(err, weather.ErrWeatherService) {
				t.Fatalf("expected ErrWeatherService, got %v", err)
			}
		})
	}
}

func TestYandexWeatherNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewYandexWeatherProvider(srv.Client(), srv.URL, "wrong", nil).Fetch(context.Background(), weather.Coordinates{})
	if !errors.Is(err, weather.ErrWeatherService) {
		t.Fatalf("expected ErrWeatherService, got %v", err)
	}
}
