package store

import (
	"testing"
	"time"

	"github.com/i474232898/weather-history/internal/weather"
)

func sampleWeather(t *testing.T, city string, temp weather.Celsius) weather.Weather {
	t.Helper()
	sunrise, err := time.Parse(weather.TimeOfDayLayout, "05:12")
	if err != nil {
		t.Fatal(err)
	}
	sunset, err := time.Parse(weather.TimeOfDayLayout, "20:47")
	if err != nil {
		t.Fatal(err)
	}
	return weather.Weather{
		Temperature: temp,
		Condition:   weather.ConditionCloudy,
		Sunrise:     sunrise,
		Sunset:      sunset,
		City:        city,
	}
}

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
	t := time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}
