package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-history/internal/weather"
)

func stubGeocode(t *testing.T, fn func(geocoder.Address) (geocoder.Location, error)) {
	t.Helper()
	orig := geocodeFunc
	geocodeFunc = fn
	t.Cleanup(func() { geocodeFunc = orig })
}

func TestGoogleGeocoderResolve(t *testing.T) {
	var got geocoder.Address
	stubGeocode(t, func(a geocoder.Address) (geocoder.Location, error) {
		got = a
		return geocoder.Location{Latitude: 48.8584, Longitude: 2.2945}, nil
	})

	coords, err := NewGoogleGeocoder("google-key", time.Second, nil).Resolve(context.Background(), "Champ de  Mars Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coords.Longitude != 2.2945 || coords.Latitude != 48.8584 {
		t.Fatalf("unexpected coordinates %+v", coords)
	}
	if got.Street != "Champ de Mars Paris" {
		t.Fatalf("unexpected address passed to geocoder: %+v", got)
	}
	if geocoder.ApiKey != "google-key" {
		t.Fatalf("api key not set on the geocoder library")
	}
}

func TestGoogleGeocoderFailures(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, err := NewGoogleGeocoder("", time.Second, nil).Resolve(context.Background(), "Paris")
		if !errors.Is(err, weather.ErrCoordinates) {
			t.Fatalf("expected ErrCoordinates, got %v", err)
		}
	})

	t.Run("library error", func(t *testing.T) {
		stubGeocode(t, func(geocoder.Address) (geocoder.Location, error) {
			return geocoder.Location{}, errors.New("ZERO_RESULTS")
		})
		_, err := NewGoogleGeocoder("k", time.Second, nil).Resolve(context.Background(), "nowhere")
		if !errors.Is(err, weather.ErrCoordinates) {
			t.Fatalf("expected ErrCoordinates, got %v", err)
		}
	})

	t.Run("empty location", func(t *testing.T) {
		stubGeocode(t, func(geocoder.Address) (geocoder.Location, error) {
			return geocoder.Location{}, nil
		})
		_, err := NewGoogleGeocoder("k", time.Second, nil).Resolve(context.Background(), "nowhere")
		if !errors.Is(err, weather.ErrCoordinates) {
			t.Fatalf("expected ErrCoordinates, got %v", err)
		}
	})
}

func TestGoogleGeocoderTimeout(t *testing.T) {
	release := make(chan struct{})
	defer func() {
		close(release)
		// Wait for the stalled call to return before the stub is restored.
		geocoderMu.Lock()
		geocoderMu.Unlock()
	}()
	stubGeocode(t, func(geocoder.Address) (geocoder.Location, error) {
		<-release
		return geocoder.Location{Latitude: 1, Longitude: 1}, nil
	})

	g := NewGoogleGeocoder("k", 50*time.Millisecond, nil)

	start := time.Now()
	_, err := g.Resolve(context.Background(), "Paris")
	if !errors.Is(err, weather.ErrCoordinates) {
		t.Fatalf("expected ErrCoordinates, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("lookup was not bounded by the timeout: %v", elapsed)
	}

	// A second lookup queued behind the stalled one is bounded too.
	start = time.Now()
	_, err = g.Resolve(context.Background(), "Lyon")
	if !errors.Is(err, weather.ErrCoordinates) {
		t.Fatalf("expected ErrCoordinates, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("queued lookup was not bounded by the timeout: %v", elapsed)
	}
}

func TestGoogleGeocoderCancelledContext(t *testing.T) {
	stubGeocode(t, func(geocoder.Address) (geocoder.Location, error) {
		t.Error("geocoder should not be called with a cancelled context")
		return geocoder.Location{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGoogleGeocoder("k", time.Second, nil).Resolve(ctx, "Paris")
	if !errors.Is(err, weather.ErrCoordinates) {
		t.Fatalf("expected ErrCoordinates, got %v", err)
	}
}
