package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"

	"github.com/i474232898/weather-history/internal/weather"
)

// geocoderMu guards the package-level API key of the geocoder library.
var geocoderMu sync.Mutex

// geocodeFunc is the library entry point; tests swap it out.
var geocodeFunc = geocoder.Geocoding

// defaultGoogleTimeout bounds a lookup when no timeout is configured. The
// library's own HTTP client has none.
const defaultGoogleTimeout = 10 * time.Second

// GoogleGeocoder implements weather.CoordinateResolver on top of the Google
// Geocoding API through github.com/kelvins/geocoder.
type GoogleGeocoder struct {
	name    string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

func NewGoogleGeocoder(apiKey string, timeout time.Duration, logger *zap.Logger) *GoogleGeocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultGoogleTimeout
	}
	return &GoogleGeocoder{
		name:    "google-geocoder",
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("google-geocoder"),
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

type geocodeResult struct {
	loc geocoder.Location
	err error
}

func (g *GoogleGeocoder) Resolve(ctx context.Context, address string) (weather.Coordinates, error) {
	if g.apiKey == "" {
		return weather.Coordinates{}, fmt.Errorf("%w: google geocoder api key is not configured", weather.ErrCoordinates)
	}
	query := normalizeAddress(address)
	if query == "" {
		return weather.Coordinates{}, fmt.Errorf("%w: empty address", weather.ErrCoordinates)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// The library takes no context, so the call runs in its own goroutine and
	// is abandoned when ctx ends. A stalled call still holds geocoderMu until
	// it returns, but callers waiting on the lock give up on their own ctx.
	done := make(chan geocodeResult, 1)
	go func() {
		geocoderMu.Lock()
		defer geocoderMu.Unlock()
		if ctx.Err() != nil {
			done <- geocodeResult{err: ctx.Err()}
			return
		}
		geocoder.ApiKey = g.apiKey
		// The library formats the address from its parts; a free-text query
		// fits in Street.
		loc, err := geocodeFunc(geocoder.Address{Street: query})
		done <- geocodeResult{loc: loc, err: err}
	}()

	var res geocodeResult
	select {
	case <-ctx.Done():
		g.logger.Warn("google geocoder call abandoned", zap.String("query", query), zap.Error(ctx.Err()))
		return weather.Coordinates{}, fmt.Errorf("%w: %v", weather.ErrCoordinates, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %v", weather.ErrCoordinates, res.err)
	}
	loc := res.loc
	if loc.Latitude == 0 && loc.Longitude == 0 {
		return weather.Coordinates{}, fmt.Errorf("%w: google geocoder returned no location", weather.ErrCoordinates)
	}

	g.logger.Debug("address geocoded",
		zap.String("query", query),
		zap.Float64("longitude", loc.Longitude),
		zap.Float64("latitude", loc.Latitude))
	return weather.Coordinates{Longitude: loc.Longitude, Latitude: loc.Latitude}, nil
}
