package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/weather-history/internal/weather"
)

// YandexGeocoder implements weather.CoordinateResolver for the Yandex geocoder HTTP API.
type YandexGeocoder struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewYandexGeocoder(client *http.Client, baseURL, apiKey string, logger *zap.Logger) *YandexGeocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YandexGeocoder{
		name:    "yandex-geocoder",
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("yandex-geocoder"),
		logger:  logger.Named("yandex-geocoder"),
	}
}

func (g *YandexGeocoder) Name() string {
	return g.name
}

func (g *YandexGeocoder) Resolve(ctx context.Context, address string) (weather.Coordinates, error) {
	query := normalizeAddress(address)
	if query == "" {
		return weather.Coordinates{}, fmt.Errorf("%w: empty address", weather.ErrCoordinates)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		if g.apiKey != "" {
			values.Set("apikey", g.apiKey)
		}
		values.Set("format", "json")
		// Encode turns the single spaces into "+", the separator the API expects.
		values.Set("geocode", query)

		u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	body, err := doRequest(ctx, g.client, g.circuit, buildRequest)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %v", weather.ErrCoordinates, err)
	}

	coords, err := parseGeocoderResponse(body)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %v", weather.ErrCoordinates, err)
	}

	g.logger.Debug("address geocoded",
		zap.String("query", query),
		zap.Float64("longitude", coords.Longitude),
		zap.Float64("latitude", coords.Latitude))
	return coords, nil
}

// normalizeAddress collapses any run of whitespace into a single space.
func normalizeAddress(address string) string {
	return strings.Join(strings.Fields(address), " ")
}

func parseGeocoderResponse(body []byte) (weather.Coordinates, error) {
	var payload struct {
		Response struct {
			GeoObjectCollection struct {
				FeatureMember []struct {
					GeoObject struct {
						Point struct {
							Pos string `json:"pos"`
						} `json:"Point"`
					} `json:"GeoObject"`
				} `json:"featureMember"`
			} `json:"GeoObjectCollection"`
		} `json:"response"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Coordinates{}, fmt.Errorf("decode geocoder response: %w", err)
	}

	members := payload.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return weather.Coordinates{}, fmt.Errorf("geocoder returned no candidates")
	}

	return parsePosition(members[0].GeoObject.Point.Pos)
}

// parsePosition parses a "<longitude> <latitude>" pair. The order is the
// geocoder's convention and is kept as is.
func parsePosition(pos string) (weather.Coordinates, error) {
	tokens := strings.Fields(pos)
	if len(tokens) != 2 {
		return weather.Coordinates{}, fmt.Errorf("position %q: expected two tokens, got %d", pos, len(tokens))
	}

	longitude, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("position %q: invalid longitude: %w", pos, err)
	}
	latitude, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("position %q: invalid latitude: %w", pos, err)
	}
	if !finite(longitude) || math.Abs(longitude) > 180 {
		return weather.Coordinates{}, fmt.Errorf("position %q: longitude out of range", pos)
	}
	if !finite(latitude) || math.Abs(latitude) > 90 {
		return weather.Coordinates{}, fmt.Errorf("position %q: latitude out of range", pos)
	}

	return weather.Coordinates{Longitude: longitude, Latitude: latitude}, nil
}
