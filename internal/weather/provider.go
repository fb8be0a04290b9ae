package weather

import (
	"context"
)

// CoordinateResolver turns a free-text address into coordinates (e.g. Yandex or Google geocoding).
type CoordinateResolver interface {
	Name() string
	Resolve(ctx context.Context, address string) (Coordinates, error)
}

// Provider abstracts a current-weather data source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, coords Coordinates) (Weather, error)
}

// Storage is the contract every history store must satisfy.
type Storage interface {
	Save(w Weather) error
}
