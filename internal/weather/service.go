package weather

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Service runs the lookup pipeline: resolve coordinates, fetch weather and
// record it in every configured history store.
type Service struct {
	resolver CoordinateResolver
	provider Provider
	storages []Storage
	logger   *zap.Logger
}

// NewService creates a new Service. storages may be empty, in which case
// nothing is recorded.
func NewService(resolver CoordinateResolver, provider Provider, storages []Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver: resolver,
		provider: provider,
		storages: storages,
		logger:   logger.Named("service"),
	}
}

// Lookup resolves address, fetches its current weather and saves the result
// to the configured stores in order. The first failing stage aborts the rest;
// the returned error wraps ErrCoordinates, ErrWeatherService or ErrHistoryWrite.
func (s *Service) Lookup(ctx context.Context, address string) (Weather, error) {
	if strings.TrimSpace(address) == "" {
		return Weather{}, fmt.Errorf("%w: empty address", ErrCoordinates)
	}

	coords, err := s.resolver.Resolve(ctx, address)
	if err != nil {
		s.logger.Warn("coordinate resolution failed",
			zap.String("resolver", s.resolver.Name()),
			zap.String("address", address),
			zap.Error(err))
		return Weather{}, err
	}
	s.logger.Debug("coordinates resolved",
		zap.String("address", address),
		zap.Float64("longitude", coords.Longitude),
		zap.Float64("latitude", coords.Latitude))

	w, err := s.provider.Fetch(ctx, coords)
	if err != nil {
		s.logger.Warn("weather fetch failed",
			zap.String("provider", s.provider.Name()),
			zap.Error(err))
		return Weather{}, err
	}

	if err := s.Record(w); err != nil {
		return Weather{}, err
	}

	s.logger.Info("weather lookup completed",
		zap.String("city", w.City),
		zap.Int("temperature", int(w.Temperature)),
		zap.String("condition", string(w.Condition)),
		zap.Int("stores", len(s.storages)))
	return w, nil
}

// Record saves w to every configured store, stopping at the first failure.
func (s *Service) Record(w Weather) error {
	for i, st := range s.storages {
		if err := st.Save(w); err != nil {
			s.logger.Error("history write failed", zap.Int("store", i), zap.Error(err))
			return err
		}
	}
	return nil
}
