package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-history/internal/weather"
)

// ResultFunc receives the outcome of every scheduled lookup.
type ResultFunc func(w weather.Weather, err error)

// Scheduler periodically repeats a weather lookup for one address.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	address   string
	interval  time.Duration
	timeout   time.Duration
	onResult  ResultFunc
	logger    *zap.Logger
}

// New creates a new Scheduler. Each run gets its own context bounded by timeout.
func New(address string, interval, timeout time.Duration, service *weather.Service, onResult ResultFunc, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(time.Local)
	// Runs never overlap; a slow lookup delays the next one.
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		service:   service,
		address:   address,
		interval:  interval,
		timeout:   timeout,
		onResult:  onResult,
		logger:    logger.Named("scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens one interval from now.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("no watch interval configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("watching address",
		zap.String("address", s.address),
		zap.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) run() {
	s.logger.Debug("running weather lookup job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	w, err := s.service.Lookup(ctx, s.address)
	if err != nil {
		s.logger.Warn("scheduled lookup failed", zap.String("address", s.address), zap.Error(err))
	}
	if s.onResult != nil {
		s.onResult(w, err)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
