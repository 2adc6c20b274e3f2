package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"agrolens/internal/alerting"
	"agrolens/internal/dataset"
	"agrolens/internal/scheduler"
)

// Service drives watch mode: on every tick it reloads both series, rebuilds
// the freshest alert window, and notifies only alerts whose stable ID has
// not been delivered before in this process.
type Service struct {
	scheduler  *scheduler.Scheduler
	price      dataset.Source
	climate    dataset.Source
	asset      string
	windowDays int
	evaluator  *alerting.Evaluator
	notifier   alerting.Notifier
	logger     zerolog.Logger

	seen map[string]struct{}
}

// New constructs the watch service.
func New(sched *scheduler.Scheduler, price, climate dataset.Source, asset string, windowDays int, evaluator *alerting.Evaluator, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		scheduler:  sched,
		price:      price,
		climate:    climate,
		asset:      asset,
		windowDays: windowDays,
		evaluator:  evaluator,
		notifier:   notifier,
		logger:     logger.With().Str("component", "service").Logger(),
		seen:       make(map[string]struct{}),
	}
}

// Run begins the periodic evaluation loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.ProcessBucket)
}

// ProcessBucket performs one evaluation pass.
func (s *Service) ProcessBucket(ctx context.Context, bucket time.Time) error {
	priceSeries, err := s.price.Load(ctx)
	if err != nil {
		return fmt.Errorf("load price series: %w", err)
	}
	climateSeries, err := s.climate.Load(ctx)
	if err != nil {
		return fmt.Errorf("load climate series: %w", err)
	}

	input := alerting.BuildInput(climateSeries, s.windowDays,
		alerting.Tracked{Asset: s.asset, Series: priceSeries})
	alerts := s.evaluator.Evaluate(input)

	fresh := make([]alerting.Alert, 0, len(alerts))
	for _, alert := range alerts {
		if _, ok := s.seen[alert.ID]; ok {
			continue
		}
		s.seen[alert.ID] = struct{}{}
		fresh = append(fresh, alert)
	}

	s.logger.Info().Time("bucket", bucket).
		Int("evaluated", len(alerts)).
		Int("fresh", len(fresh)).
		Msg("alert window evaluated")

	if len(fresh) == 0 || s.notifier == nil {
		return nil
	}
	if err := s.notifier.Notify(ctx, fresh); err != nil {
		return fmt.Errorf("dispatch alerts: %w", err)
	}
	return nil
}
