package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"agrolens/internal/alerting"
	"agrolens/internal/scheduler"
	"agrolens/internal/service"
)

// Watch runs the long-lived alert loop: every interval both series are
// re-read, the rules re-evaluated, and alerts with unseen IDs delivered
// through the log notifier.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	priceSrc, err := a.priceSource("")
	if err != nil {
		return err
	}
	climateSrc, err := a.climateSource("")
	if err != nil {
		return err
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Watch.Interval,
		AlignToStart: a.Config.Watch.AlignToBucket,
		StartupDelay: a.Config.Watch.StartupDelay,
	}, a.Logger)

	svc := service.New(
		sched,
		priceSrc,
		climateSrc,
		a.Config.Data.Asset,
		a.Config.Watch.WindowDays,
		alerting.NewEvaluator(a.Config.Alerts, a.Logger),
		alerting.NewLogNotifier(a.Logger),
		a.Logger,
	)

	a.Logger.Info().Dur("interval", a.Config.Watch.Interval).Msg("starting watch loop")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch loop terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch loop stopped")
	return nil
}
