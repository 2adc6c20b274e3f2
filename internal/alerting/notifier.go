package alerting

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier delivers evaluated alerts somewhere useful. The engine itself
// never does I/O; delivery lives behind this interface.
type Notifier interface {
	Notify(ctx context.Context, alerts []Alert) error
}

// LogNotifier writes each alert through the structured logger at a level
// matching its severity.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier constructs a logger-backed notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "alert_log").Logger()}
}

// Notify logs every alert. It never fails.
func (n *LogNotifier) Notify(_ context.Context, alerts []Alert) error {
	for _, alert := range alerts {
		event := n.logger.Info()
		switch alert.Level {
		case LevelCritical:
			event = n.logger.Error()
		case LevelWarning:
			event = n.logger.Warn()
		}
		event.Str("id", alert.ID).
			Str("category", string(alert.Category)).
			Str("level", string(alert.Level)).
			Time("date", alert.Date).
			Str("title", alert.Title).
			Msg(alert.Description)
	}
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
