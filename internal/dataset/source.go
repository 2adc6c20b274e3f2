package dataset

import (
	"context"

	"agrolens/internal/timeseries"
)

// Source supplies a date-indexed series to the analytical core. The core
// itself never reads files; callers pick a source and hand the loaded series
// in.
type Source interface {
	Load(ctx context.Context) (timeseries.Series, error)
}

// StaticSource serves a fixed in-memory series, used by tests and the watch
// service's warm path.
type StaticSource struct {
	series timeseries.Series
}

// NewStatic wraps a series as a Source.
func NewStatic(series timeseries.Series) *StaticSource {
	return &StaticSource{series: series}
}

// Load returns the wrapped series.
func (s *StaticSource) Load(context.Context) (timeseries.Series, error) {
	return s.series, nil
}

var _ Source = (*StaticSource)(nil)
