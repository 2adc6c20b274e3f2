package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"agrolens/internal/config"
	"agrolens/internal/dataset"
	"agrolens/internal/timeseries"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// AnalyzeOptions configure the lag/correlation analysis.
type AnalyzeOptions struct {
	PriceCSV   string
	ClimateCSV string
	LagDays    int
}

// VolatilityOptions configure the monthly quartile report.
type VolatilityOptions struct {
	PriceCSV  string
	Asset     string
	RankLimit int
}

// ForecastOptions configure the regression forecast.
type ForecastOptions struct {
	PriceCSV  string
	Horizon   int
	CSVPath   string
	PNGPath   string
	MaxPoints int
}

// BacktestOptions configure a strategy simulation.
type BacktestOptions struct {
	PriceCSV   string
	ClimateCSV string
	Strategy   string
	LagDays    int
	CSVPath    string
	PNGPath    string
}

// AlertsOptions configure a one-shot rule evaluation.
type AlertsOptions struct {
	PriceCSV   string
	ClimateCSV string
	Asset      string
	WindowDays int
}

func (a *App) priceSource(override string) (dataset.Source, error) {
	path := override
	if path == "" {
		path = a.Config.Data.PriceCSV
	}
	if path == "" {
		return nil, errors.New("no price series configured; set data.price_csv or pass --price")
	}
	return dataset.NewCSV(path, a.Logger), nil
}

func (a *App) climateSource(override string) (dataset.Source, error) {
	path := override
	if path == "" {
		path = a.Config.Data.ClimateCSV
	}
	if path == "" {
		return nil, errors.New("no climate series configured; set data.climate_csv or pass --climate")
	}
	return dataset.NewCSV(path, a.Logger), nil
}

func (a *App) loadSeries(ctx context.Context, src dataset.Source) (timeseries.Series, error) {
	series, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return series.Dedup(), nil
}

func (a *App) resolveAsset(override string) string {
	if override != "" {
		return override
	}
	return a.Config.Data.Asset
}

func (a *App) resolveLag(override int) (int, error) {
	lag := a.Config.Analysis.LagDays
	if override >= 0 {
		lag = override
	} else if override != -1 {
		return 0, fmt.Errorf("lag days cannot be negative, got %d", override)
	}
	return lag, nil
}

// fmtF renders a float with fixed decimal places through decimal, keeping
// table output free of binary-float noise.
func fmtF(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
