package alerting

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"agrolens/internal/analysis"
	"agrolens/internal/timeseries"
)

// Config carries the fixed rule thresholds. Defaults mirror the documented
// policy; overrides come from configuration, never from mutation at runtime.
type Config struct {
	VolatilityWarnPct  float64 `mapstructure:"volatility_warn_pct"`
	VolatilityCritPct  float64 `mapstructure:"volatility_crit_pct"`
	RainfallDeficitMM  float64 `mapstructure:"rainfall_deficit_mm"`
	RainfallExcessMM   float64 `mapstructure:"rainfall_excess_mm"`
	RainfallBaselineMM float64 `mapstructure:"rainfall_baseline_mm"`
	OscillationPct     float64 `mapstructure:"oscillation_pct"`
}

// DefaultConfig returns the documented thresholds.
func DefaultConfig() Config {
	return Config{
		VolatilityWarnPct:  10,
		VolatilityCritPct:  15,
		RainfallDeficitMM:  50,
		RainfallExcessMM:   300,
		RainfallBaselineMM: 150,
		OscillationPct:     2,
	}
}

// MarketSnapshot holds the latest two observations of one tracked asset for
// the day-over-day oscillation rule.
type MarketSnapshot struct {
	Asset string
	Prev  timeseries.Point
	Last  timeseries.Point
}

// Input is the freshest window of everything the rules look at: the latest
// monthly stats per tracked asset, the most recent climate observations
// (typically 30 days of rainfall), and the last two market records per asset.
type Input struct {
	LatestStats   []analysis.PeriodStats
	ClimateWindow timeseries.Series
	Markets       []MarketSnapshot
}

// Evaluator applies the alert rules to an input window. It keeps no state
// between calls; the same input always yields the same alerts in the same
// order.
type Evaluator struct {
	cfg    Config
	logger zerolog.Logger
}

// NewEvaluator constructs an evaluator with the given thresholds.
func NewEvaluator(cfg Config, logger zerolog.Logger) *Evaluator {
	return &Evaluator{cfg: cfg, logger: logger.With().Str("component", "alert_evaluator").Logger()}
}

// Evaluate runs every rule and returns the alerts sorted critical first,
// then warning, then info, stable by insertion order within a level.
func (e *Evaluator) Evaluate(input Input) []Alert {
	var alerts []Alert
	alerts = append(alerts, e.volatilityAlerts(input.LatestStats)...)
	alerts = append(alerts, e.rainfallAlerts(input.ClimateWindow)...)
	alerts = append(alerts, e.oscillationAlerts(input.Markets)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return levelRank(alerts[i].Level) < levelRank(alerts[j].Level)
	})

	e.logger.Debug().Int("alerts", len(alerts)).Msg("rule evaluation complete")
	return alerts
}

func (e *Evaluator) volatilityAlerts(stats []analysis.PeriodStats) []Alert {
	var alerts []Alert
	for _, st := range stats {
		rangePct, ok := st.RangePercent()
		if !ok {
			continue
		}

		var level Level
		switch {
		case rangePct >= e.cfg.VolatilityCritPct:
			level = LevelCritical
		case rangePct >= e.cfg.VolatilityWarnPct:
			level = LevelWarning
		default:
			continue
		}

		period := fmt.Sprintf("%s|%04d-%02d", st.Asset, st.Year, int(st.Month))
		alerts = append(alerts, Alert{
			ID:    alertID(CategoryVolatilidade, period),
			Title: fmt.Sprintf("High volatility: %s", st.Asset),
			Description: fmt.Sprintf("%s ranged %.1f%% of its median in %04d-%02d (min %.2f, max %.2f)",
				st.Asset, rangePct, st.Year, int(st.Month), st.Min, st.Max),
			Level:    level,
			Category: CategoryVolatilidade,
			Date:     time.Date(st.Year, st.Month, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return alerts
}

func (e *Evaluator) rainfallAlerts(window timeseries.Series) []Alert {
	points := window.Dedup()
	if len(points) == 0 {
		return nil
	}

	var total float64
	for _, p := range points {
		if p.Value != nil {
			total += *p.Value
		}
	}
	end := points[len(points)-1].Date
	period := end.Format("2006-01-02")

	switch {
	case total >= e.cfg.RainfallExcessMM:
		return []Alert{{
			ID:          alertID(CategoryClima, period),
			Title:       "Excessive rainfall",
			Description: fmt.Sprintf("30-day accumulation of %.0fmm is at or above the %.0fmm excess level", total, e.cfg.RainfallExcessMM),
			Level:       LevelWarning,
			Category:    CategoryClima,
			Date:        end,
		}}
	case total <= e.cfg.RainfallDeficitMM:
		return []Alert{{
			ID:          alertID(CategoryClima, period),
			Title:       "Rainfall deficit",
			Description: fmt.Sprintf("30-day accumulation of %.0fmm is at or below the %.0fmm deficit level", total, e.cfg.RainfallDeficitMM),
			Level:       LevelCritical,
			Category:    CategoryClima,
			Date:        end,
		}}
	}

	if e.cfg.RainfallBaselineMM > 0 {
		deviation := (total - e.cfg.RainfallBaselineMM) / e.cfg.RainfallBaselineMM * 100
		if math.Abs(deviation) > 30 {
			return []Alert{{
				ID:          alertID(CategoryClima, period),
				Title:       "Rainfall off baseline",
				Description: fmt.Sprintf("30-day accumulation of %.0fmm deviates %.0f%% from the %.0fmm baseline", total, deviation, e.cfg.RainfallBaselineMM),
				Level:       LevelInfo,
				Category:    CategoryClima,
				Date:        end,
			}}
		}
	}
	return nil
}

func (e *Evaluator) oscillationAlerts(markets []MarketSnapshot) []Alert {
	var alerts []Alert
	for _, m := range markets {
		if m.Prev.Value == nil || m.Last.Value == nil || *m.Prev.Value == 0 {
			continue
		}

		change := (*m.Last.Value - *m.Prev.Value) / *m.Prev.Value * 100
		if math.Abs(change) < e.cfg.OscillationPct {
			continue
		}

		direction := "up"
		if change < 0 {
			direction = "down"
		}

		period := fmt.Sprintf("%s|%s", m.Asset, m.Last.Date.Format("2006-01-02"))
		alerts = append(alerts, Alert{
			ID:    alertID(CategoryMercado, period),
			Title: fmt.Sprintf("Price oscillation: %s %s", m.Asset, direction),
			Description: fmt.Sprintf("%s moved %.2f%% day over day (%.4f -> %.4f)",
				m.Asset, change, *m.Prev.Value, *m.Last.Value),
			Level:    LevelInfo,
			Category: CategoryMercado,
			Date:     m.Last.Date,
		})
	}
	return alerts
}
