package alerting

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"agrolens/internal/analysis"
	"agrolens/internal/timeseries"
)

func testEvaluator() *Evaluator {
	return NewEvaluator(DefaultConfig(), zerolog.Nop())
}

func rainWindow(start time.Time, daily float64, days int) timeseries.Series {
	s := make(timeseries.Series, 0, days)
	for i := 0; i < days; i++ {
		s = append(s, timeseries.Obs(start.AddDate(0, 0, i), daily))
	}
	return s
}

func snapshot(asset string, prev, last float64, lastDate time.Time) MarketSnapshot {
	return MarketSnapshot{
		Asset: asset,
		Prev:  timeseries.Obs(lastDate.AddDate(0, 0, -1), prev),
		Last:  timeseries.Obs(lastDate, last),
	}
}

func TestVolatilityLevels(t *testing.T) {
	stats := []analysis.PeriodStats{
		{Asset: "usd", Year: 2024, Month: time.May, Min: 90, Median: 100, Max: 106},  // 16% range: critical
		{Asset: "soy", Year: 2024, Month: time.May, Min: 95, Median: 100, Max: 107},  // 12% range: warning
		{Asset: "cot", Year: 2024, Month: time.May, Min: 98, Median: 100, Max: 103},  // 5% range: quiet
	}

	alerts := testEvaluator().Evaluate(Input{LatestStats: stats})
	if len(alerts) != 2 {
		t.Fatalf("expected 2 volatility alerts, got %d", len(alerts))
	}
	if alerts[0].Level != LevelCritical || alerts[0].Category != CategoryVolatilidade {
		t.Fatalf("first alert should be the critical one: %+v", alerts[0])
	}
	if alerts[1].Level != LevelWarning {
		t.Fatalf("second alert should be the warning: %+v", alerts[1])
	}
}

func TestRainfallRules(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		daily  float64
		level  Level
		expect bool
	}{
		{"deficit", 1, LevelCritical, true},      // 30mm total
		{"excess", 11, LevelWarning, true},       // 330mm total
		{"off baseline", 7, LevelInfo, true},     // 210mm, +40% of 150mm baseline
		{"normal", 5, "", false},                 // 150mm, on baseline
	}

	for _, tc := range cases {
		alerts := testEvaluator().Evaluate(Input{ClimateWindow: rainWindow(start, tc.daily, 30)})
		if !tc.expect {
			if len(alerts) != 0 {
				t.Fatalf("%s: expected no alerts, got %+v", tc.name, alerts)
			}
			continue
		}
		if len(alerts) != 1 {
			t.Fatalf("%s: expected one alert, got %d", tc.name, len(alerts))
		}
		if alerts[0].Level != tc.level || alerts[0].Category != CategoryClima {
			t.Fatalf("%s: unexpected alert %+v", tc.name, alerts[0])
		}
	}
}

func TestOscillationRule(t *testing.T) {
	day := time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC)
	input := Input{Markets: []MarketSnapshot{
		snapshot("usd", 5.00, 5.12, day), // +2.4%: alert
		snapshot("soy", 130, 131, day),   // +0.8%: quiet
	}}

	alerts := testEvaluator().Evaluate(input)
	if len(alerts) != 1 {
		t.Fatalf("expected one oscillation alert, got %d", len(alerts))
	}
	if alerts[0].Category != CategoryMercado || alerts[0].Level != LevelInfo {
		t.Fatalf("unexpected alert: %+v", alerts[0])
	}
}

func TestAlertIDsStableAcrossRuns(t *testing.T) {
	stats := []analysis.PeriodStats{
		{Asset: "usd", Year: 2024, Month: time.May, Min: 90, Median: 100, Max: 106},
	}
	input := Input{
		LatestStats:   stats,
		ClimateWindow: rainWindow(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 1, 30),
	}

	first := testEvaluator().Evaluate(input)
	second := testEvaluator().Evaluate(input)
	if len(first) != len(second) || len(first) == 0 {
		t.Fatalf("evaluations differ in size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID == "" {
			t.Fatalf("alert %d has empty id", i)
		}
		if first[i].ID != second[i].ID {
			t.Fatalf("alert %d id changed across runs: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestSeverityOrdering(t *testing.T) {
	day := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	input := Input{
		LatestStats: []analysis.PeriodStats{
			{Asset: "soy", Year: 2024, Month: time.May, Min: 95, Median: 100, Max: 107}, // warning
		},
		ClimateWindow: rainWindow(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 1, 30), // critical deficit
		Markets: []MarketSnapshot{
			snapshot("usd", 5.00, 5.15, day), // info
		},
	}

	alerts := testEvaluator().Evaluate(input)
	if len(alerts) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(alerts))
	}
	if alerts[0].Level != LevelCritical || alerts[1].Level != LevelWarning || alerts[2].Level != LevelInfo {
		t.Fatalf("severity order wrong: %v %v %v", alerts[0].Level, alerts[1].Level, alerts[2].Level)
	}
}
