package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"agrolens/internal/timeseries"
)

func linearSeries(n int, slope, intercept float64) timeseries.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(timeseries.Series, 0, n)
	for i := 0; i < n; i++ {
		s = append(s, timeseries.Obs(start.AddDate(0, 0, i), slope*float64(i)+intercept))
	}
	return s
}

func TestFitPerfectLine(t *testing.T) {
	m, err := Fit(linearSeries(10, 2, 3))
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if math.Abs(m.Slope-2) > 1e-9 {
		t.Fatalf("slope = %v, want 2", m.Slope)
	}
	if math.Abs(m.Intercept-3) > 1e-9 {
		t.Fatalf("intercept = %v, want 3", m.Intercept)
	}
	if math.Abs(m.R2-1) > 1e-9 {
		t.Fatalf("r2 = %v, want 1", m.R2)
	}
	if m.StdError > 1e-9 {
		t.Fatalf("std error = %v, want ~0", m.StdError)
	}
}

func TestFitInsufficientData(t *testing.T) {
	if _, err := Fit(nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := Fit(linearSeries(1, 1, 1)); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for single point, got %v", err)
	}
}

func TestFitConstantSeries(t *testing.T) {
	m, err := Fit(linearSeries(5, 0, 7))
	if err != nil {
		t.Fatalf("constant series should still fit: %v", err)
	}
	if math.Abs(m.Slope) > 1e-12 {
		t.Fatalf("slope should be 0 for constant series, got %v", m.Slope)
	}
	if m.R2 != 1 {
		t.Fatalf("constant series is reproduced exactly, r2 should be 1, got %v", m.R2)
	}
}

func TestForecastDatesAndBand(t *testing.T) {
	series := linearSeries(5, 2, 3)
	m, err := Fit(series)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	points := Forecast(m, 3, DefaultConfidenceZ)
	if len(points) != 3 {
		t.Fatalf("expected 3 forecast points, got %d", len(points))
	}

	last := series.LastDate()
	for i, p := range points {
		wantDate := last.AddDate(0, 0, i+1)
		if !p.Date.Equal(wantDate) {
			t.Fatalf("point %d date = %v, want %v", i, p.Date, wantDate)
		}
		wantIndex := m.Observations + i
		if p.Index != wantIndex {
			t.Fatalf("point %d index = %d, want %d", i, p.Index, wantIndex)
		}
		wantValue := m.Predict(wantIndex)
		if math.Abs(p.Value-wantValue) > 1e-12 {
			t.Fatalf("point %d value = %v, want %v", i, p.Value, wantValue)
		}
		if p.Lower > p.Value || p.Upper < p.Value {
			t.Fatalf("band does not contain the point forecast: %+v", p)
		}
	}
}

func TestFitAnchorsToLastObservedDate(t *testing.T) {
	series := linearSeries(5, 2, 3)
	lastObserved := series.LastDate()
	series = append(series,
		timeseries.Missing(lastObserved.AddDate(0, 0, 1)),
		timeseries.Missing(lastObserved.AddDate(0, 0, 2)))

	m, err := Fit(series)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if !m.LastDate.Equal(lastObserved) {
		t.Fatalf("model date = %v, want last observed %v", m.LastDate, lastObserved)
	}

	points := Forecast(m, 1, DefaultConfidenceZ)
	if want := lastObserved.AddDate(0, 0, 1); !points[0].Date.Equal(want) {
		t.Fatalf("forecast starts at %v, want %v", points[0].Date, want)
	}
}

func TestForecastNoSteps(t *testing.T) {
	if points := Forecast(Model{}, 0, DefaultConfidenceZ); points != nil {
		t.Fatalf("zero steps should yield no points, got %v", points)
	}
}
