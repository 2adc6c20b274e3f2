package analysis

import (
	"errors"
	"math"
	"time"

	"agrolens/internal/timeseries"
)

// DefaultConfidenceZ is the multiplier for a 95% confidence band.
const DefaultConfidenceZ = 1.96

var (
	// ErrInsufficientData signals fewer than two observations.
	ErrInsufficientData = errors.New("insufficient data to fit regression")
	// ErrDegenerateSeries signals a zero denominator in the OLS closed form.
	ErrDegenerateSeries = errors.New("degenerate series: single distinct index")
)

// Model is an ordinary least-squares line fitted over (index, value) pairs,
// index 0..n-1. Fitting on index rather than calendar position keeps the
// trend robust to irregular observation gaps. LastDate is the date of the
// final observed value, not of a trailing missing point.
type Model struct {
	Slope        float64
	Intercept    float64
	StdError     float64
	R2           float64
	Observations int
	LastDate     time.Time
}

// Predict evaluates the fitted line at an index position.
func (m Model) Predict(index int) float64 {
	return m.Intercept + m.Slope*float64(index)
}

// ForecastPoint is one extrapolated step with its confidence bounds.
type ForecastPoint struct {
	Date  time.Time
	Index int
	Value float64
	Lower float64
	Upper float64
}

// Fit runs OLS over the observed values of a series. The model never comes
// back silently flat: too little data or a degenerate denominator is an
// explicit error so callers can render a "no trend" state.
func Fit(s timeseries.Series) (Model, error) {
	var values []float64
	var lastObserved time.Time
	for _, p := range s.Dedup() {
		if p.Value == nil {
			continue
		}
		values = append(values, *p.Value)
		lastObserved = p.Date
	}

	n := len(values)
	if n < 2 {
		return Model{}, ErrInsufficientData
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	den := fn*sumXX - sumX*sumX
	if den == 0 {
		return Model{}, ErrDegenerateSeries
	}

	slope := (fn*sumXY - sumX*sumY) / den
	intercept := (sumY - slope*sumX) / fn

	meanY := sumY / fn
	var ssRes, ssTot float64
	for i, y := range values {
		predicted := intercept + slope*float64(i)
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}

	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	return Model{
		Slope:        slope,
		Intercept:    intercept,
		StdError:     math.Sqrt(ssRes / fn),
		R2:           r2,
		Observations: n,
		LastDate:     lastObserved,
	}, nil
}

// Forecast extrapolates steps index positions past the last observation,
// pairing each with a calendar date advanced one day at a time from the last
// series date. The band is Value ± z*StdError; pass DefaultConfidenceZ for
// the standard 95% interval.
func Forecast(m Model, steps int, z float64) []ForecastPoint {
	if steps <= 0 {
		return nil
	}

	points := make([]ForecastPoint, 0, steps)
	for i := 1; i <= steps; i++ {
		index := m.Observations - 1 + i
		value := m.Predict(index)
		margin := z * m.StdError
		points = append(points, ForecastPoint{
			Date:  m.LastDate.AddDate(0, 0, i),
			Index: index,
			Value: value,
			Lower: value - margin,
			Upper: value + margin,
		})
	}
	return points
}
