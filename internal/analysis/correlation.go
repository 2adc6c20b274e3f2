package analysis

import (
	"math"

	"agrolens/internal/timeseries"
)

// Strength buckets the absolute value of a correlation coefficient. The
// labels and band edges feed rendered text downstream and are fixed policy:
// bands are inclusive at their lower edge.
type Strength string

const (
	StrengthForte          Strength = "forte"
	StrengthModerada       Strength = "moderada"
	StrengthFraca          Strength = "fraca"
	StrengthInsignificante Strength = "insignificante"
)

// Direction reports the sign of the association. Thresholds at ±0.2 are
// strict comparisons; anything in between counts as no direction.
type Direction string

const (
	DirectionPositiva Direction = "positiva"
	DirectionNegativa Direction = "negativa"
	DirectionNenhuma  Direction = "nenhuma"
)

// CorrelationResult couples the coefficient with its qualitative reading.
// Coefficient is nil when fewer than two pairs exist or either side has zero
// variance; in that case Strength/Direction fall back to the weakest labels.
type CorrelationResult struct {
	Coefficient *float64
	Strength    Strength
	Direction   Direction
}

// Pearson computes the linear correlation coefficient of two equal-length
// samples. ok is false when the inputs are mismatched, shorter than two
// points, or either side has zero variance.
func Pearson(xs, ys []float64) (r float64, ok bool) {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return 0, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, denX, denY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}

	den := math.Sqrt(denX * denY)
	if den == 0 {
		return 0, false
	}

	r = num / den
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, true
}

// Classify maps a coefficient onto the fixed strength/direction policy.
func Classify(r float64) (Strength, Direction) {
	abs := math.Abs(r)

	strength := StrengthInsignificante
	switch {
	case abs >= 0.7:
		strength = StrengthForte
	case abs >= 0.4:
		strength = StrengthModerada
	case abs >= 0.2:
		strength = StrengthFraca
	}

	direction := DirectionNenhuma
	switch {
	case r > 0.2:
		direction = DirectionPositiva
	case r < -0.2:
		direction = DirectionNegativa
	}

	return strength, direction
}

// RollingCorrelation computes Pearson over a trailing window of a joined
// series. The output is again a joined series ready for the backtester: X is
// the rolling coefficient ending on the row's date, Y the row's original Y.
// Rows before the window fills, or whose window is degenerate, are dropped.
func RollingCorrelation(pairs []timeseries.Pair, window int) []timeseries.Pair {
	if window < 2 || len(pairs) < window {
		return nil
	}

	out := make([]timeseries.Pair, 0, len(pairs)-window+1)
	for i := window; i <= len(pairs); i++ {
		slice := pairs[i-window : i]
		r, ok := Pearson(timeseries.XValues(slice), timeseries.YValues(slice))
		if !ok {
			continue
		}
		last := slice[window-1]
		out = append(out, timeseries.Pair{Date: last.Date, X: r, Y: last.Y})
	}
	return out
}

// Correlate runs Pearson over a joined series and classifies the result.
func Correlate(pairs []timeseries.Pair) CorrelationResult {
	r, ok := Pearson(timeseries.XValues(pairs), timeseries.YValues(pairs))
	if !ok {
		return CorrelationResult{Strength: StrengthInsignificante, Direction: DirectionNenhuma}
	}
	strength, direction := Classify(r)
	return CorrelationResult{Coefficient: &r, Strength: strength, Direction: direction}
}
