package alerting

import (
	"agrolens/internal/analysis"
	"agrolens/internal/timeseries"
)

// Tracked pairs an asset label with its price series for rule evaluation.
type Tracked struct {
	Asset  string
	Series timeseries.Series
}

// BuildInput assembles the freshest evaluation window from raw series: per
// tracked asset the latest monthly stats and the last two observed market
// records, plus the trailing windowDays of climate observations.
func BuildInput(climate timeseries.Series, windowDays int, tracked ...Tracked) Input {
	input := Input{ClimateWindow: trailingWindow(climate, windowDays)}

	for _, tr := range tracked {
		stats := analysis.MonthlyQuartiles(tr.Series, tr.Asset)
		if len(stats) > 0 {
			input.LatestStats = append(input.LatestStats, stats[len(stats)-1])
		}

		observed := observedPoints(tr.Series)
		if len(observed) >= 2 {
			input.Markets = append(input.Markets, MarketSnapshot{
				Asset: tr.Asset,
				Prev:  observed[len(observed)-2],
				Last:  observed[len(observed)-1],
			})
		}
	}

	return input
}

func trailingWindow(s timeseries.Series, days int) timeseries.Series {
	points := s.Dedup()
	if len(points) == 0 || days <= 0 {
		return nil
	}
	cutoff := points[len(points)-1].Date.AddDate(0, 0, -(days - 1))
	for i, p := range points {
		if !p.Date.Before(cutoff) {
			return points[i:]
		}
	}
	return nil
}

func observedPoints(s timeseries.Series) []timeseries.Point {
	var out []timeseries.Point
	for _, p := range s.Dedup() {
		if p.Value != nil {
			out = append(out, p)
		}
	}
	return out
}
