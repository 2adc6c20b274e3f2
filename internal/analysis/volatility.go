package analysis

import (
	"sort"
	"time"

	"agrolens/internal/timeseries"
)

// PeriodStats summarises one calendar month of observations for an asset as
// a five-number boxplot. Invariant: Min <= Q1 <= Median <= Q3 <= Max.
type PeriodStats struct {
	Asset  string
	Year   int
	Month  time.Month
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// VolatilityScore is the interquartile range normalised by the median. The
// score is undefined (ok false) when the median is zero or negative, so the
// month drops out of rankings instead of dividing by zero.
func (p PeriodStats) VolatilityScore() (float64, bool) {
	if p.Median <= 0 {
		return 0, false
	}
	return (p.Q3 - p.Q1) / p.Median, true
}

// RangePercent is the full min-to-max spread relative to the median, in
// percent. Same undefined rule as VolatilityScore.
func (p PeriodStats) RangePercent() (float64, bool) {
	if p.Median <= 0 {
		return 0, false
	}
	return (p.Max - p.Min) / p.Median * 100, true
}

// MonthlyQuartiles groups a series by (year, month) and computes Tukey-hinge
// quartiles per group. Output is sorted ascending by period. Missing points
// are skipped; months with no observations do not appear.
func MonthlyQuartiles(s timeseries.Series, assetKey string) []PeriodStats {
	type period struct {
		year  int
		month time.Month
	}

	groups := make(map[period][]float64)
	for _, p := range s.Dedup() {
		if p.Value == nil {
			continue
		}
		k := period{year: p.Date.Year(), month: p.Date.Month()}
		groups[k] = append(groups[k], *p.Value)
	}

	stats := make([]PeriodStats, 0, len(groups))
	for k, values := range groups {
		sort.Float64s(values)
		q1, med, q3 := tukeyHinges(values)
		stats = append(stats, PeriodStats{
			Asset:  assetKey,
			Year:   k.year,
			Month:  k.month,
			Count:  len(values),
			Min:    values[0],
			Q1:     q1,
			Median: med,
			Q3:     q3,
			Max:    values[len(values)-1],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Year != stats[j].Year {
			return stats[i].Year < stats[j].Year
		}
		return stats[i].Month < stats[j].Month
	})
	return stats
}

// tukeyHinges computes quartiles as medians of the lower and upper halves of
// the sorted sample, with the overall median shared into both halves for odd
// counts. Boxplot renderers expect exactly this variant.
func tukeyHinges(sorted []float64) (q1, med, q3 float64) {
	n := len(sorted)
	med = medianOfSorted(sorted)
	if n == 1 {
		return sorted[0], med, sorted[0]
	}
	lower := sorted[:(n+1)/2]
	upper := sorted[n/2:]
	return medianOfSorted(lower), med, medianOfSorted(upper)
}

func medianOfSorted(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// VolatilityRanking lists the months with the highest and lowest defined
// volatility scores. Most is ordered highest first, Least lowest first.
type VolatilityRanking struct {
	Most  []PeriodStats
	Least []PeriodStats
}

// RankVolatility picks the limit highest and lowest scoring months. Months
// with an undefined score are excluded entirely. Ties keep period order.
func RankVolatility(stats []PeriodStats, limit int) VolatilityRanking {
	scored := make([]PeriodStats, 0, len(stats))
	for _, st := range stats {
		if _, ok := st.VolatilityScore(); ok {
			scored = append(scored, st)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		si, _ := scored[i].VolatilityScore()
		sj, _ := scored[j].VolatilityScore()
		return si > sj
	})

	if limit > len(scored) {
		limit = len(scored)
	}

	ranking := VolatilityRanking{
		Most:  append([]PeriodStats(nil), scored[:limit]...),
		Least: make([]PeriodStats, 0, limit),
	}
	for i := len(scored) - 1; i >= len(scored)-limit; i-- {
		ranking.Least = append(ranking.Least, scored[i])
	}
	return ranking
}
