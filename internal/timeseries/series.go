package timeseries

import (
	"sort"
	"time"
)

// Point is a single dated observation. A nil Value means the observation is
// missing, which is distinct from an observed zero.
type Point struct {
	Date  time.Time
	Value *float64
}

// Obs builds an observed point on the given calendar day.
func Obs(date time.Time, value float64) Point {
	return Point{Date: Day(date), Value: &value}
}

// Missing builds a point recording that no observation exists for the day.
func Missing(date time.Time) Point {
	return Point{Date: Day(date)}
}

// Series is an ordered sequence of points. Consumers may hand in unsorted
// input with repeated dates; Dedup establishes the strictly-increasing date
// invariant the analytical code relies on.
type Series []Point

// Day normalises a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Dedup returns a copy of the series with one point per calendar day, sorted
// ascending. When a day appears more than once the record appearing last in
// input order wins.
func (s Series) Dedup() Series {
	if len(s) == 0 {
		return nil
	}

	latest := make(map[time.Time]Point, len(s))
	for _, p := range s {
		day := Day(p.Date)
		p.Date = day
		latest[day] = p
	}

	out := make(Series, 0, len(latest))
	for _, p := range latest {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Values returns the observed values in date order, skipping missing points.
func (s Series) Values() []float64 {
	out := make([]float64, 0, len(s))
	for _, p := range s.Dedup() {
		if p.Value != nil {
			out = append(out, *p.Value)
		}
	}
	return out
}

// LastDate returns the date of the final point after dedup, or the zero time
// for an empty series.
func (s Series) LastDate() time.Time {
	d := s.Dedup()
	if len(d) == 0 {
		return time.Time{}
	}
	return d[len(d)-1].Date
}
