package timeseries

import "time"

// Pair is one row of a date join between two series. No missing values
// survive the join; rows where either side has no observation are dropped.
type Pair struct {
	Date time.Time
	X    float64
	Y    float64
}

// Align joins two series on calendar day. For each point of a at date d the
// value of b at d minus offsetDays is looked up; X carries a's value and Y
// carries b's. Output preserves a's ascending date order. Both inputs are
// deduplicated (last write wins) before joining.
func Align(a, b Series, offsetDays int) []Pair {
	rows := join(a, b, offsetDays)
	pairs := make([]Pair, len(rows))
	for i, r := range rows {
		pairs[i] = Pair{Date: r.date, X: r.av, Y: r.bv}
	}
	return pairs
}

// LagJoin produces the lag-shifted view used for delayed-effect analysis:
// X is the climate observation lagDays before the pair date, Y is the price
// on the pair date. The cause series is always shifted backward, so no pair
// can see a climate record dated after its price record.
func LagJoin(price, climate Series, lagDays int) []Pair {
	rows := join(price, climate, lagDays)
	pairs := make([]Pair, len(rows))
	for i, r := range rows {
		pairs[i] = Pair{Date: r.date, X: r.bv, Y: r.av}
	}
	return pairs
}

type joinedRow struct {
	date time.Time
	av   float64
	bv   float64
}

func join(a, b Series, offsetDays int) []joinedRow {
	da := a.Dedup()
	db := b.Dedup()
	if len(da) == 0 || len(db) == 0 {
		return nil
	}

	lookup := make(map[time.Time]*float64, len(db))
	for _, p := range db {
		lookup[p.Date] = p.Value
	}

	rows := make([]joinedRow, 0, len(da))
	for _, p := range da {
		if p.Value == nil {
			continue
		}
		bv, ok := lookup[p.Date.AddDate(0, 0, -offsetDays)]
		if !ok || bv == nil {
			continue
		}
		rows = append(rows, joinedRow{date: p.Date, av: *p.Value, bv: *bv})
	}
	return rows
}

// XValues extracts the X column of a joined series.
func XValues(pairs []Pair) []float64 {
	out := make([]float64, len(pairs))
	for i, p := range pairs {
		out[i] = p.X
	}
	return out
}

// YValues extracts the Y column of a joined series.
func YValues(pairs []Pair) []float64 {
	out := make([]float64, len(pairs))
	for i, p := range pairs {
		out[i] = p.Y
	}
	return out
}
