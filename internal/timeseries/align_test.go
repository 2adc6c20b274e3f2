package timeseries

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDedupLastWriteWins(t *testing.T) {
	s := Series{
		Obs(day(2024, 3, 2), 10),
		Obs(day(2024, 3, 1), 5),
		Obs(day(2024, 3, 2), 12),
	}

	out := s.Dedup()
	if len(out) != 2 {
		t.Fatalf("expected 2 points after dedup, got %d", len(out))
	}
	if !out[0].Date.Equal(day(2024, 3, 1)) || !out[1].Date.Equal(day(2024, 3, 2)) {
		t.Fatalf("dedup output not sorted ascending: %v", out)
	}
	if *out[1].Value != 12 {
		t.Fatalf("expected last record to win for duplicate date, got %v", *out[1].Value)
	}
}

func TestAlignDropsMissingSides(t *testing.T) {
	a := Series{
		Obs(day(2024, 1, 1), 1),
		Missing(day(2024, 1, 2)),
		Obs(day(2024, 1, 3), 3),
		Obs(day(2024, 1, 4), 4),
	}
	b := Series{
		Obs(day(2024, 1, 1), 10),
		Obs(day(2024, 1, 2), 20),
		Missing(day(2024, 1, 3)),
		Obs(day(2024, 1, 4), 40),
	}

	pairs := Align(a, b, 0)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 aligned pairs, got %d", len(pairs))
	}
	if pairs[0].X != 1 || pairs[0].Y != 10 {
		t.Fatalf("unexpected first pair: %+v", pairs[0])
	}
	if pairs[1].X != 4 || pairs[1].Y != 40 {
		t.Fatalf("unexpected second pair: %+v", pairs[1])
	}
}

func TestAlignEmptyInput(t *testing.T) {
	if pairs := Align(nil, nil, 0); len(pairs) != 0 {
		t.Fatalf("empty input should align to empty output, got %d pairs", len(pairs))
	}
}

func TestLagJoinNoLookAhead(t *testing.T) {
	lag := 60
	climate := Series{
		Obs(day(2024, 1, 1), 120), // exactly lag days before the price point
		Obs(day(2024, 3, 2), 999), // one day late, must never be matched
	}
	price := Series{
		Obs(day(2024, 3, 1), 50),
		Obs(day(2024, 3, 3), 60), // no climate record 60 days earlier
	}

	pairs := LagJoin(price, climate, lag)
	if len(pairs) != 1 {
		t.Fatalf("expected exactly one lag-joined pair, got %d", len(pairs))
	}
	p := pairs[0]
	if !p.Date.Equal(day(2024, 3, 1)) {
		t.Fatalf("pair should carry the price date, got %v", p.Date)
	}
	if p.X != 120 {
		t.Fatalf("X should be the climate value %d days earlier, got %v", lag, p.X)
	}
	if p.Y != 50 {
		t.Fatalf("Y should be the price on the pair date, got %v", p.Y)
	}
}

func TestLagJoinZeroLagMatchesAlign(t *testing.T) {
	a := Series{Obs(day(2024, 5, 1), 2), Obs(day(2024, 5, 2), 3)}
	b := Series{Obs(day(2024, 5, 1), 7), Obs(day(2024, 5, 2), 8)}

	pairs := LagJoin(a, b, 0)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].X != 7 || pairs[0].Y != 2 {
		t.Fatalf("lag join should place the second series on X: %+v", pairs[0])
	}
}
