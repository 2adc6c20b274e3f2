package backtest

import (
	"math"
	"time"
)

// Position is the state of the simulated book on a bar.
type Position string

const (
	PositionFlat Position = "flat"
	PositionLong Position = "long"
)

// Signal is the action emitted on a bar.
type Signal string

const (
	SignalBuy  Signal = "buy"
	SignalSell Signal = "sell"
	SignalHold Signal = "hold"
)

// Record is the per-bar output row. RunningPnL is the unrealized P&L of the
// open position (zero while flat); CumulativePnL accumulates realized trades
// only.
type Record struct {
	Date          time.Time
	Price         float64
	Signal        Signal
	Position      Position
	RunningPnL    float64
	CumulativePnL float64
}

// Trade is one completed round trip.
type Trade struct {
	EntryDate  time.Time
	EntryPrice float64
	ExitDate   time.Time
	ExitPrice  float64
	PnL        float64
}

// Summary aggregates a full run. WinRate is a fraction of closed trades with
// positive P&L over closed trades with nonzero P&L; a position still open at
// the end is excluded, as are zero-P&L exits. AvgLoss keeps its negative
// sign. ProfitFactor is avgWin over |avgLoss| and is reported as 0 when no
// losing trade was realized, so neither NaN nor Inf can reach callers.
type Summary struct {
	TotalTrades  int
	WinRate      float64
	AvgWin       float64
	AvgLoss      float64
	ProfitFactor float64
	FinalPnL     float64
}

// Result is the full deterministic output of a run.
type Result struct {
	Strategy string
	Records  []Record
	Trades   []Trade
	Summary  Summary
}

// Run replays the strategy over time-ordered bars. The machine has two
// states: flat, entered on a fired enter condition, and long, left on a fired
// exit condition with the P&L realized at the exit price. Identical inputs
// always produce identical results.
func Run(bars []Bar, strat Strategy) Result {
	result := Result{
		Strategy: strat.Name(),
		Records:  make([]Record, 0, len(bars)),
	}

	position := PositionFlat
	var entryPrice float64
	var entryDate time.Time
	var cumulative float64
	var prev *Bar

	for i := range bars {
		bar := bars[i]
		signal := SignalHold

		switch position {
		case PositionFlat:
			if strat.ShouldEnter(bar, prev) {
				position = PositionLong
				entryPrice = bar.Price
				entryDate = bar.Date
				signal = SignalBuy
			}
		case PositionLong:
			if strat.ShouldExit(bar, prev) {
				pnl := bar.Price - entryPrice
				cumulative += pnl
				result.Trades = append(result.Trades, Trade{
					EntryDate:  entryDate,
					EntryPrice: entryPrice,
					ExitDate:   bar.Date,
					ExitPrice:  bar.Price,
					PnL:        pnl,
				})
				position = PositionFlat
				signal = SignalSell
			}
		}

		running := 0.0
		if position == PositionLong {
			running = bar.Price - entryPrice
		}

		result.Records = append(result.Records, Record{
			Date:          bar.Date,
			Price:         bar.Price,
			Signal:        signal,
			Position:      position,
			RunningPnL:    running,
			CumulativePnL: cumulative,
		})

		prev = &bars[i]
	}

	result.Summary = summarize(result.Trades, cumulative)
	return result
}

func summarize(trades []Trade, finalPnL float64) Summary {
	summary := Summary{
		TotalTrades: len(trades),
		FinalPnL:    finalPnL,
	}

	var wins, losses int
	var winTotal, lossTotal float64
	for _, t := range trades {
		switch {
		case t.PnL > 0:
			wins++
			winTotal += t.PnL
		case t.PnL < 0:
			losses++
			lossTotal += t.PnL
		}
	}

	if wins+losses > 0 {
		summary.WinRate = float64(wins) / float64(wins+losses)
	}
	if wins > 0 {
		summary.AvgWin = winTotal / float64(wins)
	}
	if losses > 0 {
		summary.AvgLoss = lossTotal / float64(losses)
		summary.ProfitFactor = summary.AvgWin / math.Abs(summary.AvgLoss)
	}

	return summary
}
