package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priceBars(prices ...float64) []Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]Bar, len(prices))
	for i, p := range prices {
		bars[i] = Bar{Date: start.AddDate(0, 0, i), Price: p}
	}
	return bars
}

func TestMeanReversionReferenceRun(t *testing.T) {
	strat, err := New(StrategyMeanReversion, Params{MovePct: 0.02})
	require.NoError(t, err)

	result := Run(priceBars(100, 105, 98, 110), strat)
	require.Len(t, result.Records, 4)

	// Bar 0 has no previous price, bar 1 rises while flat: both hold.
	assert.Equal(t, SignalHold, result.Records[0].Signal)
	assert.Equal(t, SignalHold, result.Records[1].Signal)

	// Bar 2: -6.7% drop triggers the buy at 98.
	assert.Equal(t, SignalBuy, result.Records[2].Signal)
	assert.Equal(t, PositionLong, result.Records[2].Position)
	assert.Equal(t, 0.0, result.Records[2].RunningPnL)

	// Bar 3: +12.2% rise closes at 110 for 12.
	assert.Equal(t, SignalSell, result.Records[3].Signal)
	assert.Equal(t, PositionFlat, result.Records[3].Position)
	assert.Equal(t, 12.0, result.Records[3].CumulativePnL)

	require.Len(t, result.Trades, 1)
	assert.Equal(t, 98.0, result.Trades[0].EntryPrice)
	assert.Equal(t, 110.0, result.Trades[0].ExitPrice)
	assert.Equal(t, 12.0, result.Trades[0].PnL)

	assert.Equal(t, 1, result.Summary.TotalTrades)
	assert.Equal(t, 1.0, result.Summary.WinRate)
	assert.Equal(t, 12.0, result.Summary.AvgWin)
	assert.Equal(t, 12.0, result.Summary.FinalPnL)
	// No losing trade realized: profit factor uses the documented 0 sentinel.
	assert.Equal(t, 0.0, result.Summary.ProfitFactor)
}

func TestClimateThresholdStrategy(t *testing.T) {
	strat, err := New(StrategyClimateThreshold, Params{RainThresholdMM: 80})
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := []Bar{
		{Date: start, Price: 50, Signal: 60},
		{Date: start.AddDate(0, 0, 1), Price: 52, Signal: 95},  // rainfall above threshold: buy
		{Date: start.AddDate(0, 0, 2), Price: 55, Signal: 90},  // still above: hold long
		{Date: start.AddDate(0, 0, 3), Price: 53, Signal: 40},  // below threshold: sell
		{Date: start.AddDate(0, 0, 4), Price: 54, Signal: 80},  // exactly at threshold: no entry
	}

	result := Run(bars, strat)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, 52.0, result.Trades[0].EntryPrice)
	assert.Equal(t, 53.0, result.Trades[0].ExitPrice)
	assert.Equal(t, 1.0, result.Trades[0].PnL)
	assert.Equal(t, SignalHold, result.Records[4].Signal)

	assert.InDelta(t, 2.0, result.Records[2].RunningPnL, 1e-12)
}

func TestCorrelationReversalDefaults(t *testing.T) {
	strat, err := New(StrategyCorrelationReversal, Params{})
	require.NoError(t, err)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	bars := []Bar{
		{Date: start, Price: 10, Signal: -0.3},
		{Date: start.AddDate(0, 0, 1), Price: 9, Signal: -0.6}, // below -0.5: buy
		{Date: start.AddDate(0, 0, 2), Price: 9.5, Signal: -0.2},
		{Date: start.AddDate(0, 0, 3), Price: 11, Signal: 0.1}, // above 0: sell
	}

	result := Run(bars, strat)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, 9.0, result.Trades[0].EntryPrice)
	assert.Equal(t, 11.0, result.Trades[0].ExitPrice)
}

func TestOpenTradeExcludedFromWinRate(t *testing.T) {
	strat, err := New(StrategyMeanReversion, Params{})
	require.NoError(t, err)

	// Drop then drift: the position opened on the drop never closes.
	result := Run(priceBars(100, 90, 90.5, 91), strat)
	assert.Empty(t, result.Trades)
	assert.Equal(t, 0, result.Summary.TotalTrades)
	assert.Equal(t, 0.0, result.Summary.WinRate)
	assert.Equal(t, 0.0, result.Summary.FinalPnL)
	assert.Equal(t, PositionLong, result.Records[len(result.Records)-1].Position)
	assert.InDelta(t, 1.0, result.Records[3].RunningPnL, 1e-12)
}

func TestRunDeterminism(t *testing.T) {
	strat, err := New(StrategyMeanReversion, Params{MovePct: 0.02})
	require.NoError(t, err)

	bars := priceBars(100, 97, 95, 99, 104, 101, 98, 103)
	first := Run(bars, strat)
	second := Run(bars, strat)
	assert.Equal(t, first, second)
}

func TestSummaryLossAccounting(t *testing.T) {
	strat, err := New(StrategyMeanReversion, Params{MovePct: 0.02})
	require.NoError(t, err)

	// Round trip 1: buy 95, sell 99 (+4). Round trip 2: buy 90, slide to 85,
	// then a +3.5% bounce to 88 forces the exit at a loss (-2).
	result := Run(priceBars(100, 95, 99, 90, 85, 88), strat)
	require.Len(t, result.Trades, 2)

	assert.Equal(t, 0.5, result.Summary.WinRate)
	assert.Equal(t, 4.0, result.Summary.AvgWin)
	assert.Equal(t, -2.0, result.Summary.AvgLoss)
	assert.Equal(t, 2.0, result.Summary.ProfitFactor)
	assert.Equal(t, 2.0, result.Summary.FinalPnL)
}

func TestNewUnknownStrategy(t *testing.T) {
	_, err := New("martingale", Params{})
	require.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestNewRejectsBadParams(t *testing.T) {
	_, err := New(StrategyClimateThreshold, Params{RainThresholdMM: -1})
	require.Error(t, err)

	_, err = New(StrategyCorrelationReversal, Params{EnterBelow: 0.5, ExitAbove: 0})
	require.Error(t, err)

	_, err = New(StrategyMeanReversion, Params{MovePct: 1.5})
	require.Error(t, err)
}
