package backtest

import (
	"errors"
	"fmt"
	"time"

	"agrolens/internal/timeseries"
)

// Bar is one time step of a backtest input. Price is the tradeable value on
// the bar date; Signal carries the strategy feature for that bar (lagged
// rainfall for climate strategies, a parallel correlation reading for
// reversal strategies). Mean reversion ignores Signal and uses the previous
// bar's price.
type Bar struct {
	Date   time.Time
	Price  float64
	Signal float64
}

// BarsFromPairs converts a lag-joined series into backtest bars: Y becomes
// the price, X the signal feature.
func BarsFromPairs(pairs []timeseries.Pair) []Bar {
	bars := make([]Bar, len(pairs))
	for i, p := range pairs {
		bars[i] = Bar{Date: p.Date, Price: p.Y, Signal: p.X}
	}
	return bars
}

// Strategy decides entries and exits bar by bar. prev is nil on the first
// bar. Implementations must be pure: same bars in, same decisions out.
type Strategy interface {
	Name() string
	ShouldEnter(bar Bar, prev *Bar) bool
	ShouldExit(bar Bar, prev *Bar) bool
}

// Strategy names accepted by New.
const (
	StrategyClimateThreshold    = "climate-threshold"
	StrategyCorrelationReversal = "correlation-reversal"
	StrategyMeanReversion       = "mean-reversion"
)

// ErrUnknownStrategy reports a strategy name outside the supported set.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Params bundles the tunables of the built-in strategies. Zero values fall
// back to the documented defaults inside New.
type Params struct {
	RainThresholdMM float64 // climate-threshold entry/exit level, mm
	EnterBelow      float64 // correlation-reversal entry level
	ExitAbove       float64 // correlation-reversal exit level
	MovePct         float64 // mean-reversion single-bar move trigger, fraction
}

// New builds a strategy by name. Misconfiguration is a programmer error and
// comes back as an explicit error instead of a silent default.
func New(name string, params Params) (Strategy, error) {
	switch name {
	case StrategyClimateThreshold:
		if params.RainThresholdMM <= 0 {
			return nil, fmt.Errorf("climate-threshold: rain threshold must be positive, got %v", params.RainThresholdMM)
		}
		return climateThreshold{thresholdMM: params.RainThresholdMM}, nil
	case StrategyCorrelationReversal:
		enter, exit := params.EnterBelow, params.ExitAbove
		if enter == 0 && exit == 0 {
			enter, exit = -0.5, 0
		}
		if enter >= exit {
			return nil, fmt.Errorf("correlation-reversal: enter level %v must be below exit level %v", enter, exit)
		}
		return correlationReversal{enterBelow: enter, exitAbove: exit}, nil
	case StrategyMeanReversion:
		move := params.MovePct
		if move == 0 {
			move = 0.02
		}
		if move < 0 || move >= 1 {
			return nil, fmt.Errorf("mean-reversion: move trigger must be in (0, 1), got %v", move)
		}
		return meanReversion{movePct: move}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// climateThreshold goes long while the lagged rainfall signal sits above a
// fixed level and exits once it falls back below.
type climateThreshold struct {
	thresholdMM float64
}

func (s climateThreshold) Name() string { return StrategyClimateThreshold }

func (s climateThreshold) ShouldEnter(bar Bar, _ *Bar) bool {
	return bar.Signal > s.thresholdMM
}

func (s climateThreshold) ShouldExit(bar Bar, _ *Bar) bool {
	return bar.Signal < s.thresholdMM
}

// correlationReversal enters when a parallel correlation series breaks below
// the entry level and exits when it recovers above the exit level.
type correlationReversal struct {
	enterBelow float64
	exitAbove  float64
}

func (s correlationReversal) Name() string { return StrategyCorrelationReversal }

func (s correlationReversal) ShouldEnter(bar Bar, _ *Bar) bool {
	return bar.Signal < s.enterBelow
}

func (s correlationReversal) ShouldExit(bar Bar, _ *Bar) bool {
	return bar.Signal > s.exitAbove
}

// meanReversion buys a single-bar drop beyond the trigger and sells a
// single-bar rise beyond it. The first bar has no previous price and can
// never trigger.
type meanReversion struct {
	movePct float64
}

func (s meanReversion) Name() string { return StrategyMeanReversion }

func (s meanReversion) ShouldEnter(bar Bar, prev *Bar) bool {
	change, ok := barChange(bar, prev)
	return ok && change < -s.movePct
}

func (s meanReversion) ShouldExit(bar Bar, prev *Bar) bool {
	change, ok := barChange(bar, prev)
	return ok && change > s.movePct
}

func barChange(bar Bar, prev *Bar) (float64, bool) {
	if prev == nil || prev.Price == 0 {
		return 0, false
	}
	return (bar.Price - prev.Price) / prev.Price, true
}
