package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"agrolens/internal/analysis"
	"agrolens/internal/backtest"
	"agrolens/internal/timeseries"
)

// rollingWindow is the trailing span, in bars, of the parallel correlation
// series fed to the correlation-reversal strategy.
const rollingWindow = 30

// Backtest replays the configured strategy over the historical series and
// prints the trade log and summary statistics.
func (a *App) Backtest(ctx context.Context, opts BacktestOptions) error {
	name := opts.Strategy
	if name == "" {
		name = a.Config.Backtest.Strategy
	}
	strat, err := backtest.New(name, a.Config.Backtest.Params())
	if err != nil {
		return err
	}

	lag, err := a.resolveLag(opts.LagDays)
	if err != nil {
		return err
	}

	bars, err := a.buildBars(ctx, opts, name, lag)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		fmt.Fprintln(os.Stdout, "no bars to simulate")
		return nil
	}

	result := backtest.Run(bars, strat)

	a.Logger.Info().Str("strategy", name).Int("bars", len(bars)).
		Int("trades", result.Summary.TotalTrades).
		Str("final_pnl", fmtF(result.Summary.FinalPnL, 2)).
		Msg("backtest complete")

	printTrades(result.Trades)
	printSummary(result.Summary)

	if opts.CSVPath != "" {
		if err := writeBacktestCSV(opts.CSVPath, result.Records); err != nil {
			return err
		}
	}
	if opts.PNGPath != "" {
		if err := writeEquityPNG(opts.PNGPath, result.Records); err != nil {
			return err
		}
	}
	return nil
}

// buildBars assembles the strategy input. Mean reversion runs on the raw
// price series; the climate strategy on the lag-joined series; the reversal
// strategy on a rolling correlation of the lag-joined series.
func (a *App) buildBars(ctx context.Context, opts BacktestOptions, strategy string, lag int) ([]backtest.Bar, error) {
	priceSrc, err := a.priceSource(opts.PriceCSV)
	if err != nil {
		return nil, err
	}
	price, err := a.loadSeries(ctx, priceSrc)
	if err != nil {
		return nil, err
	}

	if strategy == backtest.StrategyMeanReversion {
		bars := make([]backtest.Bar, 0, len(price))
		for _, p := range price {
			if p.Value == nil {
				continue
			}
			bars = append(bars, backtest.Bar{Date: p.Date, Price: *p.Value})
		}
		return bars, nil
	}

	climateSrc, err := a.climateSource(opts.ClimateCSV)
	if err != nil {
		return nil, err
	}
	climate, err := a.loadSeries(ctx, climateSrc)
	if err != nil {
		return nil, err
	}

	pairs := timeseries.LagJoin(price, climate, lag)
	if strategy == backtest.StrategyCorrelationReversal {
		pairs = analysis.RollingCorrelation(pairs, rollingWindow)
	}
	return backtest.BarsFromPairs(pairs), nil
}

func printTrades(trades []backtest.Trade) {
	if len(trades) == 0 {
		fmt.Fprintln(os.Stdout, "no completed trades")
		return
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Entry\tEntry price\tExit\tExit price\tP&L")
	for _, t := range trades {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			t.EntryDate.Format("2006-01-02"), fmtF(t.EntryPrice, 2),
			t.ExitDate.Format("2006-01-02"), fmtF(t.ExitPrice, 2),
			fmtF(t.PnL, 2))
	}
	writer.Flush()
}

func printSummary(s backtest.Summary) {
	profitFactor := "n/a"
	if s.ProfitFactor != 0 {
		profitFactor = fmtF(s.ProfitFactor, 2)
	}

	fmt.Fprintln(os.Stdout)
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Trades\t%d\n", s.TotalTrades)
	fmt.Fprintf(writer, "Win rate\t%s%%\n", fmtF(s.WinRate*100, 1))
	fmt.Fprintf(writer, "Avg win\t%s\n", fmtF(s.AvgWin, 2))
	fmt.Fprintf(writer, "Avg loss\t%s\n", fmtF(s.AvgLoss, 2))
	fmt.Fprintf(writer, "Profit factor\t%s\n", profitFactor)
	fmt.Fprintf(writer, "Final P&L\t%s\n", fmtF(s.FinalPnL, 2))
	writer.Flush()
}

func writeBacktestCSV(path string, records []backtest.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"date", "price", "signal", "position", "running_pnl", "cumulative_pnl"}); err != nil {
		return err
	}
	for _, r := range records {
		record := []string{
			r.Date.Format("2006-01-02"),
			fmtF(r.Price, 6),
			string(r.Signal),
			string(r.Position),
			fmtF(r.RunningPnL, 6),
			fmtF(r.CumulativePnL, 6),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func writeEquityPNG(path string, records []backtest.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(records))
	price := make([]float64, len(records))
	equity := make([]float64, len(records))
	for i, r := range records {
		x[i] = r.Date
		price[i] = r.Price
		equity[i] = r.CumulativePnL + r.RunningPnL
	}

	valueFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price",
			ValueFormatter: valueFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:           "Equity",
			ValueFormatter: valueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Price",
				XValues: x,
				YValues: price,
			},
			chart.TimeSeries{
				Name:    "Equity",
				XValues: x,
				YValues: equity,
				YAxis:   chart.YAxisSecondary,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}
