package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"agrolens/internal/analysis"
	"agrolens/internal/timeseries"
)

// Forecast fits the index-based trend line and extrapolates it over the
// configured horizon with its confidence band. Thin or degenerate input is a
// rendered state, not a failure.
func (a *App) Forecast(ctx context.Context, opts ForecastOptions) error {
	src, err := a.priceSource(opts.PriceCSV)
	if err != nil {
		return err
	}
	series, err := a.loadSeries(ctx, src)
	if err != nil {
		return err
	}

	horizon := opts.Horizon
	if horizon <= 0 {
		horizon = a.Config.Analysis.ForecastHorizon
	}

	model, err := analysis.Fit(series)
	if errors.Is(err, analysis.ErrInsufficientData) || errors.Is(err, analysis.ErrDegenerateSeries) {
		fmt.Fprintln(os.Stdout, "not enough data to fit a trend")
		return nil
	}
	if err != nil {
		return err
	}

	points := analysis.Forecast(model, horizon, a.Config.Analysis.ConfidenceZ)

	a.Logger.Info().Int("observations", model.Observations).Int("horizon", horizon).
		Str("slope", fmtF(model.Slope, 6)).Str("r2", fmtF(model.R2, 4)).
		Msg("trend fitted")

	fmt.Fprintf(os.Stdout, "model: value = %s + %s*index  (r2 %s, std error %s, n %d)\n\n",
		fmtF(model.Intercept, 4), fmtF(model.Slope, 6), fmtF(model.R2, 4), fmtF(model.StdError, 4), model.Observations)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tForecast\tLower\tUpper")
	for _, p := range points {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
			p.Date.Format("2006-01-02"), fmtF(p.Value, 4), fmtF(p.Lower, 4), fmtF(p.Upper, 4))
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	if opts.CSVPath != "" {
		if err := writeForecastCSV(opts.CSVPath, points); err != nil {
			return err
		}
	}
	if opts.PNGPath != "" {
		observed := downsamplePoints(series, a.Config.ResolveMaxPoints(opts.MaxPoints))
		if err := writeForecastPNG(opts.PNGPath, observed, points); err != nil {
			return err
		}
	}
	return nil
}

func writeForecastCSV(path string, points []analysis.ForecastPoint) error {
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

	if err := writer.Write([]string{"date", "index", "forecast", "lower", "upper"}); err != nil {
		return err
	}
	for _, p := range points {
		record := []string{
			p.Date.Format("2006-01-02"),
			fmt.Sprintf("%d", p.Index),
			fmtF(p.Value, 6),
			fmtF(p.Lower, 6),
			fmtF(p.Upper, 6),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func writeForecastPNG(path string, observed timeseries.Series, points []analysis.ForecastPoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var obsX []time.Time
	var obsY []float64
	for _, p := range observed {
		if p.Value == nil {
			continue
		}
		obsX = append(obsX, p.Date)
		obsY = append(obsY, *p.Value)
	}

	fcX := make([]time.Time, len(points))
	fcY := make([]float64, len(points))
	lower := make([]float64, len(points))
	upper := make([]float64, len(points))
	for i, p := range points {
		fcX[i] = p.Date
		fcY[i] = p.Value
		lower[i] = p.Lower
		upper[i] = p.Upper
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
			Name:           "Value",
			ValueFormatter: valueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Observed",
				XValues: obsX,
				YValues: obsY,
			},
			chart.TimeSeries{
				Name:    "Forecast",
				XValues: fcX,
				YValues: fcY,
			},
			chart.TimeSeries{
				Name:    "Lower 95%",
				XValues: fcX,
				YValues: lower,
			},
			chart.TimeSeries{
				Name:    "Upper 95%",
				XValues: fcX,
				YValues: upper,
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

func downsamplePoints(series timeseries.Series, max int) timeseries.Series {
	if max <= 0 || len(series) <= max {
		return series
	}

	result := make(timeseries.Series, 0, max)
	step := float64(len(series)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(series) {
			idx = len(series) - 1
		}
		result = append(result, series[idx])
	}
	return result
}
