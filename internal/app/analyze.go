package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"agrolens/internal/analysis"
	"agrolens/internal/timeseries"
)

// Analyze joins the climate and price series at lag zero and at the
// configured lag, and prints the correlation reading for each view.
func (a *App) Analyze(ctx context.Context, opts AnalyzeOptions) error {
	lag, err := a.resolveLag(opts.LagDays)
	if err != nil {
		return err
	}

	priceSrc, err := a.priceSource(opts.PriceCSV)
	if err != nil {
		return err
	}
	climateSrc, err := a.climateSource(opts.ClimateCSV)
	if err != nil {
		return err
	}

	price, err := a.loadSeries(ctx, priceSrc)
	if err != nil {
		return err
	}
	climate, err := a.loadSeries(ctx, climateSrc)
	if err != nil {
		return err
	}

	a.Logger.Info().Int("price_points", len(price)).Int("climate_points", len(climate)).
		Int("lag_days", lag).Msg("running correlation analysis")

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Lag (days)\tPairs\tCoefficient\tStrength\tDirection")

	views := []int{0}
	if lag != 0 {
		views = append(views, lag)
	}
	for _, lagDays := range views {
		pairs := timeseries.LagJoin(price, climate, lagDays)
		result := analysis.Correlate(pairs)

		coefficient := "insufficient data"
		if result.Coefficient != nil {
			coefficient = fmtF(*result.Coefficient, 4)
		}
		fmt.Fprintf(writer, "%d\t%d\t%s\t%s\t%s\n",
			lagDays, len(pairs), coefficient, result.Strength, result.Direction)
	}

	return writer.Flush()
}
