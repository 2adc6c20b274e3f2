package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"agrolens/internal/alerting"
)

// Alerts runs one rule evaluation over the freshest window of both series
// and prints the findings, critical first.
func (a *App) Alerts(ctx context.Context, opts AlertsOptions) error {
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

	windowDays := opts.WindowDays
	if windowDays <= 0 {
		windowDays = a.Config.Watch.WindowDays
	}

	input := alerting.BuildInput(climate, windowDays,
		alerting.Tracked{Asset: a.resolveAsset(opts.Asset), Series: price})
	evaluator := alerting.NewEvaluator(a.Config.Alerts, a.Logger)
	alerts := evaluator.Evaluate(input)

	if len(alerts) == 0 {
		fmt.Fprintln(os.Stdout, "no alerts")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Level\tCategory\tDate\tTitle\tDescription")
	for _, alert := range alerts {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			alert.Level, alert.Category, alert.Date.Format("2006-01-02"),
			alert.Title, sanitizeInline(alert.Description))
	}
	return writer.Flush()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
