package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"agrolens/internal/analysis"
)

// Volatility prints the monthly quartile table for the price series plus the
// most and least volatile months by IQR-over-median score.
func (a *App) Volatility(ctx context.Context, opts VolatilityOptions) error {
	src, err := a.priceSource(opts.PriceCSV)
	if err != nil {
		return err
	}
	series, err := a.loadSeries(ctx, src)
	if err != nil {
		return err
	}

	asset := a.resolveAsset(opts.Asset)
	limit := opts.RankLimit
	if limit <= 0 {
		limit = a.Config.Analysis.RankLimit
	}

	stats := analysis.MonthlyQuartiles(series, asset)
	if len(stats) == 0 {
		fmt.Fprintln(os.Stdout, "no observations to aggregate")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Period\tN\tMin\tQ1\tMedian\tQ3\tMax\tScore")
	for _, st := range stats {
		score := "n/a"
		if v, ok := st.VolatilityScore(); ok {
			score = fmtF(v, 4)
		}
		fmt.Fprintf(writer, "%04d-%02d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			st.Year, int(st.Month), st.Count,
			fmtF(st.Min, 2), fmtF(st.Q1, 2), fmtF(st.Median, 2), fmtF(st.Q3, 2), fmtF(st.Max, 2),
			score)
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	ranking := analysis.RankVolatility(stats, limit)
	fmt.Fprintln(os.Stdout)
	printRanked("Most volatile months:", ranking.Most)
	printRanked("Least volatile months:", ranking.Least)
	return nil
}

func printRanked(title string, stats []analysis.PeriodStats) {
	fmt.Fprintln(os.Stdout, title)
	if len(stats) == 0 {
		fmt.Fprintln(os.Stdout, "  (none with a defined score)")
		return
	}
	for _, st := range stats {
		score, _ := st.VolatilityScore()
		fmt.Fprintf(os.Stdout, "  %04d-%02d score %s\n", st.Year, int(st.Month), fmtF(score, 4))
	}
}
