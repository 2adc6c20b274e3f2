package cli

import (
	"github.com/spf13/cobra"

	"agrolens/internal/app"
)

var (
	analyzePrice   string
	analyzeClimate string
	analyzeLag     int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Correlate the climate series against prices at lag zero and the configured lag",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.AnalyzeOptions{
			PriceCSV:   analyzePrice,
			ClimateCSV: analyzeClimate,
			LagDays:    analyzeLag,
		}
		return getApp().Analyze(cmd.Context(), opts)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzePrice, "price", "", "Price series CSV (overrides data.price_csv)")
	analyzeCmd.Flags().StringVar(&analyzeClimate, "climate", "", "Climate series CSV (overrides data.climate_csv)")
	analyzeCmd.Flags().IntVar(&analyzeLag, "lag", -1, "Lag in days (defaults to analysis.lag_days)")
}
