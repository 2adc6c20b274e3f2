package cli

import (
	"github.com/spf13/cobra"

	"agrolens/internal/app"
)

var (
	forecastPrice     string
	forecastHorizon   int
	forecastCSVPath   string
	forecastPNGPath   string
	forecastMaxPoints int
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Fit a trend line and extrapolate it with confidence bounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ForecastOptions{
			PriceCSV:  forecastPrice,
			Horizon:   forecastHorizon,
			CSVPath:   forecastCSVPath,
			PNGPath:   forecastPNGPath,
			MaxPoints: forecastMaxPoints,
		}
		return getApp().Forecast(cmd.Context(), opts)
	},
}

func init() {
	forecastCmd.Flags().StringVar(&forecastPrice, "price", "", "Price series CSV (overrides data.price_csv)")
	forecastCmd.Flags().IntVar(&forecastHorizon, "horizon", 0, "Forecast steps (defaults to analysis.forecast_horizon)")
	forecastCmd.Flags().StringVar(&forecastCSVPath, "csv", "", "Write the forecast to a CSV file")
	forecastCmd.Flags().StringVar(&forecastPNGPath, "png", "", "Render observed data and forecast to a PNG file")
	forecastCmd.Flags().IntVar(&forecastMaxPoints, "max-points", 0, "Max observed points in the chart (defaults to export.max_data_points)")
}
