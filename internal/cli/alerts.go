package cli

import (
	"github.com/spf13/cobra"

	"agrolens/internal/app"
)

var (
	alertsPrice   string
	alertsClimate string
	alertsAsset   string
	alertsWindow  int
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Evaluate the alert rules once over the freshest data window",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.AlertsOptions{
			PriceCSV:   alertsPrice,
			ClimateCSV: alertsClimate,
			Asset:      alertsAsset,
			WindowDays: alertsWindow,
		}
		return getApp().Alerts(cmd.Context(), opts)
	},
}

func init() {
	alertsCmd.Flags().StringVar(&alertsPrice, "price", "", "Price series CSV (overrides data.price_csv)")
	alertsCmd.Flags().StringVar(&alertsClimate, "climate", "", "Climate series CSV (overrides data.climate_csv)")
	alertsCmd.Flags().StringVar(&alertsAsset, "asset", "", "Asset label (overrides data.asset)")
	alertsCmd.Flags().IntVar(&alertsWindow, "window", 0, "Climate window in days (defaults to watch.window_days)")
}
