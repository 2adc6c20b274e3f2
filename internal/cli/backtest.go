package cli

import (
	"github.com/spf13/cobra"

	"agrolens/internal/app"
)

var (
	backtestPrice    string
	backtestClimate  string
	backtestStrategy string
	backtestLag      int
	backtestCSVPath  string
	backtestPNGPath  string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Simulate a trading strategy over the historical series",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.BacktestOptions{
			PriceCSV:   backtestPrice,
			ClimateCSV: backtestClimate,
			Strategy:   backtestStrategy,
			LagDays:    backtestLag,
			CSVPath:    backtestCSVPath,
			PNGPath:    backtestPNGPath,
		}
		return getApp().Backtest(cmd.Context(), opts)
	},
}

func init() {
	backtestCmd.Flags().StringVar(&backtestPrice, "price", "", "Price series CSV (overrides data.price_csv)")
	backtestCmd.Flags().StringVar(&backtestClimate, "climate", "", "Climate series CSV (overrides data.climate_csv)")
	backtestCmd.Flags().StringVar(&backtestStrategy, "strategy", "", "Strategy name (defaults to backtest.strategy)")
	backtestCmd.Flags().IntVar(&backtestLag, "lag", -1, "Lag in days for climate-driven strategies (defaults to analysis.lag_days)")
	backtestCmd.Flags().StringVar(&backtestCSVPath, "csv", "", "Write per-bar records to a CSV file")
	backtestCmd.Flags().StringVar(&backtestPNGPath, "png", "", "Render price and equity curve to a PNG file")
}
