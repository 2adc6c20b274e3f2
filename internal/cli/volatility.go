package cli

import (
	"github.com/spf13/cobra"

	"agrolens/internal/app"
)

var (
	volatilityPrice string
	volatilityAsset string
	volatilityLimit int
)

var volatilityCmd = &cobra.Command{
	Use:   "volatility",
	Short: "Print monthly quartile statistics and the volatility ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.VolatilityOptions{
			PriceCSV:  volatilityPrice,
			Asset:     volatilityAsset,
			RankLimit: volatilityLimit,
		}
		return getApp().Volatility(cmd.Context(), opts)
	},
}

func init() {
	volatilityCmd.Flags().StringVar(&volatilityPrice, "price", "", "Price series CSV (overrides data.price_csv)")
	volatilityCmd.Flags().StringVar(&volatilityAsset, "asset", "", "Asset label (overrides data.asset)")
	volatilityCmd.Flags().IntVar(&volatilityLimit, "top", 0, "Months per ranking side (defaults to analysis.rank_limit)")
}
