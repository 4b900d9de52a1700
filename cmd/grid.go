package cmd

import (
	"github.com/BrandRap-LLC/scorecards-sub002/core"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/spf13/cobra"
)

// gridCmd renders a heatmap grid from the report tables.
var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Render a colored heatmap grid of clinics or periods.",
	Long: `Load the executive report rows, format every metric and color each cell
by the percentile band of its value within the column.

Two axes are supported:
- clinic: compare every clinic within one period (latest by default)
- period: compare every period of one clinic

Cost metrics (spend, cost per lead, CAC, discounts) read the scale upside
down, so the cheapest clinic is the greenest.

Examples:
  # Compare clinics in the latest month
  scorecards grid

  # Compare a clinic's weeks, paid traffic only
  scorecards grid --grain weekly --axis period --clinic example.com --traffic-source paid

  # Rank by conversion rate and keep the top ten
  scorecards grid --sort-by total_conversion --limit 10

  # Add week-over-week deltas and export to CSV
  scorecards grid --grain weekly --wow --output csv --output-file grid.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGrid(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot render grid", err)
		}
	},
}
