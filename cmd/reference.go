package cmd

import (
	"github.com/BrandRap-LLC/scorecards-sub002/core/algo"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/outwriter"
	"github.com/spf13/cobra"
)

// legendCmd displays the heatmap legend.
var legendCmd = &cobra.Command{
	Use:   "legend",
	Short: "Display the heatmap color legend for normal and inverted metrics.",
	Long: `Show the five performance levels, their background tokens and which
percentile band maps to each level for normal and lower-is-better metrics.

Examples:
  scorecards legend
  scorecards legend --output csv`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.NewOutWriter().WriteLegend(algo.BuildLegend(), cfg); err != nil {
			contract.LogFatal("Cannot display legend", err)
		}
	},
}

// metricsCmd displays every known metric key.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display every known metric with its display class and direction.",
	Long: `List the metric keys of the report tables, how each one is formatted and
whether lower values are better.

No report data is read - this is purely informational.

Examples:
  scorecards metrics
  scorecards metrics --output json`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.NewOutWriter().WriteCatalog(algo.MetricCatalog(), cfg); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
