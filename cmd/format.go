package cmd

import (
	"fmt"
	"strings"

	"github.com/BrandRap-LLC/scorecards-sub002/core/algo"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/outwriter"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/spf13/cobra"
)

// formatCmd formats raw values for display.
var formatCmd = &cobra.Command{
	Use:   "format <metric> <value>...",
	Short: "Format raw metric values the way the dashboard displays them.",
	Long: `Format one or more raw values of a metric. The metric key picks the display
class: currency, percentage, ratio, week-over-week delta, rank or count.

Missing values (blank, null, -, N/A) print as a dash.

Examples:
  scorecards format spend 1234.5
  scorecards format total_conversion 0.1234
  scorecards format leads_wow 12.34 -5 null`,
	Args:    cobra.MinimumNArgs(2),
	PreRunE: configSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		metricKey := args[0]
		for _, raw := range args[1:] {
			value, err := schema.ParseNullableFloat(raw)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", raw, err)
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), algo.FormatMetricValue(metricKey, value)); err != nil {
				return err
			}
		}
		return nil
	},
}

// colorizeCmd colors a single value against its comparison set.
var colorizeCmd = &cobra.Command{
	Use:   "colorize <metric> <value>",
	Short: "Show the heatmap band and color tokens of one value.",
	Long: `Rank a value within its comparison set and report the percentile band,
performance level and color tokens the dashboard would use for it.

The comparison set is every value of the same metric across the grid,
comma-separated. Missing entries (null) are ignored.

Examples:
  scorecards colorize cac_total 50 --comparison 50,100,150
  scorecards colorize leads 12 --comparison 4,null,12,30 --output json`,
	Args:    cobra.ExactArgs(2),
	PreRunE: configSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := schema.ParseNullableFloat(args[1])
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", args[1], err)
		}
		rawSet, err := cmd.Flags().GetString("comparison")
		if err != nil {
			return err
		}
		comparison, err := parseComparison(rawSet)
		if err != nil {
			return err
		}

		report := algo.NewColorizer(cfg.AbsentPolicy).Report(args[0], value, comparison)
		if err := outwriter.NewOutWriter().WriteCellReport(report, cfg); err != nil {
			contract.LogFatal("Cannot print cell report", err)
		}
		return nil
	},
}

// parseComparison splits a comma-separated comparison set into nullable values.
func parseComparison(raw string) ([]*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]*float64, 0, len(parts))
	for _, part := range parts {
		v, err := schema.ParseNullableFloat(part)
		if err != nil {
			return nil, fmt.Errorf("invalid comparison value %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}
