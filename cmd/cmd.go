// Package cmd defines the command-line interface for scorecards.
package cmd

import (
	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(colorizeCmd)
	rootCmd.AddCommand(legendCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the reports subcommands to the parent reports command
	reportsCmd.AddCommand(reportsImportCmd)
	reportsCmd.AddCommand(reportsStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored cells in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("grain", string(contract.DefaultGrain), "Report grain: monthly or weekly")
	rootCmd.PersistentFlags().String("absent-policy", string(contract.DefaultAbsentPolicy), "Percentile of a value missing from its comparison set: median or interpolate")
	rootCmd.PersistentFlags().String("report-backend", string(schema.SQLiteBackend), "Report backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("report-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("run-backend", "", "Render run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Database connection string for run tracking (must differ from report-db-connect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of gridCmd to Viper
	gridCmd.Flags().String("axis", string(contract.DefaultAxis), "Grid axis: clinic (clinics within a period) or period (periods within a clinic)")
	gridCmd.Flags().String("period", "", "Period to compare clinics in (defaults to the latest)")
	gridCmd.Flags().String("clinic", "", "Clinic domain to compare periods of (required for --axis period)")
	gridCmd.Flags().String("traffic-source", "", "Only use rows of this traffic source")
	gridCmd.Flags().String("metrics", "", "Comma-separated metric columns")
	gridCmd.Flags().Bool("wow", false, "Derive week-over-week delta columns")
	gridCmd.Flags().String("sort-by", "", "Metric column to rank rows by, best first")
	gridCmd.Flags().IntP("limit", "l", 0, "Number of rows to display (0 = all)")
	if err := viper.BindPFlags(gridCmd.Flags()); err != nil {
		contract.LogFatal("Error binding grid flags", err)
	}

	// Local flags stay off Viper
	colorizeCmd.Flags().String("comparison", "", "Comma-separated comparison set, with null for missing entries")

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
