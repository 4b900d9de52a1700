package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/iocache"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsBackend reads and validates the run tracking backend settings.
func runsBackend() (schema.DatabaseBackend, string, error) {
	backend := backendFromViper("run-backend")
	connStr := viper.GetString("run-db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// runsSetup loads minimal configuration needed for run tracking operations.
// This is used by commands that need run access without full shared setup.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := runsBackend()
	if err != nil {
		return err
	}

	// Initialize the run store only (no report tables for run commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run tracking: %w", err)
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT initialize stores or create tables, allowing migrations to run
// on a fresh database.
func runsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := runsBackend()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunDBFilePath()
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr

	return nil
}

// runsMigrateSetupWrapper wraps runsMigrateSetup to provide PreRunE for migrate command.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsMigrateSetup()
}

// runsCmd focused on render run tracking.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage render run tracking and exports",
	Long: `Manage the history of rendered grids.

When a run backend is configured, every grid render is stored with:
- Run metadata (timestamp, grid parameters, duration)
- Every cell: value, display text, band, percentile and level

This lets you follow how clinics move between bands over time and export
the history for BI tools.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show run tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  scorecards runs status --run-backend sqlite

  # Export for analysis in pandas/DuckDB
  scorecards runs export --run-backend sqlite --output-file runs.parquet`,
}

// runsClearCmd clears the run tracking data.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all render run tracking data",
	Long: `Delete all stored render runs and heatmap cells.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  scorecards runs export --output-file backup.parquet
  scorecards runs clear`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Close the store first so the SQLite file can be removed
		iocache.CloseStores()
		dbPath := contract.GetRunDBFilePath()
		if cfg.RunBackend == schema.SQLiteBackend && cfg.RunDBConnect != "" {
			dbPath = cfg.RunDBConnect
		}
		if err := iocache.ClearRuns(cfg.RunBackend, dbPath, cfg.RunDBConnect); err != nil {
			contract.LogFatal("Failed to clear run data", err)
		}
		fmt.Println("Run data cleared successfully.")
	},
}

// runsStatusCmd shows run tracking status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about render run tracking.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total cells recorded across all runs
- Database table sizes

Examples:
  scorecards runs status`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := storeManager.GetRunStore()
		if store == nil {
			contract.LogFatal("Failed to get run status", errors.New("run store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		iocache.PrintRunStatus(os.Stdout, status)
	},
}

// runsExportCmd exports run data to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export render history to Parquet for BI tools and analytics",
	Long: `Export all stored render runs and heatmap cells to Parquet format.

Requires: --output-file parameter

Examples:
  scorecards runs export --output-file scorecards-data.parquet

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('scorecards-data.parquet.heatmap_cells.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run data", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  scorecards runs migrate --run-backend sqlite

  # Rollback to initial state
  scorecards runs migrate --run-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunBackend, cfg.RunDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
