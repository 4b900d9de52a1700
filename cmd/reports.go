package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BrandRap-LLC/scorecards-sub002/core/agg"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/iocache"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// reportsSetup loads minimal configuration needed for report table operations.
// This is used by commands that need the report store without full shared setup.
func reportsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := backendFromViper("report-backend")
	connStr := viper.GetString("report-db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid report backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	grain := schema.Grain(strings.ToLower(viper.GetString("grain")))
	if _, ok := schema.ValidGrains[grain]; !ok {
		return fmt.Errorf("invalid grain '%s'. must be monthly, weekly", grain)
	}

	// Initialize the report store only (no run tracking for report commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize reports: %w", err)
	}

	cfg.ReportBackend = backend
	cfg.ReportDBConnect = connStr
	cfg.Grain = grain

	return nil
}

// reportsSetupWrapper wraps reportsSetup to provide PreRunE for reports commands.
func reportsSetupWrapper(_ *cobra.Command, _ []string) error {
	return reportsSetup()
}

// reportsCmd focused on report table management.
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage the executive report tables grids are rendered from",
	Long: `Manage the monthly and weekly executive report tables.

Each row holds one clinic, one period and one traffic source with its
marketing metrics. Grids read these tables; import fills them from CSV.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  import - Load report rows from a CSV export
  status - Show row counts and the latest period per table

Examples:
  # Load a month of rows
  scorecards reports import monthly.csv

  # Load weekly rows into PostgreSQL
  scorecards reports import weekly.csv --grain weekly --report-backend postgresql`,
}

// reportsImportCmd loads report rows from CSV.
var reportsImportCmd = &cobra.Command{
	Use:   "import <csv-file>",
	Short: "Load report rows from a CSV export into the report tables",
	Long: `Read a CSV export with clinic, period and traffic_source columns plus one
column per metric, and upsert the rows into the table of the selected grain.

Rows with the same clinic, period and traffic source replace stored rows.
Columns the report tables do not know are skipped with a warning.

Examples:
  scorecards reports import monthly.csv
  scorecards reports import weekly.csv --grain weekly`,
	Args:    cobra.ExactArgs(1),
	PreRunE: reportsSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := importReports(args[0]); err != nil {
			contract.LogFatal("Failed to import reports", err)
		}
	},
}

// importReports parses a CSV file and writes its rows to the report store.
func importReports(path string) error {
	store := storeManager.GetReportStore()
	if store == nil {
		return errors.New("report store is not initialized")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := agg.ParseReportCSV(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if unknown := iocache.UnknownColumns(records); len(unknown) > 0 {
		contract.LogWarn("Skipping columns with no report table column", fmt.Errorf("%s", strings.Join(unknown, ", ")))
	}

	n, err := store.InsertReports(cfg.Grain, records)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d rows into %s reports.\n", n, cfg.Grain)
	return nil
}

// reportsStatusCmd shows report table status.
var reportsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display report table row counts and connection details",
	Long: `Show the backend, connection state, row count and latest period of the
monthly and weekly report tables.

Examples:
  scorecards reports status`,
	PreRunE: reportsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetReportStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get report status", err)
		}
		iocache.PrintReportStatus(os.Stdout, status)
	},
}
