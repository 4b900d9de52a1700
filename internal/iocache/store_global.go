package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with separate report and run stores.
// An empty backend leaves the corresponding store unset.
func InitStores(reportBackend schema.DatabaseBackend, reportConnStr string, runBackend schema.DatabaseBackend, runConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var reportStore contract.ReportStore
		if reportBackend != "" {
			reportStore, err = NewReportStore(reportBackend, reportConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize report store: %w", err)
				return
			}
		}

		var runStore contract.RunStore
		if runBackend != "" {
			runStore, err = NewRunStore(runBackend, runConnStr)
			if err != nil {
				if reportStore != nil {
					_ = reportStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize run store: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.reports = reportStore
		Manager.runs = runStore
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.reports != nil {
			_ = Manager.reports.Close()
		}
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearRuns removes all render run data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the run tables.
// For NoneBackend, it does nothing.
func ClearRuns(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range []string{heatmapCellsTable, renderRunsTable} {
			if err := clearSQLTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported run backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	driverName, err := driverFor(backend)
	if err != nil {
		return err
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
