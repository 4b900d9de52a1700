package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/google/uuid"
)

// Table names for render run tracking.
const (
	renderRunsTable   = "scorecard_render_runs"
	heatmapCellsTable = "scorecard_heatmap_cells"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{db: nil, backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetRunDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{renderRunsTable, getCreateRenderRunsQuery(backend)},
		{heatmapCellsTable, getCreateHeatmapCellsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRenderRunsQuery returns the CREATE TABLE query for scorecard_render_runs.
func getCreateRenderRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(renderRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_key CHAR(36) NOT NULL UNIQUE,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_cells INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_key TEXT NOT NULL UNIQUE,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_cells INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_key TEXT NOT NULL UNIQUE,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_cells INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateHeatmapCellsQuery returns the CREATE TABLE query for scorecard_heatmap_cells.
func getCreateHeatmapCellsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(heatmapCellsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				row_key VARCHAR(255) NOT NULL,
				metric_key VARCHAR(100) NOT NULL,
				value DOUBLE,
				display VARCHAR(64) NOT NULL,
				band INT NOT NULL,
				percentile DOUBLE NOT NULL,
				inverted TINYINT(1) NOT NULL,
				bg_token VARCHAR(32) NOT NULL,
				text_token VARCHAR(32) NOT NULL,
				PRIMARY KEY (run_id, row_key, metric_key)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				row_key TEXT NOT NULL,
				metric_key TEXT NOT NULL,
				value DOUBLE PRECISION,
				display TEXT NOT NULL,
				band INT NOT NULL,
				percentile DOUBLE PRECISION NOT NULL,
				inverted BOOLEAN NOT NULL,
				bg_token TEXT NOT NULL,
				text_token TEXT NOT NULL,
				PRIMARY KEY (run_id, row_key, metric_key)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				row_key TEXT NOT NULL,
				metric_key TEXT NOT NULL,
				value REAL,
				display TEXT NOT NULL,
				band INTEGER NOT NULL,
				percentile REAL NOT NULL,
				inverted INTEGER NOT NULL,
				bg_token TEXT NOT NULL,
				text_token TEXT NOT NULL,
				PRIMARY KEY (run_id, row_key, metric_key)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new render run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(renderRunsTable, rs.backend)
	runKey := uuid.NewString()

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_key, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, runKey, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_key, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, runKey, formatTime(startTime, rs.backend), string(configJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert render run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert render run: %w", err)
	}

	return runID, nil
}

// EndRun updates the render run with its end time, duration and cell count.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalCells int) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(renderRunsTable, rs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholders(rs.backend, 1))

	startTime, err := rs.scanTime(rs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var updateQuery string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_cells = $3 WHERE run_id = $4`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_cells = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := rs.db.Exec(updateQuery, formatTime(endTime, rs.backend), durationMs, totalCells, runID); err != nil {
		return fmt.Errorf("failed to update render run: %w", err)
	}

	return nil
}

// RecordCells stores the rendered cells of a run in one transaction.
func (rs *RunStoreImpl) RecordCells(runID int64, cells []schema.HeatmapCellRecord) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil || len(cells) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, row_key, metric_key, value, display, band,
		                percentile, inverted, bg_token, text_token)
		VALUES (%s)
	`, quoteTableName(heatmapCellsTable, rs.backend), placeholders(rs.backend, 10))

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare cell insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, cell := range cells {
		if _, err := stmt.Exec(
			runID, cell.RowKey, cell.MetricKey, cell.Value, cell.Display, cell.Band,
			cell.Percentile, cell.Inverted, cell.BgToken, cell.TextToken,
		); err != nil {
			return fmt.Errorf("failed to insert cell %s/%s: %w", cell.RowKey, cell.MetricKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cells: %w", err)
	}
	return nil
}

// GetAllRuns returns every recorded render run ordered by ID.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RenderRunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(renderRunsTable, rs.backend)
	query := fmt.Sprintf("SELECT run_id, run_key, start_time, end_time, run_duration_ms, COALESCE(total_cells, 0), config_params FROM %s ORDER BY run_id", quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query render runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RenderRunRecord

	for rows.Next() {
		var record schema.RenderRunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.RunKey, &startTimeStr, &endTimeStr, &record.DurationMs, &record.TotalCells, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan render run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.RunKey, &record.StartTime, &record.EndTime, &record.DurationMs, &record.TotalCells, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan render run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating render runs: %w", err)
	}

	return results, nil
}

// GetAllCells returns every recorded heatmap cell ordered by run, row and metric.
func (rs *RunStoreImpl) GetAllCells() ([]schema.HeatmapCellRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, row_key, metric_key, value, display, band, percentile, inverted, bg_token, text_token
		FROM %s ORDER BY run_id, row_key, metric_key`, quoteTableName(heatmapCellsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query heatmap cells: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HeatmapCellRecord
	for rows.Next() {
		var record schema.HeatmapCellRecord
		var value sql.NullFloat64
		if err := rows.Scan(&record.RunID, &record.RowKey, &record.MetricKey, &value, &record.Display, &record.Band,
			&record.Percentile, &record.Inverted, &record.BgToken, &record.TextToken); err != nil {
			return nil, fmt.Errorf("failed to scan heatmap cell: %w", err)
		}
		if value.Valid {
			record.Value = schema.Float(value.Float64)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating heatmap cells: %w", err)
	}

	return results, nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(renderRunsTable, rs.backend)

	row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		if err := rs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		lastTimeQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		lastRunTime, err := rs.scanTime(rs.db.QueryRow(lastTimeQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		oldestRunTime, err := rs.scanTime(rs.db.QueryRow(oldestRunQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		cellsQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_cells), 0) FROM %s", quotedRuns)
		if err := rs.db.QueryRow(cellsQuery).Scan(&status.TotalCells); err != nil {
			return status, fmt.Errorf("failed to get total cells: %w", err)
		}
	}

	for _, table := range []string{renderRunsTable, heatmapCellsTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		var count int64
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// scanTime reads a single timestamp column. SQLite stores RFC3339 text while
// MySQL and PostgreSQL store native datetimes.
func (rs *RunStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if rs.backend != schema.SQLiteBackend {
		var t time.Time
		err := row.Scan(&t)
		return t, err
	}
	var s string
	if err := row.Scan(&s); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, s)
}
