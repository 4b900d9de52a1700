package iocache

import (
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
)

// Table names for the executive reports filled by the ETL jobs.
const (
	monthlyReportsTable = "executive_monthly_reports"
	weeklyReportsTable  = "executive_weekly_reports"
)

// ReportStoreImpl implements the ReportStore interface.
type ReportStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ReportStore = &ReportStoreImpl{} // Compile-time check

// NewReportStore creates a new ReportStore with the specified backend.
func NewReportStore(backend schema.DatabaseBackend, connStr string) (contract.ReportStore, error) {
	if backend == schema.NoneBackend {
		return &ReportStoreImpl{db: nil, backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetReportDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createReportTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create report tables: %w", err)
	}

	return &ReportStoreImpl{db: db, backend: backend}, nil
}

// reportTable returns the table name that holds rows of the given grain.
func reportTable(grain schema.Grain) (string, error) {
	switch grain {
	case schema.MonthlyGrain, "":
		return monthlyReportsTable, nil
	case schema.WeeklyGrain:
		return weeklyReportsTable, nil
	default:
		return "", fmt.Errorf("unsupported grain: %s", grain)
	}
}

// createReportTables creates both report tables.
func createReportTables(db *sql.DB, backend schema.DatabaseBackend) error {
	for _, table := range []string{monthlyReportsTable, weeklyReportsTable} {
		if _, err := db.Exec(getCreateReportTableQuery(table, backend)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// getCreateReportTableQuery returns the CREATE TABLE query for a report table.
func getCreateReportTableQuery(table string, backend schema.DatabaseBackend) string {
	var keyType, metricType string
	switch backend {
	case schema.MySQLBackend:
		keyType, metricType = "VARCHAR(255)", "DOUBLE"
	case schema.PostgreSQLBackend:
		keyType, metricType = "TEXT", "DOUBLE PRECISION"
	default: // SQLite
		keyType, metricType = "TEXT", "REAL"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quoteTableName(table, backend))
	fmt.Fprintf(&b, "\tclinic %s NOT NULL,\n", keyType)
	fmt.Fprintf(&b, "\tperiod %s NOT NULL,\n", keyType)
	fmt.Fprintf(&b, "\ttraffic_source %s NOT NULL,\n", keyType)
	for _, col := range schema.ReportMetricColumns {
		fmt.Fprintf(&b, "\t%s %s,\n", quoteColumnName(col, backend), metricType)
	}
	b.WriteString("\tPRIMARY KEY (clinic, period, traffic_source)\n)")
	return b.String()
}

// reportColumns returns the quoted column list shared by reads and writes.
func reportColumns(backend schema.DatabaseBackend) string {
	cols := []string{"clinic", "period", "traffic_source"}
	for _, col := range schema.ReportMetricColumns {
		cols = append(cols, quoteColumnName(col, backend))
	}
	return strings.Join(cols, ", ")
}

// getReportUpsertQuery returns the UPSERT query for a report table.
func getReportUpsertQuery(table string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(table, backend)
	n := 3 + len(schema.ReportMetricColumns)
	cols := reportColumns(backend)
	values := placeholders(backend, n)

	switch backend {
	case schema.MySQLBackend:
		updates := make([]string, len(schema.ReportMetricColumns))
		for i, col := range schema.ReportMetricColumns {
			q := quoteColumnName(col, backend)
			updates[i] = fmt.Sprintf("%s = new.%s", q, q)
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) AS new ON DUPLICATE KEY UPDATE %s",
			quoted, cols, values, strings.Join(updates, ", "))

	case schema.PostgreSQLBackend:
		updates := make([]string, len(schema.ReportMetricColumns))
		for i, col := range schema.ReportMetricColumns {
			q := quoteColumnName(col, backend)
			updates[i] = fmt.Sprintf("%s = EXCLUDED.%s", q, q)
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (clinic, period, traffic_source) DO UPDATE SET %s",
			quoted, cols, values, strings.Join(updates, ", "))

	default: // SQLite
		return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)", quoted, cols, values)
	}
}

// LoadReports returns every row of the report table for a grain, ordered by
// clinic, period and traffic source.
func (rs *ReportStoreImpl) LoadReports(grain schema.Grain) ([]schema.ReportRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	table, err := reportTable(grain)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY clinic, period, traffic_source",
		reportColumns(rs.backend), quoteTableName(table, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRecord
	metrics := make([]sql.NullFloat64, len(schema.ReportMetricColumns))
	for rows.Next() {
		var record schema.ReportRecord
		dest := []any{&record.Clinic, &record.Period, &record.TrafficSource}
		for i := range metrics {
			dest = append(dest, &metrics[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}

		record.Values = make(map[string]*float64, len(metrics))
		for i, col := range schema.ReportMetricColumns {
			if metrics[i].Valid {
				record.Values[col] = schema.Float(metrics[i].Float64)
			}
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return results, nil
}

// InsertReports writes rows in a single transaction. Rows with the same
// clinic, period and traffic source replace the stored row. Metric keys that
// have no column are ignored; see UnknownColumns.
func (rs *ReportStoreImpl) InsertReports(grain schema.Grain, records []schema.ReportRecord) (int, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil || len(records) == 0 {
		return 0, nil
	}

	table, err := reportTable(grain)
	if err != nil {
		return 0, err
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(getReportUpsertQuery(table, rs.backend))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert for %s: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, record := range records {
		args := []any{record.Clinic, record.Period, record.TrafficSource}
		for _, col := range schema.ReportMetricColumns {
			if v := record.Value(col); v != nil {
				args = append(args, *v)
			} else {
				args = append(args, nil)
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return 0, fmt.Errorf("failed to insert report row %s/%s: %w", record.Clinic, record.Period, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit report rows: %w", err)
	}
	return len(records), nil
}

// GetStatus returns row counts and the latest period per report table.
func (rs *ReportStoreImpl) GetStatus() (schema.ReportStatus, error) {
	status := schema.ReportStatus{
		Backend:      string(rs.backend),
		Connected:    rs.db != nil,
		TableRows:    make(map[string]int64),
		LatestPeriod: make(map[string]string),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	for _, table := range []string{monthlyReportsTable, weeklyReportsTable} {
		quoted := quoteTableName(table, rs.backend)

		var count int64
		if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableRows[table] = count

		var latest sql.NullString
		if err := rs.db.QueryRow(fmt.Sprintf("SELECT MAX(period) FROM %s", quoted)).Scan(&latest); err != nil {
			return status, fmt.Errorf("failed to get latest period for table %s: %w", table, err)
		}
		if latest.Valid {
			status.LatestPeriod[table] = latest.String
		}
	}

	return status, nil
}

// Close closes the underlying connection.
func (rs *ReportStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// UnknownColumns returns the sorted metric keys in records that the report
// tables have no column for.
func UnknownColumns(records []schema.ReportRecord) []string {
	seen := make(map[string]struct{})
	for _, record := range records {
		for key := range record.Values {
			if !slices.Contains(schema.ReportMetricColumns, key) {
				seen[key] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}
