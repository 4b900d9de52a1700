// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
)

// StoreManager defines the interface for managing the report and run stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetReportStore() ReportStore
	GetRunStore() RunStore
}

// ReportStore defines the interface for the executive report tables filled
// by the upstream ETL process.
type ReportStore interface {
	// LoadReports returns every row of the report table for a grain
	LoadReports(grain schema.Grain) ([]schema.ReportRecord, error)

	// InsertReports appends rows to the report table for a grain and returns the count written
	InsertReports(grain schema.Grain, records []schema.ReportRecord) (int, error)

	// GetStatus returns status information about the report store
	GetStatus() (schema.ReportStatus, error)

	// Close closes the underlying connection
	Close() error
}

// RunStore defines the interface for tracking grid renders and their cells.
type RunStore interface {
	// BeginRun creates a new render run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the render run with completion data
	EndRun(runID int64, endTime time.Time, totalCells int) error

	// RecordCells stores the rendered cells of a run
	RecordCells(runID int64, cells []schema.HeatmapCellRecord) error

	// GetAllRuns returns every recorded render run
	GetAllRuns() ([]schema.RenderRunRecord, error)

	// GetAllCells returns every recorded heatmap cell
	GetAllCells() ([]schema.HeatmapCellRecord, error)

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// Close closes the underlying connection
	Close() error
}
