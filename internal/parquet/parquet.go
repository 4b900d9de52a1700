// Package parquet provides data structures and functions for exporting
// scorecard runs and heatmap grids to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/parquet-go/parquet-go"
)

// RenderRun represents a single grid render with metadata.
// This struct maps to the scorecard_render_runs database table.
type RenderRun struct {
	// RunID is the unique identifier for this render
	RunID int64 `parquet:"run_id,snappy"`

	// RunKey is the UUID assigned when the run began
	RunKey string `parquet:"run_key,snappy"`

	// StartTime is when the render began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the render completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// DurationMs is the duration of the render in milliseconds (nullable)
	DurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalCells is the number of heatmap cells produced
	TotalCells int32 `parquet:"total_cells,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// HeatmapCell is one colored cell of a render.
// This struct maps to the scorecard_heatmap_cells database table.
type HeatmapCell struct {
	RunID      int64    `parquet:"run_id,snappy"`
	RowKey     string   `parquet:"row_key,snappy"`
	MetricKey  string   `parquet:"metric_key,snappy"`
	Value      *float64 `parquet:"value,optional,snappy"` // nil when the cell has no data
	Display    string   `parquet:"display,snappy"`
	Band       int32    `parquet:"band,snappy"`
	Percentile float64  `parquet:"percentile,snappy"`
	Inverted   bool     `parquet:"inverted,snappy"`
	BgToken    string   `parquet:"bg_token,snappy"`
	TextToken  string   `parquet:"text_token,snappy"`
}

// GridCell is a flattened grid cell for the parquet output mode.
type GridCell struct {
	Axis       string   `parquet:"axis,dict,snappy"`
	Grain      string   `parquet:"grain,dict,snappy"`
	Scope      string   `parquet:"scope,dict,snappy"`
	RowKey     string   `parquet:"row_key,snappy"`
	MetricKey  string   `parquet:"metric_key,dict,snappy"`
	Value      *float64 `parquet:"value,optional,snappy"`
	Display    string   `parquet:"display,snappy"`
	Band       int32    `parquet:"band,snappy"`
	Percentile float64  `parquet:"percentile,snappy"`
	Level      string   `parquet:"level,dict,snappy"`
	Inverted   bool     `parquet:"inverted,snappy"`
	BgToken    string   `parquet:"bg_token,dict,snappy"`
	TextToken  string   `parquet:"text_token,dict,snappy"`
}

// writeParquet writes rows of T to a new file at outputPath.
// The schema is derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	return file.Close()
}

// WriteRenderRunsParquet writes a slice of RenderRun structs to a Parquet file.
func WriteRenderRunsParquet(data []RenderRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteHeatmapCellsParquet writes a slice of HeatmapCell structs to a Parquet file.
func WriteHeatmapCellsParquet(data []HeatmapCell, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteGridParquet writes a slice of GridCell structs to a Parquet file.
func WriteGridParquet(data []GridCell, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertRenderRunRecords converts schema.RenderRunRecord to RenderRun for Parquet export.
func ConvertRenderRunRecords(records []schema.RenderRunRecord) []RenderRun {
	result := make([]RenderRun, len(records))
	for i, record := range records {
		result[i] = RenderRun{
			RunID:        record.RunID,
			RunKey:       record.RunKey,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			DurationMs:   record.DurationMs,
			TotalCells:   record.TotalCells,
			ConfigParams: record.ConfigParams,
		}
	}
	return result
}

// ConvertHeatmapCellRecords converts schema.HeatmapCellRecord to HeatmapCell for Parquet export.
func ConvertHeatmapCellRecords(records []schema.HeatmapCellRecord) []HeatmapCell {
	result := make([]HeatmapCell, len(records))
	for i, record := range records {
		result[i] = HeatmapCell{
			RunID:      record.RunID,
			RowKey:     record.RowKey,
			MetricKey:  record.MetricKey,
			Value:      record.Value,
			Display:    record.Display,
			Band:       record.Band,
			Percentile: record.Percentile,
			Inverted:   record.Inverted,
			BgToken:    record.BgToken,
			TextToken:  record.TextToken,
		}
	}
	return result
}

// ConvertGridResult flattens a grid into one GridCell per rendered cell,
// row by row in grid order.
func ConvertGridResult(grid schema.GridResult) []GridCell {
	result := make([]GridCell, 0, grid.CellCount())
	for _, row := range grid.Rows {
		for _, cell := range row.Cells {
			result = append(result, GridCell{
				Axis:       string(grid.Axis),
				Grain:      string(grid.Grain),
				Scope:      grid.Scope,
				RowKey:     row.Key,
				MetricKey:  cell.MetricKey,
				Value:      cell.Value,
				Display:    cell.Display,
				Band:       int32(cell.Color.Band),
				Percentile: cell.Color.Percentile,
				Level:      string(cell.Color.Level),
				Inverted:   cell.Color.Inverted,
				BgToken:    cell.Color.BgToken,
				TextToken:  cell.Color.TextToken,
			})
		}
	}
	return result
}
