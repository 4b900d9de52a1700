package core

import (
	"context"
	"sync"

	"github.com/BrandRap-LLC/scorecards-sub002/core/agg"
	"github.com/BrandRap-LLC/scorecards-sub002/core/algo"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
)

// GridOptions controls how a comparison group becomes a heatmap grid.
type GridOptions struct {
	Axis      schema.GridAxis
	Grain     schema.Grain
	Scope     string
	Metrics   []string
	Colorizer algo.Colorizer
	Workers   int
}

// cellJob addresses one cell of the grid being built.
type cellJob struct {
	row, col int
}

// BuildGrid renders every (row, metric) cell of a comparison group. Each
// metric column is its own comparison set. Cells are computed by a pool of
// opts.Workers goroutines and written in place, so row and column order
// follow the input. It returns ctx.Err() if the context ends first.
func BuildGrid(ctx context.Context, rows []schema.ReportRecord, opts GridOptions) (schema.GridResult, error) {
	grid := schema.GridResult{
		Axis:    opts.Axis,
		Grain:   opts.Grain,
		Scope:   opts.Scope,
		Metrics: opts.Metrics,
		Rows:    make([]schema.GridRow, len(rows)),
	}

	// Comparison sets are shared read-only by all workers
	sets := make([][]*float64, len(opts.Metrics))
	for j, m := range opts.Metrics {
		sets[j] = agg.ComparisonSet(rows, m)
	}

	for i, r := range rows {
		grid.Rows[i] = schema.GridRow{
			Key:   agg.RowKey(r, opts.Axis),
			Cells: make([]schema.GridCell, len(opts.Metrics)),
		}
	}

	total := len(rows) * len(opts.Metrics)
	if total == 0 {
		return grid, ctx.Err()
	}

	workers := max(opts.Workers, 1)
	jobCh := make(chan cellJob, total)
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			for job := range jobCh {
				if ctx.Err() != nil {
					continue // drain
				}
				metricKey := opts.Metrics[job.col]
				value := rows[job.row].Value(metricKey)
				grid.Rows[job.row].Cells[job.col] = schema.GridCell{
					MetricKey: metricKey,
					Value:     value,
					Display:   algo.FormatMetricValue(metricKey, value),
					Color:     opts.Colorizer.Color(value, sets[job.col], metricKey),
				}
			}
		})
	}

	for i := range rows {
		for j := range opts.Metrics {
			jobCh <- cellJob{row: i, col: j}
		}
	}
	close(jobCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return schema.GridResult{}, err
	}
	return grid, nil
}

// CellRecords flattens a grid into run store rows for the given run.
func CellRecords(runID int64, grid schema.GridResult) []schema.HeatmapCellRecord {
	records := make([]schema.HeatmapCellRecord, 0, grid.CellCount())
	for _, row := range grid.Rows {
		for _, cell := range row.Cells {
			records = append(records, schema.HeatmapCellRecord{
				RunID:      runID,
				RowKey:     row.Key,
				MetricKey:  cell.MetricKey,
				Value:      cell.Value,
				Display:    cell.Display,
				Band:       int32(cell.Color.Band),
				Percentile: cell.Color.Percentile,
				Inverted:   cell.Color.Inverted,
				BgToken:    cell.Color.BgToken,
				TextToken:  cell.Color.TextToken,
			})
		}
	}
	return records
}
