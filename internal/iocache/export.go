package iocache

import (
	"errors"
	"fmt"

	"github.com/BrandRap-LLC/scorecards-sub002/internal/parquet"
)

// ExecuteRunExport writes every recorded render run and heatmap cell to
// Parquet files next to outputFile.
func ExecuteRunExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetRunStore()
	if store == nil {
		return errors.New("run store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no render runs found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total render runs: %d\n", status.TotalRuns)
	fmt.Printf("Total cell records: %d\n", status.TableSizes[heatmapCellsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve render runs: %w", err)
	}

	cells, err := store.GetAllCells()
	if err != nil {
		return fmt.Errorf("failed to retrieve heatmap cells: %w", err)
	}

	parquetRuns := parquet.ConvertRenderRunRecords(runs)
	parquetCells := parquet.ConvertHeatmapCellRecords(cells)

	runsFile := outputFile + ".render_runs.parquet"
	if err := parquet.WriteRenderRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write render runs: %w", err)
	}
	fmt.Printf("Exported %d render runs to: %s\n", len(parquetRuns), runsFile)

	cellsFile := outputFile + ".heatmap_cells.parquet"
	if err := parquet.WriteHeatmapCellsParquet(parquetCells, cellsFile); err != nil {
		return fmt.Errorf("failed to write heatmap cells: %w", err)
	}
	fmt.Printf("Exported %d heatmap cells to: %s\n", len(parquetCells), cellsFile)

	return nil
}
