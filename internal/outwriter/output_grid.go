package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/parquet"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// gridCSVHeader is the long-format CSV layout: one line per cell.
var gridCSVHeader = []string{
	"rank",
	"key",
	"metric",
	"value",
	"display",
	"band",
	"percentile",
	"level",
	"inverted",
	"bg_token",
	"text_token",
}

// PrintGridResults outputs a heatmap grid, dispatching based on the output format configured.
func PrintGridResults(grid schema.GridResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.ParquetOut:
		if err := parquet.WriteGridParquet(parquet.ConvertGridResult(grid), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
		return nil
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteGridResults(w, grid, cfg, duration)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteGridResults(w, grid, cfg, duration)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteGridResults(w, grid, cfg, duration)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteGridResults(w, grid, cfg, duration)
		}, "Wrote table")
	}
}

// WriteGridResults writes a heatmap grid to w in any of the stream formats.
func WriteGridResults(w io.Writer, grid schema.GridResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, grid); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeYAML(w, grid); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForGrid(w, grid); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeGridTable(w, grid, cfg, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// axisTitle names the row key column of the table.
func axisTitle(axis schema.GridAxis) string {
	return cases.Title(language.English).String(string(axis))
}

// renderCell returns the table text for one cell, colored by level when enabled.
func renderCell(cell schema.GridCell, useColors bool) string {
	if useColors {
		return contract.ColorizeText(cell.Color.Level, cell.Display)
	}
	return cell.Display
}

// writeGridTable generates and writes the human-readable heatmap table.
func writeGridTable(w io.Writer, grid schema.GridResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := append([]string{"Rank", axisTitle(grid.Axis)}, grid.Metrics...)
	table.Header(headers)

	// 2. Numbers read best right-aligned
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	keyWidth := GetMaxTableKeyWidth(cfg)
	data := make([][]string, 0, len(grid.Rows))
	for i, row := range grid.Rows {
		line := []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(row.Key, keyWidth),
		}
		for _, cell := range row.Cells {
			line = append(line, renderCell(cell, cfg.UseColors))
		}
		data = append(data, line)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	scope := grid.Scope
	if scope == "" {
		scope = "-"
	}
	noun := "clinics"
	if grid.Axis == schema.PeriodAxis {
		noun = "periods"
	}
	if _, err := fmt.Fprintf(w, "Showing %d %s for %s (%s, %d metrics, %d cells)\n", len(grid.Rows), noun, scope, grid.Grain, len(grid.Metrics), grid.CellCount()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Grid rendered in %v with %d workers. Report backend: %s\n", duration, cfg.Workers, cfg.ReportBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForGrid writes one CSV line per cell, rows in rank order.
func writeCSVResultsForGrid(w io.Writer, grid schema.GridResult) error {
	return writeCSVWithHeader(w, gridCSVHeader, func(cw *csv.Writer) error {
		for i, row := range grid.Rows {
			for _, cell := range row.Cells {
				rec := []string{
					strconv.Itoa(i + 1),
					row.Key,
					cell.MetricKey,
					formatRaw(cell.Value),
					cell.Display,
					cell.Color.Band.String(),
					strconv.FormatFloat(cell.Color.Percentile, 'f', 1, 64),
					contract.GetPlainLabel(cell.Color.Level),
					strconv.FormatBool(cell.Color.Inverted),
					cell.Color.BgToken,
					cell.Color.TextToken,
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
