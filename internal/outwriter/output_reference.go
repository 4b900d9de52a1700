package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/olekukonko/tablewriter"
)

// errGridOnlyParquet is returned when parquet output is asked of anything but a grid.
var errGridOnlyParquet = errors.New("parquet output is only supported for grids")

// structuredWriter bundles the per-format writers of one static document.
type structuredWriter struct {
	data      any
	text      func(io.Writer) error
	csvHeader []string
	csvRows   func(*csv.Writer) error
}

// printStructured dispatches a static document on the configured output format.
func printStructured(cfg *contract.Config, sw structuredWriter) error {
	switch cfg.Output {
	case schema.ParquetOut:
		return errGridOnlyParquet
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, sw.data)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, sw.data)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, sw.csvHeader, sw.csvRows)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, sw.text, "Wrote text")
	}
}

// PrintLegend displays the heatmap legend for normal and inverted metrics.
func PrintLegend(legend schema.Legend, cfg *contract.Config) error {
	return printStructured(cfg, structuredWriter{
		data: legend,
		text: func(w io.Writer) error {
			return writeLegendText(w, legend, cfg.UseColors)
		},
		csvHeader: []string{"scale", "band", "level", "label", "bg_token"},
		csvRows: func(cw *csv.Writer) error {
			return writeCSVLegend(cw, legend)
		},
	})
}

// writeLegendText prints both scales side by side, best first.
func writeLegendText(w io.Writer, legend schema.Legend, useColors bool) error {
	if _, err := fmt.Fprintf(w, "🎨 Heatmap Legend\n================\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Bands split each comparison set into fifths: 5 is the top 20%% of values, 1 the bottom 20%%.\n\n"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Level", "Background", "Normal Band", "Inverted Band"})
	data := make([][]string, 0, len(legend.Normal)+1)
	for i, entry := range legend.Normal {
		label := entry.Label
		if useColors {
			label = contract.ColorizeText(entry.Level, label)
		}
		data = append(data, []string{label, entry.BgToken, entry.Band.String(), legend.Inverted[i].Band.String()})
	}
	noData := legend.NoData.Label
	if useColors {
		noData = contract.ColorizeText(legend.NoData.Level, noData)
	}
	data = append(data, []string{noData, legend.NoData.BgToken, "-", "-"})
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Inverted metrics read the scale upside down: lower is better.\n")
	return err
}

// writeCSVLegend writes one line per legend swatch.
func writeCSVLegend(cw *csv.Writer, legend schema.Legend) error {
	scales := []struct {
		name    string
		entries []schema.LegendEntry
	}{
		{"normal", legend.Normal},
		{"inverted", legend.Inverted},
		{"no_data", []schema.LegendEntry{legend.NoData}},
	}
	for _, scale := range scales {
		for _, e := range scale.entries {
			if err := cw.Write([]string{scale.name, e.Band.String(), string(e.Level), e.Label, e.BgToken}); err != nil {
				return err
			}
		}
	}
	return nil
}

// PrintMetricCatalog displays every known metric key with its display class.
func PrintMetricCatalog(catalog []schema.MetricInfo, cfg *contract.Config) error {
	return printStructured(cfg, structuredWriter{
		data: catalog,
		text: func(w io.Writer) error {
			return writeCatalogTable(w, catalog)
		},
		csvHeader: []string{"key", "class", "inverted", "description"},
		csvRows: func(cw *csv.Writer) error {
			for _, m := range catalog {
				if err := cw.Write([]string{m.Key, string(m.Class), strconv.FormatBool(m.Inverted), m.Description}); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

// writeCatalogTable renders the metric catalog as a table.
func writeCatalogTable(w io.Writer, catalog []schema.MetricInfo) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Class", "Lower Is Better", "Description"})
	data := make([][]string, 0, len(catalog))
	for _, m := range catalog {
		inverted := ""
		if m.Inverted {
			inverted = "yes"
		}
		data = append(data, []string{m.Key, string(m.Class), inverted, contract.TruncateText(m.Description, 60)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d metrics known\n", len(catalog))
	return err
}

// PrintCellReport displays how a single value reads against its comparison set.
func PrintCellReport(report schema.CellReport, cfg *contract.Config) error {
	return printStructured(cfg, structuredWriter{
		data: report,
		text: func(w io.Writer) error {
			return writeCellReportText(w, report, cfg.UseColors)
		},
		csvHeader: []string{"metric", "class", "value", "display", "band", "percentile", "level", "inverted", "bg_token", "text_token"},
		csvRows: func(cw *csv.Writer) error {
			return cw.Write([]string{
				report.MetricKey,
				string(report.Class),
				formatRaw(report.Value),
				report.Display,
				report.Color.Band.String(),
				strconv.FormatFloat(report.Color.Percentile, 'f', 1, 64),
				contract.GetPlainLabel(report.Color.Level),
				strconv.FormatBool(report.Color.Inverted),
				report.Color.BgToken,
				report.Color.TextToken,
			})
		},
	})
}

// writeCellReportText prints a labeled summary of one colored value.
func writeCellReportText(w io.Writer, report schema.CellReport, useColors bool) error {
	level := contract.GetPlainLabel(report.Color.Level)
	if useColors {
		level = contract.GetColorLabel(report.Color.Level)
	}
	labels := []string{"Metric:", "Class:", "Display:", "Band:", "Percentile:", "Level:", "Inverted:", "Tokens:"}
	values := []string{
		report.MetricKey,
		string(report.Class),
		report.Display,
		report.Color.Band.String(),
		strconv.FormatFloat(report.Color.Percentile, 'f', 1, 64),
		level,
		strconv.FormatBool(report.Color.Inverted),
		report.Color.BgToken + " " + report.Color.TextToken,
	}

	maxLabelLen := 0
	for _, label := range labels {
		maxLabelLen = max(maxLabelLen, len(label))
	}
	for i, label := range labels {
		if _, err := fmt.Fprintf(w, "%-*s %s\n", maxLabelLen+1, label, values[i]); err != nil {
			return err
		}
	}
	return nil
}
