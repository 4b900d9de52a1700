// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteGrid prints a heatmap grid using the configured output format.
func (ow *OutWriter) WriteGrid(grid schema.GridResult, cfg *contract.Config, duration time.Duration) error {
	return PrintGridResults(grid, cfg, duration)
}

// WriteLegend prints the heatmap legend using the configured output format.
func (ow *OutWriter) WriteLegend(legend schema.Legend, cfg *contract.Config) error {
	return PrintLegend(legend, cfg)
}

// WriteCatalog prints the metric catalog using the configured output format.
func (ow *OutWriter) WriteCatalog(catalog []schema.MetricInfo, cfg *contract.Config) error {
	return PrintMetricCatalog(catalog, cfg)
}

// WriteCellReport prints a single colored value using the configured output format.
func (ow *OutWriter) WriteCellReport(report schema.CellReport, cfg *contract.Config) error {
	return PrintCellReport(report, cfg)
}
