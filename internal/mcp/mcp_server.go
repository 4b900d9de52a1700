// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Scorecards MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Scorecards Heatmap Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: format_metric ---
	s.AddTool(mcp.NewTool("format_metric",
		mcp.WithDescription("Format a raw metric value for display based on its metric key (currency, percentage, ratio, week-over-week, rank, count)."),
		mcp.WithString("metric_key", mcp.Description("The metric key, e.g. 'spend' or 'total_conversion'."), mcp.Required()),
		mcp.WithNumber("value", mcp.Description("The raw value. Omit or pass null for missing data.")),
	), h.handleFormatMetric)

	// --- 2. Tool: colorize_metric ---
	s.AddTool(mcp.NewTool("colorize_metric",
		mcp.WithDescription("Compute the percentile band and heatmap color tokens of a value within its comparison set."),
		mcp.WithString("metric_key", mcp.Description("The metric key; cost and discount keys are lower-is-better."), mcp.Required()),
		mcp.WithNumber("value", mcp.Description("The value to color. Omit or pass null for missing data.")),
		mcp.WithArray("comparison", mcp.Description("Every value of the same metric across the comparison set. Nulls are ignored."), mcp.Required(),
			mcp.Items(map[string]any{"type": []string{"number", "null"}})),
		mcp.WithString("absent_policy", mcp.Description("How to rank a value missing from the set."), mcp.Enum("median", "interpolate")),
	), h.handleColorizeMetric)

	// --- 3. Tool: describe_metric ---
	s.AddTool(mcp.NewTool("describe_metric",
		mcp.WithDescription("Describe a metric key (class, direction, meaning). Without a key, lists every known metric."),
		mcp.WithString("metric_key", mcp.Description("The metric key to describe.")),
	), h.handleDescribeMetric)

	// --- 4. Tool: get_heatmap_grid ---
	s.AddTool(mcp.NewTool("get_heatmap_grid",
		mcp.WithDescription("Render a colored heatmap grid from the executive report tables."),
		mcp.WithString("grain", mcp.Description("Report grain."), mcp.Enum("monthly", "weekly")),
		mcp.WithString("axis", mcp.Description("Compare clinics within one period, or periods within one clinic."), mcp.Enum("clinic", "period")),
		mcp.WithString("period", mcp.Description("Period to compare clinics in (clinic axis). Defaults to the latest.")),
		mcp.WithString("clinic", mcp.Description("Clinic domain to compare periods of (period axis).")),
		mcp.WithString("traffic_source", mcp.Description("Only use rows of this traffic source.")),
		mcp.WithString("metrics", mcp.Description("Comma separated metric columns.")),
		mcp.WithString("absent_policy", mcp.Description("How to rank a value missing from the set."), mcp.Enum("median", "interpolate")),
		mcp.WithBoolean("wow", mcp.Description("Derive week-over-week delta columns before rendering.")),
		mcp.WithString("sort_by", mcp.Description("Metric column to rank rows by, best first.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of rows returned.")),
	), h.handleGetHeatmapGrid)

	// --- 5. Tool: get_legend ---
	s.AddTool(mcp.NewTool("get_legend",
		mcp.WithDescription("List the heatmap legend swatches for normal and inverted metrics."),
	), h.handleGetLegend)

	return s
}

// StartMCPServer starts the Scorecards MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
