// Package core has core logic for building, ranking and tracking heatmap grids.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BrandRap-LLC/scorecards-sub002/core/agg"
	"github.com/BrandRap-LLC/scorecards-sub002/core/algo"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/outwriter"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/sirupsen/logrus"
)

// ErrNoReports is returned when the report store has nothing to render.
var ErrNoReports = errors.New("no report rows found")

// ExecuteGrid renders the configured grid, records it as a render run when
// run tracking is enabled, and prints it. It serves as the main entry point
// for the 'grid' command.
func ExecuteGrid(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	runID := beginRun(cfg, mgr, start)
	if runID > 0 {
		ctx = withRunID(ctx, runID)
	}

	grid, err := RenderGrid(ctx, cfg, mgr)
	if err != nil {
		abortRun(ctx, mgr)
		return err
	}

	recordRun(ctx, mgr, grid)
	duration := time.Since(start)
	return outwriter.PrintGridResults(grid, cfg, duration)
}

// RenderGrid loads report rows, narrows them to one comparison group and
// builds the colored grid for the configured metrics.
func RenderGrid(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.GridResult, error) {
	if mgr == nil || mgr.GetReportStore() == nil {
		return schema.GridResult{}, errors.New("report store is not initialized")
	}

	records, err := mgr.GetReportStore().LoadReports(cfg.Grain)
	if err != nil {
		return schema.GridResult{}, fmt.Errorf("failed to load %s reports: %w", cfg.Grain, err)
	}
	return GridFromRecords(ctx, cfg, records)
}

// GridFromRecords runs the grid pipeline over rows already in memory:
// filter, aggregate, derive week-over-week deltas, group, build and rank.
func GridFromRecords(ctx context.Context, cfg *contract.Config, records []schema.ReportRecord) (schema.GridResult, error) {
	records = agg.FilterRecords(records, "", cfg.TrafficSource)
	if len(records) == 0 {
		return schema.GridResult{}, ErrNoReports
	}

	records = agg.AggregateRecords(records)
	if cfg.WeekOverWeek {
		records = agg.WeekOverWeek(records)
	}

	scope := cfg.Scope()
	group, ok := agg.FindGroup(agg.GroupRecords(records, cfg.Axis), scope)
	if !ok {
		return schema.GridResult{}, fmt.Errorf("no %s rows found for %q", cfg.Grain, scope)
	}

	contract.LogInfo("Building heatmap grid", logrus.Fields{
		"axis":    cfg.Axis,
		"scope":   group.Scope,
		"rows":    len(group.Rows),
		"metrics": len(cfg.Metrics),
		"workers": cfg.Workers,
	})

	grid, err := BuildGrid(ctx, group.Rows, GridOptions{
		Axis:      cfg.Axis,
		Grain:     cfg.Grain,
		Scope:     group.Scope,
		Metrics:   cfg.Metrics,
		Colorizer: algo.NewColorizer(cfg.AbsentPolicy),
		Workers:   cfg.Workers,
	})
	if err != nil {
		return schema.GridResult{}, err
	}

	// Ranking happens after coloring so percentiles span the whole group
	if cfg.SortBy != "" {
		grid.Rows = algo.RankRows(grid.Rows, cfg.SortBy, cfg.Limit)
	} else if cfg.Limit > 0 && len(grid.Rows) > cfg.Limit {
		grid.Rows = grid.Rows[:cfg.Limit]
	}
	return grid, nil
}

// runParams captures the config of a render run for the run store.
func runParams(cfg *contract.Config) map[string]any {
	return map[string]any{
		"grain":          cfg.Grain,
		"axis":           cfg.Axis,
		"scope":          cfg.Scope(),
		"traffic_source": cfg.TrafficSource,
		"metrics":        cfg.Metrics,
		"absent_policy":  cfg.AbsentPolicy,
		"wow":            cfg.WeekOverWeek,
		"sort_by":        cfg.SortBy,
		"limit":          cfg.Limit,
		"workers":        cfg.Workers,
	}
}

// beginRun opens a render run, returning 0 when tracking is off or fails.
func beginRun(cfg *contract.Config, mgr contract.StoreManager, start time.Time) int64 {
	if mgr == nil || mgr.GetRunStore() == nil {
		return 0
	}
	runID, err := mgr.GetRunStore().BeginRun(start, runParams(cfg))
	if err != nil {
		logTrackingError("BeginRun", err)
		return 0
	}
	return runID
}

// recordRun stores the cells of a finished grid and closes the run.
// Tracking failures never fail the render.
func recordRun(ctx context.Context, mgr contract.StoreManager, grid schema.GridResult) {
	runID, ok := getRunID(ctx)
	if !ok || runID <= 0 {
		return
	}
	store := mgr.GetRunStore()

	if err := store.RecordCells(runID, CellRecords(runID, grid)); err != nil {
		logTrackingError("RecordCells", err)
	}
	if err := store.EndRun(runID, time.Now(), grid.CellCount()); err != nil {
		logTrackingError("EndRun", err)
	}
}

// abortRun closes a run whose render failed, with no cells.
func abortRun(ctx context.Context, mgr contract.StoreManager) {
	runID, ok := getRunID(ctx)
	if !ok || runID <= 0 {
		return
	}
	if err := mgr.GetRunStore().EndRun(runID, time.Now(), 0); err != nil {
		logTrackingError("EndRun", err)
	}
}

// logTrackingError reports a run store failure without aborting the render.
func logTrackingError(op string, err error) {
	contract.LogWarn(fmt.Sprintf("Run tracking failed during %s", op), err)
}
