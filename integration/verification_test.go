//go:build integration

// Package integration contains integration tests for scorecards.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BrandRap-LLC/scorecards-sub002/core/algo"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqliteEnv points both stores at fresh SQLite files in a test directory.
func sqliteEnv(t *testing.T) []string {
	dir := t.TempDir()
	return []string{
		"SCORECARDS_REPORT_BACKEND=sqlite",
		"SCORECARDS_REPORT_DB_CONNECT=" + filepath.Join(dir, "reports.db"),
		"SCORECARDS_RUN_BACKEND=sqlite",
		"SCORECARDS_RUN_DB_CONNECT=" + filepath.Join(dir, "runs.db"),
	}
}

// TestGridVerification imports the report fixture, renders the latest month
// and checks every cell against the formatter and the band invariants.
func TestGridVerification(t *testing.T) {
	env := sqliteEnv(t)

	_, err := runScorecards(t, env, "reports", "import", reportFixture)
	require.NoError(t, err)

	out, err := runScorecards(t, env, "grid", "--output", "json", "--metrics", "spend,leads,cac_total,impressions")
	require.NoError(t, err)

	var grid schema.GridResult
	require.NoError(t, json.Unmarshal(out, &grid))

	assert.Equal(t, schema.ClinicAxis, grid.Axis)
	assert.Equal(t, schema.MonthlyGrain, grid.Grain)
	assert.True(t, strings.HasPrefix(grid.Scope, "2025-07"), "latest period expected, got %q", grid.Scope)
	require.Len(t, grid.Rows, 3)

	for _, row := range grid.Rows {
		require.Len(t, row.Cells, len(grid.Metrics))
		for _, cell := range row.Cells {
			t.Run(row.Key+"/"+cell.MetricKey, func(t *testing.T) {
				assert.Equal(t, algo.FormatMetricValue(cell.MetricKey, cell.Value), cell.Display)
				assert.Equal(t, algo.IsInvertedMetric(cell.MetricKey), cell.Color.Inverted)
				if cell.Value == nil {
					assert.Equal(t, schema.NoDataLevel, cell.Color.Level)
					return
				}
				if cell.Color.Band == schema.NeutralBand {
					assert.Equal(t, schema.NeutralLevel, cell.Color.Level)
					return
				}
				assert.True(t, cell.Color.Band.IsScored())
				assert.Equal(t, algo.LevelForBand(cell.Color.Band, cell.Color.Inverted), cell.Color.Level)
			})
		}
	}
}

// TestRunTrackingVerification checks that a tracked render is visible to
// the runs commands.
func TestRunTrackingVerification(t *testing.T) {
	env := sqliteEnv(t)

	_, err := runScorecards(t, env, "reports", "import", reportFixture)
	require.NoError(t, err)
	_, err = runScorecards(t, env, "grid", "--color", "no")
	require.NoError(t, err)

	out, err := runScorecards(t, env, "runs", "status")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Total Runs: 1")

	out, err = runScorecards(t, env, "reports", "status")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Connected: true")
}
