package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/BrandRap-LLC/scorecards-sub002/core/algo"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clinicRows() []schema.ReportRecord {
	return []schema.ReportRecord{
		{Clinic: "advancedlifeclinic.com", Period: "2025-06-01", Values: map[string]*float64{
			"spend": schema.Float(100), "cac_total": schema.Float(150), "leads": nil,
		}},
		{Clinic: "alluraderm.com", Period: "2025-06-01", Values: map[string]*float64{
			"spend": schema.Float(300), "cac_total": schema.Float(50), "leads": schema.Float(10),
		}},
		{Clinic: "bismarckbotox.com", Period: "2025-06-01", Values: map[string]*float64{
			"spend": schema.Float(200), "cac_total": schema.Float(100), "leads": schema.Float(10),
		}},
	}
}

func gridOptions(workers int) GridOptions {
	return GridOptions{
		Axis:      schema.ClinicAxis,
		Grain:     schema.MonthlyGrain,
		Scope:     "2025-06-01",
		Metrics:   []string{"spend", "cac_total", "leads"},
		Colorizer: algo.NewColorizer(schema.MedianPolicy),
		Workers:   workers,
	}
}

func TestBuildGrid(t *testing.T) {
	grid, err := BuildGrid(context.Background(), clinicRows(), gridOptions(4))
	require.NoError(t, err)

	assert.Equal(t, schema.ClinicAxis, grid.Axis)
	assert.Equal(t, "2025-06-01", grid.Scope)
	require.Len(t, grid.Rows, 3)
	assert.Equal(t, 9, grid.CellCount())

	// Row and column order follow the input
	assert.Equal(t, "advancedlifeclinic.com", grid.Rows[0].Key)
	assert.Equal(t, "bismarckbotox.com", grid.Rows[2].Key)
	for _, row := range grid.Rows {
		require.Len(t, row.Cells, 3)
		assert.Equal(t, "spend", row.Cells[0].MetricKey)
		assert.Equal(t, "leads", row.Cells[2].MetricKey)
	}

	t.Run("columns rank independently", func(t *testing.T) {
		spend := grid.Rows[1].Cells[0]
		assert.Equal(t, "$300", spend.Display)
		assert.Equal(t, schema.Band5, spend.Color.Band)
		assert.True(t, spend.Color.Inverted, "Spend is a cost")
		assert.Equal(t, schema.WorstLevel, spend.Color.Level)

		cac := grid.Rows[1].Cells[1]
		assert.Equal(t, schema.Band1, cac.Color.Band)
		assert.True(t, cac.Color.Inverted)
		assert.Equal(t, schema.BestLevel, cac.Color.Level, "Lowest cost is best")

		worstCac := grid.Rows[0].Cells[1]
		assert.Equal(t, schema.WorstLevel, worstCac.Color.Level)
	})

	t.Run("missing values", func(t *testing.T) {
		leads := grid.Rows[0].Cells[2]
		assert.Nil(t, leads.Value)
		assert.Equal(t, "-", leads.Display)
		assert.Equal(t, schema.NullBand, leads.Color.Band)
	})

	t.Run("zero variance is neutral", func(t *testing.T) {
		leads := grid.Rows[1].Cells[2]
		assert.Equal(t, schema.NeutralBand, leads.Color.Band)
		assert.Equal(t, schema.NeutralLevel, leads.Color.Level)
	})
}

func TestBuildGrid_WorkerCountDoesNotChangeResult(t *testing.T) {
	var rows []schema.ReportRecord
	for i := range 40 {
		rows = append(rows, schema.ReportRecord{
			Clinic: fmt.Sprintf("clinic-%02d.com", i),
			Period: "2025-W23",
			Values: map[string]*float64{"spend": schema.Float(float64(i * 7 % 13)), "cac_total": schema.Float(float64(i)), "leads": schema.Float(float64(40 - i))},
		})
	}

	serial, err := BuildGrid(context.Background(), rows, gridOptions(1))
	require.NoError(t, err)
	parallel, err := BuildGrid(context.Background(), rows, gridOptions(16))
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
}

func TestBuildGrid_Empty(t *testing.T) {
	grid, err := BuildGrid(context.Background(), nil, gridOptions(2))
	require.NoError(t, err)
	assert.Empty(t, grid.Rows)
	assert.Equal(t, 0, grid.CellCount())

	opts := gridOptions(2)
	opts.Metrics = nil
	grid, err = BuildGrid(context.Background(), clinicRows(), opts)
	require.NoError(t, err)
	require.Len(t, grid.Rows, 3)
	assert.Empty(t, grid.Rows[0].Cells)
}

func TestBuildGrid_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildGrid(ctx, clinicRows(), gridOptions(2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCellRecords(t *testing.T) {
	grid, err := BuildGrid(context.Background(), clinicRows(), gridOptions(2))
	require.NoError(t, err)

	records := CellRecords(7, grid)
	require.Len(t, records, 9)
	first := records[0]
	assert.Equal(t, int64(7), first.RunID)
	assert.Equal(t, "advancedlifeclinic.com", first.RowKey)
	assert.Equal(t, "spend", first.MetricKey)
	assert.Equal(t, "$100", first.Display)
	assert.Equal(t, int32(schema.Band1), first.Band)

	missing := records[2]
	assert.Equal(t, "leads", missing.MetricKey)
	assert.Nil(t, missing.Value)
	assert.Equal(t, int32(-1), missing.Band)
	assert.Equal(t, schema.MutedTextToken, missing.TextToken)
}
