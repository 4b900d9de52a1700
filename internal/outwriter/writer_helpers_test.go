package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCellReport() schema.CellReport {
	return schema.CellReport{
		MetricKey:  "cac_total",
		Class:      schema.CurrencyClass,
		Value:      schema.Float(50),
		Display:    "$50",
		Comparison: []*float64{schema.Float(50), nil, schema.Float(150)},
		Color: schema.HeatmapColor{
			Band: schema.Band1, Inverted: true, Level: schema.BestLevel,
			BgToken: schema.BestBgToken, TextToken: schema.TextOnLightToken,
		},
	}
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name  string
		data  any
		check func(t *testing.T, raw map[string]any)
	}{
		{
			name: "cell report",
			data: sampleCellReport(),
			check: func(t *testing.T, raw map[string]any) {
				assert.Equal(t, "cac_total", raw["metric_key"])
				assert.Equal(t, "currency", raw["class"])
				assert.Equal(t, "$50", raw["display"])
				assert.Equal(t, []any{50.0, nil, 150.0}, raw["comparison"])
				color, ok := raw["color"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, true, color["inverted"])
				assert.Equal(t, schema.BestBgToken, color["bg_token"])
			},
		},
		{
			name: "missing value",
			data: schema.CellReport{MetricKey: "leads", Display: "-"},
			check: func(t *testing.T, raw map[string]any) {
				assert.Contains(t, raw, "value")
				assert.Nil(t, raw["value"])
				assert.Equal(t, "-", raw["display"])
			},
		},
		{
			name: "grid",
			data: sampleGrid(),
			check: func(t *testing.T, raw map[string]any) {
				assert.Equal(t, "2025-06-01", raw["scope"])
				assert.Equal(t, []any{"leads", "cac_total"}, raw["metrics"])
				rows, ok := raw["rows"].([]any)
				require.True(t, ok)
				assert.Len(t, rows, 2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeJSON(&buf, tt.data))
			assert.True(t, strings.HasPrefix(buf.String(), "{\n  \""), "two-space indent expected")
			assert.True(t, strings.HasSuffix(buf.String(), "}\n"))

			var raw map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
			tt.check(t, raw)
		})
	}
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, map[string]any{"metric_key": "leads", "value": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	report := sampleCellReport()
	report.MetricKey = "spend"
	report.Value = schema.Float(1234.5)
	report.Display = "$1,235"

	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"metric", "value", "display"}, func(w *csv.Writer) error {
		return w.Write([]string{report.MetricKey, formatRaw(report.Value), report.Display})
	})
	require.NoError(t, err)

	// Displays carrying grouping commas are quoted
	assert.Equal(t, "metric,value,display\nspend,1234.5,\"$1,235\"\n", buf.String())

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"metric", "value", "display"}, {"spend", "1234.5", "$1,235"}}, records)
}

func TestWriteCSVWithHeaderError(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, gridCSVHeader, func(*csv.Writer) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, strings.HasPrefix(buf.String(), "rank,key,metric"), "header is flushed before the row error")
}

func TestWriteWithFileStdout(t *testing.T) {
	var got schema.CellReport
	err := writeWithFile("", func(w io.Writer) error {
		assert.Equal(t, os.Stdout, w)
		got = sampleCellReport()
		return nil
	}, "Cell report written")
	require.NoError(t, err)
	assert.Equal(t, "cac_total", got.MetricKey)
}

func TestWriteWithFileGridJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.json")
	err := writeWithFile(path, func(w io.Writer) error {
		return writeJSON(w, sampleGrid())
	}, "Grid written")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var grid schema.GridResult
	require.NoError(t, json.Unmarshal(data, &grid))
	require.Len(t, grid.Rows, 2)
	assert.Equal(t, "alluraderm.com", grid.Rows[0].Key)
	assert.Equal(t, "1,234", grid.Rows[0].Cells[0].Display)
	assert.Nil(t, grid.Rows[1].Cells[1].Value)
}

func TestWriteWithFileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.csv")
	err := writeWithFile(path, func(w io.Writer) error {
		return writeCSVWithHeader(w, gridCSVHeader, func(*csv.Writer) error {
			return assert.AnError
		})
	}, "Grid written")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestWriteWithFileInvalidPath(t *testing.T) {
	called := false
	err := writeWithFile(filepath.Join(t.TempDir(), "missing", "grid.csv"), func(io.Writer) error {
		called = true
		return nil
	}, "Grid written")
	require.Error(t, err)
	assert.False(t, called)
}

func TestWriteGridCSVToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.csv")
	grid := sampleGrid()
	err := writeWithFile(path, func(w io.Writer) error {
		return writeCSVResultsForGrid(w, grid)
	}, "Grid written")
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+grid.CellCount())
	assert.Equal(t, gridCSVHeader, records[0])
	assert.Equal(t, []string{"1", "alluraderm.com", "leads", "1234", "1,234"}, records[1][:5])
	assert.Equal(t, []string{"2", "bismarckbotox.com", "cac_total", "", "-"}, records[4][:5])
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	err := writeYAML(&buf, schema.MetricValue{MetricKey: "spend", Value: schema.Float(12.5)})
	require.NoError(t, err)
	assert.Equal(t, "metric_key: spend\nvalue: 12.5\n", buf.String())

	buf.Reset()
	require.NoError(t, writeYAML(&buf, schema.MetricValue{MetricKey: "leads"}))
	assert.Contains(t, buf.String(), "value: null")
}

func TestFormatRaw(t *testing.T) {
	assert.Equal(t, "", formatRaw(nil))
	assert.Equal(t, "0", formatRaw(schema.Float(0)))
	assert.Equal(t, "1234.56", formatRaw(schema.Float(1234.56)))
	assert.Equal(t, "-2.5", formatRaw(schema.Float(-2.5)))
}
