package algo

import (
	"testing"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/stretchr/testify/assert"
)

func gridRow(key string, metricKey string, value *float64) schema.GridRow {
	return schema.GridRow{Key: key, Cells: []schema.GridCell{{MetricKey: metricKey, Value: value}}}
}

func rowKeys(rows []schema.GridRow) []string {
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	return keys
}

func TestRankRows(t *testing.T) {
	leadRows := []schema.GridRow{
		gridRow("a", "leads", schema.Float(100)),
		gridRow("b", "leads", nil),
		gridRow("c", "leads", schema.Float(300)),
		gridRow("d", "leads", schema.Float(100)),
	}
	spendRows := []schema.GridRow{
		gridRow("a", "spend", schema.Float(100)),
		gridRow("b", "spend", nil),
		gridRow("c", "spend", schema.Float(300)),
		gridRow("d", "spend", schema.Float(100)),
	}
	cacRows := []schema.GridRow{
		gridRow("a", "cac_total", schema.Float(150)),
		gridRow("b", "cac_total", schema.Float(50)),
		gridRow("c", "cac_total", nil),
		gridRow("d", "cac_total", schema.Float(100)),
	}

	tests := []struct {
		name      string
		rows      []schema.GridRow
		metricKey string
		limit     int
		expected  []string
	}{
		{"higher is better", leadRows, "leads", 0, []string{"c", "a", "d", "b"}},
		{"spend is lower is better", spendRows, "spend", 0, []string{"a", "d", "c", "b"}},
		{"inverted lower is better", cacRows, "cac_total", 0, []string{"b", "d", "a", "c"}},
		{"limit", leadRows, "leads", 2, []string{"c", "a"}},
		{"limit larger than rows", cacRows, "cac_total", 10, []string{"b", "d", "a", "c"}},
		{"missing metric keeps order", leadRows, "visits", 0, []string{"a", "b", "c", "d"}},
		{"empty", nil, "spend", 3, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rowKeys(RankRows(tt.rows, tt.metricKey, tt.limit)))
		})
	}
}

func TestRankRows_DoesNotMutateInput(t *testing.T) {
	rows := []schema.GridRow{
		gridRow("a", "spend", schema.Float(1)),
		gridRow("b", "spend", schema.Float(2)),
	}
	_ = RankRows(rows, "spend", 0)
	assert.Equal(t, []string{"a", "b"}, rowKeys(rows))
}

func TestRankRows_TiesKeepInputOrder(t *testing.T) {
	rows := []schema.GridRow{
		gridRow("z", "leads", schema.Float(10)),
		gridRow("m", "leads", schema.Float(20)),
		gridRow("a", "leads", schema.Float(10)),
		gridRow("k", "cac_total", schema.Float(10)),
	}

	// Equal values are not reordered by key
	assert.Equal(t, []string{"m", "z", "a", "k"}, rowKeys(RankRows(rows, "leads", 0)))

	reversed := []schema.GridRow{rows[2], rows[1], rows[0]}
	assert.Equal(t, []string{"m", "a", "z"}, rowKeys(RankRows(reversed, "leads", 0)))
}
