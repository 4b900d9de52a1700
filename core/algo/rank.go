package algo

import (
	"slices"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
)

// RankRows orders grid rows best first by one metric column and returns the
// top 'limit' rows. Higher values rank first unless the metric is inverted.
// Rows without a value for the metric sink to the bottom and ties keep their
// original order. A limit of zero or less keeps every row.
func RankRows(rows []schema.GridRow, metricKey string, limit int) []schema.GridRow {
	inverted := IsInvertedMetric(metricKey)
	ranked := slices.Clone(rows)
	slices.SortStableFunc(ranked, func(a, b schema.GridRow) int {
		va, vb := cellValue(a, metricKey), cellValue(b, metricKey)
		switch {
		case va == nil && vb == nil:
			return 0
		case va == nil:
			return 1
		case vb == nil:
			return -1
		case *va == *vb:
			return 0
		case (*va > *vb) != inverted:
			return -1
		default:
			return 1
		}
	})
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// cellValue returns the value of the row's cell for metricKey, nil when the
// row has no such cell or the cell has no data.
func cellValue(row schema.GridRow, metricKey string) *float64 {
	for _, c := range row.Cells {
		if c.MetricKey == metricKey {
			return c.Value
		}
	}
	return nil
}
