package algo

import (
	"math"
	"testing"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/stretchr/testify/assert"
)

// TestFormatMetricValue covers every display class.
func TestFormatMetricValue(t *testing.T) {
	// Summed at run time so the float64 rounding error survives
	tenth, fifth := 0.1, 0.2

	tests := []struct {
		name      string
		metricKey string
		value     *float64
		expected  string
	}{
		{"currency rounds with separators", "spend", schema.Float(1234.56), "$1,235"},
		{"currency zero", "spend", schema.Float(0), "$0"},
		{"currency negative zero", "cac_total", schema.Float(math.Copysign(0, -1)), "$0"},
		{"currency half rounds up", "ltv", schema.Float(999.5), "$1,000"},
		{"currency negative half rounds toward positive", "cac_new", schema.Float(-1234.5), "$-1,234"},
		{"currency millions", "total_estimated_revenue", schema.Float(2500000), "$2,500,000"},
		{"percentage decimal", "total_conversion", schema.Float(0.853), "85.3%"},
		{"percentage whole", "new_conversion", schema.Float(0.12), "12.0%"},
		{"percentage with symbol key", "%new_conversion", schema.Float(0.5), "50.0%"},
		{"percentage above one", "conversion_rate", schema.Float(1.5), "150.0%"},
		{"ratio two decimals", "total_roas", schema.Float(2.4567), "2.46"},
		{"ratio pads", "roas", schema.Float(3), "3.00"},
		{"ratio binary tie stays down", "new_roas", schema.Float(1.005), "1.00"},
		{"wow positive", "spend_wow", schema.Float(3.2), "+3.2%"},
		{"wow negative", "spend_wow", schema.Float(-1.5), "-1.5%"},
		{"wow zero is positive", "leads_wow", schema.Float(0), "+0.0%"},
		{"rank one decimal", "current_rank", schema.Float(4.25), "4.3"},
		{"rank integer", "baseline_avg_rank", schema.Float(7), "7.0"},
		{"count separators", "impressions", schema.Float(1234567.4), "1,234,567"},
		{"count half rounds up", "leads", schema.Float(2.5), "3"},
		{"count small", "total_appointments", schema.Float(12), "12"},
		{"default integer", "unknown_metric", schema.Float(42), "42"},
		{"default fraction", "unknown_metric", schema.Float(3.5), "3.5"},
		{"default shortest repr", "unknown_metric", schema.Float(tenth + fifth), "0.30000000000000004"},
		{"default large exponent", "unknown_metric", schema.Float(1e21), "1e+21"},
		{"default small exponent", "unknown_metric", schema.Float(1e-7), "1e-7"},
		{"empty key falls through", "", schema.Float(7), "7"},
		{"unlisted report column falls through", "online_appointments", schema.Float(19), "19"},
		{"keys are case sensitive", "SPEND", schema.Float(1234.56), "1234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMetricValue(tt.metricKey, tt.value))
		})
	}
}

// TestFormatMetricValue_Nil checks nil wins over every class.
func TestFormatMetricValue_Nil(t *testing.T) {
	keys := []string{"spend", "total_conversion", "total_roas", "spend_wow", "current_rank", "impressions", "unknown", ""}
	for _, key := range keys {
		assert.Equal(t, MissingValue, FormatMetricValue(key, nil), key)
	}
}

// TestFormatMetricValue_Idempotent checks repeated calls agree.
func TestFormatMetricValue_Idempotent(t *testing.T) {
	for _, key := range MetricKeys() {
		v := schema.Float(1234.5678)
		assert.Equal(t, FormatMetricValue(key, v), FormatMetricValue(key, v), key)
	}
}

func TestFormatMetric(t *testing.T) {
	mv := schema.MetricValue{MetricKey: "total_roas", Value: schema.Float(2.4567)}
	assert.Equal(t, "2.46", FormatMetric(mv))
	assert.Equal(t, "-", FormatMetric(schema.MetricValue{MetricKey: "spend"}))
}
