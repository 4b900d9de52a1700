package algo

import (
	"math"
	"testing"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHeatmapColor_Null(t *testing.T) {
	t.Run("nil value ignores comparison set", func(t *testing.T) {
		got := GetHeatmapColor(nil, schema.Floats(1, 2, 3), "leads")
		assert.Equal(t, schema.NullBand, got.Band)
		assert.Equal(t, schema.NoDataLevel, got.Level)
		assert.Equal(t, schema.NullBgToken, got.BgToken)
		assert.Equal(t, schema.MutedTextToken, got.TextToken)
	})

	t.Run("no valid comparison values", func(t *testing.T) {
		set := []*float64{nil, schema.Float(math.NaN()), nil}
		got := GetHeatmapColor(schema.Float(4), set, "leads")
		assert.Equal(t, schema.NullBand, got.Band)
		assert.Equal(t, schema.NullBgToken, got.BgToken)
	})

	t.Run("empty comparison set", func(t *testing.T) {
		got := GetHeatmapColor(schema.Float(4), nil, "leads")
		assert.Equal(t, schema.NullBand, got.Band)
	})
}

func TestGetHeatmapColor_Neutral(t *testing.T) {
	got := GetHeatmapColor(schema.Float(5), schema.Floats(5, 5, 5), "leads")
	assert.Equal(t, schema.NeutralBand, got.Band)
	assert.Equal(t, schema.NeutralLevel, got.Level)
	assert.Equal(t, schema.NeutralBgToken, got.BgToken)
	assert.Equal(t, schema.MutedTextToken, got.TextToken)
	assert.NotEqual(t, schema.NullBgToken, got.BgToken)

	single := GetHeatmapColor(schema.Float(9), schema.Floats(3), "leads")
	assert.Equal(t, schema.NeutralBand, single.Band)

	withNils := GetHeatmapColor(schema.Float(2), []*float64{schema.Float(2), nil, schema.Float(2)}, "spend")
	assert.Equal(t, schema.NeutralBand, withNils.Band)
}

func TestGetHeatmapColor_Bands(t *testing.T) {
	set := schema.Floats(1, 2, 3, 4, 5)
	tests := []struct {
		value      float64
		percentile float64
		band       schema.Band
		level      schema.PerformanceLevel
		bg         string
	}{
		{1, 0, schema.Band1, schema.WorstLevel, schema.WorstBgToken},
		{2, 25, schema.Band2, schema.BelowLevel, schema.BelowBgToken},
		{3, 50, schema.Band3, schema.AverageLevel, schema.AverageBgToken},
		{4, 75, schema.Band4, schema.GoodLevel, schema.GoodBgToken},
		{5, 100, schema.Band5, schema.BestLevel, schema.BestBgToken},
	}

	for _, tt := range tests {
		got := GetHeatmapColor(schema.Float(tt.value), set, "leads")
		assert.InDelta(t, tt.percentile, got.Percentile, 1e-9)
		assert.Equal(t, tt.band, got.Band)
		assert.Equal(t, tt.level, got.Level)
		assert.Equal(t, tt.bg, got.BgToken)
		assert.Equal(t, schema.TextOnLightToken, got.TextToken)
		assert.False(t, got.Inverted)
	}
}

func TestGetHeatmapColor_DuplicateMidpoint(t *testing.T) {
	got := GetHeatmapColor(schema.Float(2), schema.Floats(1, 2, 2, 2, 3), "visits")
	assert.InDelta(t, 50.0, got.Percentile, 1e-9)
	assert.Equal(t, schema.Band3, got.Band)

	low := GetHeatmapColor(schema.Float(1), schema.Floats(3, 1, 1, 2), "visits")
	assert.InDelta(t, 0.5/3*100, low.Percentile, 1e-9)
	assert.Equal(t, schema.Band1, low.Band)
}

func TestGetHeatmapColor_InversionFlipsExtremes(t *testing.T) {
	set := schema.Floats(50, 75, 100, 125, 150)

	best := GetHeatmapColor(schema.Float(50), set, "cac_total")
	assert.True(t, best.Inverted)
	assert.Equal(t, schema.Band1, best.Band)
	assert.Equal(t, schema.BestLevel, best.Level)
	assert.Equal(t, schema.BestBgToken, best.BgToken)

	worst := GetHeatmapColor(schema.Float(150), set, "cac_total")
	assert.Equal(t, schema.Band5, worst.Band)
	assert.Equal(t, schema.WorstLevel, worst.Level)
	assert.Equal(t, schema.WorstBgToken, worst.BgToken)

	normalTop := GetHeatmapColor(schema.Float(150), set, "leads")
	assert.Equal(t, worst.Percentile, normalTop.Percentile)
	assert.Equal(t, schema.BestBgToken, normalTop.BgToken)

	middle := GetHeatmapColor(schema.Float(100), set, "cac_total")
	assert.Equal(t, schema.AverageBgToken, middle.BgToken)
}

func TestGetHeatmapColor_Monotonic(t *testing.T) {
	values := []float64{-40, -10, 0, 3, 10, 55, 1e6, 2e9}
	set := schema.Floats(values...)
	rank := map[schema.PerformanceLevel]int{
		schema.WorstLevel:   1,
		schema.BelowLevel:   2,
		schema.AverageLevel: 3,
		schema.GoodLevel:    4,
		schema.BestLevel:    5,
	}

	prevBand, prevNormal, prevInverted := int(schema.Band1), 0, 6
	for _, v := range values {
		normal := GetHeatmapColor(schema.Float(v), set, "impressions")
		inverted := GetHeatmapColor(schema.Float(v), set, "spend")
		assert.GreaterOrEqual(t, int(normal.Band), prevBand)
		assert.GreaterOrEqual(t, rank[normal.Level], prevNormal)
		assert.LessOrEqual(t, rank[inverted.Level], prevInverted)
		prevBand, prevNormal, prevInverted = int(normal.Band), rank[normal.Level], rank[inverted.Level]
	}
}

func TestGetHeatmapColor_Absent(t *testing.T) {
	set := schema.Floats(1, 2, 3)

	median := GetHeatmapColor(schema.Float(2.5), set, "leads")
	assert.Equal(t, 50.0, median.Percentile)
	assert.Equal(t, schema.Band3, median.Band)

	interp := NewColorizer(schema.InterpolatePolicy)
	assert.InDelta(t, 75.0, interp.Color(schema.Float(2.5), set, "leads").Percentile, 1e-9)
	assert.Equal(t, 0.0, interp.Color(schema.Float(-7), set, "leads").Percentile)
	assert.Equal(t, 100.0, interp.Color(schema.Float(10), set, "leads").Percentile)

	nan := GetHeatmapColor(schema.Float(math.NaN()), set, "leads")
	assert.Equal(t, schema.Band3, nan.Band)
}

func TestGetHeatmapColor_Idempotent(t *testing.T) {
	set := []*float64{schema.Float(9), nil, schema.Float(3), schema.Float(6)}
	first := GetHeatmapColor(schema.Float(6), set, "cost_per_lead")
	second := GetHeatmapColor(schema.Float(6), set, "cost_per_lead")
	assert.Equal(t, first, second)

	// comparison set is left in caller order
	assert.Equal(t, 9.0, *set[0])
	assert.Nil(t, set[1])
	assert.Equal(t, 3.0, *set[2])
}

func TestPercentile(t *testing.T) {
	assert.Equal(t, 50.0, Percentile(1, []float64{1}, schema.MedianPolicy))
	assert.Equal(t, 50.0, Percentile(1, nil, schema.InterpolatePolicy))

	valid := []float64{3, 1, 2}
	assert.Equal(t, 100.0, Percentile(3, valid, schema.MedianPolicy))
	assert.Equal(t, []float64{3, 1, 2}, valid)
}

func TestBandForPercentile(t *testing.T) {
	tests := []struct {
		pct  float64
		band schema.Band
	}{
		{100, schema.Band5},
		{80, schema.Band5},
		{79.999, schema.Band4},
		{60, schema.Band4},
		{59.9, schema.Band3},
		{40, schema.Band3},
		{20, schema.Band2},
		{19.99, schema.Band1},
		{0, schema.Band1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.band, BandForPercentile(tt.pct), "pct %v", tt.pct)
	}
}

func TestLevelForBand(t *testing.T) {
	assert.Equal(t, schema.NoDataLevel, LevelForBand(schema.NullBand, true))
	assert.Equal(t, schema.NeutralLevel, LevelForBand(schema.NeutralBand, false))
	assert.Equal(t, schema.BestLevel, LevelForBand(schema.Band5, false))
	assert.Equal(t, schema.WorstLevel, LevelForBand(schema.Band5, true))
	assert.Equal(t, schema.GoodLevel, LevelForBand(schema.Band2, true))
}

func TestBuildLegend(t *testing.T) {
	legend := BuildLegend()
	require.Len(t, legend.Normal, 5)
	require.Len(t, legend.Inverted, 5)

	assert.Equal(t, "Best", legend.Normal[0].Label)
	assert.Equal(t, schema.BestBgToken, legend.Normal[0].BgToken)
	assert.Equal(t, schema.Band5, legend.Normal[0].Band)
	assert.Equal(t, schema.Band1, legend.Inverted[0].Band)
	assert.Equal(t, "Worst", legend.Inverted[4].Label)
	assert.Equal(t, schema.Band5, legend.Inverted[4].Band)

	assert.Equal(t, "No Data", legend.NoData.Label)
	assert.Equal(t, schema.NullBgToken, legend.NoData.BgToken)

	for i := range legend.Normal {
		assert.Equal(t, legend.Normal[i].BgToken, legend.Inverted[i].BgToken)
	}
}

func TestColorizerReport(t *testing.T) {
	report := NewColorizer(schema.MedianPolicy).Report("cac_total", schema.Float(50), schema.Floats(50, 100, 150))
	assert.Equal(t, "cac_total", report.MetricKey)
	assert.Equal(t, schema.CurrencyClass, report.Class)
	assert.Equal(t, "$50", report.Display)
	assert.Len(t, report.Comparison, 3)
	assert.True(t, report.Color.Inverted)
	assert.Equal(t, schema.BestLevel, report.Color.Level, "Lowest acquisition cost is best")

	missing := NewColorizer(schema.MedianPolicy).Report("leads", nil, schema.Floats(1, 2))
	assert.Equal(t, "-", missing.Display)
	assert.Equal(t, schema.NullBand, missing.Color.Band)
}
