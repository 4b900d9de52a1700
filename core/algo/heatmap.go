package algo

import (
	"math"
	"slices"
	"sort"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
)

// medianPercentile is the rank given to values that cannot be placed.
const medianPercentile = 50.0

// Band thresholds, lower bounds inclusive.
const (
	band5Min = 80.0
	band4Min = 60.0
	band3Min = 40.0
	band2Min = 20.0
)

var normalLevels = map[schema.Band]schema.PerformanceLevel{
	schema.Band5: schema.BestLevel,
	schema.Band4: schema.GoodLevel,
	schema.Band3: schema.AverageLevel,
	schema.Band2: schema.BelowLevel,
	schema.Band1: schema.WorstLevel,
}

var invertedLevels = map[schema.Band]schema.PerformanceLevel{
	schema.Band5: schema.WorstLevel,
	schema.Band4: schema.BelowLevel,
	schema.Band3: schema.AverageLevel,
	schema.Band2: schema.GoodLevel,
	schema.Band1: schema.BestLevel,
}

var levelBgTokens = map[schema.PerformanceLevel]string{
	schema.BestLevel:    schema.BestBgToken,
	schema.GoodLevel:    schema.GoodBgToken,
	schema.AverageLevel: schema.AverageBgToken,
	schema.BelowLevel:   schema.BelowBgToken,
	schema.WorstLevel:   schema.WorstBgToken,
	schema.NeutralLevel: schema.NeutralBgToken,
	schema.NoDataLevel:  schema.NullBgToken,
}

var levelLabels = map[schema.PerformanceLevel]string{
	schema.BestLevel:    "Best",
	schema.GoodLevel:    "Good",
	schema.AverageLevel: "Average",
	schema.BelowLevel:   "Below",
	schema.WorstLevel:   "Worst",
	schema.NeutralLevel: "Neutral",
	schema.NoDataLevel:  "No Data",
}

// Colorizer ranks values inside comparison sets. The zero value uses the
// median policy for values missing from their set.
type Colorizer struct {
	Policy schema.AbsentPolicy
}

// NewColorizer returns a Colorizer for the given absent-value policy.
func NewColorizer(policy schema.AbsentPolicy) Colorizer {
	return Colorizer{Policy: policy}
}

// GetHeatmapColor colors a value against its comparison set with the
// default median policy.
func GetHeatmapColor(value *float64, comparison []*float64, metricKey string) schema.HeatmapColor {
	return Colorizer{}.Color(value, comparison, metricKey)
}

// Color computes the band and styling tokens of one cell. It never fails:
// a nil value or an empty comparison set yields the null band, a set with
// zero variance yields the neutral band.
func (c Colorizer) Color(value *float64, comparison []*float64, metricKey string) schema.HeatmapColor {
	inverted := IsInvertedMetric(metricKey)
	if value == nil {
		return nullColor(inverted)
	}

	valid := ValidValues(comparison)
	if len(valid) == 0 {
		return nullColor(inverted)
	}
	if allEqual(valid) {
		return schema.HeatmapColor{
			Band:       schema.NeutralBand,
			Percentile: medianPercentile,
			Inverted:   inverted,
			Level:      schema.NeutralLevel,
			BgToken:    schema.NeutralBgToken,
			TextToken:  schema.MutedTextToken,
		}
	}

	pct := Percentile(*value, valid, c.Policy)
	band := BandForPercentile(pct)
	level := LevelForBand(band, inverted)
	return schema.HeatmapColor{
		Band:       band,
		Percentile: pct,
		Inverted:   inverted,
		Level:      level,
		BgToken:    levelBgTokens[level],
		TextToken:  schema.TextOnLightToken,
	}
}

// ValidValues drops nil and NaN entries.
func ValidValues(comparison []*float64) []float64 {
	valid := make([]float64, 0, len(comparison))
	for _, v := range comparison {
		if v == nil || math.IsNaN(*v) {
			continue
		}
		valid = append(valid, *v)
	}
	return valid
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Percentile returns the 0-100 rank of value inside valid. Runs of equal
// values share the midpoint of their index range. A value not present in
// valid ranks at 50 under the median policy, or at its insertion position
// under the interpolate policy. valid is not modified.
func Percentile(value float64, valid []float64, policy schema.AbsentPolicy) float64 {
	n := len(valid)
	if n <= 1 || math.IsNaN(value) {
		return medianPercentile
	}

	sorted := slices.Clone(valid)
	sort.Float64s(sorted)

	first := sort.SearchFloat64s(sorted, value)
	var effective float64
	if first < n && sorted[first] == value {
		last := sort.Search(n, func(k int) bool { return sorted[k] > value }) - 1
		effective = float64(first+last) / 2
	} else {
		if policy != schema.InterpolatePolicy {
			return medianPercentile
		}
		effective = math.Max(0, math.Min(float64(n-1), float64(first)-0.5))
	}

	return effective / float64(n-1) * 100
}

// BandForPercentile maps a percentile onto bands 1 through 5.
func BandForPercentile(pct float64) schema.Band {
	switch {
	case pct >= band5Min:
		return schema.Band5
	case pct >= band4Min:
		return schema.Band4
	case pct >= band3Min:
		return schema.Band3
	case pct >= band2Min:
		return schema.Band2
	default:
		return schema.Band1
	}
}

// LevelForBand reads a band as a performance level. Inverted metrics read
// the scale upside down.
func LevelForBand(band schema.Band, inverted bool) schema.PerformanceLevel {
	switch band {
	case schema.NullBand:
		return schema.NoDataLevel
	case schema.NeutralBand:
		return schema.NeutralLevel
	}
	if inverted {
		return invertedLevels[band]
	}
	return normalLevels[band]
}

// BgTokenForLevel returns the background token of a performance level.
func BgTokenForLevel(level schema.PerformanceLevel) string {
	return levelBgTokens[level]
}

// LevelLabel returns the legend label of a performance level.
func LevelLabel(level schema.PerformanceLevel) string {
	return levelLabels[level]
}

func nullColor(inverted bool) schema.HeatmapColor {
	return schema.HeatmapColor{
		Band:      schema.NullBand,
		Inverted:  inverted,
		Level:     schema.NoDataLevel,
		BgToken:   schema.NullBgToken,
		TextToken: schema.MutedTextToken,
	}
}

// BuildLegend lists the swatches for both scales, best first, plus the
// no-data swatch.
func BuildLegend() schema.Legend {
	legend := schema.Legend{
		NoData: schema.LegendEntry{
			Level:   schema.NoDataLevel,
			Label:   levelLabels[schema.NoDataLevel],
			BgToken: schema.NullBgToken,
			Band:    schema.NullBand,
		},
	}
	bands := []schema.Band{schema.Band5, schema.Band4, schema.Band3, schema.Band2, schema.Band1}
	for i, level := range schema.AllPerformanceLevels {
		legend.Normal = append(legend.Normal, schema.LegendEntry{
			Level:   level,
			Label:   levelLabels[level],
			BgToken: levelBgTokens[level],
			Band:    bands[i],
		})
		legend.Inverted = append(legend.Inverted, schema.LegendEntry{
			Level:   level,
			Label:   levelLabels[level],
			BgToken: levelBgTokens[level],
			Band:    bands[len(bands)-1-i],
		})
	}
	return legend
}

// Report formats and colors one value against its comparison set.
func (c Colorizer) Report(metricKey string, value *float64, comparison []*float64) schema.CellReport {
	return schema.CellReport{
		MetricKey:  metricKey,
		Class:      ClassifyMetric(metricKey),
		Value:      value,
		Display:    FormatMetricValue(metricKey, value),
		Comparison: comparison,
		Color:      c.Color(value, comparison, metricKey),
	}
}
