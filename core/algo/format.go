package algo

import "github.com/BrandRap-LLC/scorecards-sub002/schema"

// MissingValue is rendered for nil values of any metric.
const MissingValue = "-"

// FormatMetricValue renders a value for display according to the class of
// its metric key. A nil value renders as MissingValue before any lookup.
func FormatMetricValue(metricKey string, value *float64) string {
	if value == nil {
		return MissingValue
	}
	v := *value

	switch ClassifyMetric(metricKey) {
	case schema.CurrencyClass:
		return "$" + groupThousands(roundHalfUp(v))
	case schema.PercentageDecimalClass:
		return toFixed(v*100, 1) + "%"
	case schema.RatioClass:
		return toFixed(v, 2)
	case schema.WeekOverWeekClass:
		sign := ""
		if v >= 0 {
			sign = "+"
		}
		return sign + toFixed(v, 1) + "%"
	case schema.RankClass:
		return toFixed(v, 1)
	case schema.CountClass:
		return groupThousands(roundHalfUp(v))
	default:
		return numberString(v)
	}
}

// FormatMetric is FormatMetricValue over a MetricValue.
func FormatMetric(mv schema.MetricValue) string {
	return FormatMetricValue(mv.MetricKey, mv.Value)
}
