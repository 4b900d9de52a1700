package algo

import (
	"sort"
	"strings"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
)

// classTable pairs a metric class with its exact-key membership set.
type classTable struct {
	class schema.MetricClass
	keys  map[string]struct{}
}

func newClassTable(class schema.MetricClass, keys ...string) classTable {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return classTable{class: class, keys: set}
}

// classTables is searched in order and the first match wins.
var classTables = []classTable{
	newClassTable(schema.CurrencyClass,
		"spend",
		"estimated_ltv_6m",
		"ltv",
		"avg_ltv",
		"cac_total",
		"cac_new",
		"total_estimated_revenue",
		"new_estimated_revenue",
	),
	// stored as decimals: 0.85 is 85%
	newClassTable(schema.PercentageDecimalClass,
		"total_conversion",
		"new_conversion",
		"returning_conversion",
		"conversion_rate",
		"%new_conversion",
		"%returning_conversion",
	),
	newClassTable(schema.RatioClass,
		"total_roas",
		"new_roas",
		"roas",
	),
	// stored pre-multiplied: 3.2 is +3.2%
	newClassTable(schema.WeekOverWeekClass,
		"impressions_wow",
		"visits_wow",
		"spend_wow",
		"leads_wow",
		"conversion_rate_wow",
		"cac_total_wow",
		"appointments_wow",
		"conversations_wow",
		"roas_wow",
	),
	newClassTable(schema.RankClass,
		"current_rank",
		"baseline_avg_rank",
	),
	newClassTable(schema.CountClass,
		"impressions",
		"visits",
		"leads",
		"new_leads",
		"returning_leads",
		"total_appointments",
		"new_appointments",
		"returning_appointments",
		"online_booking",
		"total_conversations",
		"new_conversations",
		"returning_conversations",
		"appointments",
		"conversations",
	),
}

// invertedMetrics are substrings: a key containing any of them, ignoring case,
// ranks lower values as better. Matching is substring based on purpose, so
// compound keys such as "spend_wow" are inverted too.
var invertedMetrics = []string{
	// cost
	"cost_per_lead",
	"cost_per_appt",
	"cost_per_appointment",
	"cac_total",
	"cac_new",
	"spend",

	// discounting
	"pct_sale_discount",
	"discount_percentage",
}

// ClassifyMetric returns the display class of a metric key by exact match.
func ClassifyMetric(metricKey string) schema.MetricClass {
	for _, t := range classTables {
		if _, ok := t.keys[metricKey]; ok {
			return t.class
		}
	}
	return schema.DefaultClass
}

// IsInvertedMetric reports whether lower values of the metric are better.
func IsInvertedMetric(metricKey string) bool {
	if metricKey == "" {
		return false
	}
	lower := strings.ToLower(metricKey)
	for _, m := range invertedMetrics {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// InvertedMetricSubstrings returns a copy of the inverted substring list.
func InvertedMetricSubstrings() []string {
	out := make([]string, len(invertedMetrics))
	copy(out, invertedMetrics)
	return out
}

// MetricKeys returns every key of the classification tables, sorted.
func MetricKeys() []string {
	var keys []string
	for _, t := range classTables {
		for k := range t.keys {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// MetricCatalog describes every classified or described metric key, sorted by key.
func MetricCatalog() []schema.MetricInfo {
	seen := make(map[string]struct{})
	var keys []string
	for _, k := range MetricKeys() {
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for _, k := range schema.DescribedMetrics() {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	catalog := make([]schema.MetricInfo, 0, len(keys))
	for _, k := range keys {
		desc, _ := schema.DescribeMetric(k)
		catalog = append(catalog, schema.MetricInfo{
			Key:         k,
			Class:       ClassifyMetric(k),
			Inverted:    IsInvertedMetric(k),
			Description: desc,
		})
	}
	return catalog
}
