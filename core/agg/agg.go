// Package agg has aggregation logic for executive report rows.
package agg

import (
	"cmp"
	"slices"
	"strings"

	"github.com/BrandRap-LLC/scorecards-sub002/core/algo"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
)

// AllTrafficSources is the traffic source of a row folded from several sources.
const AllTrafficSources = "all"

// Group is one comparison scope of a grid: the rows whose metric columns are
// ranked against each other.
type Group struct {
	Scope string
	Rows  []schema.ReportRecord
}

// wowSources maps a report column onto the week-over-week key derived from it.
var wowSources = map[string]string{
	"impressions":         "impressions_wow",
	"visits":              "visits_wow",
	"spend":               "spend_wow",
	"leads":               "leads_wow",
	"total_conversion":    "conversion_rate_wow",
	"cac_total":           "cac_total_wow",
	"total_appointments":  "appointments_wow",
	"total_conversations": "conversations_wow",
	"total_roas":          "roas_wow",
}

// FilterRecords keeps rows matching the clinic and traffic source. Empty
// filters match everything.
func FilterRecords(records []schema.ReportRecord, clinic, trafficSource string) []schema.ReportRecord {
	out := make([]schema.ReportRecord, 0, len(records))
	for _, r := range records {
		if clinic != "" && r.Clinic != clinic {
			continue
		}
		if trafficSource != "" && !strings.EqualFold(r.TrafficSource, trafficSource) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// IsAveragedMetric reports whether a metric is averaged rather than summed
// when rows are folded together. Rates, ratios and per-unit costs average.
func IsAveragedMetric(metricKey string) bool {
	switch algo.ClassifyMetric(metricKey) {
	case schema.PercentageDecimalClass, schema.RatioClass, schema.WeekOverWeekClass, schema.RankClass:
		return true
	}
	return strings.HasPrefix(metricKey, "cac_") || strings.HasPrefix(metricKey, "avg_")
}

// AggregateRecords folds rows of the same clinic and period into one row.
// Averaged metrics take the mean of their non-nil inputs, all others the sum.
// A metric with no non-nil inputs stays nil. Output is sorted by clinic then
// period.
func AggregateRecords(records []schema.ReportRecord) []schema.ReportRecord {
	type entityKey struct{ clinic, period string }

	buckets := make(map[entityKey][]schema.ReportRecord)
	var order []entityKey
	for _, r := range records {
		k := entityKey{r.Clinic, r.Period}
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], r)
	}

	out := make([]schema.ReportRecord, 0, len(order))
	for _, k := range order {
		out = append(out, foldRows(buckets[k]))
	}
	slices.SortFunc(out, func(a, b schema.ReportRecord) int {
		return cmp.Or(cmp.Compare(a.Clinic, b.Clinic), cmp.Compare(a.Period, b.Period))
	})
	return out
}

// foldRows merges rows that share clinic and period.
func foldRows(rows []schema.ReportRecord) schema.ReportRecord {
	merged := schema.ReportRecord{
		Clinic:        rows[0].Clinic,
		Period:        rows[0].Period,
		TrafficSource: rows[0].TrafficSource,
		Values:        make(map[string]*float64),
	}

	keys := make(map[string]struct{})
	for _, r := range rows {
		if r.TrafficSource != merged.TrafficSource {
			merged.TrafficSource = AllTrafficSources
		}
		for k := range r.Values {
			keys[k] = struct{}{}
		}
	}

	for k := range keys {
		var sum float64
		var n int
		for _, r := range rows {
			if v := r.Value(k); v != nil {
				sum += *v
				n++
			}
		}
		switch {
		case n == 0:
			merged.Values[k] = nil
		case IsAveragedMetric(k):
			merged.Values[k] = schema.Float(sum / float64(n))
		default:
			merged.Values[k] = schema.Float(sum)
		}
	}
	return merged
}

// GroupRecords splits rows into comparison groups. On the clinic axis each
// group is one period and its rows are clinics; on the period axis each
// group is one clinic and its rows are periods. Groups and rows are sorted.
func GroupRecords(records []schema.ReportRecord, axis schema.GridAxis) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range records {
		scope := r.Period
		if axis == schema.PeriodAxis {
			scope = r.Clinic
		}
		i, ok := index[scope]
		if !ok {
			i = len(groups)
			index[scope] = i
			groups = append(groups, Group{Scope: scope})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}

	slices.SortFunc(groups, func(a, b Group) int { return cmp.Compare(a.Scope, b.Scope) })
	for _, g := range groups {
		slices.SortStableFunc(g.Rows, func(a, b schema.ReportRecord) int {
			return cmp.Compare(RowKey(a, axis), RowKey(b, axis))
		})
	}
	return groups
}

// FindGroup returns the group with the given scope. An empty scope selects
// the last group, which is the latest period on the clinic axis.
func FindGroup(groups []Group, scope string) (Group, bool) {
	if len(groups) == 0 {
		return Group{}, false
	}
	if scope == "" {
		return groups[len(groups)-1], true
	}
	for _, g := range groups {
		if g.Scope == scope {
			return g, true
		}
	}
	return Group{}, false
}

// RowKey names a row on the given axis.
func RowKey(r schema.ReportRecord, axis schema.GridAxis) string {
	if axis == schema.PeriodAxis {
		return r.Period
	}
	return r.Clinic
}

// ComparisonSet collects one metric column across rows, nils included.
func ComparisonSet(rows []schema.ReportRecord, metricKey string) []*float64 {
	set := make([]*float64, len(rows))
	for i, r := range rows {
		set[i] = r.Value(metricKey)
	}
	return set
}

// WeekOverWeek derives the _wow delta columns for each clinic from its
// consecutive periods. The delta is (cur-prev)/prev*100; it is nil for the
// first period of a clinic and whenever either side is nil or prev is zero.
// Input rows are not modified.
func WeekOverWeek(records []schema.ReportRecord) []schema.ReportRecord {
	out := make([]schema.ReportRecord, len(records))
	for i, r := range records {
		out[i] = r
		out[i].Values = make(map[string]*float64, len(r.Values)+len(wowSources))
		for k, v := range r.Values {
			out[i].Values[k] = v
		}
	}

	byClinic := make(map[string][]int)
	for i, r := range out {
		byClinic[r.Clinic] = append(byClinic[r.Clinic], i)
	}
	for _, idx := range byClinic {
		slices.SortFunc(idx, func(a, b int) int { return cmp.Compare(out[a].Period, out[b].Period) })
		for pos, i := range idx {
			for src, dst := range wowSources {
				if pos == 0 {
					out[i].Values[dst] = nil
					continue
				}
				out[i].Values[dst] = percentChange(out[idx[pos-1]].Value(src), out[i].Value(src))
			}
		}
	}
	return out
}

func percentChange(prev, cur *float64) *float64 {
	if prev == nil || cur == nil || *prev == 0 {
		return nil
	}
	return schema.Float((*cur - *prev) / *prev * 100)
}

// LatestPeriod returns the greatest period among the rows.
func LatestPeriod(records []schema.ReportRecord) string {
	latest := ""
	for _, r := range records {
		if r.Period > latest {
			latest = r.Period
		}
	}
	return latest
}
