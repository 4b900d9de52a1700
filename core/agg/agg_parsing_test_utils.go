package agg

import (
	"fmt"
	"strings"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
)

// reportRow describes one report row for test data generation.
type reportRow struct {
	clinic  string
	period  string
	source  string
	metrics map[string]string
}

// generateReportCSV creates a report CSV fixture with the given metric columns.
func generateReportCSV(columns []string, rows []reportRow) string {
	var b strings.Builder
	b.WriteString("clinic,period,traffic_source," + strings.Join(columns, ",") + "\n")
	for _, r := range rows {
		cells := []string{r.clinic, r.period, r.source}
		for _, c := range columns {
			cells = append(cells, r.metrics[c])
		}
		fmt.Fprintln(&b, strings.Join(cells, ","))
	}
	return b.String()
}

// newRecord builds a record from alternating metric keys and values. A nil
// value stores a missing metric.
func newRecord(clinic, period, source string, kv ...any) schema.ReportRecord {
	rec := schema.ReportRecord{Clinic: clinic, Period: period, TrafficSource: source, Values: map[string]*float64{}}
	for i := 0; i+1 < len(kv); i += 2 {
		key := kv[i].(string)
		switch v := kv[i+1].(type) {
		case nil:
			rec.Values[key] = nil
		case int:
			rec.Values[key] = schema.Float(float64(v))
		case float64:
			rec.Values[key] = schema.Float(v)
		}
	}
	return rec
}
