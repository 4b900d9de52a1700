package schema

import "time"

// ReportMetricColumns are the nullable metric columns of the executive report
// tables, named exactly as the classification tables expect.
var ReportMetricColumns = []string{
	"impressions",
	"visits",
	"spend",
	"leads",
	"new_leads",
	"returning_leads",
	"total_conversion",
	"new_conversion",
	"returning_conversion",
	"cac_total",
	"cac_new",
	"total_appointments",
	"new_appointments",
	"returning_appointments",
	"online_appointments",
	"total_conversations",
	"new_conversations",
	"returning_conversations",
	"ltv",
	"estimated_ltv_6m",
	"avg_ltv",
	"total_roas",
	"new_roas",
	"total_estimated_revenue",
	"new_estimated_revenue",
}

// ReportRecord is one flat row from an executive report table.
type ReportRecord struct {
	Clinic        string              `json:"clinic" yaml:"clinic"`
	Period        string              `json:"period" yaml:"period"` // month date for monthly, ISO week for weekly
	TrafficSource string              `json:"traffic_source" yaml:"traffic_source"`
	Values        map[string]*float64 `json:"values" yaml:"values"`
}

// Value returns the stored value for a metric key, nil when absent.
func (r ReportRecord) Value(key string) *float64 {
	if r.Values == nil {
		return nil
	}
	return r.Values[key]
}

// RenderRunRecord represents a row from the scorecard_render_runs table.
type RenderRunRecord struct {
	RunID        int64
	RunKey       string
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int32
	TotalCells   int32
	ConfigParams *string
}

// HeatmapCellRecord represents a row from the scorecard_heatmap_cells table.
type HeatmapCellRecord struct {
	RunID      int64
	RowKey     string
	MetricKey  string
	Value      *float64
	Display    string
	Band       int32
	Percentile float64
	Inverted   bool
	BgToken    string
	TextToken  string
}

// ReportStatus holds status information about the report store.
type ReportStatus struct {
	Backend      string            `json:"backend"`
	Connected    bool              `json:"connected"`
	TableRows    map[string]int64  `json:"table_rows"`
	LatestPeriod map[string]string `json:"latest_period"`
}

// RunStatus holds status information about the run store.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalCells    int64            `json:"total_cells"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
