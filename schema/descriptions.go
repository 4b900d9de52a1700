package schema

// metricDescriptions feeds tooltips. It is a read-only side table.
var metricDescriptions = map[string]string{
	// Traffic & Engagement
	"impressions":     "Number of times ads were displayed to users",
	"visits":          "Number of unique visitors to the website",
	"leads":           "All leads generated (new + returning)",
	"new_leads":       "Total leads from first-time prospects",
	"returning_leads": "Total leads from existing patients",

	// Conversion
	"total_conversion":       "Overall percentage of leads that booked appointments",
	"new_conversion":         "Percentage of new leads that booked appointments",
	"returning_conversion":   "Percentage of returning leads that booked appointments",
	"total_appointments":     "All appointments booked (new + returning patients)",
	"new_appointments":       "Appointments booked by first-time patients",
	"returning_appointments": "Appointments booked by existing patients",
	"online_booking":         "Appointments scheduled through online booking system",

	// Conversations
	"total_conversations":     "All phone calls and chats (new + returning)",
	"new_conversations":       "Phone calls and chats from first-time prospects",
	"returning_conversations": "Phone calls and chats from existing patients",

	// Financial
	"spend":                   "Total amount spent on paid advertising campaigns",
	"total_estimated_revenue": "Total estimated revenue (new + returning patients)",
	"new_estimated_revenue":   "Estimated revenue generated from new patients",

	// ROI
	"total_roas": "Overall return on ad spend (new + returning customers)",
	"new_roas":   "Return on ad spend from new customers only",
	"cac_total":  "Average cost to acquire any customer (new + returning)",
	"cac_new":    "Average cost to acquire one new customer",

	// Lifetime Value
	"estimated_ltv_6m": "Predicted customer lifetime value over 6 months",
}

// DescribeMetric returns the tooltip text for a metric key.
func DescribeMetric(key string) (string, bool) {
	d, ok := metricDescriptions[key]
	return d, ok
}

// DescribedMetrics returns every key that has a description, unsorted.
func DescribedMetrics() []string {
	keys := make([]string, 0, len(metricDescriptions))
	for k := range metricDescriptions {
		keys = append(keys, k)
	}
	return keys
}
