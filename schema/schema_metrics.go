package schema

import "strconv"

// Band is the percentile band of a heatmap cell: 5 is the top 20% of the
// comparison set and 1 the bottom 20%. NullBand and NeutralBand are the two
// unscored states.
type Band int

// Special bands.
const (
	NullBand    Band = -1 // no value, or nothing to compare against
	NeutralBand Band = 0  // comparison set has zero variance
)

// Percentile bands.
const (
	Band1 Band = iota + 1
	Band2
	Band3
	Band4
	Band5
)

// IsScored reports whether the band is one of the five percentile bands.
func (b Band) IsScored() bool {
	return b >= Band1 && b <= Band5
}

// String returns "null", "neutral" or the band number.
func (b Band) String() string {
	switch b {
	case NullBand:
		return "null"
	case NeutralBand:
		return "neutral"
	default:
		return strconv.Itoa(int(b))
	}
}

// Styling tokens passed through to the UI layer untouched.
const (
	BestBgToken    = "bg-green-100"
	GoodBgToken    = "bg-green-50"
	AverageBgToken = "bg-yellow-50"
	BelowBgToken   = "bg-orange-50"
	WorstBgToken   = "bg-red-50"
	NullBgToken    = "bg-gray-50"
	NeutralBgToken = "bg-yellow-50"

	TextOnLightToken = "text-gray-900"
	MutedTextToken   = "text-gray-500"
)

// HeatmapColor is the colorizer output for one cell.
type HeatmapColor struct {
	Band       Band             `json:"band" yaml:"band"`
	Percentile float64          `json:"percentile" yaml:"percentile"`
	Inverted   bool             `json:"inverted" yaml:"inverted"`
	Level      PerformanceLevel `json:"level" yaml:"level"`
	BgToken    string           `json:"bg_token" yaml:"bg_token"`
	TextToken  string           `json:"text_token" yaml:"text_token"`
}

// MetricValue is a single observed numeric fact. A nil Value means no data.
type MetricValue struct {
	MetricKey string   `json:"metric_key" yaml:"metric_key"`
	Value     *float64 `json:"value" yaml:"value"`
}

// MetricInfo describes one known metric key for catalogs and tooltips.
type MetricInfo struct {
	Key         string      `json:"key" yaml:"key"`
	Class       MetricClass `json:"class" yaml:"class"`
	Inverted    bool        `json:"inverted" yaml:"inverted"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
}

// LegendEntry is one swatch of the heatmap legend.
type LegendEntry struct {
	Level   PerformanceLevel `json:"level" yaml:"level"`
	Label   string           `json:"label" yaml:"label"`
	BgToken string           `json:"bg_token" yaml:"bg_token"`
	Band    Band             `json:"band" yaml:"band"`
}

// Legend holds the normal and inverted scales plus the no-data swatch.
type Legend struct {
	Normal   []LegendEntry `json:"normal" yaml:"normal"`
	Inverted []LegendEntry `json:"inverted" yaml:"inverted"`
	NoData   LegendEntry   `json:"no_data" yaml:"no_data"`
}
