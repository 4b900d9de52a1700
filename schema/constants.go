package schema

// Custom string types for type safety.
type (
	// MetricClass is the display class a metric key belongs to.
	MetricClass string

	// PerformanceLevel is the qualitative reading of a heatmap cell.
	PerformanceLevel string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for report and run storage.
	DatabaseBackend string

	// Grain is the reporting period granularity.
	Grain string

	// GridAxis decides which entities form a comparison set.
	GridAxis string

	// AbsentPolicy decides how a value missing from its comparison set is ranked.
	AbsentPolicy string
)

// All metric classes. Each key belongs to at most one class.
const (
	CurrencyClass          MetricClass = "currency"
	PercentageDecimalClass MetricClass = "percentage"
	RatioClass             MetricClass = "ratio"
	WeekOverWeekClass      MetricClass = "wow"
	RankClass              MetricClass = "rank"
	CountClass             MetricClass = "count"
	DefaultClass           MetricClass = "default"
)

// All performance levels.
const (
	BestLevel    PerformanceLevel = "best"
	GoodLevel    PerformanceLevel = "good"
	AverageLevel PerformanceLevel = "average"
	BelowLevel   PerformanceLevel = "below"
	WorstLevel   PerformanceLevel = "worst"
	NeutralLevel PerformanceLevel = "neutral"
	NoDataLevel  PerformanceLevel = "none"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All reporting grains.
const (
	MonthlyGrain Grain = "monthly" // default
	WeeklyGrain  Grain = "weekly"
)

// All grid axes.
const (
	ClinicAxis GridAxis = "clinic" // default: clinics compared inside one period
	PeriodAxis GridAxis = "period" // periods compared for one clinic
)

// All absent-value policies.
const (
	MedianPolicy      AbsentPolicy = "median" // default
	InterpolatePolicy AbsentPolicy = "interpolate"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidGrains lists all valid reporting grains.
var ValidGrains = map[Grain]struct{}{
	MonthlyGrain: {},
	WeeklyGrain:  {},
}

// ValidGridAxes lists all valid grid axes.
var ValidGridAxes = map[GridAxis]struct{}{
	ClinicAxis: {},
	PeriodAxis: {},
}

// ValidAbsentPolicies lists all valid absent-value policies.
var ValidAbsentPolicies = map[AbsentPolicy]struct{}{
	MedianPolicy:      {},
	InterpolatePolicy: {},
}

// AllPerformanceLevels lists the banded levels from best to worst.
var AllPerformanceLevels = []PerformanceLevel{BestLevel, GoodLevel, AverageLevel, BelowLevel, WorstLevel}
