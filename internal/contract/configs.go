package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
)

// Default values for configuration.
const (
	DefaultGrain        = schema.MonthlyGrain
	DefaultAxis         = schema.ClinicAxis
	DefaultAbsentPolicy = schema.MedianPolicy
	MaxWorkers          = 256
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DefaultMetrics are the grid columns used when none are requested.
var DefaultMetrics = []string{
	"spend",
	"leads",
	"total_conversion",
	"cac_total",
	"total_appointments",
	"total_roas",
	"total_estimated_revenue",
}

// Config holds the runtime configuration for rendering.
// This struct remains the "final, validated" config.
type Config struct {
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Workers    int

	Grain         schema.Grain
	Axis          schema.GridAxis
	Period        string // comparison scope on the clinic axis, empty for latest
	Clinic        string // comparison scope on the period axis
	TrafficSource string
	Metrics       []string
	AbsentPolicy  schema.AbsentPolicy
	WeekOverWeek  bool
	SortBy        string // metric column to rank rows by, empty keeps key order
	Limit         int    // maximum rows after ranking, 0 keeps all

	ReportBackend   schema.DatabaseBackend
	ReportDBConnect string // Please use env var as this is plaintext

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	Width           int    `mapstructure:"width"`
	Color           string `mapstructure:"color"`
	Workers         int    `mapstructure:"workers"`
	LogLevel        string `mapstructure:"log-level"`
	ReportBackend   string `mapstructure:"report-backend"`
	ReportDBConnect string `mapstructure:"report-db-connect"`
	RunBackend      string `mapstructure:"run-backend"`
	RunDBConnect    string `mapstructure:"run-db-connect"`

	// --- Fields from gridCmd.Flags() ---
	Grain         string `mapstructure:"grain"`
	Axis          string `mapstructure:"axis"`
	Period        string `mapstructure:"period"`
	Clinic        string `mapstructure:"clinic"`
	TrafficSource string `mapstructure:"traffic-source"`
	Metrics       string `mapstructure:"metrics"`
	AbsentPolicy  string `mapstructure:"absent-policy"`
	WoW           bool   `mapstructure:"wow"`
	SortBy        string `mapstructure:"sort-by"`
	Limit         int    `mapstructure:"limit"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Metrics != nil {
		clone.Metrics = slices.Clone(c.Metrics)
	}
	return &clone
}

// Scope returns the fixed side of the grid: the period on the clinic axis,
// the clinic on the period axis.
func (c *Config) Scope() string {
	if c.Axis == schema.PeriodAxis {
		return c.Clinic
	}
	return c.Period
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processGridInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// validateSimpleInputs processes and validates output and runtime fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.LogLevel != "" {
		if err := SetLogLevel(input.LogLevel); err != nil {
			return fmt.Errorf("invalid --log-level value: %w", err)
		}
	}

	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}

	return nil
}

// processGridInputs handles grain, axis, scope and metric selection.
func processGridInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Grain = schema.Grain(strings.ToLower(input.Grain))
	if cfg.Grain == "" {
		cfg.Grain = DefaultGrain
	}
	if _, ok := schema.ValidGrains[cfg.Grain]; !ok {
		return fmt.Errorf("invalid grain '%s'. must be monthly, weekly", input.Grain)
	}

	cfg.Axis = schema.GridAxis(strings.ToLower(input.Axis))
	if cfg.Axis == "" {
		cfg.Axis = DefaultAxis
	}
	if _, ok := schema.ValidGridAxes[cfg.Axis]; !ok {
		return fmt.Errorf("invalid axis '%s'. must be clinic, period", input.Axis)
	}

	cfg.AbsentPolicy = schema.AbsentPolicy(strings.ToLower(input.AbsentPolicy))
	if cfg.AbsentPolicy == "" {
		cfg.AbsentPolicy = DefaultAbsentPolicy
	}
	if _, ok := schema.ValidAbsentPolicies[cfg.AbsentPolicy]; !ok {
		return fmt.Errorf("invalid absent policy '%s'. must be median, interpolate", input.AbsentPolicy)
	}

	cfg.Period = strings.TrimSpace(input.Period)
	cfg.Clinic = strings.TrimSpace(input.Clinic)
	cfg.TrafficSource = strings.TrimSpace(input.TrafficSource)
	cfg.WeekOverWeek = input.WoW

	if cfg.Axis == schema.PeriodAxis && cfg.Clinic == "" {
		return errors.New("--clinic is required when comparing along the period axis")
	}

	cfg.Metrics = ParseMetricList(input.Metrics)
	if len(cfg.Metrics) == 0 {
		cfg.Metrics = slices.Clone(DefaultMetrics)
	}

	cfg.SortBy = strings.TrimSpace(input.SortBy)
	if cfg.SortBy != "" && !slices.Contains(cfg.Metrics, cfg.SortBy) {
		return fmt.Errorf("--sort-by %q must be one of the selected metrics", cfg.SortBy)
	}
	if input.Limit < 0 {
		return fmt.Errorf("limit cannot be negative (received %d)", input.Limit)
	}
	cfg.Limit = input.Limit

	return nil
}

// RevalidateGrid re-applies grid selection inputs to an already validated
// config, as MCP tool calls do with their per-call arguments.
func RevalidateGrid(cfg *Config, input *ConfigRawInput) error {
	return processGridInputs(cfg, input)
}

// GridInputs returns the grid selection of cfg as raw inputs, the starting
// point for per-call overrides.
func GridInputs(cfg *Config) *ConfigRawInput {
	return &ConfigRawInput{
		Grain:         string(cfg.Grain),
		Axis:          string(cfg.Axis),
		Period:        cfg.Period,
		Clinic:        cfg.Clinic,
		TrafficSource: cfg.TrafficSource,
		Metrics:       strings.Join(cfg.Metrics, ","),
		AbsentPolicy:  string(cfg.AbsentPolicy),
		WoW:           cfg.WeekOverWeek,
		SortBy:        cfg.SortBy,
		Limit:         cfg.Limit,
	}
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		dsn, err := mysql.ParseDSN(connStr)
		if err != nil {
			return fmt.Errorf("invalid MySQL connection string: %w", err)
		}
		if dsn.DBName == "" {
			return errors.New("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		pgCfg, err := pgx.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("invalid PostgreSQL connection string: %w", err)
		}
		if pgCfg.Database == "" {
			return errors.New("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates report and run backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Report Backend Validation ---
	cfg.ReportBackend = schema.DatabaseBackend(strings.ToLower(input.ReportBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.ReportBackend]; !ok {
		return fmt.Errorf("invalid report backend '%s'. must be sqlite, mysql, postgresql, none", input.ReportBackend)
	}
	cfg.ReportDBConnect = input.ReportDBConnect
	if err := ValidateDatabaseConnectionString(cfg.ReportBackend, cfg.ReportDBConnect); err != nil {
		return err
	}

	// --- Run Backend Validation ---
	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(input.RunBackend))
	if cfg.RunBackend == "" {
		cfg.RunBackend = schema.NoneBackend
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunBackend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
	}
	cfg.RunDBConnect = input.RunDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.ReportBackend == schema.SQLiteBackend && cfg.RunBackend == schema.SQLiteBackend {
		reportPath := cfg.ReportDBConnect
		if reportPath == "" {
			reportPath = GetReportDBFilePath()
		}
		runPath := cfg.RunDBConnect
		if runPath == "" {
			runPath = GetRunDBFilePath()
		}
		if reportPath == runPath {
			return fmt.Errorf("report and run storage must use different SQLite database files. Both resolve to %q", reportPath)
		}
	}

	return nil
}

// ParseMetricList splits a comma separated metric list, dropping blanks and
// repeats while keeping order.
func ParseMetricList(s string) []string {
	var metrics []string
	seen := make(map[string]struct{})
	for part := range strings.SplitSeq(s, ",") {
		m := strings.TrimSpace(part)
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		metrics = append(metrics, m)
	}
	return metrics
}

// GetReportDBFilePath returns the path to the SQLite DB file for report storage.
func GetReportDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scorecards_reports.db"
	}
	return filepath.Join(homeDir, ".scorecards_reports.db")
}

// GetRunDBFilePath returns the path to the SQLite DB file for run storage.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scorecards_runs.db"
	}
	return filepath.Join(homeDir, ".scorecards_runs.db")
}
