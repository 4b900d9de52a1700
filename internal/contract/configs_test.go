package contract

import (
	"path/filepath"
	"testing"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns the raw input produced by the default flag values.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:        "text",
		Color:         "yes",
		Workers:       4,
		ReportBackend: "sqlite",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", modify: func(*ConfigRawInput) {}},
		{name: "weekly period axis", modify: func(in *ConfigRawInput) {
			in.Grain = "weekly"
			in.Axis = "period"
			in.Clinic = "alluraderm.com"
		}},
		{name: "period axis without clinic", modify: func(in *ConfigRawInput) { in.Axis = "period" }, expectError: true},
		{name: "invalid grain", modify: func(in *ConfigRawInput) { in.Grain = "daily" }, expectError: true},
		{name: "invalid axis", modify: func(in *ConfigRawInput) { in.Axis = "channel" }, expectError: true},
		{name: "invalid absent policy", modify: func(in *ConfigRawInput) { in.AbsentPolicy = "zero" }, expectError: true},
		{name: "invalid output", modify: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet without file", modify: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "parquet with file", modify: func(in *ConfigRawInput) {
			in.Output = "parquet"
			in.OutputFile = "grid.parquet"
		}},
		{name: "sort by selected metric", modify: func(in *ConfigRawInput) {
			in.Metrics = "spend,cac_total"
			in.SortBy = "cac_total"
			in.Limit = 5
		}},
		{name: "sort by unselected metric", modify: func(in *ConfigRawInput) { in.SortBy = "ltv" }, expectError: true},
		{name: "negative limit", modify: func(in *ConfigRawInput) { in.Limit = -1 }, expectError: true},
		{name: "invalid workers (zero)", modify: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "invalid workers (too many)", modify: func(in *ConfigRawInput) { in.Workers = MaxWorkers + 1 }, expectError: true},
		{name: "negative width", modify: func(in *ConfigRawInput) { in.Width = -1 }, expectError: true},
		{name: "invalid color", modify: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "invalid log level", modify: func(in *ConfigRawInput) { in.LogLevel = "loud" }, expectError: true},
		{name: "invalid report backend", modify: func(in *ConfigRawInput) { in.ReportBackend = "oracle" }, expectError: true},
		{name: "invalid run backend", modify: func(in *ConfigRawInput) { in.RunBackend = "oracle" }, expectError: true},
		{name: "mysql report backend without dsn", modify: func(in *ConfigRawInput) { in.ReportBackend = "mysql" }, expectError: true},
		{name: "mysql report backend", modify: func(in *ConfigRawInput) {
			in.ReportBackend = "mysql"
			in.ReportDBConnect = "user:pass@tcp(localhost:3306)/reports"
		}},
		{name: "sqlite run backend on its own file", modify: func(in *ConfigRawInput) {
			in.RunBackend = "sqlite"
			in.RunDBConnect = filepath.Join(t.TempDir(), "runs.db")
		}},
		{name: "sqlite stores share a file", modify: func(in *ConfigRawInput) {
			in.RunBackend = "sqlite"
			in.RunDBConnect = GetReportDBFilePath()
		}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, schema.MonthlyGrain, cfg.Grain)
	assert.Equal(t, schema.ClinicAxis, cfg.Axis)
	assert.Equal(t, schema.MedianPolicy, cfg.AbsentPolicy)
	assert.Equal(t, DefaultMetrics, cfg.Metrics)
	assert.Equal(t, schema.NoneBackend, cfg.RunBackend)
	assert.Equal(t, "", cfg.Scope())
}

func TestProcessAndValidate_GridInputs(t *testing.T) {
	input := validInput()
	input.Output = "JSON"
	input.Axis = "Period"
	input.Clinic = " alluraderm.com "
	input.Metrics = "spend, cac_total,,spend"
	input.AbsentPolicy = "interpolate"
	input.WoW = true

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, schema.PeriodAxis, cfg.Axis)
	assert.Equal(t, "alluraderm.com", cfg.Scope())
	assert.Equal(t, []string{"spend", "cac_total"}, cfg.Metrics)
	assert.Equal(t, schema.InterpolatePolicy, cfg.AbsentPolicy)
	assert.True(t, cfg.WeekOverWeek)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Metrics: []string{"spend"}, Period: "2025-06-01"}
	clone := cfg.Clone()
	clone.Metrics[0] = "leads"
	clone.Period = "2025-07-01"

	assert.Equal(t, "spend", cfg.Metrics[0])
	assert.Equal(t, "2025-06-01", cfg.Period)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(127.0.0.1:3306)/scorecards", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql no database", schema.MySQLBackend, "root:pw@tcp(127.0.0.1:3306)/", true},
		{"mysql malformed", schema.MySQLBackend, "not a dsn", true},
		{"postgres keyword form", schema.PostgreSQLBackend, "host=localhost port=5432 user=app dbname=scorecards sslmode=disable", false},
		{"postgres url form", schema.PostgreSQLBackend, "postgres://app:pw@localhost:5432/scorecards?sslmode=disable", false},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseMetricList(t *testing.T) {
	assert.Nil(t, ParseMetricList(""))
	assert.Nil(t, ParseMetricList(" , ,"))
	assert.Equal(t, []string{"spend", "leads"}, ParseMetricList("spend,leads,spend"))
	assert.Equal(t, []string{"%new_conversion"}, ParseMetricList(" %new_conversion "))
}

func TestGetDBFilePaths(t *testing.T) {
	assert.Contains(t, GetReportDBFilePath(), ".scorecards_reports.db")
	assert.Contains(t, GetRunDBFilePath(), ".scorecards_runs.db")
	assert.NotEqual(t, GetReportDBFilePath(), GetRunDBFilePath())
}

func TestRevalidateGrid(t *testing.T) {
	cfg := &Config{
		Grain:        schema.WeeklyGrain,
		Axis:         schema.ClinicAxis,
		Period:       "2025-W23",
		Metrics:      []string{"spend", "leads"},
		AbsentPolicy: schema.InterpolatePolicy,
		SortBy:       "leads",
		Limit:        5,
	}

	input := GridInputs(cfg)
	assert.Equal(t, "spend,leads", input.Metrics)
	require.NoError(t, RevalidateGrid(cfg, input))
	assert.Equal(t, schema.WeeklyGrain, cfg.Grain)
	assert.Equal(t, schema.InterpolatePolicy, cfg.AbsentPolicy)
	assert.Equal(t, []string{"spend", "leads"}, cfg.Metrics)
	assert.Equal(t, 5, cfg.Limit)

	input.Axis = "period"
	input.Clinic = ""
	assert.ErrorContains(t, RevalidateGrid(cfg, input), "--clinic is required")

	input = GridInputs(cfg)
	input.Axis = "clinic"
	input.Metrics = "spend"
	assert.ErrorContains(t, RevalidateGrid(cfg, input), "--sort-by")
}
