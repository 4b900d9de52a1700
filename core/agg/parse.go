package agg

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
)

// Identity columns of a report CSV. Every other column is a metric.
const (
	clinicColumn        = "clinic"
	periodColumn        = "period"
	trafficSourceColumn = "traffic_source"
)

// periodAliases are accepted in place of the period header.
var periodAliases = map[string]struct{}{
	"month": {},
	"week":  {},
}

// ParseReportCSV reads report rows from CSV with a header line. Blank cells,
// "-" and "null" read as nil values. Metric cells may carry "$" and "," as
// exported by spreadsheets.
func ParseReportCSV(r io.Reader) ([]schema.ReportRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("report csv is empty")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	clinicIdx, periodIdx, sourceIdx := -1, -1, -1
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		header[i] = h
		switch h {
		case clinicColumn:
			clinicIdx = i
		case periodColumn:
			periodIdx = i
		case trafficSourceColumn:
			sourceIdx = i
		default:
			if _, ok := periodAliases[h]; ok && periodIdx < 0 {
				periodIdx = i
			}
		}
	}
	if clinicIdx < 0 || periodIdx < 0 {
		return nil, fmt.Errorf("csv header must contain %q and %q columns", clinicColumn, periodColumn)
	}

	var records []schema.ReportRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		rec := schema.ReportRecord{
			Clinic: strings.TrimSpace(row[clinicIdx]),
			Period: strings.TrimSpace(row[periodIdx]),
			Values: make(map[string]*float64),
		}
		if sourceIdx >= 0 {
			rec.TrafficSource = strings.TrimSpace(row[sourceIdx])
		}
		if rec.Clinic == "" || rec.Period == "" {
			return nil, fmt.Errorf("line %d: clinic and period are required", line)
		}

		for i, cell := range row {
			if i == clinicIdx || i == periodIdx || i == sourceIdx {
				continue
			}
			v, err := schema.ParseNullableFloat(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, header[i], err)
			}
			rec.Values[header[i]] = v
		}
		records = append(records, rec)
	}
	return records, nil
}
