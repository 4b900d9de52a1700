package iocache

import (
	"fmt"
	"io"
	"slices"

	"github.com/BrandRap-LLC/scorecards-sub002/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintReportStatus prints report store status information.
func PrintReportStatus(w io.Writer, status schema.ReportStatus) {
	_, _ = fmt.Fprintf(w, "Report Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintln(w, "Report Tables:")
	for _, table := range sortedKeys(status.TableRows) {
		latest := status.LatestPeriod[table]
		if latest == "" {
			latest = "-"
		}
		_, _ = fmt.Fprintf(w, "  %s: %d rows (latest period %s)\n", table, status.TableRows[table], latest)
	}
}

// PrintRunStatus prints run store status information.
func PrintRunStatus(w io.Writer, status schema.RunStatus) {
	_, _ = fmt.Fprintf(w, "Run Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Total Cells Rendered: %d\n", status.TotalCells)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range sortedKeys(status.TableSizes) {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
