// Package main provides a performance benchmarking tool for the Scorecards CLI.
// It generates a synthetic report table, imports it once, then times grid
// renders across worker counts and run tracking backends. Each case runs
// several times; the first successful run counts as cold and the rest are
// averaged as warm. Results are written to CSV for documentation.
//
// Prerequisites:
// - scorecards binary installed and available in PATH
//
// Usage: go run benchmark/main.go [clinics]
//
//	clinics: Number of synthetic clinics per period (default 200)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of one benchmark case.
type BenchmarkResult struct {
	Case       string
	Workers    int
	RunBackend string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Clinics     int
	Periods     int
	Runs        int
	WorkerSets  []int
	RunBackends []string
}

// benchMetrics are the synthetic metric columns, a mix of display classes.
var benchMetrics = []string{"spend", "leads", "total_conversion", "cac_total", "total_roas", "total_appointments", "impressions"}

func main() {
	clinics := 200
	if len(os.Args) == 2 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n <= 0 {
			fmt.Printf("Usage: %s [clinics]\n", os.Args[0])
			os.Exit(1)
		}
		clinics = n
	}

	workDir, err := os.MkdirTemp("", "scorecards-bench-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     2 * time.Minute,
		Clinics:     clinics,
		Periods:     12,
		Runs:        5,
		WorkerSets:  []int{1, 4, 14},
		RunBackends: []string{"none", "sqlite"},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	if err := seedReports(config); err != nil {
		fmt.Printf("Failed to seed reports: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the scorecards binary exists.
func checkPrerequisites() error {
	if _, err := exec.LookPath("scorecards"); err != nil {
		return fmt.Errorf("scorecards binary not found in PATH")
	}
	return nil
}

// baseEnv keeps every store of the benchmark inside the work directory.
func baseEnv(config BenchmarkConfig, runBackend string) []string {
	return append(os.Environ(),
		"SCORECARDS_REPORT_BACKEND=sqlite",
		"SCORECARDS_REPORT_DB_CONNECT="+filepath.Join(config.WorkDir, "reports.db"),
		"SCORECARDS_RUN_BACKEND="+runBackend,
		"SCORECARDS_RUN_DB_CONNECT="+filepath.Join(config.WorkDir, "runs.db"),
	)
}

// seedReports writes a synthetic monthly report CSV and imports it.
func seedReports(config BenchmarkConfig) error {
	csvPath := filepath.Join(config.WorkDir, "reports.csv")
	file, err := os.Create(csvPath)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	header := append([]string{"clinic", "period", "traffic_source"}, benchMetrics...)
	if err := writer.Write(header); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewPCG(1, 2))
	for c := range config.Clinics {
		clinic := fmt.Sprintf("clinic-%04d.com", c)
		for p := range config.Periods {
			period := start.AddDate(0, p, 0).Format("2006-01-02")
			row := []string{clinic, period, "google ads"}
			for range benchMetrics {
				// One cell in twenty is missing data
				if rng.IntN(20) == 0 {
					row = append(row, "")
					continue
				}
				row = append(row, strconv.FormatFloat(rng.Float64()*1000, 'f', 2, 64))
			}
			if err := writer.Write(row); err != nil {
				_ = file.Close()
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	fmt.Printf("Importing %d synthetic rows...\n", config.Clinics*config.Periods)
	cmd := exec.Command("scorecards", "reports", "import", csvPath)
	cmd.Env = baseEnv(config, "none")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("import failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// runBenchmarks executes every worker count against every run backend.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d clinics, %d periods, %v timeout, %d runs per case\n",
		config.Clinics, config.Periods, config.Timeout, config.Runs)

	for _, backend := range config.RunBackends {
		for _, workers := range config.WorkerSets {
			results = append(results, runBenchmarkCase(config, "clinic grid", workers, backend, nil))
		}
		results = append(results, runBenchmarkCase(config, "clinic grid wow", config.WorkerSets[len(config.WorkerSets)-1], backend, []string{"--wow"}))
	}

	return results
}

// runBenchmarkCase times one grid configuration.
func runBenchmarkCase(config BenchmarkConfig, name string, workers int, runBackend string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s with %d workers (run backend %s)\n", name, workers, runBackend)

	args := []string{"grid", "--color", "no", "--workers", strconv.Itoa(workers), "--metrics", strings.Join(benchMetrics, ",")}
	args = append(args, extraArgs...)

	coldTime, warmTimes := runBenchmark(config, args, runBackend)

	result := BenchmarkResult{
		Case:       name,
		Workers:    workers,
		RunBackend: runBackend,
		ColdTime:   "TIMEOUT",
		WarmTime:   "TIMEOUT",
	}
	if coldTime > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", coldTime)
	}
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
	return result
}

// runBenchmark executes a scorecards command several times and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, args []string, runBackend string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for range config.Runs {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()

		cmd := exec.CommandContext(ctx, "scorecards", args...)
		cmd.Env = baseEnv(config, runBackend)
		output, err := cmd.CombinedOutput()
		if err == nil && isSuccess(output) {
			times = append(times, time.Since(start).Seconds())
		}
		cancel()
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates a rendered grid.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Grid rendered in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/scorecards_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"case", "workers", "run_backend", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Case, strconv.Itoa(result.Workers), result.RunBackend, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, backend := range []string{"none", "sqlite"} {
		fmt.Printf("Run backend %s:\n", backend)
		for _, result := range results {
			if result.RunBackend == backend {
				fmt.Printf("  %-16s %2d workers: Cold: %s, Warm: %s\n", result.Case, result.Workers, result.ColdTime, result.WarmTime)
			}
		}
	}
}
