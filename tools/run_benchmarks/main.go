// Package main provides the benchmark runner for path strategies.
// Runs every strategy on the generated layouts and collects metrics.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elektrokombinacija/warehouse-sim/internal/algo"
	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
)

// LayoutFile mirrors the output of gen_layouts.
type LayoutFile struct {
	Name   string     `json:"name"`
	Params sim.Params `json:"params"`
}

// BenchmarkResult stores the outcome of a single strategy run.
type BenchmarkResult struct {
	RunID     string  `json:"run_id"`
	Timestamp string  `json:"timestamp"`
	GoVersion string  `json:"go_version"`
	OS        string  `json:"os"`
	Arch      string  `json:"arch"`
	Layout    string  `json:"layout"`
	GridSize  string  `json:"grid_size"`
	Robots    int     `json:"robots"`
	Items     int     `json:"items"`
	Strategy  string  `json:"strategy"`
	RuntimeMs float64 `json:"runtime_ms"`
	Success   bool    `json:"success"`
	Ticks     int     `json:"ticks"`
	Steps     int     `json:"steps"`
	Delivered int     `json:"delivered"`
}

// strategyMetrics aggregates results per strategy.
type strategyMetrics struct {
	name      string
	runs      int
	successes int
	runtimeMs float64
	ticks     int
	steps     int
}

func loadLayout(path string) (*LayoutFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var l LayoutFile
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func runStrategy(layout *LayoutFile, strategy string, timeout time.Duration) *BenchmarkResult {
	result := &BenchmarkResult{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Layout:    layout.Name,
		GridSize:  fmt.Sprintf("%dx%d", layout.Params.Width, layout.Params.Height),
		Robots:    layout.Params.Robots,
		Items:     layout.Params.Items,
		Strategy:  strategy,
	}

	params := layout.Params
	params.Strategy = strategy
	params.Verbose = false

	tracker := sim.NewPerformanceTracker()
	s, err := sim.New(params, tracker)
	if err != nil {
		return result
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	runErr := s.Run(ctx)
	result.RuntimeMs = float64(time.Since(start).Microseconds()) / 1000.0

	result.Success = runErr == nil
	result.Ticks = s.Tick()
	result.Steps = tracker.Steps
	result.Delivered = tracker.Delivered
	return result
}

func writeCSV(results []*BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"run_id", "timestamp", "go_version", "os", "arch",
		"layout", "grid_size", "robots", "items", "strategy",
		"runtime_ms", "success", "ticks", "steps", "delivered",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.RunID, r.Timestamp, r.GoVersion, r.OS, r.Arch,
			r.Layout, r.GridSize, fmt.Sprintf("%d", r.Robots), fmt.Sprintf("%d", r.Items),
			r.Strategy,
			fmt.Sprintf("%.3f", r.RuntimeMs), fmt.Sprintf("%t", r.Success),
			fmt.Sprintf("%d", r.Ticks), fmt.Sprintf("%d", r.Steps), fmt.Sprintf("%d", r.Delivered),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(results []*BenchmarkResult) {
	metrics := make(map[string]*strategyMetrics)
	for _, r := range results {
		m, ok := metrics[r.Strategy]
		if !ok {
			m = &strategyMetrics{name: r.Strategy}
			metrics[r.Strategy] = m
		}
		m.runs++
		if r.Success {
			m.successes++
			m.runtimeMs += r.RuntimeMs
			m.ticks += r.Ticks
			m.steps += r.Steps
		}
	}

	fmt.Println("\n=== BENCHMARK SUMMARY ===")
	fmt.Printf("%-12s %8s %8s %12s %10s %10s\n",
		"Strategy", "Runs", "Success", "Avg Time(ms)", "Avg Ticks", "Avg Steps")
	fmt.Println(strings.Repeat("-", 64))

	var names []string
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := metrics[name]
		avgTime, avgTicks, avgSteps := 0.0, 0.0, 0.0
		if m.successes > 0 {
			avgTime = m.runtimeMs / float64(m.successes)
			avgTicks = float64(m.ticks) / float64(m.successes)
			avgSteps = float64(m.steps) / float64(m.successes)
		}
		fmt.Printf("%-12s %8d %8d %12.2f %10.1f %10.1f\n",
			m.name, m.runs, m.successes, avgTime, avgTicks, avgSteps)
	}
}

func main() {
	inputDir := flag.String("input", "testdata", "Directory containing layout JSON files")
	outputFile := flag.String("output", "evidence/benchmark_results.csv", "Output CSV file")
	timeout := flag.Duration("timeout", time.Minute, "Timeout per run")
	strategyFilter := flag.String("strategy", "", "Run only specific strategies (comma-separated)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	outputDir := filepath.Dir(*outputFile)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	files, err := filepath.Glob(filepath.Join(*inputDir, "*.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding layout files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No layout files found in %s\n", *inputDir)
		fmt.Fprintf(os.Stderr, "Run gen_layouts first: go run ./tools/gen_layouts -output %s\n", *inputDir)
		os.Exit(1)
	}

	strategies := algo.Names()
	if *strategyFilter != "" {
		strategies = strings.Split(*strategyFilter, ",")
	}

	var results []*BenchmarkResult
	totalRuns := len(files) * len(strategies)
	currentRun := 0

	fmt.Printf("Running benchmarks: %d layouts x %d strategies = %d runs\n",
		len(files), len(strategies), totalRuns)

	for _, file := range files {
		layout, err := loadLayout(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", file, err)
			continue
		}

		for _, strategy := range strategies {
			currentRun++
			if *verbose {
				fmt.Printf("[%d/%d] %s / %s ... ", currentRun, totalRuns, layout.Name, strategy)
			} else {
				fmt.Printf("\r[%d/%d] Running...", currentRun, totalRuns)
			}

			result := runStrategy(layout, strategy, *timeout)
			results = append(results, result)

			if *verbose {
				if result.Success {
					fmt.Printf("OK (%.2fms, %d ticks)\n", result.RuntimeMs, result.Ticks)
				} else {
					fmt.Printf("FAILED\n")
				}
			}
		}
	}
	fmt.Println()

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results written to: %s\n", *outputFile)

	printSummary(results)
}
