package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elektrokombinacija/warehouse-sim/internal/config"
	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless simulation to completion",
	Long: `Run steps the simulation until every item is delivered or the tick
ceiling is reached, then prints a summary and optionally writes a JSON
report.`,
	RunE: runRun,
}

var runReportPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("width", 0, "grid width")
	runCmd.Flags().Int("height", 0, "grid height")
	runCmd.Flags().Int("robots", 0, "robot count")
	runCmd.Flags().Int("items", 0, "item count")
	runCmd.Flags().Int64("seed", 0, "random seed")
	runCmd.Flags().String("strategy", "", "path strategy (astar, dijkstra)")
	runCmd.Flags().Bool("verbose", false, "log simulation events")
	runCmd.Flags().StringVarP(&runReportPath, "out", "o", "", "write JSON report to file")

	_ = viper.BindPFlag("grid.width", runCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("grid.height", runCmd.Flags().Lookup("height"))
	_ = viper.BindPFlag("fleet.robots", runCmd.Flags().Lookup("robots"))
	_ = viper.BindPFlag("items.count", runCmd.Flags().Lookup("items"))
	_ = viper.BindPFlag("run.seed", runCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("path.strategy", runCmd.Flags().Lookup("strategy"))
	_ = viper.BindPFlag("run.verbose", runCmd.Flags().Lookup("verbose"))
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tracker := sim.NewPerformanceTracker()
	s, err := sim.New(cfg.Params(), tracker)
	if err != nil {
		return fmt.Errorf("create simulation: %w", err)
	}

	runErr := s.Run(context.Background())

	report := s.ReportFrom(tracker)
	fmt.Printf("Run %s\n", report.RunID)
	fmt.Printf("Ticks: %d\n", report.Ticks)
	fmt.Printf("Delivered: %d items in %d steps\n", report.Stats.Delivered, report.Stats.Steps)
	if report.Stats.Delivered > 0 {
		fmt.Printf("Steps per item: %.1f\n", report.Stats.StepsPerItem)
	}
	if report.TimedOut {
		fmt.Println("Result: TIMED OUT with items outstanding")
	} else {
		fmt.Println("Result: all items delivered")
	}

	if runReportPath != "" {
		if err := sim.ExportReport(runReportPath, report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report written to %s\n", runReportPath)
	}

	return runErr
}
