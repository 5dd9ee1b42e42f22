// Command gradebatch grades a directory (or explicit list) of submissions
// and writes a tabular summary report. Report rows keep input order
// regardless of which worker finished first.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/sheetgrader/internal/batch"
	"github.com/mind-engage/sheetgrader/internal/config"
	"github.com/mind-engage/sheetgrader/internal/grader"
	"github.com/mind-engage/sheetgrader/internal/report"
)

var (
	solutionPath string
	csvPath      string
	jsonPath     string
	workers      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gradebatch [dir | file ...]",
		Short: "Grade many submissions and write a summary report",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,
	}
	rootCmd.Flags().StringVarP(&solutionPath, "solution", "s", "", "Solution file path (default: SOLUTION_PATH env or solution.xlsx)")
	rootCmd.Flags().StringVarP(&csvPath, "out", "o", "report.csv", "CSV report path")
	rootCmd.Flags().StringVar(&jsonPath, "json", "", "Optional JSON report path")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", batch.DefaultWorkers, "Concurrent grading workers")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	if solutionPath == "" {
		solutionPath = cfg.SolutionPath
	}

	files := args
	if len(args) == 1 {
		if fi, err := os.Stat(args[0]); err == nil && fi.IsDir() {
			files, err = batch.ListSubmissions(args[0])
			if err != nil {
				return err
			}
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no submissions found")
	}

	g, err := grader.New(cfg.Criteria)
	if err != nil {
		return err
	}
	sol, err := grader.OpenSolution(solutionPath)
	if err != nil {
		return fmt.Errorf("solution: %w", err)
	}
	defer sol.Close()

	rep := batch.Run(context.Background(), g.Bind(sol), files, workers)

	if err := report.SaveCSV(csvPath, rep); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if jsonPath != "" {
		if err := report.SaveJSON(jsonPath, rep); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}

	s := rep.Summary
	fmt.Printf("graded %d files (%d errored): mean=%.2f min=%.2f max=%.2f\n",
		s.Files, s.Errored, s.Mean, s.Min, s.Max)
	return nil
}
