// Command grader grades a single spreadsheet submission against the
// reference solution and prints the submitter-visible feedback.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mind-engage/sheetgrader/internal/config"
	"github.com/mind-engage/sheetgrader/internal/grader"
	"github.com/mind-engage/sheetgrader/internal/report"
)

var (
	solutionPath string
	feedbackPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "grader [submission.xlsx]",
		Short: "Grade a spreadsheet submission against the reference solution",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	rootCmd.Flags().StringVarP(&solutionPath, "solution", "s", "", "Solution file path (default: SOLUTION_PATH env or solution.xlsx)")
	rootCmd.Flags().StringVarP(&feedbackPath, "feedback", "f", "", "Feedback output path (default: <submission>.feedback.txt)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	if solutionPath == "" {
		solutionPath = cfg.SolutionPath
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

	submission := args[0]
	res := g.GradeFile(submission, sol)

	// Score line and match-count line.
	fmt.Println(res.Feedback)

	out := feedbackPath
	if out == "" {
		out = strings.TrimSuffix(submission, ".xlsx")
		out = strings.TrimSuffix(out, ".xlsm") + ".feedback.txt"
	}
	if err := report.SaveFeedback(out, res.Feedback); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}
