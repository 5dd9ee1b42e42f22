// Command autograder is the hosted-platform entrypoint: it discovers the
// dropped submission, grades it, and emits the platform's JSON feedback
// payload to stdout and the feedback file. It always emits exactly one
// payload, even when grading cannot start.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/sheetgrader/internal/config"
	"github.com/mind-engage/sheetgrader/internal/grader"
	"github.com/mind-engage/sheetgrader/internal/hosted"
)

var partFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:   "autograder",
		Short: "Grade the dropped submission and emit platform feedback",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	rootCmd.Flags().StringVar(&partFlag, "part", "", "Assignment part id (default: partId env)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()

	sink := &hosted.FileSink{Path: cfg.FeedbackPath, Out: os.Stdout}

	partID := partFlag
	if partID == "" {
		partID = os.Getenv("partId")
	}

	g, err := grader.New(cfg.Criteria)
	if err != nil {
		log.Printf("criteria: %v", err)
		return sink.Send(hosted.Feedback{Feedback: "Internal error: grader misconfigured."})
	}
	sol, err := grader.OpenSolution(cfg.SolutionPath)
	if err != nil {
		log.Printf("solution %s: %v", cfg.SolutionPath, err)
		return sink.Send(hosted.Feedback{Feedback: "Internal error: solution worksheet not found."})
	}
	defer sol.Close()

	ag := &hosted.Autograder{
		PartID:  cfg.PartID,
		DropDir: cfg.DropDir,
		WorkDir: cfg.WorkDir,
		Grader:  g.Bind(sol),
		Sink:    sink,
	}
	return ag.Run(partID)
}
