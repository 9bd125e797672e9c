package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"neuroconf-hq/neuroconf/pkg/audit"
)

var runsFlags struct {
	auditDB string
	limit   int
	runID   string
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded resolution runs",
	Long: `Query the resolution audit trail.

Examples:
  # Show the most recent runs
  neuroconf runs --audit-db runs.db

  # Show one run in full
  neuroconf runs --audit-db runs.db --run-id 4f1c...`,
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVar(&runsFlags.auditDB, "audit-db", "", "audit database path (required)")
	runsCmd.Flags().IntVar(&runsFlags.limit, "limit", 20, "maximum runs to list")
	runsCmd.Flags().StringVar(&runsFlags.runID, "run-id", "", "show one run by ID")
	runsCmd.MarkFlagRequired("audit-db")
}

func runRuns(cmd *cobra.Command, args []string) error {
	store, err := audit.Open(audit.DefaultConfig(runsFlags.auditDB))
	if err != nil {
		return err
	}
	defer store.Close()

	if runsFlags.runID != "" {
		rec, err := store.GetRun(cmd.Context(), runsFlags.runID)
		if err != nil {
			return err
		}
		printRun(rec)
		return nil
	}

	recs, err := store.RecentRuns(cmd.Context(), runsFlags.limit)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		fmt.Printf("%s  %s  %s  built=%d skipped=%d\n",
			rec.RunID,
			rec.StartedAt.Format("2006-01-02 15:04:05"),
			rec.RootPath,
			len(rec.DatasetNames),
			len(rec.Skipped),
		)
	}
	return nil
}

func printRun(rec *audit.RunRecord) {
	fmt.Printf("Run:      %s\n", rec.RunID)
	fmt.Printf("Started:  %s\n", rec.StartedAt.Format("2006-01-02 15:04:05.000"))
	fmt.Printf("Duration: %s\n", rec.Duration)
	fmt.Printf("Root:     %s\n", rec.RootPath)
	fmt.Printf("Datasets: %s\n", strings.Join(rec.DatasetNames, ", "))
	for _, skipped := range rec.Skipped {
		fmt.Printf("Skipped:  %s: %s\n", skipped.Name, skipped.Error)
	}
}
