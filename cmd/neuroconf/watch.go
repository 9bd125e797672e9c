package main

import (
	"time"

	"github.com/spf13/cobra"

	"neuroconf-hq/neuroconf/pkg/audit"
	"neuroconf-hq/neuroconf/pkg/registry"
	"neuroconf-hq/neuroconf/pkg/telemetry/metrics"
)

var watchFlags struct {
	debounce time.Duration
	schedule string
	auditDB  string
}

var watchCmd = &cobra.Command{
	Use:   "watch <config.yml>",
	Short: "Re-resolve the configuration tree on every change",
	Long: `Watch the configuration tree and re-run the full resolution pipeline
whenever a document changes, logging each run. Every reload builds a fresh
registry; a failed reload keeps the previous one current.

Examples:
  # Watch with default debouncing
  neuroconf watch datasets.yml

  # Also refresh hourly, for trees on network mounts
  neuroconf watch datasets.yml --schedule "0 * * * *"

  # Record every run in an audit database
  neuroconf watch datasets.yml --audit-db runs.db`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 250*time.Millisecond, "quiet period before re-resolving")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", "cron expression for periodic refresh")
	watchCmd.Flags().StringVar(&watchFlags.auditDB, "audit-db", "", "record every run in this audit database")
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts := registry.Options{Metrics: metrics.NewCollector(nil)}

	if watchFlags.auditDB != "" {
		store, err := audit.Open(audit.DefaultConfig(watchFlags.auditDB))
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Audit = store
	}

	cfg := registry.DefaultWatcherConfig(args[0])
	cfg.DebounceInterval = watchFlags.debounce
	cfg.RefreshSchedule = watchFlags.schedule

	watcher, err := registry.NewWatcher(registry.NewLoader(opts), cfg, nil)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	// Results are logged by the watcher itself; nothing extra to do per run.
	return watcher.Watch(cmd.Context(), func(*registry.Result) {})
}
