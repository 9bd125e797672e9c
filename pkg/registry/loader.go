package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"neuroconf-hq/neuroconf/pkg/audit"
	"neuroconf-hq/neuroconf/pkg/descriptor"
	"neuroconf-hq/neuroconf/pkg/document"
	"neuroconf-hq/neuroconf/pkg/resolve"
	"neuroconf-hq/neuroconf/pkg/telemetry/metrics"
)

// Reserved top-level keys interpreted by the loader. Everything else is a
// passthrough extra.
const (
	datasetsKey = "datasets"
	defaultsKey = "global_defaults"
)

// Skipped is one dataset entry omitted from the registry, with the
// validation error that excluded it.
type Skipped struct {
	Name string
	Err  error
}

// Result is the outcome of one resolution run: the registry that was
// built plus the entries skipped for validation errors. A non-empty
// Skipped list distinguishes "registry built with omissions" from a clean
// run; an aborted run produces no Result at all.
type Result struct {
	// RunID uniquely identifies this resolution run.
	RunID string

	// Registry holds the successfully built descriptors.
	Registry *Registry

	// Skipped lists the dataset entries omitted from the registry.
	Skipped []Skipped
}

// Options configures a Loader.
type Options struct {
	// MaxDepth bounds include recursion; zero means resolve.DefaultMaxDepth.
	MaxDepth int

	// Normalizer overrides per-dataset identifier normalization.
	Normalizer descriptor.IDNormalizer

	// Logger receives pipeline events. Nil means slog.Default.
	Logger *slog.Logger

	// Metrics, when set, records per-run counters and durations.
	Metrics *metrics.Collector

	// Audit, when set, appends every completed run to the audit trail.
	Audit *audit.Store
}

// Loader runs the full resolution pipeline. It is safe for concurrent use:
// each Load call uses its own resolver state.
type Loader struct {
	opts   Options
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		opts:   opts,
		logger: logger.With("component", "registry"),
	}
}

// Load resolves the configuration tree rooted at path into a Result.
//
// Parse and include errors on the root document (or anything it reaches)
// abort the run. A validation error in one dataset entry does not: the
// entry lands in Result.Skipped and its siblings still resolve.
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	logger := l.logger.With("run_id", runID, "path", path)

	resolver := resolve.New(resolve.Options{
		MaxDepth: l.opts.MaxDepth,
		Logger:   l.logger,
	})
	merged, err := resolver.ResolveFile(path)
	if err != nil {
		if l.opts.Metrics != nil {
			l.opts.Metrics.RecordResolution(metrics.OutcomeAborted, time.Since(start), 0, 0)
		}
		logger.Error("resolution aborted", "error", err)
		return nil, err
	}
	if !merged.IsMapping() {
		if l.opts.Metrics != nil {
			l.opts.Metrics.RecordResolution(metrics.OutcomeAborted, time.Since(start), 0, 0)
		}
		return nil, fmt.Errorf("root document %q: top-level value must be a mapping", path)
	}

	result := &Result{RunID: runID, Registry: &Registry{
		descriptors: make(map[string]*descriptor.Descriptor),
	}}

	defaults := merged.Get(defaultsKey)
	if defaults != nil && !defaults.IsMapping() && !defaults.IsNull() {
		if l.opts.Metrics != nil {
			l.opts.Metrics.RecordResolution(metrics.OutcomeAborted, time.Since(start), 0, 0)
		}
		return nil, fmt.Errorf("root document %q: %s must be a mapping", path, defaultsKey)
	}
	if defaults != nil && defaults.IsNull() {
		defaults = nil
	}

	builder := &descriptor.Builder{
		Defaults:   defaults,
		Normalizer: l.opts.Normalizer,
		Logger:     l.logger,
	}

	datasets := merged.Get(datasetsKey)
	switch {
	case datasets == nil || datasets.IsNull():
		logger.Warn("no datasets section in configuration")
	case !datasets.IsMapping():
		if l.opts.Metrics != nil {
			l.opts.Metrics.RecordResolution(metrics.OutcomeAborted, time.Since(start), 0, 0)
		}
		return nil, fmt.Errorf("root document %q: %s must be a mapping", path, datasetsKey)
	default:
		for _, entry := range datasets.Entries {
			d, err := builder.Build(entry.Key, entry.Value)
			if err != nil {
				logger.Warn("skipping dataset", "dataset", entry.Key, "error", err)
				result.Skipped = append(result.Skipped, Skipped{Name: entry.Key, Err: err})
				continue
			}
			result.Registry.order = append(result.Registry.order, entry.Key)
			result.Registry.descriptors[entry.Key] = d
		}
	}

	for _, entry := range merged.Entries {
		if entry.Key == datasetsKey || entry.Key == defaultsKey {
			continue
		}
		result.Registry.extras = append(result.Registry.extras, document.Entry{
			Key:   entry.Key,
			Value: entry.Value,
		})
	}

	duration := time.Since(start)
	outcome := metrics.OutcomeOK
	if len(result.Skipped) > 0 {
		outcome = metrics.OutcomePartial
	}
	if l.opts.Metrics != nil {
		stats := resolver.Stats()
		l.opts.Metrics.RecordResolution(outcome, duration, result.Registry.Len(), len(result.Skipped))
		l.opts.Metrics.RecordIncludes(stats.SingleIncludes, stats.GlobIncludes, stats.OpaqueIncludes)
	}
	if l.opts.Audit != nil {
		if err := l.opts.Audit.RecordRun(ctx, auditRecord(result, path, start, duration)); err != nil {
			// The audit trail is advisory; a write failure must not fail
			// an otherwise successful resolution.
			logger.Warn("audit write failed", "error", err)
		}
	}

	logger.Info("resolution complete",
		"datasets", result.Registry.Len(),
		"skipped", len(result.Skipped),
		"duration_ms", duration.Milliseconds(),
	)
	return result, nil
}

// auditRecord maps a Result onto the audit store's row type.
func auditRecord(result *Result, path string, start time.Time, duration time.Duration) *audit.RunRecord {
	rec := &audit.RunRecord{
		RunID:        result.RunID,
		StartedAt:    start,
		Duration:     duration,
		RootPath:     path,
		DatasetNames: make([]string, 0, result.Registry.Len()),
	}
	for _, nd := range result.Registry.All() {
		rec.DatasetNames = append(rec.DatasetNames, nd.Name)
	}
	for _, s := range result.Skipped {
		rec.Skipped = append(rec.Skipped, audit.SkippedDataset{Name: s.Name, Error: s.Err.Error()})
	}
	return rec
}
