package resolve

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"neuroconf-hq/neuroconf/pkg/document"
)

// DefaultMaxDepth bounds include recursion. Real configuration trees are a
// few levels deep; anything past this is a cycle the stack check missed
// (for example a file including itself through a symlink).
const DefaultMaxDepth = 12

// Options configures a Resolver.
type Options struct {
	// MaxDepth is the maximum include nesting depth. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// Logger receives debug-level expansion events. Nil means slog.Default.
	Logger *slog.Logger
}

// Stats counts the directives expanded during one resolution.
type Stats struct {
	SingleIncludes int
	GlobIncludes   int
	GlobMatches    int
	OpaqueIncludes int
}

// Resolver expands include directives into literal document fragments.
// A Resolver is not safe for concurrent use; each resolution run should
// use its own, or call ResolveFile sequentially.
type Resolver struct {
	maxDepth int
	logger   *slog.Logger

	// stack holds the absolute paths currently being expanded, for cycle
	// detection. Re-including a file in a different branch is legal and
	// loads it again.
	stack []string

	stats Stats
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		maxDepth: maxDepth,
		logger:   logger.With("component", "resolve"),
	}
}

// ResolveFile loads the document at path and expands every include
// directive, returning a fully literal tree. Errors on the root document
// are fatal; there is no partial result.
func (r *Resolver) ResolveFile(path string) (*document.Node, error) {
	r.stack = r.stack[:0]
	r.stats = Stats{}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %q: %w", path, err)
	}
	return r.loadAndExpand(abs, "", 0)
}

// Stats returns the directive counts of the last ResolveFile call.
func (r *Resolver) Stats() Stats {
	return r.stats
}

// loadAndExpand reads, parses and expands one document. from names the
// including document; it is empty for the root.
func (r *Resolver) loadAndExpand(path, from string, depth int) (*document.Node, error) {
	if depth > r.maxDepth {
		return nil, &CyclicIncludeError{Stack: r.stackCopy(path)}
	}
	for _, p := range r.stack {
		if p == path {
			return nil, &CyclicIncludeError{Stack: r.stackCopy(path)}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if from != "" && errors.Is(err, fs.ErrNotExist) {
			return nil, &IncludeNotFoundError{Path: path, IncludedFrom: from}
		}
		return nil, fmt.Errorf("read configuration file %q: %w", path, err)
	}

	node, err := document.ParseBytes(data, path)
	if err != nil {
		return nil, err
	}

	r.stack = append(r.stack, path)
	expanded, err := r.expand(node, filepath.Dir(path), path, depth)
	r.stack = r.stack[:len(r.stack)-1]
	return expanded, err
}

// expand walks the tree and replaces directive nodes with their expansion.
// Non-directive nodes are returned as-is; expansion never mutates inputs
// below a directive boundary.
func (r *Resolver) expand(n *document.Node, dir, source string, depth int) (*document.Node, error) {
	switch n.Kind {
	case document.KindMapping:
		out := &document.Node{Kind: document.KindMapping, Line: n.Line, Column: n.Column}
		for _, e := range n.Entries {
			value, err := r.expand(e.Value, dir, source, depth)
			if err != nil {
				return nil, err
			}
			out.Entries = append(out.Entries, document.Entry{Key: e.Key, Value: value})
		}
		return out, nil

	case document.KindSequence:
		out := &document.Node{Kind: document.KindSequence, Line: n.Line, Column: n.Column}
		for _, item := range n.Items {
			expanded, err := r.expand(item, dir, source, depth)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, expanded)
		}
		return out, nil

	case document.KindDirective:
		return r.expandDirective(n.Directive, dir, source, depth)

	default:
		return n, nil
	}
}

// expandDirective dispatches on the directive kind decided at parse time.
func (r *Resolver) expandDirective(d *document.Directive, dir, source string, depth int) (*document.Node, error) {
	target := d.Target
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}

	switch d.Kind {
	case document.SingleInclude:
		r.stats.SingleIncludes++
		r.logger.Debug("expanding include", "target", target, "from", source)
		return r.loadAndExpand(target, source, depth+1)

	case document.GlobInclude:
		r.stats.GlobIncludes++
		return r.expandGlob(target, source, depth)

	case document.OpaqueInclude:
		r.stats.OpaqueIncludes++
		data, err := os.ReadFile(target)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &IncludeNotFoundError{Path: target, IncludedFrom: source}
			}
			return nil, fmt.Errorf("read include %q: %w", target, err)
		}
		r.logger.Debug("loaded opaque include", "target", target, "bytes", len(data))
		return document.NewScalar(string(data)), nil

	default:
		return nil, fmt.Errorf("unknown directive kind %q", d.Kind)
	}
}

// expandGlob expands a glob pattern against the filesystem at resolution
// time. Matches merge in lexicographic path order so the result does not
// depend on filesystem enumeration order; this sort is a contract, not an
// optimization. Zero matches resolve to an empty fragment.
func (r *Resolver) expandGlob(pattern, source string, depth int) (*document.Node, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &document.ParseError{
			Path: source,
			Err:  fmt.Errorf("bad glob pattern %q: %w", pattern, err),
		}
	}
	sort.Strings(matches)

	r.logger.Debug("expanding glob include",
		"pattern", pattern,
		"matches", len(matches),
		"from", source,
	)

	merged := document.NewMapping()
	for _, match := range matches {
		r.stats.GlobMatches++
		fragment, err := r.loadAndExpand(match, source, depth+1)
		if err != nil {
			return nil, err
		}
		merged = Merge(merged, fragment)
	}
	return merged, nil
}

// stackCopy snapshots the expansion stack with the offending path appended.
func (r *Resolver) stackCopy(path string) []string {
	out := make([]string, 0, len(r.stack)+1)
	out = append(out, r.stack...)
	return append(out, path)
}
