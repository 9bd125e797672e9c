package descriptor

import (
	"regexp"
	"sort"
)

// Span is a [start, end] pair where either bound may be open-ended.
// An open bound is an explicit nil, not an omitted value.
type Span struct {
	Lo *float64
	Hi *float64
}

// Overlaps reports whether [lo, hi) intersects the span, treating open
// bounds as unbounded on that side.
func (s Span) Overlaps(lo, hi float64) bool {
	if s.Lo != nil && hi <= *s.Lo {
		return false
	}
	if s.Hi != nil && lo >= *s.Hi {
		return false
	}
	return true
}

// MoabbSource describes an external dataset provider instead of a
// filesystem root. It is mutually exclusive with Toplevel.
type MoabbSource struct {
	// Name is the provider dataset name.
	Name string

	// Params holds provider-specific flags, passed through untouched.
	Params map[string]any
}

// Descriptor is the resolved, validated configuration of one named dataset.
// Descriptors are immutable once built.
type Descriptor struct {
	// Name is the display name; defaults to the dataset's mapping key.
	Name string

	// Toplevel is the filesystem root of the raw recordings. Empty when
	// the dataset comes from an external source instead.
	Toplevel string

	// Moabb is the external-source specification, nil for filesystem
	// datasets.
	Moabb *MoabbSource

	// TMin is the epoch start relative to the event onset, in seconds.
	TMin float64

	// TLen is the epoch length in seconds.
	TLen float64

	// Stride is the sliding-window step in seconds when no discrete events
	// are configured; nil means event-locked epoching only.
	Stride *float64

	// Events maps event labels to integer codes. Empty when the dataset
	// uses sliding-window epoching.
	Events map[string]int

	// EventLabels holds the labels in declaration order.
	EventLabels []string

	// Picks selects channel types or explicit channel names.
	Picks []string

	// Decimate is the downsampling factor; 1 means no decimation.
	Decimate int

	// Baseline is the baseline-correction window, nil when unset.
	Baseline *Span

	// Bandpass is the [low, high] filter band; an open bound makes the
	// filter low- or high-pass only. Nil when no filtering is configured.
	Bandpass *Span

	// DropBad discards epochs the signal reader flags as corrupt.
	DropBad bool

	// Min and Max are optional per-epoch amplitude clipping bounds.
	Min *float64
	Max *float64

	// FileExtensions are the accepted raw-recording suffixes.
	FileExtensions []string

	// FilenameFormat is a template with named placeholders (for example
	// "{subject}_{session}_raw") used to parse identifiers out of
	// filenames. Empty when filenames are not parsed.
	FilenameFormat string

	// Extras holds dataset-level keys this engine does not interpret,
	// passed through for downstream consumers.
	Extras map[string]any

	excludePeople map[string]bool
	exclude       map[string]*subjectExclusion
	normalize     IDNormalizer
	filenameRe    *regexp.Regexp
}

// ExcludesPerson reports whether the subject identifier is excluded
// entirely. The identifier is normalized before the membership test.
func (d *Descriptor) ExcludesPerson(id string) bool {
	return d.excludePeople[d.normalize(id)]
}

// ExcludePeople returns the normalized excluded subject identifiers,
// sorted for deterministic output.
func (d *Descriptor) ExcludePeople() []string {
	out := make([]string, 0, len(d.excludePeople))
	for id := range d.excludePeople {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ExcludedEntirely reports whether the given subject, or the given
// session/run of that subject, is marked fully excluded. Pass an empty
// key to ask about the subject as a whole.
func (d *Descriptor) ExcludedEntirely(subject, key string) bool {
	sub, ok := d.exclude[d.normalize(subject)]
	if !ok {
		return false
	}
	if sub.all {
		return true
	}
	if key == "" {
		return false
	}
	node, ok := sub.nodes[d.normalize(key)]
	return ok && node.all
}

// ExcludedSpan reports whether any part of [lo, hi) is excluded for the
// given subject and session/run key, either by a full exclusion at an
// ancestor level or by an overlapping time range.
func (d *Descriptor) ExcludedSpan(subject, key string, lo, hi float64) bool {
	sub, ok := d.exclude[d.normalize(subject)]
	if !ok {
		return false
	}
	if sub.all {
		return true
	}
	node, ok := sub.nodes[d.normalize(key)]
	if !ok {
		return false
	}
	if node.all {
		return true
	}
	for _, span := range node.spans {
		if span.Overlaps(lo, hi) {
			return true
		}
	}
	return false
}

// FilenameVars parses identifiers out of a filename using FilenameFormat.
// It returns false when no format is configured or the name does not match.
func (d *Descriptor) FilenameVars(name string) (map[string]string, bool) {
	if d.filenameRe == nil {
		return nil, false
	}
	m := d.filenameRe.FindStringSubmatch(name)
	if m == nil {
		return nil, false
	}
	vars := make(map[string]string)
	for i, groupName := range d.filenameRe.SubexpNames() {
		if i > 0 && groupName != "" {
			vars[groupName] = m[i]
		}
	}
	return vars, true
}

// subjectExclusion is one subject's entry in the exclusion hierarchy.
// Either the whole subject is excluded, or individual sessions/runs are.
type subjectExclusion struct {
	all   bool
	nodes map[string]*nodeExclusion
}

// nodeExclusion is one session/run entry: either fully excluded or
// excluded over a list of time spans.
type nodeExclusion struct {
	all   bool
	spans []Span
}
