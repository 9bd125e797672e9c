package descriptor

import (
	"fmt"
	"log/slog"
	"strings"

	"neuroconf-hq/neuroconf/pkg/document"
	"neuroconf-hq/neuroconf/pkg/resolve"
)

// knownFields are the descriptor fields this engine interprets. Anything
// else on a dataset entry passes through in Extras.
var knownFields = map[string]bool{
	"name":            true,
	"toplevel":        true,
	"moabb":           true,
	"tmin":            true,
	"tlen":            true,
	"stride":          true,
	"events":          true,
	"picks":           true,
	"exclude_people":  true,
	"exclude":         true,
	"decimate":        true,
	"baseline":        true,
	"bandpass":        true,
	"drop_bad":        true,
	"min":             true,
	"max":             true,
	"file_extensions": true,
	"filename_format": true,
}

// Builder materializes raw dataset mappings into Descriptors.
type Builder struct {
	// Defaults is the registry-level global_defaults fragment, overlaid
	// under each dataset's own fields. May be nil.
	Defaults *document.Node

	// Normalizer overrides identifier normalization for every dataset.
	// When nil, each dataset picks a normalizer from its own
	// filename_format convention.
	Normalizer IDNormalizer

	// Logger receives debug events. Nil means slog.Default.
	Logger *slog.Logger
}

// Build validates one raw dataset mapping and produces a Descriptor, or a
// *ValidationError carrying every field error found. It never returns a
// partially valid descriptor.
func (b *Builder) Build(key string, raw *document.Node) (*Descriptor, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if !raw.IsMapping() {
		return nil, &ValidationError{
			Dataset: key,
			Errors:  []FieldError{{Message: "dataset entry must be a mapping"}},
		}
	}

	// Overlay order: global defaults first, the dataset's own fields
	// override them field by field.
	merged := resolve.Merge(b.Defaults, raw)

	d := &Descriptor{
		Name:           key,
		Decimate:       DefaultDecimate,
		Events:         map[string]int{},
		FileExtensions: defaultFileExtensions(),
		Extras:         map[string]any{},
	}
	var errs []FieldError

	fail := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	for _, e := range merged.Entries {
		if !knownFields[e.Key] {
			d.Extras[e.Key] = e.Value.Interface()
		}
	}

	if n := merged.Get("name"); n != nil {
		if s, ok := asString(n); ok && s != "" {
			d.Name = s
		} else {
			fail("name", "must be a non-empty string")
		}
	}

	if n := merged.Get("toplevel"); n != nil {
		if s, ok := asString(n); ok && s != "" {
			d.Toplevel = s
		} else {
			fail("toplevel", "must be a non-empty path")
		}
	}
	if n := merged.Get("moabb"); n != nil {
		moabb, moabbErrs := parseMoabb(n)
		errs = append(errs, moabbErrs...)
		d.Moabb = moabb
	}
	// Exactly one source of recordings.
	switch {
	case d.Toplevel != "" && d.Moabb != nil:
		fail("toplevel", "mutually exclusive with moabb")
	case merged.Get("toplevel") == nil && merged.Get("moabb") == nil:
		fail("toplevel", "exactly one of toplevel or moabb is required")
	}

	if n := merged.Get("tmin"); n != nil {
		if v, ok := asFloat(n); ok {
			d.TMin = v
		} else {
			fail("tmin", "must be a number")
		}
	}
	if n := merged.Get("tlen"); n != nil {
		if v, ok := asFloat(n); ok && v > 0 {
			d.TLen = v
		} else {
			fail("tlen", "must be a positive number")
		}
	} else {
		fail("tlen", "field is required")
	}
	if n := merged.Get("stride"); n != nil && !n.IsNull() {
		if v, ok := asFloat(n); ok && v > 0 {
			d.Stride = &v
		} else {
			fail("stride", "must be a positive number")
		}
	}

	if n := merged.Get("events"); n != nil {
		labels, codes, eventErrs := normalizeEvents(n)
		errs = append(errs, eventErrs...)
		if len(eventErrs) == 0 {
			d.EventLabels = labels
			d.Events = codes
		}
	}

	if n := merged.Get("picks"); n != nil {
		if picks, ok := asStringSlice(n); ok {
			d.Picks = picks
		} else {
			fail("picks", "must be a sequence of channel selectors")
		}
	}

	if n := merged.Get("decimate"); n != nil {
		if v, ok := asInt(n); ok && v >= 1 {
			d.Decimate = v
		} else {
			fail("decimate", "must be a positive integer")
		}
	}

	if n := merged.Get("baseline"); n != nil && !n.IsNull() {
		d.Baseline = parseBand(n, "baseline", fail)
	}
	if n := merged.Get("bandpass"); n != nil && !n.IsNull() {
		d.Bandpass = parseBand(n, "bandpass", fail)
	}

	if n := merged.Get("drop_bad"); n != nil {
		if v, ok := asBool(n); ok {
			d.DropBad = v
		} else {
			fail("drop_bad", "must be a boolean")
		}
	}

	if n := merged.Get("min"); n != nil && !n.IsNull() {
		if v, ok := asFloat(n); ok {
			d.Min = &v
		} else {
			fail("min", "must be a number")
		}
	}
	if n := merged.Get("max"); n != nil && !n.IsNull() {
		if v, ok := asFloat(n); ok {
			d.Max = &v
		} else {
			fail("max", "must be a number")
		}
	}
	if d.Min != nil && d.Max != nil && *d.Min >= *d.Max {
		fail("min", "clipping bound %g must be below max %g", *d.Min, *d.Max)
	}

	if n := merged.Get("file_extensions"); n != nil {
		if exts, ok := asStringSlice(n); ok && len(exts) > 0 {
			d.FileExtensions = exts
		} else {
			fail("file_extensions", "must be a non-empty sequence of suffixes")
		}
	}

	if n := merged.Get("filename_format"); n != nil {
		format, ok := asString(n)
		if !ok {
			fail("filename_format", "must be a template string")
		} else {
			re, err := compileFilenameFormat(format)
			if err != nil {
				fail("filename_format", "%v", err)
			} else {
				d.FilenameFormat = format
				d.filenameRe = re
			}
		}
	}

	d.normalize = b.pickNormalizer(d)

	if n := merged.Get("exclude_people"); n != nil && !n.IsNull() {
		people, peopleErrs := parseExcludePeople(n, d.normalize)
		errs = append(errs, peopleErrs...)
		d.excludePeople = people
	}
	if d.excludePeople == nil {
		d.excludePeople = map[string]bool{}
	}

	if n := merged.Get("exclude"); n != nil && !n.IsNull() {
		exclude, excludeErrs := parseExclude(n, d.normalize)
		errs = append(errs, excludeErrs...)
		d.exclude = exclude
	}
	if d.exclude == nil {
		d.exclude = map[string]*subjectExclusion{}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Dataset: key, Errors: errs}
	}

	logger.Debug("built dataset descriptor",
		"dataset", d.Name,
		"events", len(d.Events),
		"excluded_people", len(d.excludePeople),
	)
	return d, nil
}

// pickNormalizer chooses the identifier normalizer for one dataset. A
// filename format without a {subject} placeholder signals a naming scheme
// where identifiers are opaque, so they are kept verbatim.
func (b *Builder) pickNormalizer(d *Descriptor) IDNormalizer {
	if b.Normalizer != nil {
		return b.Normalizer
	}
	if d.FilenameFormat != "" && !strings.Contains(d.FilenameFormat, "{subject}") {
		return VerbatimIDNormalizer
	}
	return DefaultIDNormalizer
}

// parseBand validates a [low, high] pair where either bound may be an
// explicit null meaning open-ended.
func parseBand(n *document.Node, field string, fail func(string, string, ...any)) *Span {
	span, ok := asSpan(n)
	if !ok {
		fail(field, "must be a [low, high] pair; use null for an open bound")
		return nil
	}
	if span.Lo != nil && span.Hi != nil && *span.Lo > *span.Hi {
		fail(field, "low %g must not exceed high %g", *span.Lo, *span.Hi)
		return nil
	}
	return span
}

// parseMoabb accepts either a bare provider name or a mapping with a name
// plus provider-specific flags.
func parseMoabb(n *document.Node) (*MoabbSource, []FieldError) {
	if s, ok := asString(n); ok {
		if s == "" {
			return nil, []FieldError{{Field: "moabb", Message: "provider name must not be empty"}}
		}
		return &MoabbSource{Name: s}, nil
	}
	if !n.IsMapping() {
		return nil, []FieldError{{Field: "moabb", Message: "must be a provider name or a mapping with a name"}}
	}
	name, ok := asString(n.Get("name"))
	if !ok || name == "" {
		return nil, []FieldError{{Field: "moabb.name", Message: "field is required"}}
	}
	src := &MoabbSource{Name: name, Params: map[string]any{}}
	for _, e := range n.Entries {
		if e.Key != "name" {
			src.Params[e.Key] = e.Value.Interface()
		}
	}
	return src, nil
}
