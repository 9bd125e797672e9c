package document

import (
	"path/filepath"
	"strings"
)

// DirectiveKind discriminates the three forms of the !include tag.
// The kind is decided once at parse time; resolution dispatches on it
// instead of re-inspecting the target.
type DirectiveKind string

const (
	// SingleInclude references exactly one YAML document by relative path.
	SingleInclude DirectiveKind = "single"

	// GlobInclude references zero or more YAML documents by glob pattern.
	GlobInclude DirectiveKind = "glob"

	// OpaqueInclude references a non-YAML file whose contents are surfaced
	// as a raw scalar rather than merged structure.
	OpaqueInclude DirectiveKind = "opaque"
)

// Directive is an unexpanded !include node.
type Directive struct {
	Kind   DirectiveKind
	Target string
}

// yamlExtensions are the extensions treated as structured documents.
// Anything else included via !include is loaded opaquely.
var yamlExtensions = map[string]bool{
	".yml":  true,
	".yaml": true,
}

// classifyInclude decides the directive kind from the target alone.
// Glob metacharacters take precedence over the extension check so a
// pattern like "conf/*.yml" is a glob, not a single include.
func classifyInclude(target string) DirectiveKind {
	if strings.ContainsAny(target, "*?[") {
		return GlobInclude
	}
	if !yamlExtensions[strings.ToLower(filepath.Ext(target))] {
		return OpaqueInclude
	}
	return SingleInclude
}
