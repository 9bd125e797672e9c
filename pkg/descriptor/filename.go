package descriptor

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderRe matches one named placeholder in a filename format.
var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// compileFilenameFormat turns a template like "{subject}_{session}_raw"
// into an anchored regexp with one named group per placeholder. Literal
// text between placeholders is matched exactly.
func compileFilenameFormat(format string) (*regexp.Regexp, error) {
	if strings.Count(format, "{") != strings.Count(format, "}") {
		return nil, fmt.Errorf("unbalanced braces in %q", format)
	}
	locs := placeholderRe.FindAllStringSubmatchIndex(format, -1)
	if len(locs) == 0 {
		return nil, fmt.Errorf("no placeholders in %q", format)
	}

	var sb strings.Builder
	sb.WriteString("^")
	prev := 0
	seen := make(map[string]bool)
	for _, loc := range locs {
		sb.WriteString(regexp.QuoteMeta(format[prev:loc[0]]))
		name := format[loc[2]:loc[3]]
		if seen[name] {
			return nil, fmt.Errorf("placeholder {%s} repeated in %q", name, format)
		}
		seen[name] = true
		fmt.Fprintf(&sb, "(?P<%s>.+?)", name)
		prev = loc[1]
	}
	sb.WriteString(regexp.QuoteMeta(format[prev:]))
	sb.WriteString("$")

	return regexp.Compile(sb.String())
}
