package resolve

import (
	"fmt"
	"strings"
)

// IncludeNotFoundError reports an explicit include whose target does not
// exist. A glob with zero matches is not an error.
type IncludeNotFoundError struct {
	// Path is the missing target, resolved relative to the including file.
	Path string

	// IncludedFrom is the document that referenced the target.
	IncludedFrom string
}

// Error returns the formatted error message.
func (e *IncludeNotFoundError) Error() string {
	if e.IncludedFrom == "" {
		return fmt.Sprintf("include target %q not found", e.Path)
	}
	return fmt.Sprintf("include target %q not found (included from %q)", e.Path, e.IncludedFrom)
}

// CyclicIncludeError reports that include expansion revisited a file already
// on the expansion stack, or exceeded the maximum depth.
type CyclicIncludeError struct {
	// Stack is the chain of files being expanded, outermost first.
	Stack []string
}

// Error returns the formatted error message with the include chain.
func (e *CyclicIncludeError) Error() string {
	if len(e.Stack) == 0 {
		return "cyclic include detected"
	}
	return fmt.Sprintf("cyclic include detected: %s", strings.Join(e.Stack, " -> "))
}
