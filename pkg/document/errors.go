package document

import "fmt"

// ParseError reports a malformed document. Path names the offending file,
// which for an include target is the included file, not the includer.
type ParseError struct {
	// Path is the source file that failed to parse.
	Path string

	// Err is the underlying parser error.
	Err error
}

// Error returns the formatted error message.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying parser error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
