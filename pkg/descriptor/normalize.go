package descriptor

import "strings"

// IDNormalizer maps a raw subject/session/run identifier to its canonical
// form before membership tests. Dataset naming schemes disagree on how
// identifiers are written ("S100", "100", 100), so normalization is
// pluggable per descriptor rather than hard-coded.
type IDNormalizer func(raw string) string

// DefaultIDNormalizer strips a leading non-digit prefix and leading zeros,
// so "S100", "sub100" and "100" all normalize to "100". Identifiers with
// no digits are kept as-is, upper-cased.
func DefaultIDNormalizer(raw string) string {
	s := strings.TrimSpace(raw)
	i := 0
	for i < len(s) && (s[i] < '0' || s[i] > '9') {
		i++
	}
	digits := s[i:]
	if digits == "" {
		return strings.ToUpper(s)
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return "0"
	}
	return digits
}

// VerbatimIDNormalizer keeps identifiers exactly as written, for naming
// schemes where prefixes are significant.
func VerbatimIDNormalizer(raw string) string {
	return raw
}
