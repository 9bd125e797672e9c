package descriptor

// DefaultFileExtensions are the raw-recording suffixes accepted when a
// dataset does not declare its own.
var DefaultFileExtensions = []string{".bdf", ".edf", ".fif", ".gdf"}

// DefaultDecimate is the downsampling factor applied when absent: no
// decimation.
const DefaultDecimate = 1

// defaultFileExtensions returns a fresh copy so descriptors never share
// the package-level slice.
func defaultFileExtensions() []string {
	out := make([]string, len(DefaultFileExtensions))
	copy(out, DefaultFileExtensions)
	return out
}
