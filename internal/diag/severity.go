package diag

// Severity orders diagnostics and per-file failures. Higher is worse.
type Severity uint8

const (
	// SevWarning degrades the result but keeps the file going.
	SevWarning Severity = iota + 1
	// SevError abandons the file with the original left untouched.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// Abandons reports whether a failure of this severity stops processing.
func (s Severity) Abandons() bool {
	return s >= SevError
}
