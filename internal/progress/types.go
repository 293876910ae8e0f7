// Package progress carries per-file progress events from the driver to a
// consumer such as the terminal UI.
package progress

import "time"

// Stage describes one step of formatting a file.
type Stage string

const (
	// StageRead is reading the raw bytes.
	StageRead Stage = "read"
	// StageDecode is charset detection and decoding.
	StageDecode Stage = "decode"
	// StageFormat is running the formatting strategy.
	StageFormat Stage = "format"
	// StageBackup is writing P.bak.
	StageBackup Stage = "backup"
	// StageWrite is replacing the file.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is in the given stage.
	StatusWorking Status = "working"
	// StatusDone indicates the file was rewritten (or would be, in check mode).
	StatusDone Status = "done"
	// StatusUnchanged indicates the file was already formatted.
	StatusUnchanged Status = "unchanged"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Final reports whether no further events follow for the file.
func (s Status) Final() bool {
	return s == StatusDone || s == StatusUnchanged || s == StatusError
}

// Event reports progress for a file (or for the whole batch when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Sink consumes progress events. Implementations must be goroutine-safe.
type Sink interface {
	OnEvent(Event)
}
