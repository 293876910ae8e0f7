package diag

import (
	"errors"
	"strings"

	"xmlsort/internal/source"
)

// Kind classifies a per-file failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	FileNotFound
	DecodeError
	ParseError
	SerializationError
	BackupError
	WriteError
)

func (k Kind) String() string {
	switch k {
	case FileNotFound:
		return "file not found"
	case DecodeError:
		return "decode error"
	case ParseError:
		return "parse error"
	case SerializationError:
		return "serialization error"
	case BackupError:
		return "backup error"
	case WriteError:
		return "write error"
	}
	return "error"
}

// Severity returns SevWarning for kinds that do not abandon the file.
func (k Kind) Severity() Severity {
	if k == BackupError {
		return SevWarning
	}
	return SevError
}

// Error is a classified failure, optionally positioned inside the document.
type Error struct {
	Kind Kind
	Path string
	Pos  source.LineCol // zero when unknown
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Path != "" || e.Pos.Line != 0 {
		b.WriteString(": ")
		b.WriteString(e.Path)
		if e.Pos.Line != 0 {
			if e.Path != "" {
				b.WriteByte(':')
			}
			b.WriteString(e.Pos.String())
		}
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func Fail(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// FromDiagnostic converts a positioned diagnostic into a ParseError.
func FromDiagnostic(d Diagnostic, f *source.File) *Error {
	e := &Error{Kind: ParseError, Code: d.Code, Msg: d.Message}
	if f != nil {
		e.Pos = f.Position(d.Primary.Start)
	}
	return e
}

// WithPath sets the path on err when it is a *Error without one and returns it.
func WithPath(err error, path string) error {
	var de *Error
	if errors.As(err, &de) && de.Path == "" {
		de.Path = path
	}
	return err
}

// KindOf recovers the Kind of err through wrapping; KindUnknown when absent.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// IsWarning reports whether err only degrades the result.
func IsWarning(err error) bool {
	return err != nil && KindOf(err).Severity() == SevWarning
}
