package source

import (
	"fmt"
)

// Span is a half-open byte range inside one File.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// String renders "line:col", or just "line" when the column is unknown.
func (lc LineCol) String() string {
	if lc.Col == 0 {
		return fmt.Sprintf("%d", lc.Line)
	}
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}
