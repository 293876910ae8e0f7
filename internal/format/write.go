package format

import (
	"bytes"

	"xmlsort/internal/source"
)

// Writer accumulates formatted output and provides helpers for copying source
// fragments and emitting indented lines.
type Writer struct {
	sf          *source.File
	indent      string
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates a writer over sf. indent is one level of indentation.
func NewWriter(sf *source.File, indent string) *Writer {
	return &Writer{
		sf:          sf,
		indent:      indent,
		buf:         make([]byte, 0, len(sf.Content)),
		atLineStart: true,
	}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	for range w.indentLevel {
		w.buf = append(w.buf, w.indent...)
	}
	w.atLineStart = false
}

// WriteString writes a string to the output, handling indentation.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.updateLineState(s[len(s)-1])
}

func (w *Writer) updateLineState(last byte) {
	w.atLineStart = last == '\n'
}

// Newline writes a newline if the output is not empty and doesn't already end with one.
func (w *Writer) Newline() {
	if len(w.buf) > 0 && w.buf[len(w.buf)-1] != '\n' {
		w.buf = append(w.buf, '\n')
	}
	w.atLineStart = true
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// CopySpan copies a span from the source file to the output unchanged.
func (w *Writer) CopySpan(sp source.Span) {
	if sp.File != w.sf.ID {
		return
	}
	w.CopyRange(int(sp.Start), int(sp.End))
}

// CopyRange copies a range of bytes from the source file to the output.
func (w *Writer) CopyRange(start, end int) {
	start, end = w.clamp(start, end)
	if start >= end {
		return
	}
	w.writeIndent()
	chunk := w.sf.Content[start:end]
	w.buf = append(w.buf, chunk...)
	w.updateLineState(chunk[len(chunk)-1])
}

// TrimmedCopySpan copies a span from the source file to the output, trimming
// leading/trailing whitespace. It reports whether anything was written.
func (w *Writer) TrimmedCopySpan(sp source.Span) bool {
	if sp.File != w.sf.ID {
		return false
	}
	start, end := w.clamp(int(sp.Start), int(sp.End))
	if start >= end {
		return false
	}
	trimmed := bytes.TrimSpace(w.sf.Content[start:end])
	if len(trimmed) == 0 {
		return false
	}
	w.writeIndent()
	w.buf = append(w.buf, trimmed...)
	w.updateLineState(trimmed[len(trimmed)-1])
	return true
}

func (w *Writer) clamp(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(w.sf.Content) {
		end = len(w.sf.Content)
	}
	return start, end
}
