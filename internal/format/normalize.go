package format

import "bytes"

// ensureTrailingNewline replaces the final whitespace run with a single '\n'.
// Whitespace-only input is returned as is.
func ensureTrailingNewline(b []byte) []byte {
	trimmed := bytes.TrimRight(b, " \t\r\n")
	if len(trimmed) == 0 {
		return b
	}
	if len(trimmed) == len(b)-1 && b[len(b)-1] == '\n' {
		return b
	}
	out := make([]byte, len(trimmed)+1)
	copy(out, trimmed)
	out[len(trimmed)] = '\n'
	return out
}

// dropBlankLines removes every whitespace-only line, including the last
// line break.
func dropBlankLines(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for line := range bytes.Lines(b) {
		content := bytes.TrimRight(line, "\n")
		if len(bytes.TrimSpace(content)) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, '\n')
		}
		out = append(out, content...)
	}
	return out
}
