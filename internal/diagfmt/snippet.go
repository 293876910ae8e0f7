package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"xmlsort/internal/source"
)

var (
	gutterColor = color.New(color.FgBlue, color.Bold)
	caretColor  = color.New(color.FgRed, color.Bold)
)

// Snippet prints the line at pos, preceded by up to opts.Context lines, and a
// caret under pos.Col. Nothing is printed when pos is outside f. A zero
// column prints the line without a caret.
func Snippet(w io.Writer, f *source.File, pos source.LineCol, opts SnippetOpts) {
	if f == nil || pos.Line == 0 || int(pos.Line) > lineCount(f) {
		return
	}
	first := max(int(pos.Line)-max(opts.Context, 0), 1)
	gutter := len(strconv.Itoa(int(pos.Line)))
	paint := func(c *color.Color, s string) string {
		if !opts.Color {
			return s
		}
		return c.Sprint(s)
	}

	for n := first; n <= int(pos.Line); n++ {
		text := expandTabs(lineText(f, n))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, opts.Width, "…")
		}
		fmt.Fprintf(w, "%s %s\n", paint(gutterColor, fmt.Sprintf("%*d |", gutter, n)), text)
	}
	if pos.Col == 0 {
		return
	}
	line := lineText(f, int(pos.Line))
	prefix := line[:min(int(pos.Col)-1, len(line))]
	indent := runewidth.StringWidth(expandTabs(prefix))
	if opts.Width > 0 && indent >= opts.Width {
		return
	}
	fmt.Fprintf(w, "%s %s%s\n", paint(gutterColor, strings.Repeat(" ", gutter)+" |"), strings.Repeat(" ", indent), paint(caretColor, "^"))
}

func lineCount(f *source.File) int {
	n := len(f.LineIdx) + 1
	// завершающий перевод строки не открывает новую строку
	if len(f.LineIdx) > 0 && int(f.LineIdx[len(f.LineIdx)-1]) == len(f.Content)-1 {
		n--
	}
	return n
}

// lineText returns line n (1-based) without its newline.
func lineText(f *source.File, n int) string {
	start := lineStartOffset(f, n)
	end := lineEndOffset(f, n)
	if end < start {
		return ""
	}
	return string(f.Content[start:end])
}

func lineStartOffset(f *source.File, line int) uint32 {
	if line <= 1 {
		return 0
	}
	if idx := line - 2; idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return contentLen(f)
}

func lineEndOffset(f *source.File, line int) uint32 {
	if line <= 0 {
		return 0
	}
	if idx := line - 1; idx < len(f.LineIdx) {
		return f.LineIdx[idx]
	}
	return contentLen(f)
}

func contentLen(f *source.File) uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return n
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
