package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"xmlsort/internal/driver"
)

var (
	diffAddColor  = color.New(color.FgGreen)
	diffDelColor  = color.New(color.FgRed)
	diffHunkColor = color.New(color.FgCyan)
	diffFileColor = color.New(color.Bold)
)

// unifiedDiff renders the change of one file. An empty string means no change.
func unifiedDiff(path string, original, formatted []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(formatted)),
		FromFile: path,
		ToFile:   path + " (formatted)",
		Context:  3,
	})
}

func renderDiff(out, errOut io.Writer, report *driver.Report) {
	for i := range report.Results {
		res := &report.Results[i]
		if !printFileProblems(errOut, res) || !res.Changed {
			continue
		}
		text, err := unifiedDiff(res.Path, res.Original, res.Formatted)
		if err != nil {
			printFailure(errOut, fmt.Errorf("%s: diff: %w", res.Path, err))
			continue
		}
		writeColoredDiff(out, text)
	}
}

func writeColoredDiff(out io.Writer, text string) {
	for line := range strings.Lines(text) {
		var c *color.Color
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			c = diffFileColor
		case strings.HasPrefix(line, "@@"):
			c = diffHunkColor
		case strings.HasPrefix(line, "+"):
			c = diffAddColor
		case strings.HasPrefix(line, "-"):
			c = diffDelColor
		}
		if c == nil {
			fmt.Fprint(out, line)
			continue
		}
		body, nl := strings.CutSuffix(line, "\n")
		fmt.Fprint(out, c.Sprint(body))
		if nl {
			fmt.Fprintln(out)
		}
	}
}
