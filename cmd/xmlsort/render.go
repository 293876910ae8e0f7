package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"xmlsort/internal/diag"
	"xmlsort/internal/diagfmt"
	"xmlsort/internal/driver"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	noteColor    = color.New(color.FgCyan)
	changedColor = color.New(color.FgGreen)
)

func printWarning(out io.Writer, msg string) {
	fmt.Fprintf(out, "%s %s\n", warningColor.Sprint("warning:"), msg)
}

func printNote(out io.Writer, msg string) {
	fmt.Fprintf(out, "%s %s\n", noteColor.Sprint("note:"), msg)
}

func printFailure(out io.Writer, err error) {
	fmt.Fprintf(out, "%s %v\n", errorColor.Sprint("error:"), err)
}

// printFileProblems reports the error and every warning of one result.
// It returns false when the file failed.
func printFileProblems(errOut io.Writer, res *driver.FormatResult) bool {
	for _, w := range res.Warnings {
		printWarning(errOut, w.Error())
	}
	if res.Err == nil {
		return true
	}
	printFailure(errOut, res.Err)
	if res.BackupPath != "" {
		printNote(errOut, "original kept in "+res.BackupPath)
	}
	var de *diag.Error
	if res.Source != nil && errors.As(res.Err, &de) {
		diagfmt.Snippet(errOut, res.Source, de.Pos, diagfmt.SnippetOpts{
			Color:   !color.NoColor,
			Context: 1,
			Width:   terminalWidth(),
		})
	}
	return false
}

func renderText(out, errOut io.Writer, report *driver.Report, check, quiet bool) {
	for i := range report.Results {
		res := &report.Results[i]
		if !printFileProblems(errOut, res) || !res.Changed || quiet {
			continue
		}
		if check {
			fmt.Fprintln(out, res.Path)
			continue
		}
		line := changedColor.Sprint("formatted") + " " + res.Path
		if res.BackupPath != "" {
			line += " (backup " + res.BackupPath + ")"
		}
		fmt.Fprintln(out, line)
	}
	if quiet {
		return
	}
	verb := "formatted"
	if check {
		verb = "would reformat"
	}
	parts := []string{fmt.Sprintf("%s %s", verb, plural(report.Changed, "file"))}
	parts = append(parts, fmt.Sprintf("%d unchanged", report.Unchanged))
	if report.Failed > 0 {
		parts = append(parts, errorColor.Sprintf("%d failed", report.Failed))
	}
	fmt.Fprintln(errOut, strings.Join(parts, ", "))
}

func renderStdout(out, errOut io.Writer, report *driver.Report) {
	for i := range report.Results {
		res := &report.Results[i]
		if !printFileProblems(errOut, res) {
			continue
		}
		if _, err := out.Write(res.Formatted); err != nil {
			panic(err)
		}
	}
}

type jsonResult struct {
	Path     string   `json:"path"`
	Changed  bool     `json:"changed"`
	Cached   bool     `json:"cached,omitempty"`
	Encoding string   `json:"encoding,omitempty"`
	Backup   string   `json:"backup,omitempty"`
	Kind     string   `json:"kind,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type jsonReport struct {
	Check     bool         `json:"check"`
	Changed   int          `json:"changed"`
	Unchanged int          `json:"unchanged"`
	Failed    int          `json:"failed"`
	Warnings  []string     `json:"warnings,omitempty"`
	Files     []jsonResult `json:"files"`
}

func renderJSON(out io.Writer, report *driver.Report, check bool) error {
	payload := jsonReport{
		Check:     check,
		Changed:   report.Changed,
		Unchanged: report.Unchanged,
		Failed:    report.Failed,
		Warnings:  report.Warnings,
		Files:     make([]jsonResult, 0, len(report.Results)),
	}
	for _, res := range report.Results {
		jr := jsonResult{
			Path:     res.Path,
			Changed:  res.Changed,
			Cached:   res.Cached,
			Encoding: res.Encoding,
			Backup:   res.BackupPath,
		}
		if res.Err != nil {
			jr.Kind = diag.KindOf(res.Err).String()
			jr.Error = res.Err.Error()
		}
		for _, w := range res.Warnings {
			jr.Warnings = append(jr.Warnings, w.Error())
		}
		payload.Files = append(payload.Files, jr)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
