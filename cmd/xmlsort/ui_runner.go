package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"xmlsort/internal/driver"
	"xmlsort/internal/progress"
	"xmlsort/internal/ui"
)

type formatOutcome struct {
	report *driver.Report
	err    error
}

// runFormatWithUI formats files in the background while the progress view
// consumes driver events. The view quits when the batch closes the channel.
func runFormatWithUI(ctx context.Context, title string, files, warnings []string, opts driver.FormatOptions) (*driver.Report, error) {
	events := make(chan progress.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		optsCopy := opts
		optsCopy.Progress = progress.ChannelSink{Ch: events}
		report, err := driver.FormatCollected(ctx, files, warnings, optsCopy)
		outcomeCh <- formatOutcome{report: report, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// Вид закрылся раньше пакета только при ctrl+c или ошибке терминала
	cancel()
	// Дочитать события, чтобы горутина форматирования не заблокировалась
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
