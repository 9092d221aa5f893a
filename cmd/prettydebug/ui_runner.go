package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"prettydebug/internal/report"
	"prettydebug/internal/ui"
)

// runWithUI runs work in the background while a progress view tracks the
// events it sends. The view is drawn on stderr so stdout stays clean.
func runWithUI(title string, inputs []string, work func(sink report.ProgressSink) error) error {
	events := make(chan report.Event, 256)
	errCh := make(chan error, 1)

	go func() {
		err := work(report.ChannelSink{Ch: events})
		close(events)
		errCh <- err
	}()

	model := ui.NewProgressModel(title, inputs, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// The view may quit early; keep the workers from blocking on a full channel.
	go func() {
		for range events {
		}
	}()
	err := <-errCh
	if uiErr != nil {
		return uiErr
	}
	return err
}
