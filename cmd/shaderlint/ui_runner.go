package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"shaderlint/internal/diag"
	"shaderlint/internal/driver"
	"shaderlint/internal/ui"
)

type lintOutcome struct {
	results []driver.Result
	err     error
}

// runLintDirWithUI runs a directory lint behind a Bubble Tea progress view.
// The lint proper runs in a goroutine; per-file completions stream into the
// UI as events, and closing the channel ends the program.
func runLintDirWithUI(ctx context.Context, linter *driver.Linter, dir string, jobs int) ([]driver.Result, error) {
	files, err := driver.ListShaderFiles(dir)
	if err != nil {
		return nil, err
	}

	events := make(chan ui.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		results, lintErr := linter.LintDir(ctx, dir, jobs, func(res driver.Result) {
			events <- resultEvent(res)
		})
		outcomeCh <- lintOutcome{results: results, err: lintErr}
		close(events)
	}()

	model := ui.NewProgressModel("linting "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

func resultEvent(res driver.Result) ui.Event {
	ev := ui.Event{Path: res.Path}
	for _, d := range res.Bag.Items() {
		switch d.Severity {
		case diag.SevError:
			ev.Errors++
		case diag.SevWarning:
			ev.Warnings++
		}
	}
	switch {
	case ev.Errors > 0:
		ev.Status = ui.StatusError
	case ev.Warnings > 0:
		ev.Status = ui.StatusFindings
	case res.Cached:
		ev.Status = ui.StatusCached
	default:
		ev.Status = ui.StatusClean
	}
	return ev
}
