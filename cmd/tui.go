package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/musivault/internal/shared"
	"github.com/desertthunder/musivault/internal/tasks"
	"github.com/desertthunder/musivault/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing the vault.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/musivault-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	st, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	userID, err := r.resolveUser(ctx, st, cmd.String("user"))
	if err != nil {
		return err
	}

	var collector *tasks.Collector
	if r.spotify != nil {
		collector = tasks.NewCollector(r.spotify, st, fileLogger, r.collectorOpts())
	}

	model := ui.NewModel(ctx, st, collector, userID)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
