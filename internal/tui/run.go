// Package tui implements the interactive transaction browser.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the browser and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Service == nil {
		return fmt.Errorf("transaction service is required")
	}

	program := tea.NewProgram(
		newModel(ctx, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
