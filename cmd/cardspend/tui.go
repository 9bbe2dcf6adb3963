package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/tui"
	"github.com/Veraticus/cardspend/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit transactions interactively",
		Long: `Open the interactive transaction browser.

Logs would corrupt the full-screen display, so they are discarded unless
logging.file is set.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
	cmd.Flags().String("theme", "", "color theme ("+strings.Join(themes.Names(), ", ")+")")
	_ = viper.BindPFlag("tui.theme", cmd.Flags().Lookup("theme"))
	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	var logOut io.Writer = io.Discard
	if path := s.cfg.Logging.File; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		logOut = f
	}
	if err := common.SetupLogger(logOut, s.cfg.Logging.Level, s.cfg.Logging.Format); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	theme, err := themes.ByName(s.cfg.TUI.Theme)
	if err != nil {
		return err
	}

	return tui.Run(ctx,
		tui.WithTheme(theme),
		tui.WithService(s.client),
		tui.WithPreferences(s.prefs),
		tui.WithRoster(s.cfg.Roster),
		tui.WithTimeouts(s.cfg.API.Timeout, s.cfg.API.RequestTimeout),
	)
}
