package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/cardspend/internal/cli"
	"github.com/Veraticus/cardspend/internal/filter"
	"github.com/spf13/cobra"
)

func filtersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Inspect or clear the saved filters",
	}
	cmd.AddCommand(filtersShowCmd())
	cmd.AddCommand(filtersResetCmd())
	return cmd
}

func filtersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved filters and the values each can take",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			state := filter.New(ctx, s.prefs)
			roster := fetchRoster(ctx, s.client, s.cfg.RosterOrDefault())

			st, err := fetchStore(ctx, s.client)
			if err != nil {
				slog.Warn("Showing filters without transaction options", "error", err)
				return cli.NewPrinter(cmd.OutOrStdout()).Filters(state.Snapshot(), filter.Options(nil, roster))
			}
			return cli.NewPrinter(cmd.OutOrStdout()).Filters(state.Snapshot(), filter.Options(st.All(), roster))
		},
	}
}

func filtersResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear every saved filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			filter.New(ctx, s.prefs).Reset(ctx)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Filters cleared"))
			return err
		},
	}
}
