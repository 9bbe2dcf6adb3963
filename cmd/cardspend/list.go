package main

import (
	"context"
	"io"

	"github.com/Veraticus/cardspend/internal/cli"
	"github.com/Veraticus/cardspend/internal/filter"
	"github.com/Veraticus/cardspend/internal/grouping"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var (
		filters filterFlags
		showIDs bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions grouped by day",
		Long: `List transactions grouped by day, newest first.

Saved filters (from the browser or --save) apply unless --all is given;
flags narrow them further.`,
		Example: `  cardspend list
  cardspend list --who mom --paid unpaid
  cardspend list --all --card Amex --from 2024-03-01 --to 03/31/2024 --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			view, err := loadView(ctx, cmd, s.client, s.prefs, s.cfg.RosterOrDefault(), &filters)
			if err != nil {
				return err
			}
			return printView(cmd.OutOrStdout(), view, showIDs)
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&showIDs, "ids", false, "show transaction ids")
	return cmd
}

// loadView fetches everything and derives the filtered, grouped view.
func loadView(ctx context.Context, cmd *cobra.Command, svc service.TransactionService, prefs service.PreferenceStore, fallback []model.Person, filters *filterFlags) (grouping.Result, error) {
	st, err := fetchStore(ctx, svc)
	if err != nil {
		return grouping.Result{}, err
	}
	roster := fetchRoster(ctx, svc, fallback)

	criteria, err := filters.resolve(ctx, cmd, prefs, filter.Options(st.All(), roster))
	if err != nil {
		return grouping.Result{}, err
	}
	return grouping.NewEngine(st).View(criteria), nil
}

func printView(w io.Writer, view grouping.Result, showIDs bool) error {
	p := cli.NewPrinter(w)
	p.ShowIDs = showIDs
	return p.Transactions(view)
}
