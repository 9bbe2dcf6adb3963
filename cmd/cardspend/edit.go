package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/cardspend/internal/cli"
	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
	"github.com/Veraticus/cardspend/internal/store"
	"github.com/spf13/cobra"
)

func editCmd() *cobra.Command {
	var fields draftFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Long: `Edit a transaction. Fields given as flags replace the stored values;
without any, every field is prompted for with the current value as default.

The whole record is sent back to the service, which echoes what it stored.`,
		Example: `  cardspend edit 42 --paid
  cardspend edit 42 --amount 18.25 --notes "split with dad"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := fetchStore(ctx, s.client)
			if err != nil {
				return err
			}
			tx, err := findTransaction(st, args[0])
			if err != nil {
				return err
			}

			d := fields.apply(cmd, edit.NewDraft(tx))
			if !fields.given(cmd) {
				roster := fetchRoster(ctx, s.client, s.cfg.RosterOrDefault())
				d, err = cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).FillDraft(ctx, d, model.Names(roster))
				if err != nil {
					return err
				}
			}

			updated, err := saveEdit(ctx, s.client, st, tx, d, s.cfg.API.RequestTimeout)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, cli.FormatSuccess(edit.MsgUpdated)); err != nil {
				return err
			}
			return cli.NewPrinter(out).Transaction(updated)
		},
	}

	fields.register(cmd)
	return cmd
}

// saveEdit runs one edit session for tx through the coordinator and returns
// the record the service stored.
func saveEdit(ctx context.Context, svc service.Mutations, st *store.Store, tx model.Transaction, d edit.DraftForm, timeout time.Duration) (model.Transaction, error) {
	runner := edit.Runner{Coordinator: edit.NewCoordinator(st), Mutations: svc, Timeout: timeout}

	runner.Dispatch(ctx, edit.StartEdit{Tx: tx})
	runner.Coordinator.Handle(edit.SetDraft{Draft: d})
	if err := failure(runner.Dispatch(ctx, edit.SubmitSave{})); err != nil {
		return model.Transaction{}, err
	}

	updated, ok := st.Get(tx.ID)
	if !ok {
		return model.Transaction{}, fmt.Errorf("transaction %q vanished during update", tx.ID)
	}
	return updated, nil
}

// failure returns the first failure notification as an error.
func failure(notes []edit.Notify) error {
	for _, n := range notes {
		if n.Level == edit.Failure {
			return errors.New(n.Message)
		}
	}
	return nil
}
