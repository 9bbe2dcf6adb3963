package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/cardspend/internal/cli"
	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
	"github.com/Veraticus/cardspend/internal/store"
	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
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

			out := cmd.OutOrStdout()
			confirm := func(string) bool { return true }
			if !yes {
				if err := cli.NewPrinter(out).Transaction(tx); err != nil {
					return err
				}
				prompter := cli.NewPrompter(cmd.InOrStdin(), out)
				confirm = func(prompt string) bool {
					ok, err := prompter.Confirm(ctx, prompt)
					if err != nil {
						slog.Warn("Delete prompt failed", "error", err)
						return false
					}
					return ok
				}
			}

			deleted, err := removeTransaction(ctx, s.client, st, tx, confirm, s.cfg.API.RequestTimeout)
			if err != nil {
				return err
			}
			if !deleted {
				_, err = fmt.Fprintln(out, cli.FormatInfo("Delete cancelled"))
				return err
			}
			_, err = fmt.Fprintln(out, cli.FormatSuccess(edit.MsgDeleted))
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

// removeTransaction asks confirm and deletes tx through the coordinator. It
// reports false when the user declined.
func removeTransaction(ctx context.Context, svc service.Mutations, st *store.Store, tx model.Transaction, confirm func(string) bool, timeout time.Duration) (bool, error) {
	runner := edit.Runner{
		Coordinator: edit.NewCoordinator(st),
		Mutations:   svc,
		Confirm:     confirm,
		Timeout:     timeout,
	}

	runner.Dispatch(ctx, edit.StartEdit{Tx: tx})
	if err := failure(runner.Dispatch(ctx, edit.SubmitDelete{})); err != nil {
		return false, err
	}

	_, stillThere := st.Get(tx.ID)
	return !stillThere, nil
}
