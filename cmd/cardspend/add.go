package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/cardspend/internal/cli"
	"github.com/Veraticus/cardspend/internal/datekey"
	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var fields draftFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Long: `Add a transaction. Without field flags every field is prompted for.

The date defaults to today. Cashback accepts a percentage ("3") or a
ratio ("0.03").`,
		Example: `  cardspend add
  cardspend add --card Amex --who mom --merchant Grocer --amount 42.10 --cashback 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			d := fields.apply(cmd, edit.DraftForm{Date: datekey.FromTime(time.Now())})
			if !fields.given(cmd) {
				roster := fetchRoster(ctx, s.client, s.cfg.RosterOrDefault())
				if d.Who == "" && len(roster) > 0 {
					d.Who = roster[0].Name
				}
				d, err = cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).FillDraft(ctx, d, model.Names(roster))
				if err != nil {
					return err
				}
			}

			created, err := createTransaction(ctx, s.client, d)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, cli.FormatSuccess("Transaction added")); err != nil {
				return err
			}
			return cli.NewPrinter(out).Transaction(*created)
		},
	}

	fields.register(cmd)
	return cmd
}

// createTransaction validates d and posts it as a new record.
func createTransaction(ctx context.Context, svc service.TransactionService, d edit.DraftForm) (*model.Transaction, error) {
	record, err := d.Record("")
	if err != nil {
		return nil, err
	}

	created, err := svc.CreateTransaction(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to add transaction: %w", err)
	}
	slog.Info("Transaction added", "id", created.ID.String(), "card", created.Card, "amount", created.Amount.String())
	return created, nil
}
