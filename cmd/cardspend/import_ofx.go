package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/Veraticus/cardspend/internal/cli"
	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/ofx"
	"github.com/Veraticus/cardspend/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	var (
		card     string
		who      string
		cashback string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Create transactions from OFX/QFX files",
		Long: `Create transactions from OFX or QFX files exported from your card issuer.

Every entry is created on the given card for the given person. Entries
repeating an id already seen in the same file are skipped.`,
		Example: `  # Preview without creating anything
  cardspend import-ofx --card Amex --who me --dry-run ~/Downloads/amex_mar.qfx

  # Import several statements
  cardspend import-ofx --card Visa --who mom --cashback 1.5 ~/Downloads/visa_*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			defaults := ofx.Defaults{Card: card, Who: who}
			if cashback != "" {
				defaults.CashbackRate = decimal.NewNullDecimal(edit.PercentToRatio(cashback))
			}

			ctx := cmd.Context()
			records, err := parseFiles(ctx, files, defaults)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				slog.Warn("No transactions found in any file")
				return nil
			}

			out := cmd.OutOrStdout()
			if dryRun {
				return previewImport(out, records)
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			var created atomic.Int64
			handler := cli.NewInterruptHandler(out)
			ctx = handler.HandleInterrupts(ctx, func() string {
				return fmt.Sprintf("Created %d of %d transactions before stopping.", created.Load(), len(records))
			})

			res := importRecords(ctx, s.client, records, cli.NewProgress(out, len(records), "Importing"), &created)
			if handler.WasInterrupted() {
				return context.Canceled
			}

			msg := fmt.Sprintf("Created %d transactions", res.created)
			if res.failed > 0 {
				msg += fmt.Sprintf(", %d failed (see log)", res.failed)
				_, err = fmt.Fprintln(out, cli.FormatWarning(msg))
				return err
			}
			_, err = fmt.Fprintln(out, cli.FormatSuccess(msg))
			return err
		},
	}

	cmd.Flags().StringVar(&card, "card", "", "card the statement belongs to")
	cmd.Flags().StringVar(&who, "who", "", "person responsible for the charges")
	cmd.Flags().StringVar(&cashback, "cashback", "", `cashback as a percentage ("3") or ratio ("0.03")`)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "print what would be created")
	_ = cmd.MarkFlagRequired("card")

	return cmd
}

// expandFiles resolves glob patterns, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	if len(files) == 0 {
		return nil, errors.New("no files found to import")
	}
	return files, nil
}

// parseFiles reads every file. Unreadable files are logged and skipped.
func parseFiles(ctx context.Context, files []string, defaults ofx.Defaults) ([]model.Transaction, error) {
	parser := ofx.NewParser()

	var records []model.Transaction
	for _, path := range files {
		f, err := os.Open(path) // #nosec G304
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			continue
		}
		res, err := parser.Parse(ctx, f, defaults)
		_ = f.Close()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}
		slog.Info("Processed file",
			"file", filepath.Base(path),
			"accounts", res.Accounts,
			"transactions", len(res.Transactions),
			"repeated", res.Skipped)
		records = append(records, res.Transactions...)
	}
	return records, nil
}

func previewImport(w io.Writer, records []model.Transaction) error {
	p := cli.NewPrinter(w)
	for _, r := range records {
		if err := p.Transaction(r); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions would be created", len(records))))
	return err
}

type importResult struct {
	created int
	failed  int
}

// progress is the part of a progress bar importRecords drives.
type progress interface {
	Add(n int) error
}

// importRecords creates records one at a time, stopping early when ctx is
// done. created is updated as records land so an interrupt can report it.
func importRecords(ctx context.Context, svc service.TransactionService, records []model.Transaction, bar progress, created *atomic.Int64) importResult {
	var res importResult
	for _, r := range records {
		if ctx.Err() != nil {
			break
		}
		if _, err := svc.CreateTransaction(ctx, r); err != nil {
			res.failed++
			slog.Warn("Failed to create transaction",
				"date", r.Date,
				"merchant", r.Merchant,
				"amount", r.Amount.String(),
				"error", err)
		} else {
			res.created++
			created.Add(1)
		}
		if err := bar.Add(1); err != nil {
			slog.Debug("Progress bar update failed", "error", err)
		}
	}
	return res
}
