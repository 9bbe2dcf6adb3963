package main

import (
	"fmt"

	"github.com/Veraticus/cardspend/internal/cli"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show spending, payments and cashback per card and person",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			summary, err := s.client.SummaryByCard(ctx)
			if err != nil {
				return fmt.Errorf("failed to load summary: %w", err)
			}
			return cli.NewPrinter(cmd.OutOrStdout()).Summary(summary)
		},
	}
}
