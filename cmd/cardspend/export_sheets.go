package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/cardspend/internal/cli"
	"github.com/Veraticus/cardspend/internal/config"
	"github.com/Veraticus/cardspend/internal/filter"
	"github.com/Veraticus/cardspend/internal/grouping"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
	"github.com/Veraticus/cardspend/internal/sheets"
	"github.com/Veraticus/cardspend/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportSheetsCmd() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "export-sheets",
		Short: "Export the filtered transaction list to Google Sheets",
		Long: `Write the filtered, grouped transaction list and the per-card summary
to a Google Sheet. The sheet is replaced on every export.

Configure sheets.spreadsheet_id (or sheets.spreadsheet_name to create one)
plus either sheets.service_account_path or OAuth2 credentials; run
"cardspend export-sheets auth" once to obtain a refresh token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
			if err != nil {
				return fmt.Errorf("google sheets not configured: %w", err)
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := fetchStore(ctx, s.client)
			if err != nil {
				return err
			}
			roster := fetchRoster(ctx, s.client, s.cfg.RosterOrDefault())
			criteria, err := filters.resolve(ctx, cmd, s.prefs, filter.Options(st.All(), roster))
			if err != nil {
				return err
			}

			writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
			if err != nil {
				return err
			}

			id, err := exportReport(ctx, s.client, st, criteria, writer)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Exported to https://docs.google.com/spreadsheets/d/"+id))
			return err
		},
	}

	filters.register(cmd)
	cmd.AddCommand(exportSheetsAuthCmd())
	return cmd
}

// exportReport builds the report for criteria and hands it to w. A summary
// that cannot be fetched is left out rather than failing the export.
func exportReport(ctx context.Context, svc service.TransactionService, st *store.Store, criteria model.FilterCriteria, w sheets.ReportWriter) (string, error) {
	summary, err := svc.SummaryByCard(ctx)
	if err != nil {
		slog.Warn("Exporting without card summary", "error", err)
		summary = nil
	}

	report := sheets.Report{
		Generated: time.Now(),
		Summary:   summary,
		Criteria:  criteria,
		View:      grouping.NewEngine(st).View(criteria),
	}

	id, err := w.Write(ctx, report)
	if err != nil {
		return "", fmt.Errorf("failed to export to google sheets: %w", err)
	}
	return id, nil
}

func exportSheetsAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Open your browser to authenticate with Google
2. Save the token next to your config
3. Store the refresh token in your config file

You'll need to run this once before exporting with OAuth2 credentials.`,
		Args: cobra.NoArgs,
		RunE: runExportSheetsAuth,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback", "localhost:8080", "local address for the OAuth2 redirect")

	return cmd
}

func runExportSheetsAuth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")
	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found. Please set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret flags")
	}
	callback, _ := cmd.Flags().GetString("callback")

	tokenFile := config.ExpandPath(viper.GetString("sheets.token_file"))
	if tokenFile == "" {
		tokenFile = config.ExpandPath(config.DefaultDir + "/sheets-token.json")
	}
	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	token, err := sheets.GetOrCreateToken(ctx, sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: callback,
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if token.RefreshToken == "" {
		_, err = fmt.Fprintln(out, cli.FormatSuccess("Authenticated; existing refresh token kept"))
		return err
	}

	viper.Set("sheets.refresh_token", token.RefreshToken)
	if err := viper.WriteConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		_, err = fmt.Fprintf(out, "%s\n\nsheets:\n  refresh_token: %s\n",
			cli.FormatWarning("Could not save the refresh token; add this to your config:"), token.RefreshToken)
		return err
	}

	_, err = fmt.Fprintln(out, cli.FormatSuccess("Google Sheets authentication saved"))
	return err
}
