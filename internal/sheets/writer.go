package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Layout of the rows BuildRows produces.
const (
	headerRows   = 5
	amountColumn = 5
	sheetTitle   = "Transactions"
)

// ReportWriter publishes a report and returns where it went.
type ReportWriter interface {
	Write(ctx context.Context, report Report) (string, error)
}

// Writer publishes reports to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// target is the spreadsheet and tab a report is written to.
type target struct {
	spreadsheetID string
	sheetID       int64
}

// NewWriter authenticates with the configured credentials.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	ts, err := tokenSource(ctx, config.Credentials)
	if err != nil {
		return nil, err
	}
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &Writer{service: srv, logger: logger, config: config}, nil
}

func tokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	method, err := creds.Method()
	if err != nil {
		return nil, err
	}
	if method == AuthServiceAccount {
		key, err := os.ReadFile(creds.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwt, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		return jwt.TokenSource(ctx), nil
	}

	client := OAuth2Config{ClientID: creds.ClientID, ClientSecret: creds.ClientSecret}.oauth("")
	return client.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken, TokenType: "Bearer"}), nil
}

// Write replaces the first tab's contents with the report and returns the
// spreadsheet id.
func (w *Writer) Write(ctx context.Context, report Report) (string, error) {
	w.logger.Info("Starting export",
		"transactions", report.View.Matched,
		"groups", len(report.View.Groups))

	var dst target
	err := w.retry(ctx, func() (err error) {
		dst, err = w.resolveTarget(ctx)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	rows := BuildRows(report)
	if err := w.retry(ctx, func() error { return w.replaceValues(ctx, dst, rows) }); err != nil {
		return "", fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err := w.retry(ctx, func() error {
			_, err := w.service.Spreadsheets.BatchUpdate(dst.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
				Requests: formatRequests(dst.sheetID, len(rows)),
			}).Context(ctx).Do()
			return apiError(err)
		})
		if err != nil {
			w.logger.Warn("Failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("Export completed", "spreadsheet_id", dst.spreadsheetID, "rows_written", len(rows))
	return dst.spreadsheetID, nil
}

func (w *Writer) retry(ctx context.Context, op func() error) error {
	return common.WithRetry(ctx, op, service.RetryOptions{
		MaxAttempts:  max(w.config.RetryAttempts, 1),
		InitialDelay: w.config.RetryDelay,
		Multiplier:   2,
	})
}

func (w *Writer) resolveTarget(ctx context.Context) (target, error) {
	if id := w.config.SpreadsheetID; id != "" {
		ss, err := w.service.Spreadsheets.Get(id).Fields("sheets.properties").Context(ctx).Do()
		if err != nil {
			return target{}, fmt.Errorf("unable to access spreadsheet %s: %w", id, apiError(err))
		}
		return target{spreadsheetID: id, sheetID: firstSheetID(ss)}, nil
	}

	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{{Properties: &sheets.SheetProperties{Title: sheetTitle}}},
	}).Context(ctx).Do()
	if err != nil {
		return target{}, fmt.Errorf("unable to create spreadsheet: %w", apiError(err))
	}
	// Later runs write to the same spreadsheet only if this id is configured.
	w.config.SpreadsheetID = created.SpreadsheetId
	w.logger.Info("Created spreadsheet", "id", created.SpreadsheetId, "url", created.SpreadsheetUrl)
	return target{spreadsheetID: created.SpreadsheetId, sheetID: firstSheetID(created)}, nil
}

func firstSheetID(ss *sheets.Spreadsheet) int64 {
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return 0
	}
	return ss.Sheets[0].Properties.SheetId
}

// replaceValues clears the tab then writes rows in BatchSize chunks.
func (w *Writer) replaceValues(ctx context.Context, dst target, rows [][]any) error {
	_, err := w.service.Spreadsheets.Values.Clear(dst.spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet: %w", apiError(err))
	}

	start := 1
	for batch := range slices.Chunk(rows, w.config.BatchSize) {
		_, err := w.service.Spreadsheets.Values.Update(dst.spreadsheetID, fmt.Sprintf("A%d", start), &sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", start, apiError(err))
		}
		w.logger.Debug("Wrote batch", "start_row", start, "rows", len(batch))
		start += len(batch)
	}
	return nil
}

// apiError marks throttling and server-side failures from the Sheets API
// as retryable.
func apiError(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch {
	case gerr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case gerr.Code >= http.StatusInternalServerError:
		return &common.RetryableError{Err: err, Retryable: true}
	}
	return err
}

func rowRange(sheetID int64, fromRow, toRow, fromCol, toCol int64) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    fromRow,
		EndRowIndex:      toRow,
		StartColumnIndex: fromCol,
		EndColumnIndex:   toCol,
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}
}

func textFormat(r *sheets.GridRange, f *sheets.TextFormat) *sheets.Request {
	return &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
		Range:  r,
		Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{TextFormat: f}},
		Fields: "userEnteredFormat.textFormat",
	}}
}

// formatRequests styles the title and table header, formats the amount
// column as currency and freezes everything above the first transaction.
func formatRequests(sheetID int64, totalRows int) []*sheets.Request {
	columns := int64(len(transactionHeader))
	return []*sheets.Request{
		textFormat(rowRange(sheetID, 0, 1, 0, 2), &sheets.TextFormat{Bold: true, FontSize: 16}),
		textFormat(rowRange(sheetID, headerRows-1, headerRows, 0, columns), &sheets.TextFormat{Bold: true}),
		{RepeatCell: &sheets.RepeatCellRequest{
			Range: rowRange(sheetID, headerRows, int64(totalRows), amountColumn, amountColumn+1),
			Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
				NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: "$#,##0.00"},
			}},
			Fields: "userEnteredFormat.numberFormat",
		}},
		{AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{SheetId: sheetID, Dimension: "COLUMNS", StartIndex: 0, EndIndex: columns},
		}},
		{UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:        sheetID,
				GridProperties: &sheets.GridProperties{FrozenRowCount: headerRows},
			},
			Fields: "gridProperties.frozenRowCount",
		}},
	}
}
