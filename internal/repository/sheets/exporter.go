package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/stockledger/internal/config"
)

// MovementsRange is the tab that receives one row per stock movement.
const MovementsRange = "Movements!A:G"

// MovementsHeader labels the columns written to MovementsRange.
var MovementsHeader = []interface{}{"Timestamp", "Product ID", "Kind", "Previous balance", "Quantity", "New balance", "Unit price"}

// Exporter appends rows to a spreadsheet.
type Exporter interface {
	AppendRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds an exporter authenticated with a service account file.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRow appends the provided values after the last row of sheetRange.
func (e *GoogleSheetExporter) AppendRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	e.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// EnsureHeader writes header as the first row when sheetRange is still empty.
func (e *GoogleSheetExporter) EnsureHeader(ctx context.Context, sheetRange string, header []interface{}) error {
	resp, err := e.service.Spreadsheets.Values.Get(e.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read range %s: %w", sheetRange, err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	e.logger.Info("writing sheet header", zap.String("range", sheetRange))
	return e.AppendRow(ctx, sheetRange, header)
}
