// Package google exports ledger rows to a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cashflow/internal/core"
	ports "cashflow/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Header row written before the transaction rows, in the historical export
// column order.
var exportHeader = []any{"S.No", "Date", "Description", "Account", "Amount", "Credit", "Debit", "Balance"}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ ports.RowExporter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_SHEET_NAME (default "Transactions") and one of
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// GOOGLE_APPLICATION_CREDENTIALS for auth.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Transactions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// ReplaceRows clears the sheet and writes the header plus all export rows.
// Replacement is required because serials are positional: after any
// mutation every row below the edit point may have shifted.
func (c *Client) ReplaceRows(ctx context.Context, rows []core.ExportRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:H", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.sheetName, err)
	}

	values := make([][]any, 0, len(rows)+1)
	values = append(values, exportHeader)
	for _, r := range rows {
		values = append(values, []any{
			r.ID,
			r.Date.String(),
			r.Description,
			r.Account,
			core.FormatAmount(r.Amount),
			core.FormatAmount(r.Credit),
			core.FormatAmount(r.Debit),
			core.FormatAmount(r.Balance),
		})
	}

	writeRange := fmt.Sprintf("%s!A1", c.sheetName)
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write rows to sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported ledger rows to Google Sheets",
		"sheet", c.sheetName,
		"rows", len(rows))
	return nil
}
