package ledger

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/mhafuz/receipt-ledger/internal/normalize"
)

// Sheets implements the Ledger interface on a Google Sheets spreadsheet using
// service-account credentials.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheets creates a new Sheets ledger instance
func NewSheets(ctx context.Context, credentialsPath, spreadsheetID string) (*Sheets, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Sheets{
		svc:           svc,
		spreadsheetID: spreadsheetID,
	}, nil
}

// Append expands the record into rows and appends them to the spreadsheet,
// writing the header row first when the sheet is still empty.
func (s *Sheets) Append(rec normalize.ReceiptRecord, now time.Time) (*AppendResult, error) {
	existing, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, "A1:A1").Do()
	if err != nil {
		return nil, fmt.Errorf("reading ledger header: %w", err)
	}

	rows := BuildRows(rec, now)
	if len(existing.Values) == 0 {
		header := make([]interface{}, len(Header))
		for i, h := range Header {
			header[i] = h
		}
		rows = append([][]interface{}{header}, rows...)
	}

	resp, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, "A1", &sheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Do()
	if err != nil {
		return nil, fmt.Errorf("appending ledger rows: %w", err)
	}

	result := &AppendResult{}
	if resp.Updates != nil {
		result.RowsAppended = int(resp.Updates.UpdatedRows)
		result.CellsUpdated = int(resp.Updates.UpdatedCells)
	}
	return result, nil
}
