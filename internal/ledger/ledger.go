package ledger

import (
	"time"

	"github.com/mhafuz/receipt-ledger/internal/normalize"
)

// AppendResult reports what an append changed in the backing sheet.
type AppendResult struct {
	RowsAppended int
	CellsUpdated int
}

// Ledger persists receipt records as spreadsheet rows.
type Ledger interface {
	// Append expands a record into rows and appends them to the ledger
	Append(rec normalize.ReceiptRecord, now time.Time) (*AppendResult, error)
}
