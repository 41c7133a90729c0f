package receipt

import (
	"time"

	"github.com/mhafuz/receipt-ledger/internal/normalize"
)

// ProcessedReceipt is a receipt that went through the full pipeline, as kept
// in the local archive alongside the original upload.
type ProcessedReceipt struct {
	ID            string                  `json:"id"`
	Record        normalize.ReceiptRecord `json:"record"`
	Breakdown     normalize.Breakdown     `json:"breakdown"`
	TotalMismatch bool                    `json:"total_mismatch"`
	Filename      string                  `json:"filename"`
	ContentType   string                  `json:"content_type"`
	LedgerRows    int                     `json:"ledger_rows"`
	LedgerCells   int                     `json:"ledger_cells"`
	CreatedAt     time.Time               `json:"created_at"`
}
