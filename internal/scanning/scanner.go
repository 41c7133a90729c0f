package scanning

import "github.com/mhafuz/receipt-ledger/internal/normalize"

// ScanResult is the extraction service's best-effort reading of one receipt:
// the loosely-typed record plus the model's literal response text, which the
// ledger attaches to the first row of the receipt.
type ScanResult struct {
	Receipt normalize.RawReceipt
	RawText string
}

// Scanner defines the interface for receipt extraction backends.
type Scanner interface {
	// ScanReceipt analyzes a receipt image/PDF and extracts a raw receipt record
	ScanReceipt(imageData []byte, contentType string) (*ScanResult, error)
	// Close closes the scanner and releases resources
	Close() error
}
