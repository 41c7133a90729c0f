package ledger

import (
	"fmt"
	"time"

	"github.com/mhafuz/receipt-ledger/internal/normalize"
)

// Header is the first-time initialization row of the ledger sheet.
var Header = []string{
	"Receipt ID",
	"Timestamp",
	"Store Name",
	"Receipt Date",
	"Item Name",
	"Item Price",
	"Payment Method",
	"Card Last 4",
	"Receipt Total",
	"Raw Text",
}

// BuildRows expands a receipt record into ledger rows: one row per item plus a
// trailing "Total" summary row, or a single summary row when no items survived
// normalization. The raw OCR text rides only on the first emitted row.
func BuildRows(rec normalize.ReceiptRecord, now time.Time) [][]interface{} {
	timestamp := now.Format(time.RFC3339)
	rows := make([][]interface{}, 0, len(rec.Items)+1)

	rawText := rec.RawText
	takeRawText := func() string {
		t := rawText
		rawText = ""
		return t
	}

	for _, item := range rec.Items {
		name := item.Name
		if item.Quantity > 1 {
			name = fmt.Sprintf("%d x %s", item.Quantity, item.Name)
		}
		rows = append(rows, []interface{}{
			rec.ReceiptID,
			timestamp,
			deref(rec.StoreName),
			deref(rec.Date),
			name,
			money(item.LineTotal),
			deref(rec.PaymentMethod),
			deref(rec.CardLast4),
			"",
			takeRawText(),
		})
	}

	rows = append(rows, []interface{}{
		rec.ReceiptID,
		timestamp,
		deref(rec.StoreName),
		deref(rec.Date),
		"Total",
		"",
		deref(rec.PaymentMethod),
		deref(rec.CardLast4),
		moneyPtr(rec.Total),
		takeRawText(),
	})

	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func moneyPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return money(*v)
}
