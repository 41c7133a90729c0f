package normalize

import (
	"log/slog"
	"math"
	"strings"
	"time"
)

// ReceiptRecord is the canonical result of normalizing one receipt. Optional
// fields are nil when the receipt did not show them, but their keys are always
// present in the JSON encoding. Records are immutable once built.
type ReceiptRecord struct {
	ReceiptID     string          `json:"receipt_id"`
	StoreName     *string         `json:"store_name"`
	Address       *string         `json:"address"`
	Phone         *string         `json:"phone"`
	Date          *string         `json:"date"`
	Time          *string         `json:"time"`
	Cashier       *string         `json:"cashier"`
	PaymentMethod *string         `json:"payment_method"`
	CardLast4     *string         `json:"card_last_4"`
	Items         []CanonicalItem `json:"items"`
	Subtotal      *float64        `json:"subtotal"`
	Tax           *float64        `json:"tax"`
	Total         *float64        `json:"total"`
	ItemCount     int             `json:"item_count"`
	RawText       string          `json:"raw_text,omitempty"`
}

// ApplyDefaults fills every recognized field with an explicit default so the
// schema is always complete: a timestamp-derived receipt id, an empty items
// slice, and a recomputed item count. Applying it twice yields the same record.
func ApplyDefaults(rec ReceiptRecord, now time.Time) ReceiptRecord {
	if strings.TrimSpace(rec.ReceiptID) == "" {
		rec.ReceiptID = now.Format("20060102150405")
	}
	if rec.Items == nil {
		rec.Items = []CanonicalItem{}
	}
	rec.ItemCount = len(rec.Items)
	return rec
}

// EmptyRecord is the schema-valid record returned when extraction fails
// entirely: generated receipt id, no items, every optional field nil.
func EmptyRecord(now time.Time) ReceiptRecord {
	return ApplyDefaults(ReceiptRecord{}, now)
}

// BuildRecord runs the full normalization pipeline over a raw extraction:
// per-line normalization (invalid lines dropped with a logged reason),
// reconciliation against the printed total, and field defaulting. Item order
// follows the order of appearance on the receipt.
func BuildRecord(raw RawReceipt, now time.Time) (ReceiptRecord, Breakdown, bool) {
	items := make([]CanonicalItem, 0, len(raw.Items))
	for _, rawItem := range raw.Items {
		item, err := NormalizeItem(rawItem)
		if err != nil {
			slog.Debug("dropping receipt line",
				"name", strings.TrimSpace(rawItem.Name.String()),
				"reason", err,
			)
			continue
		}
		items = append(items, item)
	}

	declared := raw.Total.Ptr()
	breakdown, mismatch := Reconcile(items, declared)
	if mismatch {
		slog.Warn("receipt total mismatch",
			"computed", breakdown.ComputedTotal,
			"declared", *declared,
			"difference", round2(math.Abs(breakdown.ComputedTotal-*declared)),
		)
	}

	total := declared
	if total == nil && len(items) > 0 {
		t := breakdown.ComputedTotal
		total = &t
	}

	rec := ReceiptRecord{
		ReceiptID:     strings.TrimSpace(raw.ReceiptID.String()),
		StoreName:     raw.StoreName.Ptr(),
		Address:       raw.Address.Ptr(),
		Phone:         raw.Phone.Ptr(),
		Date:          raw.Date.Ptr(),
		Time:          raw.Time.Ptr(),
		Cashier:       raw.Cashier.Ptr(),
		PaymentMethod: raw.PaymentMethod.Ptr(),
		CardLast4:     raw.CardLast4.Ptr(),
		Items:         items,
		Subtotal:      raw.Subtotal.Ptr(),
		Tax:           raw.Tax.Ptr(),
		Total:         total,
	}
	return ApplyDefaults(rec, now), breakdown, mismatch
}
