package normalize

import "math"

// TotalTolerance is the absolute allowance, in currency units, when comparing
// the computed total against the printed one. It absorbs per-line rounding
// noise and is deliberately not configurable.
const TotalTolerance = 0.10

// Breakdown is the per-category aggregation of a receipt's line items.
type Breakdown struct {
	ProductSubtotal float64 `json:"product_subtotal"`
	FeeTotal        float64 `json:"fee_total"`
	TaxTotal        float64 `json:"tax_total"`
	ComputedTotal   float64 `json:"computed_total"`
}

// Reconcile partitions items into product, fee+deposit, and tax buckets, sums
// each, and compares the computed total against the declared one. A mismatch
// is reported, never fatal; with no declared total the flag is always false.
func Reconcile(items []CanonicalItem, declaredTotal *float64) (Breakdown, bool) {
	var b Breakdown
	for _, it := range items {
		switch it.Category {
		case CategoryTax:
			b.TaxTotal += it.LineTotal
		case CategoryFee, CategoryDeposit:
			b.FeeTotal += it.LineTotal
		default:
			b.ProductSubtotal += it.LineTotal
		}
	}
	b.ProductSubtotal = round2(b.ProductSubtotal)
	b.FeeTotal = round2(b.FeeTotal)
	b.TaxTotal = round2(b.TaxTotal)
	b.ComputedTotal = round2(b.ProductSubtotal + b.FeeTotal + b.TaxTotal)

	if declaredTotal == nil {
		return b, false
	}
	// Compare in whole cents so a difference of exactly the tolerance never
	// trips the flag on floating point dust.
	diffCents := int(math.Round(math.Abs(b.ComputedTotal-*declaredTotal) * 100))
	return b, diffCents > int(math.Round(TotalTolerance*100))
}
