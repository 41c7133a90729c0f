package normalize

import (
	"errors"
	"math"
	"strings"
)

// Categories a canonical line item may carry.
const (
	CategoryProduct = "product"
	CategoryTax     = "tax"
	CategoryFee     = "fee"
	CategoryDeposit = "deposit"
)

// Drop reasons for raw items that cannot be normalized.
var (
	ErrEmptyName    = errors.New("empty item name")
	ErrInvalidPrice = errors.New("invalid price")
	ErrZeroPrice    = errors.New("zero price on non-tax line")
)

// CanonicalItem is a receipt line item after normalization. Quantity is an
// integer count of at least 1; weighed lines collapse to a single unit with
// the computed line total as the unit price and the fractional amount kept in
// Weight.
type CanonicalItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
	Weight    float64 `json:"weight,omitempty"`
	Category  string  `json:"category"`
}

// NormalizeItem turns an untrusted raw item into a canonical one. Items with
// an empty name, a negative price, or a zero price outside the tax category
// are rejected with a drop reason; the caller logs and moves on.
func NormalizeItem(raw RawItem) (CanonicalItem, error) {
	name := strings.TrimSpace(raw.Name.String())
	if name == "" {
		return CanonicalItem{}, ErrEmptyName
	}

	token := ClassifyToken(name)

	// Quantity: a provided positive integer wins, then the classifier, then 1.
	quantity := 0
	if raw.Quantity.Valid && raw.Quantity.Value > 0 && raw.Quantity.Value == math.Trunc(raw.Quantity.Value) {
		quantity = int(raw.Quantity.Value)
	}

	weight := 0.0
	switch token.Kind {
	case TokenQuantity:
		if quantity == 0 {
			quantity = token.Quantity
		}
		name = token.Name
	case TokenWeight:
		// A weighed line is always a single unit regardless of what the
		// extractor claimed for quantity.
		weight = token.Weight
		quantity = 1
	}
	if quantity < 1 {
		quantity = 1
	}

	provided := raw.UnitPrice
	if !provided.Valid {
		provided = raw.Price
	}

	var unitPrice, lineTotal float64
	if token.Kind == TokenWeight {
		// Line total = weight x per-unit price, folded into the unit price of a
		// one-unit line. A printed total wins over the computed one.
		perUnit := token.UnitPrice
		if perUnit == 0 && provided.Valid {
			perUnit = provided.Value
		}
		if raw.LineTotal.Valid {
			lineTotal = raw.LineTotal.Value
		} else {
			lineTotal = round2(weight * perUnit)
		}
		unitPrice = lineTotal
	} else {
		switch {
		case provided.Valid && provided.Value != 0:
			unitPrice = provided.Value
		case token.UnitPrice != 0:
			unitPrice = token.UnitPrice
		case raw.LineTotal.Valid:
			unitPrice = round2(raw.LineTotal.Value / float64(quantity))
		}
		if raw.LineTotal.Valid {
			lineTotal = raw.LineTotal.Value
			// The printed total is authoritative; re-derive the unit price when
			// the provided one disagrees beyond rounding noise.
			if math.Abs(lineTotal-float64(quantity)*unitPrice) > 0.01 {
				unitPrice = round2(lineTotal / float64(quantity))
			}
		} else {
			lineTotal = round2(float64(quantity) * unitPrice)
		}
	}

	if unitPrice < 0 || lineTotal < 0 {
		return CanonicalItem{}, ErrInvalidPrice
	}

	category := strings.ToLower(strings.TrimSpace(raw.Category.String()))
	switch category {
	case CategoryProduct, CategoryTax, CategoryFee, CategoryDeposit:
	default:
		category = CategoryProduct
	}

	// A $0.00 tax line is a real charge; zero anywhere else is an extraction
	// artifact.
	if lineTotal == 0 && unitPrice == 0 && category != CategoryTax {
		return CanonicalItem{}, ErrZeroPrice
	}

	return CanonicalItem{
		Name:      name,
		Quantity:  quantity,
		UnitPrice: round2(unitPrice),
		LineTotal: round2(lineTotal),
		Weight:    weight,
		Category:  category,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
