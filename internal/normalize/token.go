package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// TokenKind classifies the numeric token adjacent to an item name.
type TokenKind int

const (
	// TokenNone means the token is a size indicator or absent; quantity defaults to 1.
	TokenNone TokenKind = iota
	// TokenQuantity means the token is a discrete item count.
	TokenQuantity
	// TokenWeight means the token is a weighed amount, not a count.
	TokenWeight
)

// TokenInfo is the classifier's reading of one item name.
type TokenInfo struct {
	Kind      TokenKind
	Quantity  int
	UnitPrice float64 // price riding along with an "@" marker, if any
	Weight    float64 // weighed amount for TokenWeight
	Name      string  // item name with a consumed count token stripped
}

var (
	// "5 @ $1.99" or "3 @ $0.29/lb": count at a unit price.
	reCountAt = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*@\s*\$?(\d+(?:\.\d+)?)(?:\s*/\s*[A-Za-z]+)?\s*`)
	// "3 x ITEM" or "3x ITEM": explicit multiplier.
	reMultiplier = regexp.MustCompile(`^(\d+)\s*[xX]\b\s*`)
	// "0.58 lb @ $1.99/lb" anywhere in the line: weighed amount at a per-unit price.
	reWeightAt = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:lb|kg|oz|g)s?\.?\s*@\s*\$?(\d+(?:\.\d+)?)`)
	// "1.43 lb ..." leading weight with a separating space and no price.
	reWeightLead = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s+(?:lb|kg|oz|g)s?\b`)
	// "400G", "3L", "24PK", "2CT", "16.9OZ": a unit-of-measure suffix glued to the
	// number is a package size, never a count.
	reSizeSuffix = regexp.MustCompile(`(?i)^\d+(?:\.\d+)?(?:G|KG|MG|OZ|Z|L|ML|LB|PK|P|CT)\b`)
	// "2 FS LAYS CHIPS": bare leading count before the name.
	reBareCount = regexp.MustCompile(`^(\d+)\s+(\S.*)$`)
)

// ClassifyToken applies the ordered token rules to an item name. It never
// fails: malformed or ambiguous tokens fall through to TokenNone with a
// quantity of 1. Weighed lines keep their printed name; count tokens are
// stripped from the returned name.
func ClassifyToken(name string) TokenInfo {
	trimmed := strings.TrimSpace(name)
	info := TokenInfo{Kind: TokenNone, Quantity: 1, Name: trimmed}

	// Rule 1: "N @ $P". An integer N is a count; a fractional N before the
	// marker reads as a weighed amount.
	if m := reCountAt.FindStringSubmatch(trimmed); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		price, _ := strconv.ParseFloat(m[2], 64)
		if rest := strings.TrimSpace(trimmed[len(m[0]):]); rest != "" {
			info.Name = rest
		}
		if n > 0 && n == math.Trunc(n) {
			info.Kind = TokenQuantity
			info.Quantity = int(n)
			info.UnitPrice = price
			return info
		}
		info.Kind = TokenWeight
		info.Weight = n
		info.UnitPrice = price
		info.Name = trimmed
		return info
	}

	// Rule 2: multiplication marker.
	if m := reMultiplier.FindStringSubmatch(trimmed); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			info.Kind = TokenQuantity
			info.Quantity = n
			if rest := strings.TrimSpace(trimmed[len(m[0]):]); rest != "" {
				info.Name = rest
			}
			return info
		}
	}

	// Rule 3: weight unit, with or without a per-unit price.
	if m := reWeightAt.FindStringSubmatch(trimmed); m != nil {
		info.Kind = TokenWeight
		info.Weight, _ = strconv.ParseFloat(m[1], 64)
		info.UnitPrice, _ = strconv.ParseFloat(m[2], 64)
		return info
	}
	if m := reWeightLead.FindStringSubmatch(trimmed); m != nil {
		info.Kind = TokenWeight
		info.Weight, _ = strconv.ParseFloat(m[1], 64)
		return info
	}

	// Rule 4: size indicator, not a quantity.
	if reSizeSuffix.MatchString(trimmed) {
		return info
	}

	// Rule 5: bare leading count directly preceding the name.
	if m := reBareCount.FindStringSubmatch(trimmed); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			info.Kind = TokenQuantity
			info.Quantity = n
			info.Name = strings.TrimSpace(m[2])
			return info
		}
	}

	// Rule 6: conservative default.
	return info
}
