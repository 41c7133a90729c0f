package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mhafuz/receipt-ledger/internal/normalize"
)

// parseReceiptJSON extracts the JSON object from a model response and decodes
// it into a raw receipt. Models wrap their output in markdown fences or prose
// more often than not; everything outside the outermost braces is discarded.
func parseReceiptJSON(text string) (normalize.RawReceipt, error) {
	var raw normalize.RawReceipt

	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return raw, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return raw, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return raw, fmt.Errorf("unmarshaling json: %w", err)
	}

	raw.Date = normalizeDate(raw.Date)
	return raw, nil
}

var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01/02/06",
	"02-01-2006",
	"Jan 2, 2006",
}

// normalizeDate rewrites recognized date formats as YYYY-MM-DD. Unrecognized
// values pass through untouched rather than being guessed at.
func normalizeDate(date normalize.FlexString) normalize.FlexString {
	s := strings.TrimSpace(date.String())
	if s == "" {
		return date
	}
	for _, format := range dateFormats {
		if d, err := time.Parse(format, s); err == nil {
			return normalize.FlexString(d.Format("2006-01-02"))
		}
	}
	return date
}
