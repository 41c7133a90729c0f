package normalize

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawReceipt is the loosely-typed extraction output for one receipt. Every
// field is optional and every value is untrusted: extractors return numbers as
// strings, strings as numbers, and nulls anywhere. Decoding never fails on a
// wrong-typed scalar; the value is simply treated as absent.
type RawReceipt struct {
	ReceiptID     FlexString `json:"receipt_id"`
	StoreName     FlexString `json:"store_name"`
	Address       FlexString `json:"address"`
	Phone         FlexString `json:"phone"`
	Date          FlexString `json:"date"`
	Time          FlexString `json:"time"`
	Cashier       FlexString `json:"cashier"`
	PaymentMethod FlexString `json:"payment_method"`
	CardLast4     FlexString `json:"card_last_4"`
	Subtotal      FlexNumber `json:"subtotal"`
	Tax           FlexNumber `json:"tax"`
	Total         FlexNumber `json:"total"`
	Items         []RawItem  `json:"items"`
}

// RawItem is one untrusted line item from the extractor.
type RawItem struct {
	Name      FlexString `json:"name"`
	Quantity  FlexNumber `json:"quantity"`
	UnitPrice FlexNumber `json:"unit_price"`
	Price     FlexNumber `json:"price"`
	LineTotal FlexNumber `json:"line_total"`
	Category  FlexString `json:"category"`
}

// UnmarshalJSON tolerates non-object entries in the items array. A garbage
// entry becomes an empty item, which normalization drops for its empty name.
func (it *RawItem) UnmarshalJSON(data []byte) error {
	type alias RawItem
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		*it = RawItem{}
		return nil
	}
	*it = RawItem(a)
	return nil
}

// FlexNumber holds an optional numeric value. It decodes JSON numbers, numeric
// strings (with or without a leading currency symbol), and treats null, empty
// strings, and wrong-typed values as absent.
type FlexNumber struct {
	Value float64
	Valid bool
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = FlexNumber{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = FlexNumber{}
			return nil
		}
		s = strings.TrimPrefix(strings.TrimSpace(s), "$")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*n = FlexNumber{}
			return nil
		}
		*n = FlexNumber{Value: f, Valid: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = FlexNumber{}
		return nil
	}
	*n = FlexNumber{Value: f, Valid: true}
	return nil
}

// Ptr returns the value as a pointer, nil when absent.
func (n FlexNumber) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// FlexString holds an optional text value. It decodes JSON strings and
// stringifies numbers; null and wrong-typed values read as empty.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			*s = ""
			return nil
		}
		*s = FlexString(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*s = ""
		return nil
	}
	*s = FlexString(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// Ptr returns the trimmed value as a pointer, nil when empty.
func (s FlexString) Ptr() *string {
	v := strings.TrimSpace(string(s))
	if v == "" {
		return nil
	}
	return &v
}
