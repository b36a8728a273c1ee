package chat

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var amountRe = regexp.MustCompile(`^([\d.,]+)\s*(juta|jt|ribu|rb|k)?$`)

// amountMultipliers covers Indonesian shorthand: "50 ribu", "8rb", "10k",
// "1,5 juta".
var amountMultipliers = map[string]int64{
	"juta": 1_000_000,
	"jt":   1_000_000,
	"ribu": 1_000,
	"rb":   1_000,
	"k":    1_000,
}

// ParseAmount decodes an amount from the model's JSON, which may arrive as
// a number or as a string carrying currency symbols, separators, or
// Indonesian shorthand. Returns false when nothing numeric can be read.
func ParseAmount(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 {
		return decimal.Zero, false
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		if d, derr := decimal.NewFromString(num.String()); derr == nil {
			return validAmount(d)
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseAmountText(s)
	}

	return decimal.Zero, false
}

// ParseAmountText parses a human-written amount like "Rp 8.000", "50 ribu",
// or "1,5 juta".
func ParseAmountText(s string) (decimal.Decimal, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "rp.")
	s = strings.TrimPrefix(s, "rp")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	m := amountRe.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero, false
	}

	numPart, suffix := m[1], m[2]
	if suffix != "" {
		// With a multiplier the comma is an Indonesian decimal separator.
		numPart = strings.ReplaceAll(numPart, ",", ".")
	} else {
		// Without one, dots and commas are thousands separators.
		numPart = strings.ReplaceAll(numPart, ".", "")
		numPart = strings.ReplaceAll(numPart, ",", "")
	}

	d, err := decimal.NewFromString(numPart)
	if err != nil {
		return decimal.Zero, false
	}
	if suffix != "" {
		d = d.Mul(decimal.NewFromInt(amountMultipliers[suffix]))
	}
	return validAmount(d)
}

func validAmount(d decimal.Decimal) (decimal.Decimal, bool) {
	if d.IsNegative() || d.IsZero() {
		return decimal.Zero, false
	}
	return d, true
}
