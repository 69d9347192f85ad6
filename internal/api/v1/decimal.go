package v1

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ExtractDecimal pulls a numeric value from an attribute map by field name.
// Returns decimal.Zero if the field is missing, empty, or not a recognized numeric type.
// Upstream sends most metrics as strings ("12345.50", sometimes "NA"), so strings are
// parsed after trimming surrounding whitespace.
func ExtractDecimal(data map[string]interface{}, field string) decimal.Decimal {
	if field == "" {
		return decimal.Zero
	}
	v, ok := data[field]
	if !ok {
		return decimal.Zero
	}
	switch val := v.(type) {
	case json.Number:
		return parseDecimal(val.String())
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(val)
	case float32:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(f)
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case int32:
		return decimal.NewFromInt(int64(val))
	case string:
		return parseDecimal(val)
	}
	return decimal.Zero
}

func parseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	// Values beyond float64 range would surface as Inf in the JSON output.
	if math.IsInf(d.InexactFloat64(), 0) {
		return decimal.Zero
	}
	return d
}
