package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

// Upstream field names. The dashboard keeps the data.gov.in names on the wire so the
// frontend reads the same object shape whether it came from the cache or the source.
const (
	FieldStateName             = "state_name"
	FieldDistrictCode          = "district_code"
	FieldDistrictName          = "district_name"
	FieldDistrictNameLocalized = "district_name_hi"
	FieldFinYear               = "fin_year"

	FieldApprovedBudget       = "Approved_Labour_Budget"
	FieldAverageDailyWage     = "Average_Wage_rate_per_day_per_person"
	FieldTotalWorkersEmployed = "Total_Individuals_Worked"
)

var finYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

// ValidFinYear reports whether s looks like "YYYY-YYYY".
// Zero-padded four digit years keep lexicographic order equal to chronological order.
func ValidFinYear(s string) bool {
	return finYearPattern.MatchString(s)
}

// Key is the identity of a record: one district in one fiscal year.
type Key struct {
	DistrictCode string
	FinYear      string
}

func (k Key) String() string {
	return k.DistrictCode + "-" + k.FinYear
}

// Record is one district's reported metrics for one fiscal year.
//
// Identity and display fields are typed. Everything else the upstream sends,
// including the metric columns, lives in Attributes untouched.
type Record struct {
	StateName             string
	DistrictCode          string
	DistrictName          string
	DistrictNameLocalized string
	FinYear               string

	// Attributes holds the remaining upstream fields verbatim.
	// Numbers are kept as json.Number so nothing is lost to float rounding.
	Attributes map[string]interface{}
}

// Key returns the (district_code, fin_year) identity.
func (r Record) Key() Key {
	return Key{DistrictCode: r.DistrictCode, FinYear: r.FinYear}
}

// Validate ensures the record carries its identity fields.
func (r Record) Validate() error {
	if r.StateName == "" {
		return fmt.Errorf("state_name is required")
	}
	if r.DistrictCode == "" {
		return fmt.Errorf("district_code is required")
	}
	if r.FinYear == "" {
		return fmt.Errorf("fin_year is required")
	}
	return nil
}

// ApprovedBudget returns the approved labour budget, zero when missing or non-numeric.
func (r Record) ApprovedBudget() decimal.Decimal {
	return ExtractDecimal(r.Attributes, FieldApprovedBudget)
}

// AverageDailyWage returns the average wage per day per person.
func (r Record) AverageDailyWage() decimal.Decimal {
	return ExtractDecimal(r.Attributes, FieldAverageDailyWage)
}

// TotalWorkersEmployed returns the number of individuals who worked.
func (r Record) TotalWorkersEmployed() decimal.Decimal {
	return ExtractDecimal(r.Attributes, FieldTotalWorkersEmployed)
}

// Clone returns a copy whose Attributes map can be mutated independently.
func (r Record) Clone() Record {
	out := r
	if r.Attributes != nil {
		out.Attributes = make(map[string]interface{}, len(r.Attributes))
		for k, v := range r.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// MarshalJSON flattens the record back into the upstream object shape.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Attributes)+5)
	for k, v := range r.Attributes {
		out[k] = v
	}
	out[FieldStateName] = r.StateName
	out[FieldDistrictCode] = r.DistrictCode
	out[FieldDistrictName] = r.DistrictName
	out[FieldFinYear] = r.FinYear
	if r.DistrictNameLocalized != "" {
		out[FieldDistrictNameLocalized] = r.DistrictNameLocalized
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts any upstream object, lifting identity fields and keeping the rest.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	*r = Record{
		StateName:             takeString(raw, FieldStateName),
		DistrictCode:          takeString(raw, FieldDistrictCode),
		DistrictName:          takeString(raw, FieldDistrictName),
		DistrictNameLocalized: takeString(raw, FieldDistrictNameLocalized),
		FinYear:               takeString(raw, FieldFinYear),
		Attributes:            raw,
	}
	return nil
}

// takeString removes field from raw and returns it as a string.
// Upstream occasionally sends codes as numbers.
func takeString(raw map[string]interface{}, field string) string {
	v, ok := raw[field]
	if !ok {
		return ""
	}
	delete(raw, field)

	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
