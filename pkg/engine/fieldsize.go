package engine

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FieldSize is the farmer-entered field size in acres. It is kept as text
// because the form field is free text; JSON numbers and strings both decode.
type FieldSize string

func (f *FieldSize) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FieldSize(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FieldSize(n.String())
	return nil
}

// Acres formats a numeric size.
func Acres(v float64) FieldSize {
	return FieldSize(strconv.FormatFloat(v, 'f', -1, 64))
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseAcres reads the leading decimal number of the text, so "1.5 acres"
// yields 1.5. ok is false when no number is present.
func ParseAcres(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// AreaSqMeters converts the field size to square meters. Sizes that are
// missing, unparsable, non-positive, non-finite or above MaxFieldAcres
// become the fallback area and defaulted is true. This is a policy, not an
// error.
func (c Constants) AreaSqMeters(size FieldSize) (area float64, defaulted bool) {
	acres, ok := ParseAcres(string(size))
	if !ok || math.IsNaN(acres) || acres <= 0 || acres > c.MaxFieldAcres {
		return c.FallbackAreaSqMeters, true
	}
	area = acres * c.SqMetersPerAcre
	if area <= 0 || area > maxAreaSqMeters {
		return c.FallbackAreaSqMeters, true
	}
	return area, false
}
