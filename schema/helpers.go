// Package schema has the models, constants and static tables shared by all parts of scorecards.
package schema

import (
	"math"
	"strconv"
	"strings"
)

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Floats converts plain values into a comparison set with no missing entries.
func Floats(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = Float(values[i])
	}
	return out
}

// ParseNullableFloat parses a raw cell. Blank, "-", "null", "N/A" and NaN
// are missing data, distinct from zero.
func ParseNullableFloat(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "-", "null", "n/a", "nan":
		return nil, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) {
		return nil, nil
	}
	return &v, nil
}
