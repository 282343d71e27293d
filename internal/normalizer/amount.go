// Package normalizer converts locale-formatted monetary tokens into numeric
// values.
package normalizer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAmount indicates a monetary token that could not be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// NoValue is the sentinel Brazilian statements print for an absent debit or
// credit.
const NoValue = "-"

// ParseAmount converts a Brazilian-formatted monetary token ("1.234,56")
// into its numeric value. The empty string and the "-" sentinel mean
// "no value" and return nil without error.
func ParseAmount(s string) (*float64, error) {
	if s == "" || s == NoValue {
		return nil, nil
	}

	cleaned := strings.ReplaceAll(s, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return &value, nil
}
