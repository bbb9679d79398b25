// Package pricing converts human-readable token prices to and from the integer
// strings stored on api endpoints.
package pricing

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDecimals is the largest token precision accepted by the catalogue.
const MaxDecimals = 18

var (
	ErrInvalidPrice    = errors.New("Invalid price format")
	ErrInvalidDecimals = errors.New("token decimals must be between 0 and 18")

	amountPattern = regexp.MustCompile(`^[0-9]*(\.[0-9]*)?$`)
)

// ParseUnits scales a decimal price by 10^decimals and returns the integer
// string. Commas are ignored, an empty input is zero and fraction digits past
// the token precision are truncated, not rounded.
func ParseUnits(value string, decimals int) (string, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return "", ErrInvalidDecimals
	}

	clean := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if clean == "" || clean == "." {
		return "0", nil
	}
	if !amountPattern.MatchString(clean) {
		return "", ErrInvalidPrice
	}

	amount, err := decimal.NewFromString(normalize(clean))
	if err != nil {
		return "", ErrInvalidPrice
	}

	return amount.Shift(int32(decimals)).Truncate(0).String(), nil
}

// FormatUnits is the inverse of ParseUnits.
func FormatUnits(amount string, decimals int) (string, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return "", ErrInvalidDecimals
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return "", ErrInvalidPrice
	}
	return value.Shift(-int32(decimals)).String(), nil
}

// normalize fills in the digits decimal.NewFromString needs around a bare point.
func normalize(s string) string {
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	return strings.TrimSuffix(s, ".")
}
