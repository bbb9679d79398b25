package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		decimals int
		expected string
	}{
		{name: "tiny_amount_18_decimals", value: "0.0001", decimals: 18, expected: "100000000000000"},
		{name: "commas_are_stripped", value: "1,234.5", decimals: 2, expected: "123450"},
		{name: "excess_fraction_truncated", value: "1.239", decimals: 2, expected: "123"},
		{name: "whole_number", value: "25", decimals: 6, expected: "25000000"},
		{name: "zero_decimals", value: "7.99", decimals: 0, expected: "7"},
		{name: "empty_is_zero", value: "", decimals: 18, expected: "0"},
		{name: "leading_point", value: ".5", decimals: 1, expected: "5"},
		{name: "trailing_point", value: "3.", decimals: 2, expected: "300"},
		{name: "large_value_keeps_precision", value: "123456789.123456789123456789", decimals: 18, expected: "123456789123456789123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUnits(tt.value, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseUnitsRejectsInvalidInput(t *testing.T) {
	for _, value := range []string{"abc", "1.2.3", "-1", "1e5", "0x10"} {
		t.Run(value, func(t *testing.T) {
			_, err := ParseUnits(value, 6)
			assert.ErrorIs(t, err, ErrInvalidPrice)
		})
	}

	_, err := ParseUnits("1", 19)
	assert.ErrorIs(t, err, ErrInvalidDecimals)
}

func TestFormatUnits(t *testing.T) {
	got, err := FormatUnits("100000000000000", 18)
	require.NoError(t, err)
	assert.Equal(t, "0.0001", got)

	got, err = FormatUnits("123450", 2)
	require.NoError(t, err)
	assert.Equal(t, "1234.5", got)

	_, err = FormatUnits("not-a-number", 2)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}
