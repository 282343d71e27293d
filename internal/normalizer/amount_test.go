package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"thousands and decimals", "1.234,56", 1234.56},
		{"decimals only", "100,00", 100.00},
		{"no decimals", "1.000", 1000},
		{"plain integer", "42", 42},
		{"millions", "1.234.567,89", 1234567.89},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseAmount_NoValue(t *testing.T) {
	for _, input := range []string{"", "-"} {
		got, err := ParseAmount(input)
		require.NoError(t, err)
		assert.Nil(t, got, "input %q should mean no value", input)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{"abc", "12,34,56x", "R$ 10"} {
		got, err := ParseAmount(input)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", input)
	}
}
