package expensecsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRupees(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1,03,125", 103125},
		{"12,34,567.49", 1234567},
		{"₹ 7,500.50", 7501},
		{"Rs. 250", 250},
		{"INR 1,000", 1000},
		{"-588", -588},
		{" 42 ", 42},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRupees(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRupees_Invalid(t *testing.T) {
	for _, in := range []string{"", "₹", "abc", "1.2.3"} {
		_, err := parseRupees(in)
		assert.Error(t, err, in)
	}
}
