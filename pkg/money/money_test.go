package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		minor int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{100, "$1.00"},
		{1999, "$19.99"},
		{129900, "$1299.00"},
		{-250, "$-2.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.minor))
	}
}

func TestDecimal_Exact(t *testing.T) {
	assert.True(t, Decimal(1050).Equal(decimal.RequireFromString("10.50")))
	assert.True(t, Decimal(1).Equal(decimal.RequireFromString("0.01")))
}
