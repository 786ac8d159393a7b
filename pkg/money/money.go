// Package money formats minor-currency-unit amounts for display. All cart
// arithmetic stays in integer minor units; decimals appear only at the edge.
package money

import "github.com/shopspring/decimal"

// Decimal converts minor units to an exact major-unit decimal, e.g. 123456 to
// 1234.56.
func Decimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// Format renders minor units as a display string, e.g. 123456 to "$1234.56".
func Format(minor int64) string {
	return "$" + Decimal(minor).StringFixed(2)
}
