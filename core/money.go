/*
money.go - Monetary amounts on decimal.Decimal

PURPOSE:
  All prices, rates, bounties, and expense-line amounts go through
  decimal.Decimal. Float math on money drifts; decimal math doesn't.

USAGE:
  total := core.MustParseMoney("150")
  bounty := core.Percent(total, decimal.NewFromInt(10))  // 15

SEE ALSO:
  - mission/cost.go: Price and bounty computation
  - store/sqlite/sqlite.go: Amount round-trips through TEXT columns
*/
package core

import (
	"github.com/shopspring/decimal"
)

// MustParseMoney parses a decimal string, returning zero on malformed input.
// Store scanners use it on amounts the store itself wrote as decimal TEXT.
func MustParseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Percent returns value × (pct / 100), exact.
func Percent(value, pct decimal.Decimal) decimal.Decimal {
	return value.Mul(pct).Div(decimal.NewFromInt(100))
}
