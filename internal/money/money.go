package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds to 2 decimal places. decimal.Round is half-away-from-zero,
// which is half-up for the non-negative amounts handled here; financial
// statements expect half-up, never half-to-even.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns round(amount * ratePct / 100, 2).
func Percent(amount, ratePct decimal.Decimal) decimal.Decimal {
	return amount.Mul(ratePct).Div(hundred).Round(2)
}

// SplitTaxInclusive back-calculates a tax-inclusive price into
// (priceExcludingTax, taxAmount). The exclusive part is rounded half-up to
// 2 places and the tax is the exact remainder, so the two always re-add to
// the gross with no residual cent.
func SplitTaxInclusive(gross, vatRatePct decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	divisor := decimal.NewFromInt(1).Add(vatRatePct.Div(hundred))
	excl := gross.DivRound(divisor, 2)
	return excl, gross.Sub(excl)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// ClampNonNegative floors a at zero.
func ClampNonNegative(a decimal.Decimal) decimal.Decimal {
	return Max(a, decimal.Zero)
}
