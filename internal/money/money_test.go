package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestRound2_HalfUp(t *testing.T) {
	cases := map[string]string{
		"2.625":  "2.63",
		"24.625": "24.63",
		"1.005":  "1.01",
		"0.004":  "0.00",
		"0.005":  "0.01",
		"150":    "150",
	}
	for in, want := range cases {
		assert.True(t, Round2(d(in)).Equal(d(want)), "Round2(%s) = %s, want %s", in, Round2(d(in)), want)
	}
}

func TestPercent(t *testing.T) {
	// 15% of 1000.00 is the canonical commission case
	assert.True(t, Percent(d("1000.00"), d("15")).Equal(d("150.00")))
	// platform fee 0.25% of 1050.00 rounds half-up
	assert.True(t, Percent(d("1050.00"), d("0.25")).Equal(d("2.63")))
	// gateway pct 2.25% of 1050.00
	assert.True(t, Percent(d("1050.00"), d("2.25")).Equal(d("23.63")))
}

func TestSplitTaxInclusive_RoundTrip(t *testing.T) {
	// excl + tax must re-add to the gross exactly, no residual cent
	for _, gross := range []string{"0.01", "1.00", "99.99", "10000.00"} {
		excl, tax := SplitTaxInclusive(d(gross), d("5"))
		require.True(t, excl.Add(tax).Equal(d(gross)),
			"round trip lost a cent for %s: excl=%s tax=%s", gross, excl, tax)
	}
}

func TestSplitTaxInclusive_Values(t *testing.T) {
	excl, tax := SplitTaxInclusive(d("1050.00"), d("5"))
	assert.True(t, excl.Equal(d("1000.00")), "excl = %s", excl)
	assert.True(t, tax.Equal(d("50.00")), "tax = %s", tax)

	excl, tax = SplitTaxInclusive(d("99.99"), d("5"))
	assert.True(t, excl.Equal(d("95.23")), "excl = %s", excl)
	assert.True(t, tax.Equal(d("4.76")), "tax = %s", tax)
}

func TestNoBinaryFloatDrift(t *testing.T) {
	// the classic float trap: 0.1 + 0.2 must be exactly 0.3 on the money path
	sum := d("0.1").Add(d("0.2"))
	assert.True(t, sum.Equal(d("0.3")), "decimal arithmetic drifted: %s", sum)

	// summing a cent a thousand times must be exactly 10.00
	total := decimal.Zero
	for i := 0; i < 1000; i++ {
		total = total.Add(d("0.01"))
	}
	assert.True(t, total.Equal(d("10.00")), "accumulated drift: %s", total)
}

func TestMinMaxClamp(t *testing.T) {
	assert.True(t, Min(d("5"), d("3")).Equal(d("3")))
	assert.True(t, Max(d("5"), d("3")).Equal(d("5")))
	assert.True(t, ClampNonNegative(d("-1.50")).Equal(decimal.Zero))
	assert.True(t, ClampNonNegative(d("1.50")).Equal(d("1.50")))
}
