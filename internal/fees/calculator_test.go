package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"mkt-settlement-api/internal/constant"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func testClassifier() *Classifier {
	return NewClassifier("SA", []string{"SA", "AE", "KW", "QA", "BH", "OM"})
}

func testCalculator() *Calculator {
	buckets := map[string]Bucket{
		constant.CardDefault:  {Pct: d("2.75"), Fixed: d("1.00")},
		"local_visa":          {Pct: d("2.25"), Fixed: d("1.00")},
		"regional_visa":       {Pct: d("2.60"), Fixed: d("1.00")},
		"international_visa":  {Pct: d("2.90"), Fixed: d("1.00")},
		constant.CardAmex:     {Pct: d("3.10"), Fixed: d("1.00")},
		constant.CardMada:     {Pct: d("1.75"), Fixed: d("0.50")},
		constant.CardBNPL:     {Pct: d("4.00"), Fixed: d("0.00")},
		constant.CardCOD:      {Pct: d("0.00"), Fixed: d("5.00")},
	}
	return NewCalculator(testClassifier(), buckets, d("0.25"))
}

func TestClassify(t *testing.T) {
	cl := testClassifier()

	cases := []struct {
		method, scheme, country, want string
	}{
		{"card", "visa", "SA", "local_visa"},
		{"card", "visa", "AE", "regional_visa"},
		{"card", "visa", "US", "international_visa"},
		{"card", "mastercard", "SA", "local_mastercard"},
		{"card", "amex", "SA", constant.CardAmex},
		{"card", "amex", "US", constant.CardAmex}, // amex regardless of country
		{"card", "mada", "SA", constant.CardMada},
		{"bnpl", "", "", constant.CardBNPL},
		{"cod", "", "", constant.CardCOD},
		{"card", "", "SA", constant.CardDefault},  // missing scheme degrades
		{"card", "visa", "", constant.CardDefault}, // missing country degrades
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cl.Classify(tc.method, tc.scheme, tc.country),
			"method=%s scheme=%s country=%s", tc.method, tc.scheme, tc.country)
	}
}

func TestCalculate_LocalVisa(t *testing.T) {
	c := testCalculator()

	// grand total 1050.00 at 2.25% + 1.00: round(23.625,2)+1.00 = 24.63
	res := c.Calculate(d("1050.00"), "card", "visa", "SA")
	assert.Equal(t, "local_visa", res.CardClass)
	assert.True(t, res.GatewayFeeTotal.Equal(d("24.63")), "gateway fee = %s", res.GatewayFeeTotal)
	assert.True(t, res.PlatformFeeAmount.Equal(d("2.63")), "platform fee = %s", res.PlatformFeeAmount)
	assert.True(t, res.NetAmountAfterFees.Equal(d("1022.74")), "net = %s", res.NetAmountAfterFees)
}

func TestCalculate_UnknownClassFallsBackToDefault(t *testing.T) {
	c := testCalculator()

	// discover-from-nowhere has no configured bucket
	res := c.Calculate(d("100.00"), "card", "discover", "US")
	assert.Equal(t, constant.CardDefault, res.CardClass)
	assert.True(t, res.GatewayFeeTotal.Equal(d("3.75")))
}

func TestCalculate_FeeIdentity(t *testing.T) {
	c := testCalculator()

	// grand total must always equal net + gateway + platform
	for _, total := range []string{"0.01", "19.99", "1050.00", "99999.99"} {
		res := c.Calculate(d(total), "card", "visa", "SA")
		sum := res.NetAmountAfterFees.Add(res.GatewayFeeTotal).Add(res.PlatformFeeAmount)
		assert.True(t, sum.Equal(d(total)), "identity broken for %s: %s", total, sum)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	c := testCalculator()
	first := c.Calculate(d("1050.00"), "card", "visa", "SA")
	second := c.Calculate(d("1050.00"), "card", "visa", "SA")
	assert.True(t, first.GatewayFeeTotal.Equal(second.GatewayFeeTotal))
	assert.True(t, first.NetAmountAfterFees.Equal(second.NetAmountAfterFees))
}
