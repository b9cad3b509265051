package commission

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/model"
)

func TestCalculate_Percentage(t *testing.T) {
	rule := model.CommissionRule{Type: constant.RuleTypePercentage, PercentageRate: d("15")}
	res, err := Calculate(Resolution{Rule: &rule}, d("1000.00"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(d("150.00")))
	assert.True(t, res.RatePct.Equal(d("15")))

	// half-up at the cent boundary
	rule.PercentageRate = d("2.5")
	res, err = Calculate(Resolution{Rule: &rule}, d("10.10"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(d("0.25")), "got %s", res.Amount) // 0.2525 rounds half-up to 0.25
}

func TestCalculate_FixedCappedAtSubtotal(t *testing.T) {
	rule := model.CommissionRule{Type: constant.RuleTypeFixed, FixedAmount: d("25.00")}

	res, err := Calculate(Resolution{Rule: &rule}, d("1000.00"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(d("25.00")))

	// commission may never exceed the line it is charged against
	res, err = Calculate(Resolution{Rule: &rule}, d("9.99"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(d("9.99")))
}

func TestCalculate_TieredUsesQualifyingVolume(t *testing.T) {
	rule := model.CommissionRule{
		Type: constant.RuleTypeTiered,
		Tiers: model.TierRules{
			{Threshold: d("0"), RatePct: d("15")},
			{Threshold: d("10000"), RatePct: d("12")},
			{Threshold: d("50000"), RatePct: d("10")},
		},
	}

	res, err := Calculate(Resolution{Rule: &rule}, d("1000.00"), d("60000"))
	require.NoError(t, err)
	assert.True(t, res.RatePct.Equal(d("10")))
	assert.True(t, res.Amount.Equal(d("100.00")))

	res, err = Calculate(Resolution{Rule: &rule}, d("1000.00"), d("500"))
	require.NoError(t, err)
	assert.True(t, res.RatePct.Equal(d("15")))
	assert.True(t, res.Amount.Equal(d("150.00")))
}

func TestCalculate_HybridCaps(t *testing.T) {
	rule := model.CommissionRule{
		Type:           constant.RuleTypeHybrid,
		FixedAmount:    d("5.00"),
		PercentageRate: d("10"),
	}

	// normal case: fixed + percentage
	res, err := Calculate(Resolution{Rule: &rule}, d("100.00"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(d("15.00")))

	// fixed swallows the whole line, percentage is capped to the remainder
	res, err = Calculate(Resolution{Rule: &rule}, d("4.00"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(d("4.00")))

	// sum capped: fixed 5.00 + 10% of 6.00 would be 5.60, remainder is 1.00
	res, err = Calculate(Resolution{Rule: &rule}, d("6.00"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(d("5.60")))

	bigFixed := model.CommissionRule{
		Type:           constant.RuleTypeHybrid,
		FixedAmount:    d("50.00"),
		PercentageRate: d("90"),
	}
	res, err = Calculate(Resolution{Rule: &bigFixed}, d("60.00"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(d("60.00")), "hybrid sum must never exceed the subtotal, got %s", res.Amount)
}

func TestCalculate_SyntheticSources(t *testing.T) {
	// global default: flat percentage, no rule attached
	res, err := Calculate(Resolution{Source: constant.CommissionSourceGlobalDefault, Rate: d("15")}, d("200.00"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(d("30.00")))

	// own store: zero commission
	res, err = Calculate(Resolution{Source: constant.CommissionSourceOwnStore, Rate: decimal.Zero}, d("200.00"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.Amount.Equal(decimal.Zero))
}

func TestCalculate_NeverExceedsSubtotal(t *testing.T) {
	subtotals := []string{"0.01", "1.00", "9.99", "100.00", "12345.67"}
	rules := []model.CommissionRule{
		{Type: constant.RuleTypePercentage, PercentageRate: d("99.99")},
		{Type: constant.RuleTypeFixed, FixedAmount: d("999999")},
		{Type: constant.RuleTypeHybrid, FixedAmount: d("500"), PercentageRate: d("99")},
	}
	for _, s := range subtotals {
		for _, rule := range rules {
			rule := rule
			res, err := Calculate(Resolution{Rule: &rule}, d(s), decimal.Zero)
			require.NoError(t, err)
			assert.True(t, res.Amount.Cmp(d(s)) <= 0,
				"type=%s subtotal=%s commission=%s", rule.Type, s, res.Amount)
		}
	}
}
