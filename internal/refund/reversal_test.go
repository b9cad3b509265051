package refund

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/model"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// the canonical line: 1 unit, listed 1050.00 gross at 5% VAT, 15% commission
func canonicalItem() model.OrderItem {
	return model.OrderItem{
		ItemID:           1,
		Quantity:         1,
		UnitPriceGross:   d("1050.00"),
		UnitPriceNet:     d("1000.00"),
		UnitTax:          d("50.00"),
		CommissionRate:   d("15"),
		CommissionAmount: d("150.00"),
	}
}

func TestCompute_SettledFullRefund(t *testing.T) {
	comp, err := Compute([]LineInput{{Item: canonicalItem(), Quantity: 1}}, true, constant.RecoveryDeductNext, d("5"))
	require.NoError(t, err)

	assert.True(t, comp.RefundSubtotal.Equal(d("1000.00")))
	assert.True(t, comp.RefundTax.Equal(d("50.00")))
	assert.True(t, comp.RefundTotal.Equal(d("1050.00")))
	assert.True(t, comp.CommissionReversed.Equal(d("150.00")))
	assert.Equal(t, constant.RecoveryDeductNext, comp.RecoveryMethod)
	assert.True(t, comp.IsSettled)
	assert.True(t, comp.MerchantRecoveryAmount.Equal(d("850.00")), "recovery = %s", comp.MerchantRecoveryAmount)
}

func TestCompute_UnsettledNeedsNoRecovery(t *testing.T) {
	comp, err := Compute([]LineInput{{Item: canonicalItem(), Quantity: 1}}, false, constant.RecoveryDeductNext, d("5"))
	require.NoError(t, err)

	assert.Equal(t, constant.RecoveryNotApplicable, comp.RecoveryMethod)
	assert.False(t, comp.IsSettled)
	assert.True(t, comp.MerchantRecoveryAmount.Equal(decimal.Zero))
	// the reversal itself is still computed for the payout exclusion
	assert.True(t, comp.CommissionReversed.Equal(d("150.00")))
}

func TestCompute_PartialQuantity(t *testing.T) {
	item := model.OrderItem{
		ItemID:           2,
		Quantity:         4,
		UnitPriceGross:   d("105.00"),
		UnitPriceNet:     d("100.00"),
		UnitTax:          d("5.00"),
		CommissionRate:   d("15"),
		CommissionAmount: d("60.00"), // 15% of 400.00
	}

	comp, err := Compute([]LineInput{{Item: item, Quantity: 3}}, true, constant.RecoveryDeductNext, d("5"))
	require.NoError(t, err)

	assert.True(t, comp.RefundSubtotal.Equal(d("300.00")))
	assert.True(t, comp.RefundTax.Equal(d("15.00")))
	assert.True(t, comp.RefundTotal.Equal(d("315.00")))
	assert.True(t, comp.CommissionReversed.Equal(d("45.00")))
	assert.True(t, comp.MerchantRecoveryAmount.Equal(d("255.00")))
}

func TestCompute_ReversalCappedAtRemainingCommission(t *testing.T) {
	item := canonicalItem()
	item.Quantity = 2
	item.CommissionAmount = d("300.00")
	item.CommissionReversed = d("250.00") // a prior refund already reversed most of it

	comp, err := Compute([]LineInput{{Item: item, Quantity: 1}}, true, constant.RecoveryDeductNext, d("5"))
	require.NoError(t, err)

	// raw reversal would be 150.00, but only 50.00 of commission remains
	assert.True(t, comp.CommissionReversed.Equal(d("50.00")), "reversed = %s", comp.CommissionReversed)
}

func TestCompute_QuantityValidation(t *testing.T) {
	item := canonicalItem()
	item.Quantity = 2
	item.RefundedQuantity = 1

	_, err := Compute([]LineInput{{Item: item, Quantity: 2}}, true, constant.RecoveryDeductNext, d("5"))
	assert.ErrorIs(t, err, ErrExceedsLine)

	_, err = Compute([]LineInput{{Item: item, Quantity: 0}}, true, constant.RecoveryDeductNext, d("5"))
	assert.ErrorIs(t, err, ErrExceedsLine)

	_, err = Compute(nil, true, constant.RecoveryDeductNext, d("5"))
	assert.ErrorIs(t, err, ErrEmptyRefund)
}

func TestCompute_CommissionTaxReversed(t *testing.T) {
	comp, err := Compute([]LineInput{{Item: canonicalItem(), Quantity: 1}}, true, constant.RecoveryDeductNext, d("5"))
	require.NoError(t, err)
	// VAT charged on the platform commission follows the reversal
	assert.True(t, comp.CommissionTaxReversed.Equal(d("7.50")))
}

func TestCompute_DirectRepaymentConfigurable(t *testing.T) {
	comp, err := Compute([]LineInput{{Item: canonicalItem(), Quantity: 1}}, true, constant.RecoveryDirectRepayment, d("5"))
	require.NoError(t, err)
	assert.Equal(t, constant.RecoveryDirectRepayment, comp.RecoveryMethod)
}
