package refund

import (
	"errors"

	"github.com/shopspring/decimal"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/model"
	"mkt-settlement-api/internal/money"
)

var (
	ErrExceedsLine = errors.New("refund quantity exceeds remaining line quantity")
	ErrEmptyRefund = errors.New("refund has no lines")
)

// LineInput is one requested refund line against a frozen order item.
type LineInput struct {
	Item     model.OrderItem
	Quantity int
}

// LineReversal is the computed reversal for one line.
type LineReversal struct {
	OrderItemID        uint64
	Quantity           int
	Subtotal           decimal.Decimal // tax-exclusive
	Tax                decimal.Decimal
	Total              decimal.Decimal
	CommissionReversed decimal.Decimal
}

// Computation is the full refund reversal, ready to persist.
type Computation struct {
	Lines []LineReversal

	RefundSubtotal decimal.Decimal
	RefundTax      decimal.Decimal
	RefundTotal    decimal.Decimal

	CommissionReversed    decimal.Decimal
	CommissionTaxReversed decimal.Decimal

	IsSettled              bool
	RecoveryMethod         string
	MerchantRecoveryAmount decimal.Decimal
}

// Compute builds the reversal for a set of refund lines.
//
// Amounts come from the refunded quantity times the order item's frozen unit
// prices, so repeated partial refunds can never drift. Commission reversal is
// capped per line at what remains of the originally recorded commission;
// more than was earned is never reversed.
//
// When the parent order has not been settled yet there is nothing to
// recover: the recovery method is not_applicable and the batching step
// simply excludes the refunded portion from the payout. When the order was
// already settled, the merchant owes back the refunded subtotal minus the
// reversed commission, queued for the next settlement (or direct repayment
// when so configured).
func Compute(lines []LineInput, orderSettled bool, configuredMethod string, vatRatePct decimal.Decimal) (Computation, error) {
	if len(lines) == 0 {
		return Computation{}, ErrEmptyRefund
	}

	comp := Computation{
		RefundSubtotal:        decimal.Zero,
		RefundTax:             decimal.Zero,
		RefundTotal:           decimal.Zero,
		CommissionReversed:    decimal.Zero,
		CommissionTaxReversed: decimal.Zero,
	}

	for _, line := range lines {
		item := line.Item
		remaining := item.Quantity - item.RefundedQuantity
		if line.Quantity <= 0 || line.Quantity > remaining {
			return Computation{}, ErrExceedsLine
		}

		qty := decimal.NewFromInt(int64(line.Quantity))
		subtotal := item.UnitPriceNet.Mul(qty)
		tax := item.UnitTax.Mul(qty)
		total := item.UnitPriceGross.Mul(qty)

		reversed := money.Percent(subtotal, item.CommissionRate)
		remainingCommission := item.CommissionAmount.Sub(item.CommissionReversed)
		reversed = money.Min(reversed, money.ClampNonNegative(remainingCommission))

		comp.Lines = append(comp.Lines, LineReversal{
			OrderItemID:        item.ItemID,
			Quantity:           line.Quantity,
			Subtotal:           subtotal,
			Tax:                tax,
			Total:              total,
			CommissionReversed: reversed,
		})

		comp.RefundSubtotal = comp.RefundSubtotal.Add(subtotal)
		comp.RefundTax = comp.RefundTax.Add(tax)
		comp.RefundTotal = comp.RefundTotal.Add(total)
		comp.CommissionReversed = comp.CommissionReversed.Add(reversed)
	}

	comp.CommissionTaxReversed = money.Percent(comp.CommissionReversed, vatRatePct)

	if !orderSettled {
		comp.RecoveryMethod = constant.RecoveryNotApplicable
		comp.MerchantRecoveryAmount = decimal.Zero
		return comp, nil
	}

	comp.IsSettled = true
	comp.RecoveryMethod = configuredMethod
	if comp.RecoveryMethod == "" {
		comp.RecoveryMethod = constant.RecoveryDeductNext
	}
	comp.MerchantRecoveryAmount = comp.RefundSubtotal.Sub(comp.CommissionReversed)
	return comp, nil
}
