package settlement

import (
	"github.com/shopspring/decimal"

	"mkt-settlement-api/internal/model"
)

// Totals aggregates the settlement items and recovery deductions into the
// settlement header figures.
//
//	net_payout = merchant_payout - (gateway fees + platform fees + deductions)
//
// where merchant_payout is the order amounts net of commission. Each item's
// PayoutContribution already carries its own fees subtracted, so the net is
// the contribution sum minus deductions.
type Totals struct {
	TotalOrderAmount  decimal.Decimal
	TotalCommission   decimal.Decimal
	TotalGatewayFees  decimal.Decimal
	TotalPlatformFees decimal.Decimal
	Deductions        decimal.Decimal
	NetPayout         decimal.Decimal
}

func BuildTotals(items []model.SettlementItem, deductions decimal.Decimal) Totals {
	t := Totals{
		TotalOrderAmount:  decimal.Zero,
		TotalCommission:   decimal.Zero,
		TotalGatewayFees:  decimal.Zero,
		TotalPlatformFees: decimal.Zero,
		Deductions:        deductions,
		NetPayout:         decimal.Zero,
	}
	for _, it := range items {
		t.TotalOrderAmount = t.TotalOrderAmount.Add(it.OrderAmount)
		t.TotalCommission = t.TotalCommission.Add(it.CommissionAmount)
		t.TotalGatewayFees = t.TotalGatewayFees.Add(it.GatewayFee)
		t.TotalPlatformFees = t.TotalPlatformFees.Add(it.PlatformFee)
		t.NetPayout = t.NetPayout.Add(it.PayoutContribution)
	}
	t.NetPayout = t.NetPayout.Sub(deductions)
	return t
}

// ItemContribution computes one order's net contribution to the payout.
// orderAmount must already exclude any approved-but-unsettled refund totals.
func ItemContribution(orderAmount, commission, gatewayFee, platformFee decimal.Decimal) decimal.Decimal {
	return orderAmount.Sub(commission).Sub(gatewayFee).Sub(platformFee)
}
