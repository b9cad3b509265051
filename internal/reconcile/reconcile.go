package reconcile

import "github.com/shopspring/decimal"

// Epsilon is the rounding tolerance below which a discrepancy is noise.
var Epsilon = decimal.NewFromFloat(0.01)

// Inputs are the ledger aggregates for one period, produced by the read-side
// sums; this package only derives figures from them.
type Inputs struct {
	GMV                decimal.Decimal
	CommissionSettled  decimal.Decimal // frozen commission on settled orders
	CommissionAccrued  decimal.Decimal // frozen commission not yet settled
	TaxCollected       decimal.Decimal
	RefundsIssued      decimal.Decimal
	CommissionReversed decimal.Decimal
	SettlementsPaid    decimal.Decimal
	DebitNotesApplied  decimal.Decimal
}

// Report is the derived period snapshot.
type Report struct {
	Inputs

	CommissionEarned   decimal.Decimal
	NetPlatformRevenue decimal.Decimal
	DiscrepancyAmount  decimal.Decimal
	HasDiscrepancy     bool
}

// Build computes the discrepancy:
//
//	(GMV - commission_earned - refunds_issued) - (settlements_paid - debit_notes_applied)
//
// Any value beyond Epsilon is surfaced, never silently absorbed.
func Build(in Inputs) Report {
	earned := in.CommissionSettled.Add(in.CommissionAccrued)
	expectedOut := in.GMV.Sub(earned).Sub(in.RefundsIssued)
	actualOut := in.SettlementsPaid.Sub(in.DebitNotesApplied)
	discrepancy := expectedOut.Sub(actualOut)

	return Report{
		Inputs:             in,
		CommissionEarned:   earned,
		NetPlatformRevenue: earned.Sub(in.CommissionReversed),
		DiscrepancyAmount:  discrepancy,
		HasDiscrepancy:     discrepancy.Abs().Cmp(Epsilon) > 0,
	}
}
