package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestBuild_ZeroDiscrepancyClosedPeriod(t *testing.T) {
	// closed period, no refunds: (GMV - commission - 0) - (paid - 0) == 0
	report := Build(Inputs{
		GMV:               d("10000.00"),
		CommissionSettled: d("1500.00"),
		SettlementsPaid:   d("8500.00"),
	})
	assert.True(t, report.DiscrepancyAmount.Equal(decimal.Zero), "discrepancy = %s", report.DiscrepancyAmount)
	assert.False(t, report.HasDiscrepancy)
}

func TestBuild_DiscrepancySurfaced(t *testing.T) {
	report := Build(Inputs{
		GMV:               d("10000.00"),
		CommissionSettled: d("1500.00"),
		SettlementsPaid:   d("8400.00"), // 100.00 short
	})
	assert.True(t, report.DiscrepancyAmount.Equal(d("100.00")))
	assert.True(t, report.HasDiscrepancy)
}

func TestBuild_WithinEpsilonIgnored(t *testing.T) {
	report := Build(Inputs{
		GMV:               d("10000.00"),
		CommissionSettled: d("1500.00"),
		SettlementsPaid:   d("8499.99"), // one rounding cent
	})
	assert.True(t, report.DiscrepancyAmount.Equal(d("0.01")))
	assert.False(t, report.HasDiscrepancy)
}

func TestBuild_RefundsAndDebitNotes(t *testing.T) {
	report := Build(Inputs{
		GMV:                d("10000.00"),
		CommissionSettled:  d("1350.00"),
		CommissionAccrued:  d("150.00"),
		RefundsIssued:      d("1050.00"),
		CommissionReversed: d("150.00"),
		SettlementsPaid:    d("8300.00"),
		DebitNotesApplied:  d("850.00"),
	})
	assert.True(t, report.CommissionEarned.Equal(d("1500.00")))
	// (10000 - 1500 - 1050) - (8300 - 850) = 7450 - 7450
	assert.True(t, report.DiscrepancyAmount.Equal(decimal.Zero), "discrepancy = %s", report.DiscrepancyAmount)
	assert.False(t, report.HasDiscrepancy)
	assert.True(t, report.NetPlatformRevenue.Equal(d("1350.00")))
}
