package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReconciliationVO struct {
	PeriodStart        time.Time       `json:"periodStart"`
	PeriodEnd          time.Time       `json:"periodEnd"`
	GMV                decimal.Decimal `json:"gmv"`
	CommissionSettled  decimal.Decimal `json:"commissionSettled"`
	CommissionAccrued  decimal.Decimal `json:"commissionAccrued"`
	TaxCollected       decimal.Decimal `json:"taxCollected"`
	RefundsIssued      decimal.Decimal `json:"refundsIssued"`
	CommissionReversed decimal.Decimal `json:"commissionReversed"`
	SettlementsPaid    decimal.Decimal `json:"settlementsPaid"`
	DebitNotesApplied  decimal.Decimal `json:"debitNotesApplied"`
	NetPlatformRevenue decimal.Decimal `json:"netPlatformRevenue"`
	DiscrepancyAmount  decimal.Decimal `json:"discrepancyAmount"`
	HasDiscrepancy     bool            `json:"hasDiscrepancy"`
}

// OrderCreatedMQ is published after an order commits with its frozen
// commission snapshots.
type OrderCreatedMQ struct {
	OrderID    uint64  `json:"order_id"`
	MerchantID *uint64 `json:"merchant_id"`
	GrandTotal string  `json:"grand_total"`
	Currency   string  `json:"currency"`
	CreatedAt  int64   `json:"created_at"`
}

// SettlementCreatedMQ is published after a batch commits, for statement and
// notification consumers.
type SettlementCreatedMQ struct {
	SettlementID uint64  `json:"settlement_id"`
	MerchantID   *uint64 `json:"merchant_id"`
	NetPayout    string  `json:"net_payout"`
	Currency     string  `json:"currency"`
	PayoutDate   string  `json:"payout_date"`
}
