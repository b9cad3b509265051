package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reconciliation is a read-side period snapshot, never a source of truth.
type Reconciliation struct {
	ID          uint64    `gorm:"column:id;primaryKey" json:"id"`
	PeriodStart time.Time `gorm:"column:period_start;not null" json:"periodStart"`
	PeriodEnd   time.Time `gorm:"column:period_end;not null" json:"periodEnd"`

	GMV                  decimal.Decimal `gorm:"column:gmv;type:decimal(18,2);not null" json:"gmv"`
	CommissionSettled    decimal.Decimal `gorm:"column:commission_settled;type:decimal(18,2);not null" json:"commissionSettled"`
	CommissionAccrued    decimal.Decimal `gorm:"column:commission_accrued;type:decimal(18,2);not null" json:"commissionAccrued"`
	TaxCollected         decimal.Decimal `gorm:"column:tax_collected;type:decimal(18,2);not null" json:"taxCollected"`
	RefundsIssued        decimal.Decimal `gorm:"column:refunds_issued;type:decimal(18,2);not null" json:"refundsIssued"`
	CommissionReversed   decimal.Decimal `gorm:"column:commission_reversed;type:decimal(18,2);not null" json:"commissionReversed"`
	SettlementsPaid      decimal.Decimal `gorm:"column:settlements_paid;type:decimal(18,2);not null" json:"settlementsPaid"`
	DebitNotesApplied    decimal.Decimal `gorm:"column:debit_notes_applied;type:decimal(18,2);not null" json:"debitNotesApplied"`
	NetPlatformRevenue   decimal.Decimal `gorm:"column:net_platform_revenue;type:decimal(18,2);not null" json:"netPlatformRevenue"`
	DiscrepancyAmount    decimal.Decimal `gorm:"column:discrepancy_amount;type:decimal(18,2);not null" json:"discrepancyAmount"`
	HasDiscrepancy       bool            `gorm:"column:has_discrepancy;not null" json:"hasDiscrepancy"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Reconciliation) TableName() string { return "reconciliation" }
