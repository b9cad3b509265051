package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is one payout batch for one merchant. Once status reaches paid
// the record and its items are immutable; only later debit notes may link in.
type Settlement struct {
	SettlementID uint64    `gorm:"column:settlement_id;primaryKey" json:"settlementId"`
	MerchantID   *uint64   `gorm:"column:merchant_id;index" json:"merchantId"` // NULL = platform own store
	Currency     string    `gorm:"column:currency;type:char(3);not null" json:"currency"`
	PayoutDate   time.Time `gorm:"column:payout_date;not null;index" json:"payoutDate"`

	TotalOrderAmount        decimal.Decimal `gorm:"column:total_order_amount;type:decimal(18,2);not null" json:"totalOrderAmount"`
	TotalCommission         decimal.Decimal `gorm:"column:total_commission;type:decimal(18,2);not null" json:"totalCommission"`
	TotalPaymentGatewayFees decimal.Decimal `gorm:"column:total_payment_gateway_fees;type:decimal(18,2);not null" json:"totalPaymentGatewayFees"`
	TotalPlatformFees       decimal.Decimal `gorm:"column:total_platform_fees;type:decimal(18,2);not null" json:"totalPlatformFees"`
	Deductions              decimal.Decimal `gorm:"column:deductions;type:decimal(18,2);not null" json:"deductions"` // refund recoveries applied
	NetPayout               decimal.Decimal `gorm:"column:net_payout;type:decimal(18,2);not null" json:"netPayout"`

	Status               string     `gorm:"column:status;type:varchar(16);not null;index" json:"status"` // pending|processing|paid|failed
	TransactionReference *string    `gorm:"column:transaction_reference;type:varchar(64)" json:"transactionReference"`
	PaidAt               *time.Time `gorm:"column:paid_at" json:"paidAt"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Settlement) TableName() string { return "settlement" }

// SettlementItem freezes one order's contribution to a settlement. The
// unique index on order_id is the hard backstop for "one settlement per
// order, ever"; the claim on Order.SettlementID enforces it transactionally.
type SettlementItem struct {
	ItemID       uint64 `gorm:"column:item_id;primaryKey" json:"itemId"`
	SettlementID uint64 `gorm:"column:settlement_id;not null;index" json:"settlementId"`
	OrderID      uint64 `gorm:"column:order_id;not null;uniqueIndex" json:"orderId"`

	OrderAmount        decimal.Decimal `gorm:"column:order_amount;type:decimal(18,2);not null" json:"orderAmount"` // net of approved-unsettled refunds
	CommissionRate     decimal.Decimal `gorm:"column:commission_rate;type:decimal(8,4);not null" json:"commissionRate"`
	CommissionAmount   decimal.Decimal `gorm:"column:commission_amount;type:decimal(18,2);not null" json:"commissionAmount"`
	CommissionSource   string          `gorm:"column:commission_source;type:varchar(32);not null" json:"commissionSource"`
	GatewayFee         decimal.Decimal `gorm:"column:gateway_fee;type:decimal(18,2);not null" json:"gatewayFee"`
	PlatformFee        decimal.Decimal `gorm:"column:platform_fee;type:decimal(18,2);not null" json:"platformFee"`
	PayoutContribution decimal.Decimal `gorm:"column:payout_contribution;type:decimal(18,2);not null" json:"payoutContribution"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (SettlementItem) TableName() string { return "settlement_item" }

// MerchantDebitNote is the audit artifact proving a refund recovery was
// applied to a specific settlement.
type MerchantDebitNote struct {
	NoteID       uint64          `gorm:"column:note_id;primaryKey" json:"noteId"`
	MerchantID   *uint64         `gorm:"column:merchant_id;index" json:"merchantId"`
	RefundID     uint64          `gorm:"column:refund_id;not null;uniqueIndex" json:"refundId"`
	SettlementID uint64          `gorm:"column:settlement_id;not null;index" json:"settlementId"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Currency     string          `gorm:"column:currency;type:char(3);not null" json:"currency"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (MerchantDebitNote) TableName() string { return "merchant_debit_note" }
