package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Refund reverses part or all of one order. Two state machines share this
// record: Status tracks the customer-facing refund, the recovery fields track
// getting the money back from the merchant. They transition independently.
type Refund struct {
	RefundID   uint64  `gorm:"column:refund_id;primaryKey" json:"refundId"`
	OrderID    uint64  `gorm:"column:order_id;not null;index" json:"orderId"`
	MerchantID *uint64 `gorm:"column:merchant_id;index" json:"merchantId"`
	Currency   string  `gorm:"column:currency;type:char(3);not null" json:"currency"`
	Reason     string  `gorm:"column:reason;type:varchar(200)" json:"reason"`

	RefundSubtotal decimal.Decimal `gorm:"column:refund_subtotal;type:decimal(18,2);not null" json:"refundSubtotal"` // tax-exclusive
	RefundTax      decimal.Decimal `gorm:"column:refund_tax;type:decimal(18,2);not null" json:"refundTax"`
	RefundTotal    decimal.Decimal `gorm:"column:refund_total;type:decimal(18,2);not null" json:"refundTotal"`

	CommissionReversed    decimal.Decimal `gorm:"column:commission_reversed;type:decimal(18,2);not null" json:"commissionReversed"`
	CommissionTaxReversed decimal.Decimal `gorm:"column:commission_tax_reversed;type:decimal(18,2);not null" json:"commissionTaxReversed"`

	Status string `gorm:"column:status;type:varchar(16);not null;index" json:"status"` // pending|approved|processing|completed|rejected

	RecoveryMethod         string          `gorm:"column:recovery_method;type:varchar(32);not null" json:"recoveryMethod"`
	MerchantRecoveryAmount decimal.Decimal `gorm:"column:merchant_recovery_amount;type:decimal(18,2);not null" json:"merchantRecoveryAmount"`
	IsSettled              bool            `gorm:"column:is_settled;not null" json:"isSettled"` // parent order was already settled at refund time
	RecoverySettlementID   *uint64         `gorm:"column:recovery_settlement_id;index" json:"recoverySettlementId"`
	IsRecoveryCompleted    bool            `gorm:"column:is_recovery_completed;not null" json:"isRecoveryCompleted"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Refund) TableName() string { return "refund" }

// RefundItem is one refunded line, frozen from the order item's unit prices.
type RefundItem struct {
	ItemID      uint64          `gorm:"column:item_id;primaryKey" json:"itemId"`
	RefundID    uint64          `gorm:"column:refund_id;not null;index" json:"refundId"`
	OrderItemID uint64          `gorm:"column:order_item_id;not null;index" json:"orderItemId"`
	Quantity    int             `gorm:"column:quantity;not null" json:"quantity"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:decimal(18,2);not null" json:"subtotal"` // tax-exclusive
	TaxAmount   decimal.Decimal `gorm:"column:tax_amount;type:decimal(18,2);not null" json:"taxAmount"`
	Total       decimal.Decimal `gorm:"column:total;type:decimal(18,2);not null" json:"total"`

	CommissionReversed decimal.Decimal `gorm:"column:commission_reversed;type:decimal(18,2);not null" json:"commissionReversed"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (RefundItem) TableName() string { return "refund_item" }
