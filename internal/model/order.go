package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is one purchase event for one merchant (the storefront splits a
// multi-merchant cart into one order per merchant before it reaches here).
// Gateway fee columns stay NULL until payment confirmation stamps them; the
// NULL is the idempotence marker for webhook replays.
type Order struct {
	OrderID    uint64  `gorm:"column:order_id;primaryKey" json:"orderId"`
	MerchantID *uint64 `gorm:"column:merchant_id;index:idx_merchant_eligible" json:"merchantId"` // NULL = platform own store
	Currency   string  `gorm:"column:currency;type:char(3);not null" json:"currency"`

	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:decimal(18,2);not null" json:"subtotal"` // tax-inclusive line sum
	TaxTotal       decimal.Decimal `gorm:"column:tax_total;type:decimal(18,2);not null" json:"taxTotal"`
	ShippingAmount decimal.Decimal `gorm:"column:shipping_amount;type:decimal(18,2);not null" json:"shippingAmount"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:decimal(18,2);not null" json:"discountAmount"`
	GrandTotal     decimal.Decimal `gorm:"column:grand_total;type:decimal(18,2);not null" json:"grandTotal"` // subtotal + shipping - discount

	PaymentMethod string  `gorm:"column:payment_method;type:varchar(16);not null" json:"paymentMethod"` // card|bnpl|cod
	CardScheme    *string `gorm:"column:card_scheme;type:varchar(16)" json:"cardScheme"`
	CardCountry   *string `gorm:"column:card_country;type:char(2)" json:"cardCountry"`
	CardClass     *string `gorm:"column:card_class;type:varchar(32)" json:"cardClass"`
	PaymentTxID   *string `gorm:"column:payment_tx_id;type:varchar(64)" json:"paymentTxId"`

	GatewayFeePct          *decimal.Decimal `gorm:"column:gateway_fee_pct;type:decimal(8,4)" json:"gatewayFeePct"`
	GatewayFixedFee        *decimal.Decimal `gorm:"column:gateway_fixed_fee;type:decimal(18,2)" json:"gatewayFixedFee"`
	PaymentGatewayFeeTotal *decimal.Decimal `gorm:"column:payment_gateway_fee_total;type:decimal(18,2)" json:"paymentGatewayFeeTotal"`
	PlatformFeePct         *decimal.Decimal `gorm:"column:platform_fee_pct;type:decimal(8,4)" json:"platformFeePct"`
	PlatformFeeAmount      *decimal.Decimal `gorm:"column:platform_fee_amount;type:decimal(18,2)" json:"platformFeeAmount"`
	NetAmountAfterFees     *decimal.Decimal `gorm:"column:net_amount_after_fees;type:decimal(18,2)" json:"netAmountAfterFees"`

	Status string `gorm:"column:status;type:varchar(24);not null;index" json:"status"`

	DeliveredAt          *time.Time `gorm:"column:delivered_at" json:"deliveredAt"`
	SettlementEligibleAt *time.Time `gorm:"column:settlement_eligible_at;index:idx_merchant_eligible" json:"settlementEligibleAt"` // stamped once at delivery, never recalculated
	SettlementID         *uint64    `gorm:"column:settlement_id;index" json:"settlementId"`                                        // transactional claim marker

	CancelledAt  *time.Time `gorm:"column:cancelled_at" json:"cancelledAt"`
	CancelReason *string    `gorm:"column:cancel_reason;type:varchar(200)" json:"cancelReason"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Order) TableName() string { return "mkt_order" }

// OrderItem is one line of an order. The commission snapshot and the per-unit
// tax split are frozen at creation; no code path updates them afterward.
type OrderItem struct {
	ItemID     uint64  `gorm:"column:item_id;primaryKey" json:"itemId"`
	OrderID    uint64  `gorm:"column:order_id;not null;index" json:"orderId"`
	MerchantID *uint64 `gorm:"column:merchant_id" json:"merchantId"`
	ProductID  uint64  `gorm:"column:product_id;not null" json:"productId"`
	CategoryID *uint64 `gorm:"column:category_id" json:"categoryId"`
	Title      string  `gorm:"column:title;type:varchar(200)" json:"title"`

	UnitPriceGross decimal.Decimal `gorm:"column:unit_price_gross;type:decimal(18,2);not null" json:"unitPriceGross"` // listed, tax-inclusive
	UnitPriceNet   decimal.Decimal `gorm:"column:unit_price_net;type:decimal(18,2);not null" json:"unitPriceNet"`
	UnitTax        decimal.Decimal `gorm:"column:unit_tax;type:decimal(18,2);not null" json:"unitTax"`
	Quantity       int             `gorm:"column:quantity;not null" json:"quantity"`
	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:decimal(18,2);not null" json:"subtotal"` // gross unit price x quantity
	NetSubtotal    decimal.Decimal `gorm:"column:net_subtotal;type:decimal(18,2);not null" json:"netSubtotal"`
	TaxAmount      decimal.Decimal `gorm:"column:tax_amount;type:decimal(18,2);not null" json:"taxAmount"`

	CommissionRate   decimal.Decimal `gorm:"column:commission_rate;type:decimal(8,4);not null" json:"commissionRate"`
	CommissionAmount decimal.Decimal `gorm:"column:commission_amount;type:decimal(18,2);not null" json:"commissionAmount"`
	CommissionSource string          `gorm:"column:commission_source;type:varchar(32);not null" json:"commissionSource"` // rule level, own_store or global_default
	CommissionRuleID *uint64         `gorm:"column:commission_rule_id" json:"commissionRuleId"`

	RefundedQuantity   int             `gorm:"column:refunded_quantity;not null;default:0" json:"refundedQuantity"`
	CommissionReversed decimal.Decimal `gorm:"column:commission_reversed;type:decimal(18,2);not null;default:0" json:"commissionReversed"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (OrderItem) TableName() string { return "mkt_order_item" }
