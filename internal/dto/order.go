package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineReq is one cart line from the checkout collaborator. UnitPrice is
// the listed, tax-inclusive price as a string so it parses straight into a
// decimal without a float detour.
type OrderLineReq struct {
	ProductID   uint64   `json:"product_id" binding:"required"`
	CategoryIDs []uint64 `json:"category_ids"`
	Title       string   `json:"title"`
	UnitPrice   string   `json:"unit_price" binding:"required"`
	Quantity    int      `json:"quantity" binding:"required,min=1"`
}

type CreateOrderReq struct {
	MerchantID     *uint64        `json:"merchant_id"` // null = platform own store
	Currency       string         `json:"currency" binding:"required,len=3"`
	PaymentMethod  string         `json:"payment_method" binding:"required"`
	ShippingAmount string         `json:"shipping_amount"`
	DiscountAmount string         `json:"discount_amount"`
	Lines          []OrderLineReq `json:"lines" binding:"required,min=1,dive"`
}

type OrderItemVO struct {
	ItemID           uint64          `json:"itemId"`
	ProductID        uint64          `json:"productId"`
	Quantity         int             `json:"quantity"`
	UnitPriceGross   decimal.Decimal `json:"unitPriceGross"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	NetSubtotal      decimal.Decimal `json:"netSubtotal"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	CommissionRate   decimal.Decimal `json:"commissionRate"`
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
	CommissionSource string          `json:"commissionSource"`
}

type CreateOrderResp struct {
	OrderID    string          `json:"orderId"`
	Status     string          `json:"status"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxTotal   decimal.Decimal `json:"taxTotal"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	Items      []OrderItemVO   `json:"items"`
}

type DeliveredReq struct {
	DeliveredAt *time.Time `json:"delivered_at"`
}
