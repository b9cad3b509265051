package dto

import "github.com/shopspring/decimal"

type RefundLineReq struct {
	OrderItemID uint64 `json:"order_item_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

type CreateRefundReq struct {
	OrderID uint64          `json:"order_id" binding:"required"`
	Reason  string          `json:"reason"`
	Lines   []RefundLineReq `json:"lines" binding:"required,min=1,dive"`
}

type RefundStatusReq struct {
	Status string `json:"status" binding:"required"`
}

type RefundVO struct {
	RefundID               string          `json:"refundId"`
	OrderID                string          `json:"orderId"`
	Status                 string          `json:"status"`
	RefundSubtotal         decimal.Decimal `json:"refundSubtotal"`
	RefundTax              decimal.Decimal `json:"refundTax"`
	RefundTotal            decimal.Decimal `json:"refundTotal"`
	CommissionReversed     decimal.Decimal `json:"commissionReversed"`
	CommissionTaxReversed  decimal.Decimal `json:"commissionTaxReversed"`
	RecoveryMethod         string          `json:"recoveryMethod"`
	MerchantRecoveryAmount decimal.Decimal `json:"merchantRecoveryAmount"`
	IsSettled              bool            `json:"isSettled"`
	IsRecoveryCompleted    bool            `json:"isRecoveryCompleted"`
}
