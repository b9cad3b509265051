package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RunSettlementReq struct {
	Force bool `json:"force"` // run even off the payout calendar
}

type MarkPaidReq struct {
	TransactionReference string `json:"transaction_reference" binding:"required"`
}

type SettlementItemVO struct {
	OrderID            string          `json:"orderId"`
	OrderAmount        decimal.Decimal `json:"orderAmount"`
	CommissionRate     decimal.Decimal `json:"commissionRate"`
	CommissionAmount   decimal.Decimal `json:"commissionAmount"`
	CommissionSource   string          `json:"commissionSource"`
	GatewayFee         decimal.Decimal `json:"gatewayFee"`
	PlatformFee        decimal.Decimal `json:"platformFee"`
	PayoutContribution decimal.Decimal `json:"payoutContribution"`
}

type SettlementVO struct {
	SettlementID            string             `json:"settlementId"`
	MerchantID              *uint64            `json:"merchantId"`
	Currency                string             `json:"currency"`
	PayoutDate              time.Time          `json:"payoutDate"`
	TotalOrderAmount        decimal.Decimal    `json:"totalOrderAmount"`
	TotalCommission         decimal.Decimal    `json:"totalCommission"`
	TotalPaymentGatewayFees decimal.Decimal    `json:"totalPaymentGatewayFees"`
	TotalPlatformFees       decimal.Decimal    `json:"totalPlatformFees"`
	Deductions              decimal.Decimal    `json:"deductions"`
	NetPayout               decimal.Decimal    `json:"netPayout"`
	Status                  string             `json:"status"`
	TransactionReference    *string            `json:"transactionReference"`
	Items                   []SettlementItemVO `json:"items,omitempty"`
}

// SettlementRunMQ triggers one batch run for one payout date.
type SettlementRunMQ struct {
	Date       string `json:"date"` // 2006-01-02
	Force      bool   `json:"force"`
	RetryCount int    `json:"retry_count"`
}
