package dto

// PaymentWebhookReq is the gateway callback payload. CardScheme and
// CardCountry may be absent; the fee calculator degrades to the default
// bucket instead of failing the order.
type PaymentWebhookReq struct {
	OrderID       uint64 `json:"order_id" binding:"required"`
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id" binding:"required"`
	CardScheme    string `json:"card_scheme"`
	CardCountry   string `json:"card_country"`
}

// PaymentConfirmedMQ is the at-least-once message the webhook handler hands
// to the stamping consumer.
type PaymentConfirmedMQ struct {
	OrderID       uint64 `json:"order_id"`
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	CardScheme    string `json:"card_scheme"`
	CardCountry   string `json:"card_country"`
	Ts            int64  `json:"ts"`
	RetryCount    int    `json:"retry_count"`
}
