package dto

import "time"

type TierReq struct {
	Threshold string `json:"threshold" binding:"required"`
	RatePct   string `json:"rate_pct" binding:"required"`
}

type CreateRuleReq struct {
	Name           string     `json:"name" binding:"required"`
	Level          string     `json:"level" binding:"required"`
	Type           string     `json:"type" binding:"required"`
	MerchantID     *uint64    `json:"merchant_id"`
	CategoryID     *uint64    `json:"category_id"`
	ProductID      *uint64    `json:"product_id"`
	PercentageRate string     `json:"percentage_rate"`
	FixedAmount    string     `json:"fixed_amount"`
	Tiers          []TierReq  `json:"tiers"`
	Priority       int        `json:"priority"`
	ValidFrom      *time.Time `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until"`
}
