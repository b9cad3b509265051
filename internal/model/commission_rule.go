package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TierRule is one threshold step of a tiered rule. Tiers are kept ordered
// ascending by threshold; the largest threshold <= the qualifying volume wins.
type TierRule struct {
	Threshold decimal.Decimal `json:"threshold"`
	RatePct   decimal.Decimal `json:"ratePct"`
}

type TierRules []TierRule

func (t *TierRules) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("TierRules scan failed: %v", value)
	}
	return json.Unmarshal(bytes, t)
}

func (t TierRules) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// CommissionRule is an administrator-managed matching rule. Editing a rule
// never rewrites history: order items carry their own frozen snapshot.
type CommissionRule struct {
	ID             uint64          `gorm:"column:id;primaryKey" json:"id"`
	Name           string          `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Level          string          `gorm:"column:level;type:varchar(16);not null;index:idx_level_active" json:"level"` // product|category|tier|merchant|global
	Type           string          `gorm:"column:rule_type;type:varchar(16);not null" json:"type"`                     // percentage|fixed|tiered|hybrid
	MerchantID     *uint64         `gorm:"column:merchant_id;index" json:"merchantId"`
	CategoryID     *uint64         `gorm:"column:category_id;index" json:"categoryId"`
	ProductID      *uint64         `gorm:"column:product_id;index" json:"productId"`
	PercentageRate decimal.Decimal `gorm:"column:percentage_rate;type:decimal(8,4);not null" json:"percentageRate"`
	FixedAmount    decimal.Decimal `gorm:"column:fixed_amount;type:decimal(18,2);not null" json:"fixedAmount"`
	Tiers          TierRules       `gorm:"column:tier_rules;type:json" json:"tiers"`
	Priority       int             `gorm:"column:priority;not null" json:"priority"` // lower value wins within a level
	IsActive       bool            `gorm:"column:is_active;not null;index:idx_level_active" json:"isActive"`
	ValidFrom      *time.Time      `gorm:"column:valid_from" json:"validFrom"`
	ValidUntil     *time.Time      `gorm:"column:valid_until" json:"validUntil"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (CommissionRule) TableName() string { return "commission_rule" }

// ActiveAt reports whether the rule is live at ts; open-ended bounds are
// always valid on that side.
func (r *CommissionRule) ActiveAt(ts time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.ValidFrom != nil && ts.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && ts.After(*r.ValidUntil) {
		return false
	}
	return true
}
