package model

import "time"

type Merchant struct {
	MerchantID uint64    `gorm:"column:merchant_id;primaryKey" json:"merchantId"`
	Name       string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Status     int8      `gorm:"column:status;type:tinyint(1);not null" json:"status"` // 1:active 0:disabled
	IsOwnStore bool      `gorm:"column:is_own_store;not null" json:"isOwnStore"`       // platform-operated store, fixed 0% commission
	ApiKey     string    `gorm:"column:api_key;type:varchar(64)" json:"-"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Merchant) TableName() string { return "merchant" }
