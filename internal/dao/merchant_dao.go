package dao

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"mkt-settlement-api/internal/dal"
	"mkt-settlement-api/internal/model"
)

type MerchantDao struct {
	DB *gorm.DB
}

func NewMerchantDao() *MerchantDao {
	if dal.MainDB == nil {
		log.Panic("[FATAL] dal.MainDB is nil - database not initialized")
	}
	return &MerchantDao{DB: dal.MainDB}
}

func NewMerchantDaoWithDB(db *gorm.DB) *MerchantDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &MerchantDao{DB: db}
}

func (r *MerchantDao) checkDB() error {
	if r == nil {
		return errors.New("MerchantDao is nil")
	}
	if r.DB == nil {
		return errors.New("DB connection is nil")
	}
	return nil
}

func (r *MerchantDao) GetByID(id uint64) (*model.Merchant, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get merchant failed: %w", err)
	}

	var m model.Merchant
	err := r.DB.Where("merchant_id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &m, nil
}

// ListActive returns every merchant that can receive a settlement.
func (r *MerchantDao) ListActive() ([]model.Merchant, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("list merchants failed: %w", err)
	}

	var out []model.Merchant
	if err := r.DB.Where("status = ?", 1).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return out, nil
}
