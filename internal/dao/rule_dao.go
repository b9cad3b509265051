package dao

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"mkt-settlement-api/internal/dal"
	"mkt-settlement-api/internal/model"
)

type RuleDao struct {
	DB *gorm.DB
}

func NewRuleDao() *RuleDao {
	if dal.MainDB == nil {
		log.Panic("[FATAL] dal.MainDB is nil - database not initialized")
	}
	return &RuleDao{DB: dal.MainDB}
}

func NewRuleDaoWithDB(db *gorm.DB) *RuleDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &RuleDao{DB: db}
}

func (r *RuleDao) checkDB() error {
	if r == nil {
		return errors.New("RuleDao is nil")
	}
	if r.DB == nil {
		return errors.New("DB connection is nil")
	}
	return nil
}

// ListCandidates fetches active rules whose scope could match the given
// merchant, product and categories. The resolver does the exact level and
// priority walk; this query only prunes the obvious non-matches.
func (r *RuleDao) ListCandidates(merchantID *uint64, productID uint64, categoryIDs []uint64, now time.Time) ([]model.CommissionRule, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("list rule candidates failed: %w", err)
	}

	// validity bounds are inclusive on both ends, same as CommissionRule.ActiveAt
	q := r.DB.Where("is_active = ?", true).
		Where("valid_from IS NULL OR valid_from <= ?", now).
		Where("valid_until IS NULL OR valid_until >= ?", now).
		Where("product_id IS NULL OR product_id = ?", productID)
	if merchantID != nil {
		q = q.Where("merchant_id IS NULL OR merchant_id = ?", *merchantID)
	} else {
		q = q.Where("merchant_id IS NULL")
	}
	if len(categoryIDs) > 0 {
		q = q.Where("category_id IS NULL OR category_id IN (?)", categoryIDs)
	} else {
		q = q.Where("category_id IS NULL")
	}

	var out []model.CommissionRule
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return out, nil
}

func (r *RuleDao) Insert(rule *model.CommissionRule) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert rule failed: %w", err)
	}
	return r.DB.Create(rule).Error
}

func (r *RuleDao) GetByID(id uint64) (*model.CommissionRule, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get rule failed: %w", err)
	}

	var m model.CommissionRule
	err := r.DB.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &m, nil
}

func (r *RuleDao) List(level string, onlyActive bool, limit, offset int) ([]model.CommissionRule, int64, error) {
	if err := r.checkDB(); err != nil {
		return nil, 0, fmt.Errorf("list rules failed: %w", err)
	}

	q := r.DB.Model(&model.CommissionRule{})
	if level != "" {
		q = q.Where("level = ?", level)
	}
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	var out []model.CommissionRule
	if err := q.Order("priority asc, created_at desc").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("query failed: %w", err)
	}
	return out, total, nil
}

// Deactivate flips is_active; existing orders keep their frozen snapshots.
func (r *RuleDao) Deactivate(id uint64) (bool, error) {
	if err := r.checkDB(); err != nil {
		return false, fmt.Errorf("deactivate rule failed: %w", err)
	}

	res := r.DB.Model(&model.CommissionRule{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return false, fmt.Errorf("update failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
