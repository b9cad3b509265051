package dao

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/dal"
	"mkt-settlement-api/internal/model"
)

type SettlementDao struct {
	DB *gorm.DB
}

func NewSettlementDao() *SettlementDao {
	if dal.MainDB == nil {
		log.Panic("[FATAL] dal.MainDB is nil - database not initialized")
	}
	return &SettlementDao{DB: dal.MainDB}
}

func NewSettlementDaoWithDB(db *gorm.DB) *SettlementDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &SettlementDao{DB: db}
}

func (r *SettlementDao) checkDB() error {
	if r == nil {
		return errors.New("SettlementDao is nil")
	}
	if r.DB == nil {
		return errors.New("DB connection is nil")
	}
	return nil
}

func (r *SettlementDao) Insert(s *model.Settlement) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert settlement failed: %w", err)
	}
	return r.DB.Create(s).Error
}

func (r *SettlementDao) InsertItems(items []model.SettlementItem) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert settlement items failed: %w", err)
	}
	return r.DB.Create(&items).Error
}

func (r *SettlementDao) InsertDebitNote(n *model.MerchantDebitNote) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert debit note failed: %w", err)
	}
	return r.DB.Create(n).Error
}

func (r *SettlementDao) GetByID(id uint64) (*model.Settlement, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get settlement failed: %w", err)
	}

	var m model.Settlement
	err := r.DB.Where("settlement_id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &m, nil
}

func (r *SettlementDao) GetItems(settlementID uint64) ([]model.SettlementItem, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get settlement items failed: %w", err)
	}

	var items []model.SettlementItem
	if err := r.DB.Where("settlement_id = ?", settlementID).Order("item_id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return items, nil
}

func (r *SettlementDao) List(merchantID *uint64, status string, limit, offset int) ([]model.Settlement, int64, error) {
	if err := r.checkDB(); err != nil {
		return nil, 0, fmt.Errorf("list settlements failed: %w", err)
	}

	q := r.DB.Model(&model.Settlement{})
	if merchantID != nil {
		q = q.Where("merchant_id = ?", *merchantID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	var out []model.Settlement
	if err := q.Order("settlement_id desc").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("query failed: %w", err)
	}
	return out, total, nil
}

// MarkPaid transitions to paid exactly once. A second call loses the status
// guard and reports false so the caller can reject the replay.
func (r *SettlementDao) MarkPaid(id uint64, txRef string, paidAt time.Time) (bool, error) {
	if err := r.checkDB(); err != nil {
		return false, fmt.Errorf("mark settlement paid failed: %w", err)
	}

	res := r.DB.Model(&model.Settlement{}).
		Where("settlement_id = ? AND status <> ?", id, constant.SettlementPaid).
		Updates(map[string]interface{}{
			"status":                constant.SettlementPaid,
			"transaction_reference": txRef,
			"paid_at":               paidAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("update failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SumPaid totals paid-out settlements in a period for reconciliation.
func (r *SettlementDao) SumPaid(from, to time.Time) (decimal.Decimal, error) {
	if err := r.checkDB(); err != nil {
		return decimal.Zero, fmt.Errorf("sum paid settlements failed: %w", err)
	}

	var row struct{ Total decimal.NullDecimal }
	err := r.DB.Model(&model.Settlement{}).
		Where("status = ? AND paid_at >= ? AND paid_at < ?", constant.SettlementPaid, from, to).
		Select("COALESCE(SUM(net_payout), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("query failed: %w", err)
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}

// SumDebitNotes totals recovery debit notes applied in a period.
func (r *SettlementDao) SumDebitNotes(from, to time.Time) (decimal.Decimal, error) {
	if err := r.checkDB(); err != nil {
		return decimal.Zero, fmt.Errorf("sum debit notes failed: %w", err)
	}

	var row struct{ Total decimal.NullDecimal }
	err := r.DB.Model(&model.MerchantDebitNote{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("query failed: %w", err)
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}

// SumSettledCommission totals commission inside settlements created in a
// period, split out from accrued-but-unsettled commission.
func (r *SettlementDao) SumSettledCommission(from, to time.Time) (decimal.Decimal, error) {
	if err := r.checkDB(); err != nil {
		return decimal.Zero, fmt.Errorf("sum settled commission failed: %w", err)
	}

	var row struct{ Total decimal.NullDecimal }
	err := r.DB.Model(&model.Settlement{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Select("COALESCE(SUM(total_commission), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("query failed: %w", err)
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}
