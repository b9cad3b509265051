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

type RefundDao struct {
	DB *gorm.DB
}

func NewRefundDao() *RefundDao {
	if dal.MainDB == nil {
		log.Panic("[FATAL] dal.MainDB is nil - database not initialized")
	}
	return &RefundDao{DB: dal.MainDB}
}

func NewRefundDaoWithDB(db *gorm.DB) *RefundDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &RefundDao{DB: db}
}

func (r *RefundDao) checkDB() error {
	if r == nil {
		return errors.New("RefundDao is nil")
	}
	if r.DB == nil {
		return errors.New("DB connection is nil")
	}
	return nil
}

func (r *RefundDao) Insert(m *model.Refund) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert refund failed: %w", err)
	}
	return r.DB.Create(m).Error
}

func (r *RefundDao) InsertItems(items []model.RefundItem) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert refund items failed: %w", err)
	}
	return r.DB.Create(&items).Error
}

func (r *RefundDao) GetByID(id uint64) (*model.Refund, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get refund failed: %w", err)
	}

	var m model.Refund
	err := r.DB.Where("refund_id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &m, nil
}

func (r *RefundDao) GetItems(refundID uint64) ([]model.RefundItem, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get refund items failed: %w", err)
	}

	var items []model.RefundItem
	if err := r.DB.Where("refund_id = ?", refundID).Order("item_id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return items, nil
}

// UpdateStatus moves the customer-facing state machine with a compare-and-set
// on the previous status.
func (r *RefundDao) UpdateStatus(id uint64, from, to string) (bool, error) {
	if err := r.checkDB(); err != nil {
		return false, fmt.Errorf("update refund status failed: %w", err)
	}

	res := r.DB.Model(&model.Refund{}).
		Where("refund_id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("update failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// batchSubtractStatuses are the refund states whose amounts reduce an
// order's settlement contribution. Pending refunds stay out: a refund still
// pending at batch time may yet be rejected, and the claimed order has no
// compensating path back.
var batchSubtractStatuses = []string{
	constant.RefundApproved,
	constant.RefundProcessing,
	constant.RefundCompleted,
}

// ListUnsettledByOrder returns approved refunds whose parent order had not
// been settled when the refund was computed. The batch subtracts these from
// the order's contribution instead of raising a deduction.
func (r *RefundDao) ListUnsettledByOrder(orderID uint64) ([]model.Refund, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("list unsettled refunds failed: %w", err)
	}

	var out []model.Refund
	err := r.DB.Where("order_id = ? AND is_settled = ? AND status IN (?)",
		orderID, false, batchSubtractStatuses).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return out, nil
}

// ListPendingRecoveries returns approved post-settlement refunds waiting to be
// deducted from the merchant's next settlement.
func (r *RefundDao) ListPendingRecoveries(merchantID *uint64) ([]model.Refund, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("list pending recoveries failed: %w", err)
	}

	q := r.DB.Where("is_settled = ?", true).
		Where("recovery_method = ?", constant.RecoveryDeductNext).
		Where("recovery_settlement_id IS NULL").
		Where("status IN (?)", batchSubtractStatuses)
	if merchantID != nil {
		q = q.Where("merchant_id = ?", *merchantID)
	} else {
		q = q.Where("merchant_id IS NULL")
	}

	var out []model.Refund
	if err := q.Order("refund_id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return out, nil
}

// AssignRecovery links a queued recovery to the settlement that deducts it.
// The NULL guard keeps a recovery from being applied twice.
func (r *RefundDao) AssignRecovery(refundID, settlementID uint64) (bool, error) {
	if err := r.checkDB(); err != nil {
		return false, fmt.Errorf("assign recovery failed: %w", err)
	}

	res := r.DB.Model(&model.Refund{}).
		Where("refund_id = ? AND recovery_settlement_id IS NULL", refundID).
		Update("recovery_settlement_id", settlementID)
	if res.Error != nil {
		return false, fmt.Errorf("update failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CompleteRecoveries closes every recovery tied to a settlement once that
// settlement is paid out.
func (r *RefundDao) CompleteRecoveries(settlementID uint64) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("complete recoveries failed: %w", err)
	}

	return r.DB.Model(&model.Refund{}).
		Where("recovery_settlement_id = ? AND is_recovery_completed = ?", settlementID, false).
		Update("is_recovery_completed", true).Error
}

// SumIssued totals completed refund amounts in a period for reconciliation.
func (r *RefundDao) SumIssued(from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if err := r.checkDB(); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum refunds failed: %w", err)
	}

	var row struct {
		Total    decimal.NullDecimal
		Reversed decimal.NullDecimal
	}
	err := r.DB.Model(&model.Refund{}).
		Where("status = ? AND updated_at >= ? AND updated_at < ?", constant.RefundCompleted, from, to).
		Select("COALESCE(SUM(refund_total), 0) AS total, COALESCE(SUM(commission_reversed), 0) AS reversed").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("query failed: %w", err)
	}
	total, reversed := decimal.Zero, decimal.Zero
	if row.Total.Valid {
		total = row.Total.Decimal
	}
	if row.Reversed.Valid {
		reversed = row.Reversed.Decimal
	}
	return total, reversed, nil
}
