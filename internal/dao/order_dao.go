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

type OrderDao struct {
	DB *gorm.DB
}

func NewOrderDao() *OrderDao {
	if dal.MainDB == nil {
		log.Panic("[FATAL] dal.MainDB is nil - database not initialized")
	}
	return &OrderDao{DB: dal.MainDB}
}

func NewOrderDaoWithDB(db *gorm.DB) *OrderDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &OrderDao{DB: db}
}

func (r *OrderDao) checkDB() error {
	if r == nil {
		return errors.New("OrderDao is nil")
	}
	if r.DB == nil {
		return errors.New("DB connection is nil")
	}
	return nil
}

func (r *OrderDao) Insert(o *model.Order) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert order failed: %w", err)
	}
	return r.DB.Create(o).Error
}

func (r *OrderDao) InsertItems(items []model.OrderItem) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert order items failed: %w", err)
	}
	return r.DB.Create(&items).Error
}

func (r *OrderDao) GetByID(id uint64) (*model.Order, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get order failed: %w", err)
	}

	var m model.Order
	err := r.DB.Where("order_id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &m, nil
}

func (r *OrderDao) GetItems(orderID uint64) ([]model.OrderItem, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get order items failed: %w", err)
	}

	var items []model.OrderItem
	if err := r.DB.Where("order_id = ?", orderID).Order("item_id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return items, nil
}

// StampFees writes the fee snapshot exactly once. The guard on the NULL
// payment_gateway_fee_total column makes webhook replays a no-op; the caller
// checks the returned flag.
func (r *OrderDao) StampFees(orderID uint64, fields map[string]interface{}) (bool, error) {
	if err := r.checkDB(); err != nil {
		return false, fmt.Errorf("stamp fees failed: %w", err)
	}

	res := r.DB.Model(&model.Order{}).
		Where("order_id = ? AND payment_gateway_fee_total IS NULL", orderID).
		Updates(fields)
	if res.Error != nil {
		return false, fmt.Errorf("update failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderDao) UpdateStatus(orderID uint64, from, to string) (bool, error) {
	if err := r.checkDB(); err != nil {
		return false, fmt.Errorf("update order status failed: %w", err)
	}

	res := r.DB.Model(&model.Order{}).
		Where("order_id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("update failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// MarkDelivered stamps delivered_at and the eligibility date once. Replays
// hit the delivered_at IS NULL guard and change nothing.
func (r *OrderDao) MarkDelivered(orderID uint64, deliveredAt, eligibleAt time.Time) (bool, error) {
	if err := r.checkDB(); err != nil {
		return false, fmt.Errorf("mark delivered failed: %w", err)
	}

	res := r.DB.Model(&model.Order{}).
		Where("order_id = ? AND delivered_at IS NULL", orderID).
		Updates(map[string]interface{}{
			"status":                 constant.OrderDelivered,
			"delivered_at":           deliveredAt,
			"settlement_eligible_at": eligibleAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("update failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListEligible returns delivered, fee-stamped, unclaimed orders whose hold
// period has elapsed. merchantID nil selects the platform's own-store orders.
func (r *OrderDao) ListEligible(merchantID *uint64, now time.Time) ([]model.Order, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("list eligible orders failed: %w", err)
	}

	q := r.DB.Where("settlement_id IS NULL").
		Where("settlement_eligible_at IS NOT NULL AND settlement_eligible_at <= ?", now).
		Where("payment_gateway_fee_total IS NOT NULL").
		Where("status = ?", constant.OrderDelivered)
	if merchantID != nil {
		q = q.Where("merchant_id = ?", *merchantID)
	} else {
		q = q.Where("merchant_id IS NULL")
	}

	var out []model.Order
	if err := q.Order("order_id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return out, nil
}

// ClaimForSettlement is the transactional claim: the settlement_id IS NULL
// guard loses the race cleanly when two batches overlap, and the unique index
// on settlement_item.order_id backstops it.
func (r *OrderDao) ClaimForSettlement(orderID, settlementID uint64) (bool, error) {
	if err := r.checkDB(); err != nil {
		return false, fmt.Errorf("claim order failed: %w", err)
	}

	res := r.DB.Model(&model.Order{}).
		Where("order_id = ? AND settlement_id IS NULL", orderID).
		Update("settlement_id", settlementID)
	if res.Error != nil {
		return false, fmt.Errorf("update failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// TrailingGMV sums paid order totals in the trailing window for tiered rule
// qualification.
func (r *OrderDao) TrailingGMV(merchantID *uint64, since, until time.Time) (decimal.Decimal, error) {
	if err := r.checkDB(); err != nil {
		return decimal.Zero, fmt.Errorf("trailing gmv failed: %w", err)
	}

	q := r.DB.Model(&model.Order{}).
		Where("created_at >= ? AND created_at < ?", since, until).
		Where("payment_gateway_fee_total IS NOT NULL")
	if merchantID != nil {
		q = q.Where("merchant_id = ?", *merchantID)
	} else {
		q = q.Where("merchant_id IS NULL")
	}

	var row struct{ Total decimal.NullDecimal }
	if err := q.Select("COALESCE(SUM(grand_total), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, fmt.Errorf("query failed: %w", err)
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}

// ApplyItemRefund accumulates refunded quantity and reversed commission on an
// order item.
func (r *OrderDao) ApplyItemRefund(itemID uint64, qty int, commissionReversed decimal.Decimal) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("apply item refund failed: %w", err)
	}

	return r.DB.Model(&model.OrderItem{}).
		Where("item_id = ?", itemID).
		Updates(map[string]interface{}{
			"refunded_quantity":   gorm.Expr("refunded_quantity + ?", qty),
			"commission_reversed": gorm.Expr("commission_reversed + ?", commissionReversed),
		}).Error
}
