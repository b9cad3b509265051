package dao

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mkt-settlement-api/internal/dal"
	"mkt-settlement-api/internal/model"
)

type ReconcileDao struct {
	DB *gorm.DB
}

func NewReconcileDao() *ReconcileDao {
	if dal.MainDB == nil {
		log.Panic("[FATAL] dal.MainDB is nil - database not initialized")
	}
	return &ReconcileDao{DB: dal.MainDB}
}

func NewReconcileDaoWithDB(db *gorm.DB) *ReconcileDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &ReconcileDao{DB: db}
}

func (r *ReconcileDao) checkDB() error {
	if r == nil {
		return errors.New("ReconcileDao is nil")
	}
	if r.DB == nil {
		return errors.New("DB connection is nil")
	}
	return nil
}

// OrderAggregates sums paid-order GMV, collected tax and accrued commission in
// a period, straight off the frozen snapshots.
func (r *ReconcileDao) OrderAggregates(from, to time.Time) (gmv, tax, commission decimal.Decimal, err error) {
	if err = r.checkDB(); err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("order aggregates failed: %w", err)
	}

	var totals struct {
		GMV decimal.NullDecimal
		Tax decimal.NullDecimal
	}
	err = r.DB.Model(&model.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("payment_gateway_fee_total IS NOT NULL").
		Select("COALESCE(SUM(grand_total), 0) AS gmv, COALESCE(SUM(tax_total), 0) AS tax").
		Scan(&totals).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("order sum failed: %w", err)
	}

	var comm struct{ Total decimal.NullDecimal }
	err = r.DB.Model(&model.OrderItem{}).
		Joins("JOIN mkt_order AS o ON o.order_id = mkt_order_item.order_id").
		Where("o.created_at >= ? AND o.created_at < ?", from, to).
		Where("o.payment_gateway_fee_total IS NOT NULL").
		Select("COALESCE(SUM(mkt_order_item.commission_amount), 0) AS total").
		Scan(&comm).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("commission sum failed: %w", err)
	}

	gmv, tax, commission = decimal.Zero, decimal.Zero, decimal.Zero
	if totals.GMV.Valid {
		gmv = totals.GMV.Decimal
	}
	if totals.Tax.Valid {
		tax = totals.Tax.Decimal
	}
	if comm.Total.Valid {
		commission = comm.Total.Decimal
	}
	return gmv, tax, commission, nil
}

func (r *ReconcileDao) Insert(m *model.Reconciliation) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert reconciliation failed: %w", err)
	}
	return r.DB.Create(m).Error
}

func (r *ReconcileDao) GetByPeriod(from, to time.Time) (*model.Reconciliation, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get reconciliation failed: %w", err)
	}

	var m model.Reconciliation
	err := r.DB.Where("period_start = ? AND period_end = ?", from, to).
		Order("id desc").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &m, nil
}
