package service

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mkt-settlement-api/internal/config"
	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/dal"
	"mkt-settlement-api/internal/dao"
	"mkt-settlement-api/internal/dto"
	"mkt-settlement-api/internal/idgen"
	"mkt-settlement-api/internal/logger"
	"mkt-settlement-api/internal/model"
	"mkt-settlement-api/internal/mq"
	settle "mkt-settlement-api/internal/settlement"
)

// settlementStore is the slice of SettlementDao the read and payout paths
// use. The batch itself runs on tx-scoped DAOs built inside runMerchant.
type settlementStore interface {
	GetByID(id uint64) (*model.Settlement, error)
	GetItems(id uint64) ([]model.SettlementItem, error)
	List(merchantID *uint64, status string, limit, offset int) ([]model.Settlement, int64, error)
	MarkPaid(id uint64, txRef string, paidAt time.Time) (bool, error)
}

// recoveryCloser flips is_recovery_completed once the deducting settlement
// is paid out.
type recoveryCloser interface {
	CompleteRecoveries(settlementID uint64) error
}

type SettlementService struct {
	merchantDao   *dao.MerchantDao
	settlementDao settlementStore
	refundDao     recoveryCloser
}

func NewSettlementService() *SettlementService {
	return &SettlementService{
		merchantDao:   dao.NewMerchantDao(),
		settlementDao: dao.NewSettlementDao(),
		refundDao:     dao.NewRefundDao(),
	}
}

// Run executes one batch for one payout date. The redis SETNX on the run key
// makes concurrent triggers for the same date collapse to a single run; each
// merchant settles in its own transaction so one failure never poisons the
// rest of the batch.
func (s *SettlementService) Run(dateStr string, force bool) error {
	day := time.Now()
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return constant.NewErrorf(constant.CodeBadRequest, "bad date %q", dateStr)
		}
		day = parsed
	}

	if !force && !settle.IsPayoutDay(day, config.C.Settlement.PayoutDays) {
		logger.Settlement.Infof("skip run: %s is not a payout day", day.Format("2006-01-02"))
		return nil
	}

	// 1) one run per date
	acquired, err := dal.RedisClient.SetNX(dal.RedisCtx, settle.RunKey(day), "1", dal.MarkerTTL).Result()
	if err != nil {
		return err
	}
	if !acquired {
		logger.Settlement.Infof("run for %s already executed, skipping", day.Format("2006-01-02"))
		return nil
	}

	// 2) every active merchant, plus the platform's own-store bucket
	merchants, err := s.merchantDao.ListActive()
	if err != nil {
		return err
	}
	groups := make([]*uint64, 0, len(merchants)+1)
	groups = append(groups, nil)
	for i := range merchants {
		id := merchants[i].MerchantID
		groups = append(groups, &id)
	}

	for _, merchantID := range groups {
		if err := s.runMerchant(merchantID, day); err != nil {
			logger.Settlement.Errorf("settle merchant %v failed: %v", merchantID, err)
		}
	}
	return nil
}

// runMerchant claims the merchant's eligible orders and queued recoveries
// into settlements, one per currency, in a single transaction.
func (s *SettlementService) runMerchant(merchantID *uint64, day time.Time) error {
	now := time.Now()
	var created []dto.SettlementCreatedMQ

	err := dal.MainDB.Transaction(func(tx *gorm.DB) error {
		orderDao := dao.NewOrderDaoWithDB(tx)
		settlementDao := dao.NewSettlementDaoWithDB(tx)
		refundDao := dao.NewRefundDaoWithDB(tx)

		eligible, err := orderDao.ListEligible(merchantID, now)
		if err != nil {
			return err
		}
		recoveries, err := refundDao.ListPendingRecoveries(merchantID)
		if err != nil {
			return err
		}
		if len(eligible) == 0 && len(recoveries) == 0 {
			return nil
		}

		byCurrency := make(map[string][]model.Order)
		for _, o := range eligible {
			byCurrency[o.Currency] = append(byCurrency[o.Currency], o)
		}
		// recoveries with no eligible orders this cycle still need a
		// settlement to carry the deduction
		for _, rec := range recoveries {
			if _, ok := byCurrency[rec.Currency]; !ok {
				byCurrency[rec.Currency] = nil
			}
		}

		for currency, orders := range byCurrency {
			settlementID := idgen.New()

			var items []model.SettlementItem
			for _, order := range orders {
				item, err := s.buildItem(orderDao, refundDao, order, settlementID)
				if err != nil {
					return err
				}
				if item == nil {
					continue // lost the claim race
				}
				items = append(items, *item)
			}

			// recovery deductions attach to the settlement in the refund's
			// currency; the NULL guard on recovery_settlement_id keeps a
			// recovery from landing twice
			deductions := decimal.Zero
			for _, rec := range recoveries {
				if rec.Currency != currency {
					continue
				}
				assigned, err := refundDao.AssignRecovery(rec.RefundID, settlementID)
				if err != nil {
					return err
				}
				if !assigned {
					continue
				}
				deductions = deductions.Add(rec.MerchantRecoveryAmount)
				note := &model.MerchantDebitNote{
					NoteID:       idgen.New(),
					MerchantID:   merchantID,
					RefundID:     rec.RefundID,
					SettlementID: settlementID,
					Amount:       rec.MerchantRecoveryAmount,
					Currency:     rec.Currency,
				}
				if err := settlementDao.InsertDebitNote(note); err != nil {
					return err
				}
			}

			if len(items) == 0 && deductions.IsZero() {
				continue
			}

			totals := settle.BuildTotals(items, deductions)
			settlement := &model.Settlement{
				SettlementID:            settlementID,
				MerchantID:              merchantID,
				Currency:                currency,
				PayoutDate:              day,
				TotalOrderAmount:        totals.TotalOrderAmount,
				TotalCommission:         totals.TotalCommission,
				TotalPaymentGatewayFees: totals.TotalGatewayFees,
				TotalPlatformFees:       totals.TotalPlatformFees,
				Deductions:              totals.Deductions,
				NetPayout:               totals.NetPayout,
				Status:                  constant.SettlementPending,
			}
			if err := settlementDao.Insert(settlement); err != nil {
				return err
			}
			if len(items) > 0 {
				if err := settlementDao.InsertItems(items); err != nil {
					return err
				}
			}

			created = append(created, dto.SettlementCreatedMQ{
				SettlementID: settlementID,
				MerchantID:   merchantID,
				NetPayout:    totals.NetPayout.String(),
				Currency:     currency,
				PayoutDate:   day.Format("2006-01-02"),
			})
			logger.Settlement.Infof("settlement %d created for merchant %v: orders=%d net=%s",
				settlementID, merchantID, len(items), totals.NetPayout)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, evt := range created {
		_ = mq.PublishSettlementCreated(evt)
	}
	return nil
}

// buildItem claims one order and freezes its contribution. Refunds computed
// before settlement reduce the order amount and commission here instead of
// raising a recovery.
func (s *SettlementService) buildItem(orderDao *dao.OrderDao, refundDao *dao.RefundDao, order model.Order, settlementID uint64) (*model.SettlementItem, error) {
	claimed, err := orderDao.ClaimForSettlement(order.OrderID, settlementID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, nil
	}

	items, err := orderDao.GetItems(order.OrderID)
	if err != nil {
		return nil, err
	}
	commissionTotal := decimal.Zero
	source := constant.CommissionSourceGlobalDefault
	for i, it := range items {
		commissionTotal = commissionTotal.Add(it.CommissionAmount)
		if i == 0 {
			source = it.CommissionSource
		}
	}

	refunds, err := refundDao.ListUnsettledByOrder(order.OrderID)
	if err != nil {
		return nil, err
	}
	refunded := decimal.Zero
	reversed := decimal.Zero
	for _, r := range refunds {
		refunded = refunded.Add(r.RefundTotal)
		reversed = reversed.Add(r.CommissionReversed)
	}

	orderAmount := order.GrandTotal.Sub(refunded)
	commission := commissionTotal.Sub(reversed)
	gatewayFee := decimal.Zero
	if order.PaymentGatewayFeeTotal != nil {
		gatewayFee = *order.PaymentGatewayFeeTotal
	}
	platformFee := decimal.Zero
	if order.PlatformFeeAmount != nil {
		platformFee = *order.PlatformFeeAmount
	}

	rate := decimal.Zero
	if orderAmount.Sign() > 0 {
		rate = commission.Div(orderAmount).Mul(decimal.NewFromInt(100)).Round(4)
	}

	return &model.SettlementItem{
		ItemID:             idgen.New(),
		SettlementID:       settlementID,
		OrderID:            order.OrderID,
		OrderAmount:        orderAmount,
		CommissionRate:     rate,
		CommissionAmount:   commission,
		CommissionSource:   source,
		GatewayFee:         gatewayFee,
		PlatformFee:        platformFee,
		PayoutContribution: settle.ItemContribution(orderAmount, commission, gatewayFee, platformFee),
	}, nil
}

// MarkPaid finalizes a settlement after the bank transfer went out. It
// requires the external transaction reference, rejects replays, and closes
// every recovery the settlement deducted.
func (s *SettlementService) MarkPaid(id uint64, txRef string) error {
	settlement, err := s.settlementDao.GetByID(id)
	if err != nil {
		return err
	}
	if settlement == nil {
		return constant.NewError(constant.CodeSettlementNotFound)
	}

	paid, err := s.settlementDao.MarkPaid(id, txRef, time.Now())
	if err != nil {
		return err
	}
	if !paid {
		return constant.NewError(constant.CodeSettlementPaid)
	}

	if err := s.refundDao.CompleteRecoveries(id); err != nil {
		return err
	}
	logger.Settlement.Infof("settlement %d paid: ref=%s net=%s", id, txRef, settlement.NetPayout)
	return nil
}

func (s *SettlementService) List(merchantID *uint64, status string, limit, offset int) ([]dto.SettlementVO, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	rows, total, err := s.settlementDao.List(merchantID, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SettlementVO, 0, len(rows))
	for i := range rows {
		out = append(out, toSettlementVO(&rows[i], nil))
	}
	return out, total, nil
}

func (s *SettlementService) Get(id uint64) (dto.SettlementVO, error) {
	settlement, err := s.settlementDao.GetByID(id)
	if err != nil {
		return dto.SettlementVO{}, err
	}
	if settlement == nil {
		return dto.SettlementVO{}, constant.NewError(constant.CodeSettlementNotFound)
	}
	items, err := s.settlementDao.GetItems(id)
	if err != nil {
		return dto.SettlementVO{}, err
	}
	return toSettlementVO(settlement, items), nil
}

func toSettlementVO(m *model.Settlement, items []model.SettlementItem) dto.SettlementVO {
	vo := dto.SettlementVO{
		SettlementID:            strconv.FormatUint(m.SettlementID, 10),
		MerchantID:              m.MerchantID,
		Currency:                m.Currency,
		PayoutDate:              m.PayoutDate,
		TotalOrderAmount:        m.TotalOrderAmount,
		TotalCommission:         m.TotalCommission,
		TotalPaymentGatewayFees: m.TotalPaymentGatewayFees,
		TotalPlatformFees:       m.TotalPlatformFees,
		Deductions:              m.Deductions,
		NetPayout:               m.NetPayout,
		Status:                  m.Status,
		TransactionReference:    m.TransactionReference,
	}
	for _, it := range items {
		vo.Items = append(vo.Items, dto.SettlementItemVO{
			OrderID:            strconv.FormatUint(it.OrderID, 10),
			OrderAmount:        it.OrderAmount,
			CommissionRate:     it.CommissionRate,
			CommissionAmount:   it.CommissionAmount,
			CommissionSource:   it.CommissionSource,
			GatewayFee:         it.GatewayFee,
			PlatformFee:        it.PlatformFee,
			PayoutContribution: it.PayoutContribution,
		})
	}
	return vo
}
