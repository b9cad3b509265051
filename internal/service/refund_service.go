package service

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"mkt-settlement-api/internal/config"
	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/dal"
	"mkt-settlement-api/internal/dao"
	"mkt-settlement-api/internal/dto"
	"mkt-settlement-api/internal/idgen"
	"mkt-settlement-api/internal/logger"
	"mkt-settlement-api/internal/model"
	"mkt-settlement-api/internal/refund"
)

type RefundService struct {
	orderDao  *dao.OrderDao
	refundDao *dao.RefundDao
}

func NewRefundService() *RefundService {
	return &RefundService{
		orderDao:  dao.NewOrderDao(),
		refundDao: dao.NewRefundDao(),
	}
}

// Create computes and records a refund in pending state. Whether the parent
// order was already settled is decided here, once, and frozen on the record;
// the recovery branch never changes afterward.
func (s *RefundService) Create(req dto.CreateRefundReq) (dto.RefundVO, error) {
	var vo dto.RefundVO

	order, err := s.orderDao.GetByID(req.OrderID)
	if err != nil {
		return vo, err
	}
	if order == nil {
		return vo, constant.NewError(constant.CodeOrderNotFound)
	}
	if order.PaymentGatewayFeeTotal == nil {
		return vo, constant.NewError(constant.CodeOrderStateInvalid)
	}

	items, err := s.orderDao.GetItems(req.OrderID)
	if err != nil {
		return vo, err
	}
	byID := make(map[uint64]model.OrderItem, len(items))
	for _, it := range items {
		byID[it.ItemID] = it
	}

	lines := make([]refund.LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		item, ok := byID[l.OrderItemID]
		if !ok {
			return vo, constant.NewErrorf(constant.CodeBadRequest, "item %d not part of order %d", l.OrderItemID, req.OrderID)
		}
		lines = append(lines, refund.LineInput{Item: item, Quantity: l.Quantity})
	}

	settled := order.SettlementID != nil
	comp, err := refund.Compute(lines, settled, config.C.Refund.RecoveryMethod, config.Rates.VatPct)
	if err != nil {
		if errors.Is(err, refund.ErrExceedsLine) {
			return vo, constant.NewError(constant.CodeRefundExceedsLine)
		}
		return vo, constant.NewError(constant.CodeBadRequest)
	}

	refundID := idgen.New()
	record := &model.Refund{
		RefundID:               refundID,
		OrderID:                req.OrderID,
		MerchantID:             order.MerchantID,
		Currency:               order.Currency,
		Reason:                 req.Reason,
		RefundSubtotal:         comp.RefundSubtotal,
		RefundTax:              comp.RefundTax,
		RefundTotal:            comp.RefundTotal,
		CommissionReversed:     comp.CommissionReversed,
		CommissionTaxReversed:  comp.CommissionTaxReversed,
		Status:                 constant.RefundPending,
		RecoveryMethod:         comp.RecoveryMethod,
		MerchantRecoveryAmount: comp.MerchantRecoveryAmount,
		IsSettled:              comp.IsSettled,
	}
	refundItems := make([]model.RefundItem, 0, len(comp.Lines))
	for _, line := range comp.Lines {
		refundItems = append(refundItems, model.RefundItem{
			ItemID:             idgen.New(),
			RefundID:           refundID,
			OrderItemID:        line.OrderItemID,
			Quantity:           line.Quantity,
			Subtotal:           line.Subtotal,
			TaxAmount:          line.Tax,
			Total:              line.Total,
			CommissionReversed: line.CommissionReversed,
		})
	}

	err = dal.MainDB.Transaction(func(tx *gorm.DB) error {
		txDao := dao.NewRefundDaoWithDB(tx)
		if err := txDao.Insert(record); err != nil {
			return err
		}
		return txDao.InsertItems(refundItems)
	})
	if err != nil {
		return vo, err
	}

	logger.Refund.Infof("refund %d created for order %d: total=%s reversed=%s recovery=%s",
		refundID, req.OrderID, comp.RefundTotal, comp.CommissionReversed, comp.RecoveryMethod)
	return toRefundVO(record), nil
}

// legal customer-facing transitions
var refundTransitions = map[string][]string{
	constant.RefundPending:    {constant.RefundApproved, constant.RefundRejected},
	constant.RefundApproved:   {constant.RefundProcessing},
	constant.RefundProcessing: {constant.RefundCompleted},
}

// UpdateStatus moves the refund through its state machine. Item counters only
// accumulate on approval, so a rejected refund leaves the order untouched.
func (s *RefundService) UpdateStatus(id uint64, target string) (dto.RefundVO, error) {
	var vo dto.RefundVO

	record, err := s.refundDao.GetByID(id)
	if err != nil {
		return vo, err
	}
	if record == nil {
		return vo, constant.NewError(constant.CodeRefundNotFound)
	}

	allowed := false
	for _, next := range refundTransitions[record.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return vo, constant.NewError(constant.CodeRefundStateInvalid)
	}

	if target == constant.RefundApproved {
		err = dal.MainDB.Transaction(func(tx *gorm.DB) error {
			txRefundDao := dao.NewRefundDaoWithDB(tx)
			txOrderDao := dao.NewOrderDaoWithDB(tx)

			moved, err := txRefundDao.UpdateStatus(id, record.Status, target)
			if err != nil {
				return err
			}
			if !moved {
				return constant.NewError(constant.CodeRefundStateInvalid)
			}

			items, err := txRefundDao.GetItems(id)
			if err != nil {
				return err
			}
			for _, it := range items {
				if err := txOrderDao.ApplyItemRefund(it.OrderItemID, it.Quantity, it.CommissionReversed); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return vo, err
		}
	} else {
		moved, err := s.refundDao.UpdateStatus(id, record.Status, target)
		if err != nil {
			return vo, err
		}
		if !moved {
			return vo, constant.NewError(constant.CodeRefundStateInvalid)
		}
	}

	record.Status = target
	if target == constant.RefundCompleted {
		s.maybeMarkOrderRefunded(record.OrderID)
	}

	logger.Refund.Infof("refund %d -> %s", id, target)
	return toRefundVO(record), nil
}

func (s *RefundService) Get(id uint64) (dto.RefundVO, error) {
	record, err := s.refundDao.GetByID(id)
	if err != nil {
		return dto.RefundVO{}, err
	}
	if record == nil {
		return dto.RefundVO{}, constant.NewError(constant.CodeRefundNotFound)
	}
	return toRefundVO(record), nil
}

// maybeMarkOrderRefunded flips the order to refunded once every line is fully
// refunded. Best effort; the refund record is the source of truth.
func (s *RefundService) maybeMarkOrderRefunded(orderID uint64) {
	items, err := s.orderDao.GetItems(orderID)
	if err != nil || len(items) == 0 {
		return
	}
	for _, it := range items {
		if it.RefundedQuantity < it.Quantity {
			return
		}
	}
	if _, err := s.orderDao.UpdateStatus(orderID, constant.OrderDelivered, constant.OrderRefunded); err != nil {
		logger.Refund.Warnf("order %d status flip failed: %v", orderID, err)
	}
}

func toRefundVO(m *model.Refund) dto.RefundVO {
	return dto.RefundVO{
		RefundID:               strconv.FormatUint(m.RefundID, 10),
		OrderID:                strconv.FormatUint(m.OrderID, 10),
		Status:                 m.Status,
		RefundSubtotal:         m.RefundSubtotal,
		RefundTax:              m.RefundTax,
		RefundTotal:            m.RefundTotal,
		CommissionReversed:     m.CommissionReversed,
		CommissionTaxReversed:  m.CommissionTaxReversed,
		RecoveryMethod:         m.RecoveryMethod,
		MerchantRecoveryAmount: m.MerchantRecoveryAmount,
		IsSettled:              m.IsSettled,
		IsRecoveryCompleted:    m.IsRecoveryCompleted,
	}
}
