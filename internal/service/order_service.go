package service

import (
	"strconv"
	"time"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mkt-settlement-api/internal/commission"
	"mkt-settlement-api/internal/config"
	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/dal"
	"mkt-settlement-api/internal/dao"
	"mkt-settlement-api/internal/dto"
	"mkt-settlement-api/internal/idgen"
	"mkt-settlement-api/internal/logger"
	"mkt-settlement-api/internal/model"
	"mkt-settlement-api/internal/money"
	"mkt-settlement-api/internal/mq"
	settle "mkt-settlement-api/internal/settlement"
	"mkt-settlement-api/internal/utils"
)

// qualifyingWindowDays is the trailing GMV window that drives tier rules.
const qualifyingWindowDays = 30

type OrderService struct {
	merchantDao *dao.MerchantDao
	ruleDao     *dao.RuleDao
	orderDao    *dao.OrderDao
}

func NewOrderService() *OrderService {
	return &OrderService{
		merchantDao: dao.NewMerchantDao(),
		ruleDao:     dao.NewRuleDao(),
		orderDao:    dao.NewOrderDao(),
	}
}

// Create freezes the tax split and the commission snapshot for every line in
// one transaction. A line with no resolvable rule fails the whole order; a
// paid order must never exist without its commission decided.
func (s *OrderService) Create(req dto.CreateOrderReq) (dto.CreateOrderResp, error) {
	var resp dto.CreateOrderResp
	now := time.Now()

	// 1) merchant check
	ownStore, err := s.isOwnStore(req.MerchantID)
	if err != nil {
		return resp, err
	}

	shipping, err := parseAmount(req.ShippingAmount)
	if err != nil {
		return resp, constant.NewError(constant.CodeAmountFormat)
	}
	discount, err := parseAmount(req.DiscountAmount)
	if err != nil {
		return resp, constant.NewError(constant.CodeAmountFormat)
	}

	// 2) trailing GMV for tier qualification
	volume, err := s.orderDao.TrailingGMV(req.MerchantID, now.AddDate(0, 0, -qualifyingWindowDays), now)
	if err != nil {
		return resp, err
	}

	resolver := newResolver()
	oid := idgen.New()

	order := &model.Order{
		OrderID:        oid,
		MerchantID:     req.MerchantID,
		Currency:       req.Currency,
		PaymentMethod:  req.PaymentMethod,
		ShippingAmount: shipping,
		DiscountAmount: discount,
		Subtotal:       decimal.Zero,
		TaxTotal:       decimal.Zero,
		Status:         constant.OrderPending,
	}

	// 3) per line: tax split + commission snapshot
	items := make([]model.OrderItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		unitGross, err := decimal.NewFromString(line.UnitPrice)
		if err != nil || unitGross.Sign() <= 0 {
			return resp, constant.NewError(constant.CodeAmountFormat)
		}
		unitGross = money.Round2(unitGross)
		unitNet, unitTax := money.SplitTaxInclusive(unitGross, config.Rates.VatPct)

		qty := decimal.NewFromInt(int64(line.Quantity))
		item := model.OrderItem{
			ItemID:         idgen.New(),
			OrderID:        oid,
			MerchantID:     req.MerchantID,
			ProductID:      line.ProductID,
			Title:          line.Title,
			UnitPriceGross: unitGross,
			UnitPriceNet:   unitNet,
			UnitTax:        unitTax,
			Quantity:       line.Quantity,
			Subtotal:       unitGross.Mul(qty),
			NetSubtotal:    unitNet.Mul(qty),
			TaxAmount:      unitTax.Mul(qty),
		}
		if len(line.CategoryIDs) > 0 {
			cid := line.CategoryIDs[0]
			item.CategoryID = &cid
		}

		candidates, err := s.ruleDao.ListCandidates(req.MerchantID, line.ProductID, line.CategoryIDs, now)
		if err != nil {
			return resp, err
		}
		res, err := resolver.Resolve(commission.Context{
			MerchantID:       req.MerchantID,
			OwnStore:         ownStore,
			ProductID:        line.ProductID,
			CategoryIDs:      line.CategoryIDs,
			QualifyingVolume: volume,
			Now:              now,
		}, candidates)
		if err != nil {
			logger.Order.Errorf("order %d: no rule for product %d merchant %v", oid, line.ProductID, req.MerchantID)
			return resp, constant.NewError(constant.CodeNoCommissionRule)
		}
		calc, err := commission.Calculate(res, item.NetSubtotal, volume)
		if err != nil {
			return resp, err
		}
		item.CommissionRate = calc.RatePct
		item.CommissionAmount = calc.Amount
		item.CommissionSource = res.Source
		if res.Rule != nil {
			rid := res.Rule.ID
			item.CommissionRuleID = &rid
		}

		order.Subtotal = order.Subtotal.Add(item.Subtotal)
		order.TaxTotal = order.TaxTotal.Add(item.TaxAmount)
		items = append(items, item)
	}
	order.GrandTotal = order.Subtotal.Add(shipping).Sub(discount)

	// 4) persist atomically
	err = dal.MainDB.Transaction(func(tx *gorm.DB) error {
		txDao := dao.NewOrderDaoWithDB(tx)
		if err := txDao.Insert(order); err != nil {
			return err
		}
		return txDao.InsertItems(items)
	})
	if err != nil {
		return resp, err
	}

	// 5) cache + event
	cacheKey := "order:" + strconv.FormatUint(oid, 10)
	_ = dal.RedisClient.Set(dal.RedisCtx, cacheKey, utils.ToJSON(order), 10*time.Minute).Err()
	_ = mq.PublishOrderCreated(dto.OrderCreatedMQ{
		OrderID:    oid,
		MerchantID: req.MerchantID,
		GrandTotal: order.GrandTotal.String(),
		Currency:   order.Currency,
		CreatedAt:  now.Unix(),
	})

	resp.OrderID = strconv.FormatUint(oid, 10)
	resp.Status = order.Status
	resp.Subtotal = order.Subtotal
	resp.TaxTotal = order.TaxTotal
	resp.GrandTotal = order.GrandTotal
	for _, item := range items {
		var vo dto.OrderItemVO
		_ = copier.Copy(&vo, &item)
		resp.Items = append(resp.Items, vo)
	}

	logger.Order.Infof("order %d created: grand=%s commission lines=%d", oid, order.GrandTotal, len(items))
	return resp, nil
}

// Get returns the order with its frozen lines.
func (s *OrderService) Get(orderID uint64) (*model.Order, []model.OrderItem, error) {
	order, err := s.orderDao.GetByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, constant.NewError(constant.CodeOrderNotFound)
	}
	items, err := s.orderDao.GetItems(orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// MarkDelivered stamps delivered_at and the settlement eligibility date once.
// The eligibility date is frozen here and never recalculated, even if the
// hold-day config changes later.
func (s *OrderService) MarkDelivered(orderID uint64, at *time.Time) error {
	order, err := s.orderDao.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return constant.NewError(constant.CodeOrderNotFound)
	}
	if order.PaymentGatewayFeeTotal == nil {
		return constant.NewError(constant.CodeOrderStateInvalid)
	}
	if order.DeliveredAt != nil {
		return nil
	}

	deliveredAt := time.Now()
	if at != nil {
		deliveredAt = *at
	}
	ownStore, err := s.isOwnStore(order.MerchantID)
	if err != nil {
		return err
	}
	eligibleAt := settle.EligibleAt(deliveredAt, ownStore,
		config.C.Settlement.MerchantHoldDays, config.C.Settlement.OwnStoreHoldDays)

	_, err = s.orderDao.MarkDelivered(orderID, deliveredAt, eligibleAt)
	if err == nil {
		logger.Order.Infof("order %d delivered, eligible at %s", orderID, eligibleAt.Format("2006-01-02"))
	}
	return err
}

// isOwnStore treats a nil merchant and a merchant flagged is_own_store the
// same way.
func (s *OrderService) isOwnStore(merchantID *uint64) (bool, error) {
	if merchantID == nil {
		return true, nil
	}
	merchant, err := s.merchantDao.GetByID(*merchantID)
	if err != nil {
		return false, err
	}
	if merchant == nil || merchant.Status != 1 {
		return false, constant.NewError(constant.CodeMerchantInvalid)
	}
	return merchant.IsOwnStore, nil
}

func newResolver() *commission.Resolver {
	var defaultRate *decimal.Decimal
	if config.Rates.HasDefaultCommission {
		d := config.Rates.DefaultCommissionPct
		defaultRate = &d
	}
	return commission.NewResolver(config.Rates.OwnStorePct, defaultRate)
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.Sign() < 0 {
		return decimal.Zero, constant.NewError(constant.CodeAmountFormat)
	}
	return money.Round2(d), nil
}
