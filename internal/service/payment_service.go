package service

import (
	"strconv"

	"mkt-settlement-api/internal/config"
	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/dal"
	"mkt-settlement-api/internal/dao"
	"mkt-settlement-api/internal/dto"
	"mkt-settlement-api/internal/fees"
	"mkt-settlement-api/internal/logger"
	"mkt-settlement-api/internal/model"
)

// paymentOrderStore is the slice of OrderDao the webhook path touches.
type paymentOrderStore interface {
	GetByID(id uint64) (*model.Order, error)
	UpdateStatus(orderID uint64, from, to string) (bool, error)
	StampFees(orderID uint64, fields map[string]interface{}) (bool, error)
}

type PaymentService struct {
	orderDao paymentOrderStore
	calc     *fees.Calculator
}

func NewPaymentService() *PaymentService {
	return &PaymentService{
		orderDao: dao.NewOrderDao(),
		calc:     buildFeeCalculator(),
	}
}

// Confirm applies one gateway callback. The consumer redelivers on failure,
// so every step here must tolerate replays: the redis marker is the fast
// path, the NULL fee column in the database is the authority. The marker is
// written only once the fees are known to be stamped; a transient stamp
// failure leaves it unset so the redelivery stamps again.
func (s *PaymentService) Confirm(msg dto.PaymentConfirmedMQ) error {
	order, err := s.orderDao.GetByID(msg.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return constant.NewError(constant.CodeOrderNotFound)
	}

	if !msg.Success {
		_, err := s.orderDao.UpdateStatus(msg.OrderID, constant.OrderPending, constant.OrderFailed)
		logger.Payment.Warnf("order %d payment failed: tx=%s", msg.OrderID, msg.TransactionID)
		return err
	}

	// 1) replay fast path
	markerKey := "payment:stamped:" + strconv.FormatUint(msg.OrderID, 10)
	if stampMarkerSeen(markerKey) {
		logger.Payment.Infof("order %d payment replay skipped via marker", msg.OrderID)
		return nil
	}
	if order.PaymentGatewayFeeTotal != nil {
		setStampMarker(markerKey, msg.TransactionID)
		return nil
	}

	// 2) fee snapshot off the grand total
	result := s.calc.Calculate(order.GrandTotal, order.PaymentMethod, msg.CardScheme, msg.CardCountry)

	fields := map[string]interface{}{
		"status":                    constant.OrderPaid,
		"payment_tx_id":             msg.TransactionID,
		"card_class":                result.CardClass,
		"gateway_fee_pct":           result.GatewayPct,
		"gateway_fixed_fee":         result.GatewayFixedFee,
		"payment_gateway_fee_total": result.GatewayFeeTotal,
		"platform_fee_pct":          result.PlatformFeePct,
		"platform_fee_amount":       result.PlatformFeeAmount,
		"net_amount_after_fees":     result.NetAmountAfterFees,
	}
	if msg.CardScheme != "" {
		fields["card_scheme"] = msg.CardScheme
	}
	if msg.CardCountry != "" {
		fields["card_country"] = msg.CardCountry
	}

	// 3) guarded stamp: one winner, replays change nothing
	stamped, err := s.orderDao.StampFees(msg.OrderID, fields)
	if err != nil {
		return err
	}
	setStampMarker(markerKey, msg.TransactionID)
	if !stamped {
		logger.Payment.Infof("order %d fees already stamped, replay ignored", msg.OrderID)
		return nil
	}

	logger.Payment.Infof("order %d stamped: class=%s gateway=%s platform=%s net=%s",
		msg.OrderID, result.CardClass, result.GatewayFeeTotal, result.PlatformFeeAmount, result.NetAmountAfterFees)
	return nil
}

func stampMarkerSeen(key string) bool {
	if dal.RedisClient == nil {
		return false
	}
	n, err := dal.RedisClient.Exists(dal.RedisCtx, key).Result()
	return err == nil && n > 0
}

func setStampMarker(key, txID string) {
	if dal.RedisClient == nil {
		return
	}
	dal.RedisClient.SetNX(dal.RedisCtx, key, txID, dal.MarkerTTL)
}

func buildFeeCalculator() *fees.Calculator {
	buckets := make(map[string]fees.Bucket, len(config.Rates.Gateway))
	for class, b := range config.Rates.Gateway {
		buckets[class] = fees.Bucket{Pct: b.Pct, Fixed: b.Fixed}
	}
	classifier := fees.NewClassifier(config.C.Fees.LocalCountry, config.C.Fees.GccCountries)
	return fees.NewCalculator(classifier, buckets, config.Rates.PlatformFeePct)
}
