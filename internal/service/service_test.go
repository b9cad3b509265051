package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/dto"
	"mkt-settlement-api/internal/fees"
	"mkt-settlement-api/internal/model"
)

func TestParseAmount(t *testing.T) {
	got, err := parseAmount("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = parseAmount("12.345")
	require.NoError(t, err)
	assert.Equal(t, "12.35", got.StringFixed(2))

	_, err = parseAmount("abc")
	assert.Error(t, err)

	_, err = parseAmount("-1.00")
	assert.Error(t, err)
}

func TestParseRate(t *testing.T) {
	got, err := parseRate("7.5")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("7.5")))

	_, err = parseRate("")
	assert.Error(t, err)

	_, err = parseRate("-3")
	assert.Error(t, err)
}

func TestParseTiers(t *testing.T) {
	tiers, err := parseTiers([]dto.TierReq{
		{Threshold: "0", RatePct: "10"},
		{Threshold: "50000", RatePct: "8"},
	})
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.True(t, tiers[1].Threshold.Equal(decimal.NewFromInt(50000)))
	assert.True(t, tiers[1].RatePct.Equal(decimal.NewFromInt(8)))

	_, err = parseTiers([]dto.TierReq{{Threshold: "x", RatePct: "8"}})
	assert.Error(t, err)
}

func TestRefundTransitions(t *testing.T) {
	allowed := func(from, to string) bool {
		for _, next := range refundTransitions[from] {
			if next == to {
				return true
			}
		}
		return false
	}

	assert.True(t, allowed(constant.RefundPending, constant.RefundApproved))
	assert.True(t, allowed(constant.RefundPending, constant.RefundRejected))
	assert.True(t, allowed(constant.RefundApproved, constant.RefundProcessing))
	assert.True(t, allowed(constant.RefundProcessing, constant.RefundCompleted))

	// terminal states never move again
	assert.False(t, allowed(constant.RefundCompleted, constant.RefundPending))
	assert.False(t, allowed(constant.RefundRejected, constant.RefundApproved))
	// no skipping straight to completed
	assert.False(t, allowed(constant.RefundPending, constant.RefundCompleted))
	assert.False(t, allowed(constant.RefundApproved, constant.RefundCompleted))
}

func TestToRefundVO(t *testing.T) {
	m := &model.Refund{
		RefundID:               42,
		OrderID:                7,
		Status:                 constant.RefundPending,
		RefundSubtotal:         decimal.RequireFromString("100.00"),
		RefundTax:              decimal.RequireFromString("5.00"),
		RefundTotal:            decimal.RequireFromString("105.00"),
		CommissionReversed:     decimal.RequireFromString("15.00"),
		RecoveryMethod:         constant.RecoveryDeductNext,
		MerchantRecoveryAmount: decimal.RequireFromString("85.00"),
		IsSettled:              true,
	}
	vo := toRefundVO(m)
	assert.Equal(t, "42", vo.RefundID)
	assert.Equal(t, "7", vo.OrderID)
	assert.Equal(t, constant.RecoveryDeductNext, vo.RecoveryMethod)
	assert.True(t, vo.MerchantRecoveryAmount.Equal(decimal.RequireFromString("85.00")))
	assert.True(t, vo.IsSettled)
}

type fakeOrderStore struct {
	order    *model.Order
	stampErr error
	stamps   int
}

func (f *fakeOrderStore) GetByID(id uint64) (*model.Order, error) { return f.order, nil }

func (f *fakeOrderStore) UpdateStatus(orderID uint64, from, to string) (bool, error) {
	f.order.Status = to
	return true, nil
}

func (f *fakeOrderStore) StampFees(orderID uint64, fields map[string]interface{}) (bool, error) {
	if f.stampErr != nil {
		err := f.stampErr
		f.stampErr = nil
		return false, err
	}
	f.stamps++
	total := fields["payment_gateway_fee_total"].(decimal.Decimal)
	f.order.PaymentGatewayFeeTotal = &total
	f.order.Status = constant.OrderPaid
	return true, nil
}

func testFeeCalculator() *fees.Calculator {
	buckets := map[string]fees.Bucket{
		constant.CardDefault: {
			Pct:   decimal.RequireFromString("2.75"),
			Fixed: decimal.RequireFromString("1.00"),
		},
	}
	classifier := fees.NewClassifier("SA", []string{"AE", "KW"})
	return fees.NewCalculator(classifier, buckets, decimal.RequireFromString("0.25"))
}

// A transient stamp failure must not burn the order's one chance at a fee
// snapshot: the redelivery has to stamp, and a replay after success has to
// change nothing.
func TestConfirm_RetriesAfterStampFailure(t *testing.T) {
	store := &fakeOrderStore{
		order: &model.Order{
			OrderID:       7,
			Status:        constant.OrderPending,
			GrandTotal:    decimal.RequireFromString("1050.00"),
			PaymentMethod: constant.PayMethodCard,
		},
		stampErr: errors.New("deadlock"),
	}
	svc := &PaymentService{orderDao: store, calc: testFeeCalculator()}
	msg := dto.PaymentConfirmedMQ{OrderID: 7, Success: true, TransactionID: "tx-1"}

	// first delivery fails mid-stamp, fees stay unset
	require.Error(t, svc.Confirm(msg))
	require.Nil(t, store.order.PaymentGatewayFeeTotal)

	// redelivery stamps
	require.NoError(t, svc.Confirm(msg))
	assert.Equal(t, 1, store.stamps)
	require.NotNil(t, store.order.PaymentGatewayFeeTotal)
	assert.Equal(t, "29.88", store.order.PaymentGatewayFeeTotal.StringFixed(2))

	// late replay is a no-op
	require.NoError(t, svc.Confirm(msg))
	assert.Equal(t, 1, store.stamps)
}

func TestConfirm_FailureMarksOrderFailed(t *testing.T) {
	store := &fakeOrderStore{
		order: &model.Order{OrderID: 8, Status: constant.OrderPending},
	}
	svc := &PaymentService{orderDao: store, calc: testFeeCalculator()}

	require.NoError(t, svc.Confirm(dto.PaymentConfirmedMQ{OrderID: 8, Success: false}))
	assert.Equal(t, constant.OrderFailed, store.order.Status)
	assert.Zero(t, store.stamps)
}

type fakeSettlementStore struct {
	settlement *model.Settlement
}

func (f *fakeSettlementStore) GetByID(id uint64) (*model.Settlement, error) {
	if f.settlement == nil || f.settlement.SettlementID != id {
		return nil, nil
	}
	return f.settlement, nil
}

func (f *fakeSettlementStore) GetItems(id uint64) ([]model.SettlementItem, error) { return nil, nil }

func (f *fakeSettlementStore) List(merchantID *uint64, status string, limit, offset int) ([]model.Settlement, int64, error) {
	return nil, 0, nil
}

func (f *fakeSettlementStore) MarkPaid(id uint64, txRef string, paidAt time.Time) (bool, error) {
	if f.settlement.Status == constant.SettlementPaid {
		return false, nil
	}
	f.settlement.Status = constant.SettlementPaid
	f.settlement.TransactionReference = &txRef
	return true, nil
}

type fakeRecoveryCloser struct {
	closed []uint64
}

func (f *fakeRecoveryCloser) CompleteRecoveries(settlementID uint64) error {
	f.closed = append(f.closed, settlementID)
	return nil
}

// Recovery completion is merchant-facing and flips only when the deducting
// settlement is paid, never from the customer-facing refund transitions.
func TestMarkPaid_ClosesRecoveriesOnce(t *testing.T) {
	store := &fakeSettlementStore{
		settlement: &model.Settlement{SettlementID: 9001, Status: constant.SettlementPending},
	}
	closer := &fakeRecoveryCloser{}
	svc := &SettlementService{settlementDao: store, refundDao: closer}

	require.NoError(t, svc.MarkPaid(9001, "BANK-REF-1"))
	assert.Equal(t, constant.SettlementPaid, store.settlement.Status)
	assert.Equal(t, []uint64{9001}, closer.closed)

	// replay rejected, recoveries not re-closed
	err := svc.MarkPaid(9001, "BANK-REF-2")
	require.Error(t, err)
	codeErr, ok := err.(constant.Error)
	require.True(t, ok)
	assert.Equal(t, constant.CodeSettlementPaid, codeErr.Code())
	assert.Len(t, closer.closed, 1)

	err = svc.MarkPaid(404, "BANK-REF-3")
	require.Error(t, err)
	codeErr, ok = err.(constant.Error)
	require.True(t, ok)
	assert.Equal(t, constant.CodeSettlementNotFound, codeErr.Code())
}

// A refund may finish its customer-facing lifecycle while the merchant-side
// recovery is still outstanding; the two machines share the record but not
// their transitions.
func TestRefundCompletionLeavesRecoveryOpen(t *testing.T) {
	m := &model.Refund{
		RefundID:            43,
		OrderID:             7,
		Status:              constant.RefundCompleted,
		RecoveryMethod:      constant.RecoveryDeductNext,
		IsSettled:           true,
		IsRecoveryCompleted: false,
	}
	vo := toRefundVO(m)
	assert.Equal(t, constant.RefundCompleted, vo.Status)
	assert.False(t, vo.IsRecoveryCompleted)
}

func TestToSettlementVO(t *testing.T) {
	m := &model.Settlement{
		SettlementID:            9001,
		Currency:                "SAR",
		TotalOrderAmount:        decimal.RequireFromString("1050.00"),
		TotalCommission:         decimal.RequireFromString("150.00"),
		TotalPaymentGatewayFees: decimal.RequireFromString("24.63"),
		TotalPlatformFees:       decimal.RequireFromString("2.63"),
		Deductions:              decimal.RequireFromString("0.00"),
		NetPayout:               decimal.RequireFromString("872.74"),
		Status:                  constant.SettlementPending,
	}
	items := []model.SettlementItem{{
		OrderID:            77,
		OrderAmount:        decimal.RequireFromString("1050.00"),
		PayoutContribution: decimal.RequireFromString("872.74"),
	}}

	vo := toSettlementVO(m, items)
	assert.Equal(t, "9001", vo.SettlementID)
	require.Len(t, vo.Items, 1)
	assert.Equal(t, "77", vo.Items[0].OrderID)
	assert.True(t, vo.Items[0].PayoutContribution.Equal(vo.NetPayout))
}
