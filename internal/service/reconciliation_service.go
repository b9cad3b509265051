package service

import (
	"time"

	"mkt-settlement-api/internal/dao"
	"mkt-settlement-api/internal/dto"
	"mkt-settlement-api/internal/logger"
	"mkt-settlement-api/internal/model"
	"mkt-settlement-api/internal/money"
	"mkt-settlement-api/internal/reconcile"
)

type ReconciliationService struct {
	reconcileDao  *dao.ReconcileDao
	settlementDao *dao.SettlementDao
	refundDao     *dao.RefundDao
}

func NewReconciliationService() *ReconciliationService {
	return &ReconciliationService{
		reconcileDao:  dao.NewReconcileDao(),
		settlementDao: dao.NewSettlementDao(),
		refundDao:     dao.NewRefundDao(),
	}
}

// Run aggregates the period off the frozen snapshots, derives the report and
// persists it. The report only surfaces discrepancies; it never adjusts the
// underlying records.
func (s *ReconciliationService) Run(from, to time.Time) (dto.ReconciliationVO, error) {
	var vo dto.ReconciliationVO

	gmv, tax, commissionTotal, err := s.reconcileDao.OrderAggregates(from, to)
	if err != nil {
		return vo, err
	}
	settledCommission, err := s.settlementDao.SumSettledCommission(from, to)
	if err != nil {
		return vo, err
	}
	accrued := money.ClampNonNegative(commissionTotal.Sub(settledCommission))

	refundsIssued, commissionReversed, err := s.refundDao.SumIssued(from, to)
	if err != nil {
		return vo, err
	}
	settlementsPaid, err := s.settlementDao.SumPaid(from, to)
	if err != nil {
		return vo, err
	}
	debitNotes, err := s.settlementDao.SumDebitNotes(from, to)
	if err != nil {
		return vo, err
	}

	report := reconcile.Build(reconcile.Inputs{
		GMV:                gmv,
		CommissionSettled:  settledCommission,
		CommissionAccrued:  accrued,
		TaxCollected:       tax,
		RefundsIssued:      refundsIssued,
		CommissionReversed: commissionReversed,
		SettlementsPaid:    settlementsPaid,
		DebitNotesApplied:  debitNotes,
	})

	row := &model.Reconciliation{
		PeriodStart:        from,
		PeriodEnd:          to,
		GMV:                report.GMV,
		CommissionSettled:  report.CommissionSettled,
		CommissionAccrued:  report.CommissionAccrued,
		TaxCollected:       report.TaxCollected,
		RefundsIssued:      report.RefundsIssued,
		CommissionReversed: report.CommissionReversed,
		SettlementsPaid:    report.SettlementsPaid,
		DebitNotesApplied:  report.DebitNotesApplied,
		NetPlatformRevenue: report.NetPlatformRevenue,
		DiscrepancyAmount:  report.DiscrepancyAmount,
		HasDiscrepancy:     report.HasDiscrepancy,
	}
	if err := s.reconcileDao.Insert(row); err != nil {
		return vo, err
	}

	if report.HasDiscrepancy {
		logger.Reconcile.Warnf("period %s..%s discrepancy %s", from.Format("2006-01-02"), to.Format("2006-01-02"), report.DiscrepancyAmount)
	} else {
		logger.Reconcile.Infof("period %s..%s reconciled clean", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	vo = dto.ReconciliationVO{
		PeriodStart:        from,
		PeriodEnd:          to,
		GMV:                report.GMV,
		CommissionSettled:  report.CommissionSettled,
		CommissionAccrued:  report.CommissionAccrued,
		TaxCollected:       report.TaxCollected,
		RefundsIssued:      report.RefundsIssued,
		CommissionReversed: report.CommissionReversed,
		SettlementsPaid:    report.SettlementsPaid,
		DebitNotesApplied:  report.DebitNotesApplied,
		NetPlatformRevenue: report.NetPlatformRevenue,
		DiscrepancyAmount:  report.DiscrepancyAmount,
		HasDiscrepancy:     report.HasDiscrepancy,
	}
	return vo, nil
}
