package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mkt-settlement-api/internal/constant"
)

// Only decided refunds may reduce a claimed order's contribution. A pending
// refund subtracted at batch time and rejected afterwards would underpay the
// merchant with no way back.
func TestBatchSubtractStatuses_ExcludesUndecided(t *testing.T) {
	assert.ElementsMatch(t, []string{
		constant.RefundApproved,
		constant.RefundProcessing,
		constant.RefundCompleted,
	}, batchSubtractStatuses)

	assert.NotContains(t, batchSubtractStatuses, constant.RefundPending)
	assert.NotContains(t, batchSubtractStatuses, constant.RefundRejected)
}
