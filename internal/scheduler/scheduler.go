package scheduler

import (
	"time"

	"mkt-settlement-api/internal/config"
	"mkt-settlement-api/internal/dto"
	"mkt-settlement-api/internal/logger"
	"mkt-settlement-api/internal/mq"
	settle "mkt-settlement-api/internal/settlement"
)

// Start fires a settlement trigger once an hour. The run itself happens on
// the queue consumer; the redis run key collapses the 24 triggers a payout
// day produces into a single batch.
func Start() {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for now := range ticker.C {
			if !settle.IsPayoutDay(now, config.C.Settlement.PayoutDays) {
				continue
			}
			date := now.Format("2006-01-02")
			if err := mq.PublishSettlementRun(dto.SettlementRunMQ{Date: date}); err != nil {
				logger.Settlement.Errorf("publish settlement.run %s failed: %v", date, err)
				continue
			}
			logger.Settlement.Infof("settlement.run triggered for %s", date)
		}
	}()
}
