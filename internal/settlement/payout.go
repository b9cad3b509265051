package settlement

import "time"

// IsPayoutDay reports whether t falls on one of the configured calendar
// payout days (day-of-month numbers, e.g. 1/8/15/22).
func IsPayoutDay(t time.Time, payoutDays []int) bool {
	for _, d := range payoutDays {
		if t.Day() == d {
			return true
		}
	}
	return false
}

// RunKey is the per-date idempotence marker key for a batch run; a duplicate
// trigger on the same payout date becomes a clean no-op.
func RunKey(t time.Time) string {
	return "settlement:run:" + t.Format("2006-01-02")
}
