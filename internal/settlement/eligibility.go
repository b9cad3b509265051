package settlement

import "time"

// EligibleAt computes the settlement eligibility timestamp for a delivered
// order. The result is stamped onto the order exactly once, at the moment
// delivery is recorded; later changes to the hold-day configuration never
// move an already-scheduled date.
func EligibleAt(deliveredAt time.Time, ownStore bool, merchantHoldDays, ownStoreHoldDays int) time.Time {
	days := merchantHoldDays
	if ownStore {
		days = ownStoreHoldDays
	}
	return deliveredAt.AddDate(0, 0, days)
}
