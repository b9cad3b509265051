package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActiveAt_InclusiveBounds(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)
	rule := &CommissionRule{IsActive: true, ValidFrom: &from, ValidUntil: &until}

	assert.False(t, rule.ActiveAt(from.Add(-time.Second)))
	assert.True(t, rule.ActiveAt(from))
	assert.True(t, rule.ActiveAt(until))
	assert.False(t, rule.ActiveAt(until.Add(time.Second)))

	// open-ended bounds are always valid on that side
	open := &CommissionRule{IsActive: true}
	assert.True(t, open.ActiveAt(from))

	inactive := &CommissionRule{IsActive: false, ValidFrom: &from, ValidUntil: &until}
	assert.False(t, inactive.ActiveAt(from))
}
