package commission

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/money"
)

var errNoTier = errors.New("tiered rule has no applicable tier")

// Result is the frozen snapshot written onto the order item.
type Result struct {
	RatePct decimal.Decimal
	Amount  decimal.Decimal
}

// Calculate turns a resolution plus a tax-exclusive line subtotal into the
// commission snapshot. Commission is always computed on the tax-exclusive
// subtotal and may never exceed the line it is charged against.
func Calculate(res Resolution, netSubtotal, qualifyingVolume decimal.Decimal) (Result, error) {
	if res.Rule == nil {
		// own_store and global_default resolve to a flat percentage
		return Result{RatePct: res.Rate, Amount: money.Percent(netSubtotal, res.Rate)}, nil
	}

	rule := res.Rule
	switch rule.Type {
	case constant.RuleTypePercentage:
		return Result{
			RatePct: rule.PercentageRate,
			Amount:  money.Percent(netSubtotal, rule.PercentageRate),
		}, nil

	case constant.RuleTypeFixed:
		return Result{
			RatePct: decimal.Zero,
			Amount:  money.Min(money.Round2(rule.FixedAmount), netSubtotal),
		}, nil

	case constant.RuleTypeTiered:
		tier, ok := ApplicableTier(rule.Tiers, qualifyingVolume)
		if !ok {
			// the resolver only hands over tier rules with a live tier;
			// hitting this means the rule was edited mid-flight
			return Result{}, errNoTier
		}
		return Result{
			RatePct: tier.RatePct,
			Amount:  money.Percent(netSubtotal, tier.RatePct),
		}, nil

	case constant.RuleTypeHybrid:
		// fixed part capped at the subtotal first, percentage part capped
		// at the remainder, so the sum never exceeds the line
		fixed := money.Min(money.Round2(rule.FixedAmount), netSubtotal)
		pct := money.Percent(netSubtotal, rule.PercentageRate)
		pct = money.Min(pct, netSubtotal.Sub(fixed))
		return Result{
			RatePct: rule.PercentageRate,
			Amount:  fixed.Add(pct),
		}, nil

	default:
		return Result{}, fmt.Errorf("unknown commission rule type %q", rule.Type)
	}
}
