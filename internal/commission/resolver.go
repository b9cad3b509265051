package commission

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/model"
)

// ErrNoRule means nothing matched and no global default is configured.
// Order creation must fail loudly on this rather than charge zero commission.
var ErrNoRule = errors.New("no commission rule resolvable and no global default configured")

// Context is everything resolution may depend on. Resolution is a pure
// function of this context plus the candidate set: same inputs, same rule.
type Context struct {
	MerchantID       *uint64
	OwnStore         bool
	ProductID        uint64
	CategoryIDs      []uint64
	QualifyingVolume decimal.Decimal // merchant trailing-30d GMV, drives tier rules
	Now              time.Time
}

// Resolution is the outcome: either a matched rule, or a synthetic rate for
// the own-store and global-default cases.
type Resolution struct {
	Rule   *model.CommissionRule
	Source string // rule level, own_store or global_default
	Rate   decimal.Decimal
}

type Resolver struct {
	ownStoreRate decimal.Decimal
	defaultRate  *decimal.Decimal
}

// NewResolver builds a resolver. defaultRate nil means no global default is
// configured and resolution with no match becomes a fatal config error.
func NewResolver(ownStoreRate decimal.Decimal, defaultRate *decimal.Decimal) *Resolver {
	return &Resolver{ownStoreRate: ownStoreRate, defaultRate: defaultRate}
}

// Resolve picks exactly one applicable rule from candidates.
//
// The platform's own store never enters rule matching: its commission is a
// fixed policy constant, so it short-circuits before any rule is looked at.
// Otherwise candidates are filtered to active-and-in-window, then the first
// level in the fixed precedence product -> category -> tier -> merchant ->
// global that has a match wins; within a level the lowest priority value
// wins, ties broken by most recently created.
func (r *Resolver) Resolve(ctx Context, candidates []model.CommissionRule) (Resolution, error) {
	if ctx.OwnStore {
		return Resolution{Source: constant.CommissionSourceOwnStore, Rate: r.ownStoreRate}, nil
	}

	live := make([]model.CommissionRule, 0, len(candidates))
	for _, c := range candidates {
		if c.ActiveAt(ctx.Now) {
			live = append(live, c)
		}
	}

	for _, level := range constant.LevelPrecedence {
		matched := matchLevel(level, ctx, live)
		if len(matched) == 0 {
			continue
		}
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].Priority != matched[j].Priority {
				return matched[i].Priority < matched[j].Priority
			}
			if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
				return matched[i].CreatedAt.After(matched[j].CreatedAt)
			}
			return matched[i].ID > matched[j].ID
		})
		rule := matched[0]
		return Resolution{Rule: &rule, Source: level, Rate: rule.PercentageRate}, nil
	}

	if r.defaultRate != nil {
		return Resolution{Source: constant.CommissionSourceGlobalDefault, Rate: *r.defaultRate}, nil
	}
	return Resolution{}, ErrNoRule
}

func matchLevel(level string, ctx Context, rules []model.CommissionRule) []model.CommissionRule {
	var out []model.CommissionRule
	for _, rule := range rules {
		if rule.Level != level {
			continue
		}
		if !scopeMatches(rule, ctx) {
			continue
		}
		switch level {
		case constant.LevelProduct:
			if rule.ProductID == nil {
				continue
			}
		case constant.LevelCategory:
			if rule.CategoryID == nil {
				continue
			}
		case constant.LevelMerchant:
			if rule.MerchantID == nil {
				continue
			}
		case constant.LevelTier:
			// a tier rule only matches while some threshold <= the
			// qualifying volume; otherwise resolution falls through to
			// the next level instead of erroring
			if _, ok := ApplicableTier(rule.Tiers, ctx.QualifyingVolume); !ok {
				continue
			}
		}
		out = append(out, rule)
	}
	return out
}

// scopeMatches requires every scoping FK the rule carries to match the
// context, whatever the rule's level.
func scopeMatches(rule model.CommissionRule, ctx Context) bool {
	if rule.ProductID != nil && *rule.ProductID != ctx.ProductID {
		return false
	}
	if rule.MerchantID != nil {
		if ctx.MerchantID == nil || *rule.MerchantID != *ctx.MerchantID {
			return false
		}
	}
	if rule.CategoryID != nil {
		found := false
		for _, cid := range ctx.CategoryIDs {
			if cid == *rule.CategoryID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ApplicableTier walks tiers ascending by threshold and returns the one whose
// threshold is the largest value <= volume.
func ApplicableTier(tiers model.TierRules, volume decimal.Decimal) (model.TierRule, bool) {
	var best model.TierRule
	found := false
	for _, tier := range tiers {
		if tier.Threshold.Cmp(volume) <= 0 {
			if !found || tier.Threshold.Cmp(best.Threshold) > 0 {
				best = tier
				found = true
			}
		}
	}
	return best, found
}
