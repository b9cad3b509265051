package commission

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/model"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func u64(v uint64) *uint64 { return &v }

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func baseCtx() Context {
	return Context{
		MerchantID:       u64(7),
		ProductID:        100,
		CategoryIDs:      []uint64{20, 21},
		QualifyingVolume: d("50000"),
		Now:              testNow,
	}
}

func pctRule(id uint64, level string, rate string) model.CommissionRule {
	return model.CommissionRule{
		ID:             id,
		Level:          level,
		Type:           constant.RuleTypePercentage,
		PercentageRate: d(rate),
		IsActive:       true,
		CreatedAt:      testNow.Add(-time.Duration(id) * time.Hour),
	}
}

func defaultResolver() *Resolver {
	def := d("15")
	return NewResolver(decimal.Zero, &def)
}

func TestResolve_OwnStoreShortCircuits(t *testing.T) {
	r := defaultResolver()
	ctx := baseCtx()
	ctx.OwnStore = true
	ctx.MerchantID = nil

	// even a perfectly matching product rule must not be considered
	product := pctRule(1, constant.LevelProduct, "10")
	product.ProductID = u64(100)

	res, err := r.Resolve(ctx, []model.CommissionRule{product})
	require.NoError(t, err)
	assert.Equal(t, constant.CommissionSourceOwnStore, res.Source)
	assert.Nil(t, res.Rule)
	assert.True(t, res.Rate.Equal(decimal.Zero))
}

func TestResolve_LevelPrecedence(t *testing.T) {
	r := defaultResolver()
	ctx := baseCtx()

	product := pctRule(1, constant.LevelProduct, "8")
	product.ProductID = u64(100)
	category := pctRule(2, constant.LevelCategory, "9")
	category.CategoryID = u64(20)
	tier := pctRule(3, constant.LevelTier, "0")
	tier.Type = constant.RuleTypeTiered
	tier.Tiers = model.TierRules{{Threshold: d("0"), RatePct: d("12")}}
	merchant := pctRule(4, constant.LevelMerchant, "11")
	merchant.MerchantID = u64(7)
	global := pctRule(5, constant.LevelGlobal, "15")

	all := []model.CommissionRule{global, merchant, tier, category, product}

	res, err := r.Resolve(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, constant.LevelProduct, res.Source)
	require.NotNil(t, res.Rule)
	assert.Equal(t, uint64(1), res.Rule.ID)

	// drop product -> category wins, and so on down the precedence chain
	res, err = r.Resolve(ctx, []model.CommissionRule{global, merchant, tier, category})
	require.NoError(t, err)
	assert.Equal(t, constant.LevelCategory, res.Source)

	res, err = r.Resolve(ctx, []model.CommissionRule{global, merchant, tier})
	require.NoError(t, err)
	assert.Equal(t, constant.LevelTier, res.Source)

	res, err = r.Resolve(ctx, []model.CommissionRule{global, merchant})
	require.NoError(t, err)
	assert.Equal(t, constant.LevelMerchant, res.Source)

	res, err = r.Resolve(ctx, []model.CommissionRule{global})
	require.NoError(t, err)
	assert.Equal(t, constant.LevelGlobal, res.Source)
}

func TestResolve_PriorityAndCreatedAtTieBreak(t *testing.T) {
	r := defaultResolver()
	ctx := baseCtx()

	older := pctRule(1, constant.LevelMerchant, "10")
	older.MerchantID = u64(7)
	older.Priority = 5
	older.CreatedAt = testNow.Add(-48 * time.Hour)

	newer := pctRule(2, constant.LevelMerchant, "11")
	newer.MerchantID = u64(7)
	newer.Priority = 5
	newer.CreatedAt = testNow.Add(-1 * time.Hour)

	lowest := pctRule(3, constant.LevelMerchant, "12")
	lowest.MerchantID = u64(7)
	lowest.Priority = 1

	// lowest priority value wins outright
	res, err := r.Resolve(ctx, []model.CommissionRule{older, newer, lowest})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.Rule.ID)

	// equal priority: most recently created wins
	res, err = r.Resolve(ctx, []model.CommissionRule{older, newer})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Rule.ID)
}

func TestResolve_FiltersInactiveAndOutOfWindow(t *testing.T) {
	r := defaultResolver()
	ctx := baseCtx()

	inactive := pctRule(1, constant.LevelMerchant, "10")
	inactive.MerchantID = u64(7)
	inactive.IsActive = false

	expired := pctRule(2, constant.LevelMerchant, "10")
	expired.MerchantID = u64(7)
	until := testNow.Add(-time.Hour)
	expired.ValidUntil = &until

	notYet := pctRule(3, constant.LevelMerchant, "10")
	notYet.MerchantID = u64(7)
	from := testNow.Add(time.Hour)
	notYet.ValidFrom = &from

	res, err := r.Resolve(ctx, []model.CommissionRule{inactive, expired, notYet})
	require.NoError(t, err)
	assert.Equal(t, constant.CommissionSourceGlobalDefault, res.Source)
	assert.True(t, res.Rate.Equal(d("15")))
}

func TestResolve_ScopeMismatchExcluded(t *testing.T) {
	r := defaultResolver()
	ctx := baseCtx()

	otherProduct := pctRule(1, constant.LevelProduct, "5")
	otherProduct.ProductID = u64(999)

	otherMerchant := pctRule(2, constant.LevelMerchant, "5")
	otherMerchant.MerchantID = u64(42)

	otherCategory := pctRule(3, constant.LevelCategory, "5")
	otherCategory.CategoryID = u64(77)

	res, err := r.Resolve(ctx, []model.CommissionRule{otherProduct, otherMerchant, otherCategory})
	require.NoError(t, err)
	assert.Equal(t, constant.CommissionSourceGlobalDefault, res.Source)
}

func TestResolve_TierFallsThroughWhenVolumeBelowAllThresholds(t *testing.T) {
	r := defaultResolver()
	ctx := baseCtx()
	ctx.QualifyingVolume = d("100")

	tier := pctRule(1, constant.LevelTier, "0")
	tier.Type = constant.RuleTypeTiered
	tier.Tiers = model.TierRules{
		{Threshold: d("10000"), RatePct: d("12")},
		{Threshold: d("50000"), RatePct: d("10")},
	}
	merchant := pctRule(2, constant.LevelMerchant, "14")
	merchant.MerchantID = u64(7)

	res, err := r.Resolve(ctx, []model.CommissionRule{tier, merchant})
	require.NoError(t, err)
	assert.Equal(t, constant.LevelMerchant, res.Source, "tier with no applicable threshold must fall to the next level")
}

func TestResolve_NoRuleNoDefaultFailsLoudly(t *testing.T) {
	r := NewResolver(decimal.Zero, nil)
	_, err := r.Resolve(baseCtx(), nil)
	assert.ErrorIs(t, err, ErrNoRule)
}

func TestResolve_PureFunctionOfInputs(t *testing.T) {
	r := defaultResolver()
	ctx := baseCtx()

	rules := []model.CommissionRule{}
	for i := uint64(1); i <= 6; i++ {
		rule := pctRule(i, constant.LevelMerchant, "10")
		rule.MerchantID = u64(7)
		rule.Priority = int(i % 3)
		rules = append(rules, rule)
	}

	first, err := r.Resolve(ctx, rules)
	require.NoError(t, err)

	// shuffling the candidate order must never change the outcome
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]model.CommissionRule, len(rules))
		copy(shuffled, rules)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := r.Resolve(ctx, shuffled)
		require.NoError(t, err)
		assert.Equal(t, first.Rule.ID, got.Rule.ID)
	}
}

func TestApplicableTier_PicksLargestThresholdAtOrBelowVolume(t *testing.T) {
	tiers := model.TierRules{
		{Threshold: d("0"), RatePct: d("15")},
		{Threshold: d("10000"), RatePct: d("12")},
		{Threshold: d("50000"), RatePct: d("10")},
	}

	tier, ok := ApplicableTier(tiers, d("25000"))
	require.True(t, ok)
	assert.True(t, tier.RatePct.Equal(d("12")))

	tier, ok = ApplicableTier(tiers, d("50000"))
	require.True(t, ok)
	assert.True(t, tier.RatePct.Equal(d("10")))

	_, ok = ApplicableTier(model.TierRules{{Threshold: d("10"), RatePct: d("5")}}, d("9.99"))
	assert.False(t, ok)
}
