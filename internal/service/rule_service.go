package service

import (
	"github.com/shopspring/decimal"

	"mkt-settlement-api/internal/constant"
	"mkt-settlement-api/internal/dao"
	"mkt-settlement-api/internal/dto"
	"mkt-settlement-api/internal/logger"
	"mkt-settlement-api/internal/model"
)

type RuleService struct {
	ruleDao *dao.RuleDao
}

func NewRuleService() *RuleService {
	return &RuleService{ruleDao: dao.NewRuleDao()}
}

// Create validates and stores an admin-authored rule. Validation is strict:
// a rule that cannot be matched or priced is rejected up front rather than
// discovered at order time.
func (s *RuleService) Create(req dto.CreateRuleReq) (*model.CommissionRule, error) {
	rule := &model.CommissionRule{
		Name:       req.Name,
		Level:      req.Level,
		Type:       req.Type,
		MerchantID: req.MerchantID,
		CategoryID: req.CategoryID,
		ProductID:  req.ProductID,
		Priority:   req.Priority,
		IsActive:   true,
		ValidFrom:  req.ValidFrom,
		ValidUntil: req.ValidUntil,
	}

	switch req.Level {
	case constant.LevelProduct:
		if req.ProductID == nil {
			return nil, constant.NewErrorf(constant.CodeRuleInvalid, "product rule requires product_id")
		}
	case constant.LevelCategory:
		if req.CategoryID == nil {
			return nil, constant.NewErrorf(constant.CodeRuleInvalid, "category rule requires category_id")
		}
	case constant.LevelMerchant:
		if req.MerchantID == nil {
			return nil, constant.NewErrorf(constant.CodeRuleInvalid, "merchant rule requires merchant_id")
		}
	case constant.LevelTier, constant.LevelGlobal:
	default:
		return nil, constant.NewErrorf(constant.CodeRuleInvalid, "unknown level %q", req.Level)
	}

	switch req.Type {
	case constant.RuleTypePercentage:
		rate, err := parseRate(req.PercentageRate)
		if err != nil {
			return nil, err
		}
		rule.PercentageRate = rate

	case constant.RuleTypeFixed:
		amount, err := parseRate(req.FixedAmount)
		if err != nil {
			return nil, err
		}
		rule.FixedAmount = amount

	case constant.RuleTypeTiered:
		if len(req.Tiers) == 0 {
			return nil, constant.NewErrorf(constant.CodeRuleInvalid, "tiered rule requires tiers")
		}
		tiers, err := parseTiers(req.Tiers)
		if err != nil {
			return nil, err
		}
		rule.Tiers = tiers

	case constant.RuleTypeHybrid:
		rate, err := parseRate(req.PercentageRate)
		if err != nil {
			return nil, err
		}
		amount, err := parseRate(req.FixedAmount)
		if err != nil {
			return nil, err
		}
		rule.PercentageRate = rate
		rule.FixedAmount = amount

	default:
		return nil, constant.NewErrorf(constant.CodeRuleInvalid, "unknown type %q", req.Type)
	}

	if err := s.ruleDao.Insert(rule); err != nil {
		return nil, err
	}
	logger.Order.Infof("rule %d created: level=%s type=%s priority=%d", rule.ID, rule.Level, rule.Type, rule.Priority)
	return rule, nil
}

func (s *RuleService) List(level string, onlyActive bool, limit, offset int) ([]model.CommissionRule, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.ruleDao.List(level, onlyActive, limit, offset)
}

// Deactivate retires a rule going forward. Frozen order snapshots keep the
// old rate; nothing is recalculated.
func (s *RuleService) Deactivate(id uint64) error {
	done, err := s.ruleDao.Deactivate(id)
	if err != nil {
		return err
	}
	if !done {
		return constant.NewErrorf(constant.CodeRuleInvalid, "rule %d not found or already inactive", id)
	}
	return nil
}

func parseRate(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, constant.NewErrorf(constant.CodeRuleInvalid, "bad rate %q", s)
	}
	if d.Sign() < 0 {
		return decimal.Zero, constant.NewErrorf(constant.CodeRuleInvalid, "negative rate %q", s)
	}
	return d, nil
}

func parseTiers(in []dto.TierReq) (model.TierRules, error) {
	tiers := make(model.TierRules, 0, len(in))
	for _, t := range in {
		threshold, err := parseRate(t.Threshold)
		if err != nil {
			return nil, err
		}
		rate, err := parseRate(t.RatePct)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, model.TierRule{Threshold: threshold, RatePct: rate})
	}
	return tiers, nil
}
