package shield

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
	"github.com/emergency-shield/backend/internal/domain/valueobject"
)

// RecommendInput holds the inputs for ranking surplus uses.
type RecommendInput struct {
	Surplus     decimal.Decimal
	Core        decimal.Decimal
	Total       decimal.Decimal
	Essentials  decimal.Decimal
	Loans       []*entity.Loan
	Goals       []*entity.Goal
	RiskProfile entity.RiskProfile
	Policy      valueobject.ShieldPolicy
}

var hundred = decimal.NewFromInt(100)

// Recommend ranks candidate uses of the surplus: high-interest loan
// prepayments by rate, then the two investment options ordered by risk
// profile, then open goals. Every amount is bounded by the surplus, so the
// core and the status after reallocation equal the current ones.
func Recommend(in RecommendInput) []entity.SurplusRecommendation {
	recs := []entity.SurplusRecommendation{}
	if !in.Surplus.IsPositive() {
		return recs
	}

	statusAfter := classify(in.Core, in.Policy.Target(in.Essentials), in.Policy.Optimal(in.Essentials))
	preview := func(r entity.SurplusRecommendation) entity.SurplusRecommendation {
		r.CoreAfterReallocation = in.Core
		r.SurplusAfterReallocation = in.Surplus.Sub(r.Amount)
		r.StatusAfter = statusAfter
		return r
	}

	// Loans above the threshold, costliest first
	loans := make([]*entity.Loan, 0, len(in.Loans))
	for _, l := range in.Loans {
		if l.IsOpen() && l.Unallocated().IsPositive() && in.Policy.IsHighInterest(l.AnnualRate) {
			loans = append(loans, l)
		}
	}
	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].AnnualRate.GreaterThan(loans[j].AnnualRate)
	})
	for _, l := range loans {
		id := l.ID
		amount := decimal.Min(in.Surplus, l.Unallocated())
		benefit := valueobject.RoundMoney(amount.Mul(l.AnnualRate).Div(hundred))
		desc := fmt.Sprintf("Prepay %s on %s at %s%% to save about %s in interest a year",
			valueobject.FormatINR(amount), l.Name, l.AnnualRate.String(), valueobject.FormatINR(benefit))
		recs = append(recs, preview(entity.SurplusRecommendation{
			Type:               entity.RecommendationLoanPrepayment,
			TargetID:           &id,
			TargetName:         l.Name,
			Amount:             amount,
			ExpectedReturnRate: l.AnnualRate,
			ProjectedBenefit:   benefit,
			Description:        desc,
		}))
	}

	surplus := valueobject.FormatINR(in.Surplus)
	lowRisk := preview(entity.SurplusRecommendation{
		Type:               entity.RecommendationLowRiskInvestment,
		TargetName:         "Low-risk deposit",
		Amount:             in.Surplus,
		ExpectedReturnRate: in.Policy.LowRiskReturnRate,
		ProjectedBenefit:   valueobject.RoundMoney(in.Surplus.Mul(in.Policy.LowRiskReturnRate).Div(hundred)),
		Description:        fmt.Sprintf("Park %s in a low-risk deposit earning about %s%% a year", surplus, in.Policy.LowRiskReturnRate.String()),
	})
	market := preview(entity.SurplusRecommendation{
		Type:               entity.RecommendationMarketInvestment,
		TargetName:         "Diversified market fund",
		Amount:             in.Surplus,
		ExpectedReturnRate: in.Policy.MarketReturnRate,
		ProjectedBenefit:   valueobject.RoundMoney(in.Surplus.Mul(in.Policy.MarketReturnRate).Div(hundred)),
		Description:        fmt.Sprintf("Invest %s in a diversified market fund with an expected %s%% a year", surplus, in.Policy.MarketReturnRate.String()),
	})
	if in.RiskProfile == entity.RiskProfileGrowth {
		recs = append(recs, market, lowRisk)
	} else {
		recs = append(recs, lowRisk, market)
	}

	for _, g := range in.Goals {
		if !g.IsActive() || !g.Remaining().IsPositive() {
			continue
		}
		id := g.ID
		amount := decimal.Min(in.Surplus, g.Remaining())
		recs = append(recs, preview(entity.SurplusRecommendation{
			Type:               entity.RecommendationGoalFunding,
			TargetID:           &id,
			TargetName:         g.Name,
			Amount:             amount,
			ExpectedReturnRate: decimal.Zero,
			ProjectedBenefit:   decimal.Zero,
			Description:        fmt.Sprintf("Put %s towards %s", valueobject.FormatINR(amount), g.Name),
		}))
	}

	return recs
}
