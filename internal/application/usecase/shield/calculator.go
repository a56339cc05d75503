// Package shield contains the emergency shield use cases.
package shield

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
	"github.com/emergency-shield/backend/internal/domain/valueobject"
)

// ShieldInput holds everything the calculator needs. It is assembled from a
// single snapshot so the derived numbers are mutually consistent.
type ShieldInput struct {
	Aggregates  entity.LedgerAggregates
	Balance     entity.BalanceSnapshot
	Funds       []*entity.EmergencyFund
	Loans       []*entity.Loan
	Goals       []*entity.Goal
	RiskProfile entity.RiskProfile
	Policy      valueobject.ShieldPolicy
}

// Calculate derives the shield status. It is pure and deterministic.
func Calculate(in ShieldInput) *entity.ShieldStatus {
	essentials := valueobject.RoundMoney(in.Aggregates.MonthlyEssentialExpenses)
	target := in.Policy.Target(essentials)
	optimal := in.Policy.Optimal(essentials)

	total := decimal.Zero
	for _, f := range in.Funds {
		total = total.Add(f.CurrentAmount)
	}
	total = valueobject.RoundMoney(total)

	core := decimal.Min(total, optimal)
	surplus := total.Sub(core)

	net := valueobject.RoundMoney(in.Balance.NetBalance)
	allocated := valueobject.RoundMoney(in.Balance.AllocatedBalance)
	free := net.Sub(allocated)

	status := classify(core, target, optimal)

	s := &entity.ShieldStatus{
		MonthlyEssentialExpenses: essentials,
		MonthlyIncome:            valueobject.RoundMoney(in.Aggregates.MonthlyIncome),
		NetBalance:               net,
		AllocatedBalance:         allocated,
		FreeBalance:              free,

		EmergencyTarget:      target,
		EmergencyOptimal:     optimal,
		TotalEmergencyShield: total,
		CoreEmergency:        core,
		SurplusEmergency:     surplus,

		ProgressPercentage:     valueobject.Percent(core, target),
		CoreProgressPercentage: valueobject.Percent(core, optimal),
		MonthsCovered:          monthsCovered(total, essentials),
		Shortfall:              positivePart(target.Sub(core)),
		ShortfallToOptimal:     positivePart(optimal.Sub(core)),
		MaxContribution:        positivePart(free),

		Status:     status,
		HasSurplus: surplus.IsPositive(),
		Funds:      breakdown(in.Funds, total, surplus),
	}
	s.FeatureAccess = featureAccess(status, s.Shortfall, s.ShortfallToOptimal, in.Policy)

	s.SurplusRecommendations = []entity.SurplusRecommendation{}
	if s.HasSurplus {
		s.SurplusRecommendations = Recommend(RecommendInput{
			Surplus:     surplus,
			Core:        core,
			Total:       total,
			Essentials:  essentials,
			Loans:       in.Loans,
			Goals:       in.Goals,
			RiskProfile: in.RiskProfile,
			Policy:      in.Policy,
		})
	}

	return s
}

// classify maps the core amount onto a status level.
func classify(core, target, optimal decimal.Decimal) entity.ShieldStatusLevel {
	switch {
	case core.LessThan(target):
		return entity.ShieldStatusAtRisk
	case core.LessThan(optimal):
		return entity.ShieldStatusPartial
	default:
		return entity.ShieldStatusSafe
	}
}

func featureAccess(status entity.ShieldStatusLevel, shortfall, shortfallToOptimal decimal.Decimal, policy valueobject.ShieldPolicy) entity.FeatureAccess {
	switch status {
	case entity.ShieldStatusAtRisk:
		reason := fmt.Sprintf("Emergency shield is below the %s-month target; short by %s",
			policy.TargetMonths.String(), valueobject.FormatINR(shortfall))
		return entity.FeatureAccess{Reason: reason}
	case entity.ShieldStatusPartial:
		reason := fmt.Sprintf("Investing and goal funding unlock at the %s-month optimal; %s to go",
			policy.OptimalMonths.String(), valueobject.FormatINR(shortfallToOptimal))
		return entity.FeatureAccess{
			CanPrepayLoans: true,
			Reason:         reason,
		}
	default:
		return entity.FeatureAccess{
			CanInvest:                      true,
			CanPrepayLoans:                 true,
			CanAllocateToNonEmergencyGoals: true,
		}
	}
}

// breakdown splits each fund pro rata. Surplus shares are floored so their
// sum never exceeds the surplus; the rounding remainder stays in core.
func breakdown(funds []*entity.EmergencyFund, total, surplus decimal.Decimal) []entity.FundBreakdown {
	out := make([]entity.FundBreakdown, 0, len(funds))
	for _, f := range funds {
		b := entity.FundBreakdown{
			Fund:         f,
			CoreShare:    decimal.Zero,
			SurplusShare: decimal.Zero,
		}
		if total.IsPositive() {
			b.SurplusShare = valueobject.FloorMoney(surplus.Mul(f.CurrentAmount).Div(total))
			b.CoreShare = f.CurrentAmount.Sub(b.SurplusShare)
		}
		b.IsProtected = b.CoreShare.IsPositive()
		out = append(out, b)
	}
	return out
}

func monthsCovered(total, essentials decimal.Decimal) decimal.Decimal {
	if !essentials.IsPositive() {
		return decimal.Zero
	}
	return valueobject.RoundMoney(total.Div(essentials))
}

func positivePart(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
