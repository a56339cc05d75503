// Package entity defines the core business entities for the domain layer.
package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShieldStatusLevel is the safety classification derived from the emergency core.
type ShieldStatusLevel string

const (
	ShieldStatusAtRisk  ShieldStatusLevel = "at_risk"
	ShieldStatusPartial ShieldStatusLevel = "partial"
	ShieldStatusSafe    ShieldStatusLevel = "safe"
)

// Feature is a financial action gated by the shield status.
type Feature string

const (
	FeatureInvest          Feature = "invest"
	FeaturePrepayLoans     Feature = "prepay_loans"
	FeatureAllocateToGoals Feature = "allocate_to_goals"
)

// IsValid reports whether the feature is a known gated feature.
func (f Feature) IsValid() bool {
	return f == FeatureInvest || f == FeaturePrepayLoans || f == FeatureAllocateToGoals
}

// RecommendationType identifies a candidate use of surplus emergency money.
type RecommendationType string

const (
	RecommendationLoanPrepayment    RecommendationType = "loan_prepayment"
	RecommendationLowRiskInvestment RecommendationType = "low_risk_investment"
	RecommendationMarketInvestment  RecommendationType = "market_investment"
	RecommendationGoalFunding       RecommendationType = "goal_funding"
)

// LedgerAggregates holds monthly averages derived from the transaction ledger.
type LedgerAggregates struct {
	MonthlyEssentialExpenses decimal.Decimal
	MonthlyIncome            decimal.Decimal
}

// BalanceSnapshot holds the user's balance totals at a point in time.
type BalanceSnapshot struct {
	NetBalance       decimal.Decimal
	AllocatedBalance decimal.Decimal
	FreeBalance      decimal.Decimal
}

// FeatureAccess holds the gated feature flags.
type FeatureAccess struct {
	CanInvest                      bool
	CanPrepayLoans                 bool
	CanAllocateToNonEmergencyGoals bool
	Reason                         string
}

// Allows returns the flag for a single feature.
func (a FeatureAccess) Allows(feature Feature) bool {
	switch feature {
	case FeatureInvest:
		return a.CanInvest
	case FeaturePrepayLoans:
		return a.CanPrepayLoans
	case FeatureAllocateToGoals:
		return a.CanAllocateToNonEmergencyGoals
	default:
		return false
	}
}

// FundBreakdown splits one fund's balance into its core and surplus shares.
type FundBreakdown struct {
	Fund         *EmergencyFund
	CoreShare    decimal.Decimal
	SurplusShare decimal.Decimal
	IsProtected  bool
}

// SurplusRecommendation is a ranked candidate use of surplus emergency money.
type SurplusRecommendation struct {
	Type                     RecommendationType
	TargetID                 *uuid.UUID
	TargetName               string
	Amount                   decimal.Decimal
	ExpectedReturnRate       decimal.Decimal
	ProjectedBenefit         decimal.Decimal
	Description              string
	CoreAfterReallocation    decimal.Decimal
	SurplusAfterReallocation decimal.Decimal
	StatusAfter              ShieldStatusLevel
}

// ShieldStatus is the computed emergency shield state. It is never persisted.
type ShieldStatus struct {
	MonthlyEssentialExpenses decimal.Decimal
	MonthlyIncome            decimal.Decimal
	NetBalance               decimal.Decimal
	AllocatedBalance         decimal.Decimal
	FreeBalance              decimal.Decimal

	EmergencyTarget      decimal.Decimal
	EmergencyOptimal     decimal.Decimal
	TotalEmergencyShield decimal.Decimal
	CoreEmergency        decimal.Decimal
	SurplusEmergency     decimal.Decimal

	ProgressPercentage     decimal.Decimal
	CoreProgressPercentage decimal.Decimal
	MonthsCovered          decimal.Decimal
	Shortfall              decimal.Decimal
	ShortfallToOptimal     decimal.Decimal
	MaxContribution        decimal.Decimal

	Status        ShieldStatusLevel
	FeatureAccess FeatureAccess

	HasSurplus             bool
	SurplusRecommendations []SurplusRecommendation
	Funds                  []FundBreakdown
}

// Breakdown returns the share split for a fund, if present.
func (s *ShieldStatus) Breakdown(fundID uuid.UUID) (FundBreakdown, bool) {
	for _, b := range s.Funds {
		if b.Fund.ID == fundID {
			return b, true
		}
	}
	return FundBreakdown{}, false
}
