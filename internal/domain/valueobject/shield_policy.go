// Package valueobject contains domain value objects for the Emergency Shield system.
package valueobject

import "github.com/shopspring/decimal"

// ShieldPolicy contains the thresholds used to classify the emergency shield
// and rank surplus recommendations.
type ShieldPolicy struct {
	// Coverage multipliers, in months of essential expenses
	TargetMonths  decimal.Decimal // 3
	OptimalMonths decimal.Decimal // 6

	// Loans above this annual rate are worth prepaying before investing
	HighInterestThreshold decimal.Decimal // 15 (%)

	// Expected annual returns
	LowRiskReturnRate decimal.Decimal // 7 (%)
	MarketReturnRate  decimal.Decimal // 12 (%)
}

// DefaultShieldPolicy returns the default shield policy.
func DefaultShieldPolicy() ShieldPolicy {
	return ShieldPolicy{
		TargetMonths:          decimal.NewFromInt(3),
		OptimalMonths:         decimal.NewFromInt(6),
		HighInterestThreshold: decimal.NewFromInt(15),
		LowRiskReturnRate:     decimal.NewFromInt(7),
		MarketReturnRate:      decimal.NewFromInt(12),
	}
}

// Target returns the minimum safe emergency amount for the given monthly essentials.
func (p ShieldPolicy) Target(essentials decimal.Decimal) decimal.Decimal {
	return RoundMoney(essentials.Mul(p.TargetMonths))
}

// Optimal returns the full emergency amount for the given monthly essentials.
func (p ShieldPolicy) Optimal(essentials decimal.Decimal) decimal.Decimal {
	return RoundMoney(essentials.Mul(p.OptimalMonths))
}

// IsHighInterest reports whether a loan rate exceeds the prepayment threshold.
func (p ShieldPolicy) IsHighInterest(annualRate decimal.Decimal) bool {
	return annualRate.GreaterThan(p.HighInterestThreshold)
}

// Validate checks the policy is internally consistent.
func (p ShieldPolicy) Validate() error {
	if !p.TargetMonths.IsPositive() {
		return ErrInvalidPolicy
	}
	if p.OptimalMonths.LessThan(p.TargetMonths) {
		return ErrInvalidPolicy
	}
	if p.HighInterestThreshold.IsNegative() || p.LowRiskReturnRate.IsNegative() || p.MarketReturnRate.IsNegative() {
		return ErrInvalidPolicy
	}
	return nil
}
