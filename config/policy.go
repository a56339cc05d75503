package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/emergency-shield/backend/internal/domain/valueobject"
)

// policyFile mirrors the YAML layout of the shield policy file:
//
//	target_months: 3
//	optimal_months: 6
//	high_interest_threshold: 15
//	returns:
//	  low_risk: 7
//	  market: 12
type policyFile struct {
	TargetMonths          *string `yaml:"target_months"`
	OptimalMonths         *string `yaml:"optimal_months"`
	HighInterestThreshold *string `yaml:"high_interest_threshold"`
	Returns               struct {
		LowRisk *string `yaml:"low_risk"`
		Market  *string `yaml:"market"`
	} `yaml:"returns"`
}

// LoadShieldPolicy builds the shield policy from the defaults, the optional
// YAML file at path, and SHIELD_* environment overrides, in that order.
func LoadShieldPolicy(path string) (valueobject.ShieldPolicy, error) {
	policy := valueobject.DefaultShieldPolicy()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return policy, fmt.Errorf("failed to read shield policy: %w", err)
		}
		if err := ParseShieldPolicy(raw, &policy); err != nil {
			return policy, err
		}
	}

	policy.TargetMonths = getEnvAsDecimal("SHIELD_TARGET_MONTHS", policy.TargetMonths)
	policy.OptimalMonths = getEnvAsDecimal("SHIELD_OPTIMAL_MONTHS", policy.OptimalMonths)
	policy.HighInterestThreshold = getEnvAsDecimal("SHIELD_HIGH_INTEREST_THRESHOLD", policy.HighInterestThreshold)
	policy.LowRiskReturnRate = getEnvAsDecimal("SHIELD_LOW_RISK_RETURN", policy.LowRiskReturnRate)
	policy.MarketReturnRate = getEnvAsDecimal("SHIELD_MARKET_RETURN", policy.MarketReturnRate)

	if err := policy.Validate(); err != nil {
		return policy, err
	}
	return policy, nil
}

// ParseShieldPolicy overlays the fields present in raw onto policy.
func ParseShieldPolicy(raw []byte, policy *valueobject.ShieldPolicy) error {
	var file policyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("failed to parse shield policy: %w", err)
	}

	fields := []struct {
		name  string
		value *string
		dst   *decimal.Decimal
	}{
		{"target_months", file.TargetMonths, &policy.TargetMonths},
		{"optimal_months", file.OptimalMonths, &policy.OptimalMonths},
		{"high_interest_threshold", file.HighInterestThreshold, &policy.HighInterestThreshold},
		{"returns.low_risk", file.Returns.LowRisk, &policy.LowRiskReturnRate},
		{"returns.market", file.Returns.Market, &policy.MarketReturnRate},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		d, err := decimal.NewFromString(*f.value)
		if err != nil {
			return fmt.Errorf("invalid %s in shield policy: %w", f.name, err)
		}
		*f.dst = d
	}
	return nil
}
