package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/valueobject"
)

func TestParseShieldPolicy(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		expectErr   bool
		wantTarget  string
		wantOptimal string
		wantMarket  string
	}{
		{
			name:        "empty keeps defaults",
			yaml:        "",
			wantTarget:  "3",
			wantOptimal: "6",
			wantMarket:  "12",
		},
		{
			name:        "partial override",
			yaml:        "optimal_months: 9\nreturns:\n  market: 10.5\n",
			wantTarget:  "3",
			wantOptimal: "9",
			wantMarket:  "10.5",
		},
		{
			name:      "non numeric value",
			yaml:      "target_months: three\n",
			expectErr: true,
		},
		{
			name:      "malformed yaml",
			yaml:      "target_months: [\n",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := valueobject.DefaultShieldPolicy()
			err := ParseShieldPolicy([]byte(tt.yaml), &policy)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !policy.TargetMonths.Equal(decimal.RequireFromString(tt.wantTarget)) {
				t.Errorf("TargetMonths = %s, want %s", policy.TargetMonths, tt.wantTarget)
			}
			if !policy.OptimalMonths.Equal(decimal.RequireFromString(tt.wantOptimal)) {
				t.Errorf("OptimalMonths = %s, want %s", policy.OptimalMonths, tt.wantOptimal)
			}
			if !policy.MarketReturnRate.Equal(decimal.RequireFromString(tt.wantMarket)) {
				t.Errorf("MarketReturnRate = %s, want %s", policy.MarketReturnRate, tt.wantMarket)
			}
		})
	}
}

func TestLoadShieldPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(path, []byte("high_interest_threshold: 12\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SHIELD_LOW_RISK_RETURN", "6.5")

	policy, err := LoadShieldPolicy(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !policy.HighInterestThreshold.Equal(decimal.NewFromInt(12)) {
		t.Errorf("HighInterestThreshold = %s, want 12", policy.HighInterestThreshold)
	}
	if !policy.LowRiskReturnRate.Equal(decimal.RequireFromString("6.5")) {
		t.Errorf("LowRiskReturnRate = %s, want 6.5", policy.LowRiskReturnRate)
	}

	if _, err := LoadShieldPolicy(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	t.Setenv("SHIELD_OPTIMAL_MONTHS", "1")
	if _, err := LoadShieldPolicy(""); err == nil {
		t.Error("expected error when optimal is below target")
	}
}
