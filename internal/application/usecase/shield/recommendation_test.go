package shield

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
	"github.com/emergency-shield/backend/internal/domain/valueobject"
)

func loanWith(name, outstanding, rate string) *entity.Loan {
	return entity.NewLoan(uuid.New(), name, d(outstanding), d(outstanding), d(rate))
}

func TestRecommend(t *testing.T) {
	creditCard := loanWith("Credit card", "20000", "36")
	personal := loanWith("Personal loan", "100000", "18")
	home := loanWith("Home loan", "2500000", "8.5")
	atThreshold := loanWith("Gold loan", "5000", "15")
	closed := loanWith("Closed card", "0", "40")
	earmarked := loanWith("Store card", "8000", "42")
	earmarked.AllocatedAmount = d("8000")
	vacation := entity.NewGoal(uuid.New(), "Vacation", d("50000"), false, nil)
	done := entity.NewGoal(uuid.New(), "Laptop", d("1000"), false, nil)
	done.AllocatedAmount = d("1000")

	tests := []struct {
		name        string
		risk        entity.RiskProfile
		loans       []*entity.Loan
		goals       []*entity.Goal
		wantTypes   []entity.RecommendationType
		wantTargets []string
	}{
		{
			name:  "high interest loans first by rate",
			risk:  entity.RiskProfileBalanced,
			loans: []*entity.Loan{personal, home, creditCard, atThreshold, closed, earmarked},
			wantTypes: []entity.RecommendationType{
				entity.RecommendationLoanPrepayment,
				entity.RecommendationLoanPrepayment,
				entity.RecommendationLowRiskInvestment,
				entity.RecommendationMarketInvestment,
			},
			wantTargets: []string{"Credit card", "Personal loan", "Low-risk deposit", "Diversified market fund"},
		},
		{
			name: "growth profile puts market first",
			risk: entity.RiskProfileGrowth,
			wantTypes: []entity.RecommendationType{
				entity.RecommendationMarketInvestment,
				entity.RecommendationLowRiskInvestment,
			},
			wantTargets: []string{"Diversified market fund", "Low-risk deposit"},
		},
		{
			name:  "goals follow investments",
			risk:  entity.RiskProfileConservative,
			goals: []*entity.Goal{vacation, done},
			wantTypes: []entity.RecommendationType{
				entity.RecommendationLowRiskInvestment,
				entity.RecommendationMarketInvestment,
				entity.RecommendationGoalFunding,
			},
			wantTargets: []string{"Low-risk deposit", "Diversified market fund", "Vacation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Recommend(RecommendInput{
				Surplus:     d("30000"),
				Core:        d("120000"),
				Total:       d("150000"),
				Essentials:  d("20000"),
				Loans:       tt.loans,
				Goals:       tt.goals,
				RiskProfile: tt.risk,
				Policy:      valueobject.DefaultShieldPolicy(),
			})

			if len(recs) != len(tt.wantTypes) {
				t.Fatalf("got %d recommendations, want %d: %+v", len(recs), len(tt.wantTypes), recs)
			}
			for i, r := range recs {
				if r.Type != tt.wantTypes[i] {
					t.Errorf("recs[%d].Type = %s, want %s", i, r.Type, tt.wantTypes[i])
				}
				if r.TargetName != tt.wantTargets[i] {
					t.Errorf("recs[%d].TargetName = %s, want %s", i, r.TargetName, tt.wantTargets[i])
				}
				if r.Amount.GreaterThan(d("30000")) {
					t.Errorf("recs[%d].Amount %s exceeds surplus", i, r.Amount)
				}
				if !r.CoreAfterReallocation.Equal(d("120000")) {
					t.Errorf("recs[%d].CoreAfterReallocation = %s, want 120000", i, r.CoreAfterReallocation)
				}
				if !r.SurplusAfterReallocation.Equal(d("30000").Sub(r.Amount)) {
					t.Errorf("recs[%d].SurplusAfterReallocation = %s", i, r.SurplusAfterReallocation)
				}
				if r.StatusAfter != entity.ShieldStatusSafe {
					t.Errorf("recs[%d].StatusAfter = %s, want safe", i, r.StatusAfter)
				}
				if r.Description == "" {
					t.Errorf("recs[%d] has no description", i)
				}
			}
		})
	}
}

func TestRecommendAmounts(t *testing.T) {
	creditCard := loanWith("Credit card", "20000", "36")
	recs := Recommend(RecommendInput{
		Surplus:     d("30000"),
		Core:        d("120000"),
		Total:       d("150000"),
		Essentials:  d("20000"),
		Loans:       []*entity.Loan{creditCard},
		RiskProfile: entity.RiskProfileBalanced,
		Policy:      valueobject.DefaultShieldPolicy(),
	})

	loan := recs[0]
	if !loan.Amount.Equal(d("20000")) {
		t.Errorf("loan amount = %s, want outstanding 20000", loan.Amount)
	}
	if !loan.ProjectedBenefit.Equal(d("7200")) {
		t.Errorf("loan benefit = %s, want 7200", loan.ProjectedBenefit)
	}
	if loan.TargetID == nil || *loan.TargetID != creditCard.ID {
		t.Error("loan recommendation should target the loan")
	}

	lowRisk := recs[1]
	if !lowRisk.ProjectedBenefit.Equal(d("2100")) {
		t.Errorf("low risk benefit = %s, want 2100", lowRisk.ProjectedBenefit)
	}
	if lowRisk.TargetID != nil {
		t.Error("investment recommendations have no target")
	}
	market := recs[2]
	if !market.ProjectedBenefit.Equal(d("3600")) {
		t.Errorf("market benefit = %s, want 3600", market.ProjectedBenefit)
	}
}

func TestRecommendWithoutSurplus(t *testing.T) {
	recs := Recommend(RecommendInput{
		Surplus:    decimal.Zero,
		Core:       d("50000"),
		Total:      d("50000"),
		Essentials: d("20000"),
		Loans:      []*entity.Loan{loanWith("Card", "1000", "40")},
		Policy:     valueobject.DefaultShieldPolicy(),
	})
	if len(recs) != 0 {
		t.Errorf("expected no recommendations, got %d", len(recs))
	}
}

func TestRecommendLoanAmountExcludesEarmarked(t *testing.T) {
	card := loanWith("Credit card", "20000", "36")
	card.AllocatedAmount = d("15000")
	recs := Recommend(RecommendInput{
		Surplus:     d("30000"),
		Core:        d("120000"),
		Total:       d("150000"),
		Essentials:  d("20000"),
		Loans:       []*entity.Loan{card},
		RiskProfile: entity.RiskProfileBalanced,
		Policy:      valueobject.DefaultShieldPolicy(),
	})
	if recs[0].Type != entity.RecommendationLoanPrepayment || !recs[0].Amount.Equal(d("5000")) {
		t.Errorf("recs[0] = %s %s, want loan prepayment of 5000", recs[0].Type, recs[0].Amount)
	}
}
