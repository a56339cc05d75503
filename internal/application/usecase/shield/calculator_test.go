package shield

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
	"github.com/emergency-shield/backend/internal/domain/valueobject"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fundWith(amount string) *entity.EmergencyFund {
	return entity.NewEmergencyFund(uuid.New(), "Fund", entity.FundTypeGeneral, d("1"), d(amount), decimal.Zero, time.Now().UTC())
}

func calcInput(essentials string, funds ...*entity.EmergencyFund) ShieldInput {
	total := decimal.Zero
	for _, f := range funds {
		total = total.Add(f.CurrentAmount)
	}
	return ShieldInput{
		Aggregates: entity.LedgerAggregates{MonthlyEssentialExpenses: d(essentials)},
		Balance: entity.BalanceSnapshot{
			NetBalance:       total.Add(d("3000")),
			AllocatedBalance: total,
		},
		Funds:       funds,
		RiskProfile: entity.RiskProfileBalanced,
		Policy:      valueobject.DefaultShieldPolicy(),
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name          string
		essentials    string
		funds         []string
		wantTarget    string
		wantOptimal   string
		wantCore      string
		wantSurplus   string
		wantShortfall string
		wantStatus    entity.ShieldStatusLevel
		wantAccess    entity.FeatureAccess
	}{
		{
			name:          "scenario A below target",
			essentials:    "20000",
			funds:         []string{"50000"},
			wantTarget:    "60000",
			wantOptimal:   "120000",
			wantCore:      "50000",
			wantSurplus:   "0",
			wantShortfall: "10000",
			wantStatus:    entity.ShieldStatusAtRisk,
			wantAccess:    entity.FeatureAccess{},
		},
		{
			name:          "scenario B above optimal",
			essentials:    "20000",
			funds:         []string{"150000"},
			wantTarget:    "60000",
			wantOptimal:   "120000",
			wantCore:      "120000",
			wantSurplus:   "30000",
			wantShortfall: "0",
			wantStatus:    entity.ShieldStatusSafe,
			wantAccess:    entity.FeatureAccess{CanInvest: true, CanPrepayLoans: true, CanAllocateToNonEmergencyGoals: true},
		},
		{
			name:          "exactly at target is partial",
			essentials:    "20000",
			funds:         []string{"40000", "20000"},
			wantTarget:    "60000",
			wantOptimal:   "120000",
			wantCore:      "60000",
			wantSurplus:   "0",
			wantShortfall: "0",
			wantStatus:    entity.ShieldStatusPartial,
			wantAccess:    entity.FeatureAccess{CanPrepayLoans: true},
		},
		{
			name:          "exactly at optimal is safe",
			essentials:    "20000",
			funds:         []string{"120000"},
			wantTarget:    "60000",
			wantOptimal:   "120000",
			wantCore:      "120000",
			wantSurplus:   "0",
			wantShortfall: "0",
			wantStatus:    entity.ShieldStatusSafe,
			wantAccess:    entity.FeatureAccess{CanInvest: true, CanPrepayLoans: true, CanAllocateToNonEmergencyGoals: true},
		},
		{
			name:          "no essentials makes everything surplus",
			essentials:    "0",
			funds:         []string{"10000"},
			wantTarget:    "0",
			wantOptimal:   "0",
			wantCore:      "0",
			wantSurplus:   "10000",
			wantShortfall: "0",
			wantStatus:    entity.ShieldStatusSafe,
			wantAccess:    entity.FeatureAccess{CanInvest: true, CanPrepayLoans: true, CanAllocateToNonEmergencyGoals: true},
		},
		{
			name:          "no funds",
			essentials:    "15000.50",
			funds:         nil,
			wantTarget:    "45001.5",
			wantOptimal:   "90003",
			wantCore:      "0",
			wantSurplus:   "0",
			wantShortfall: "45001.5",
			wantStatus:    entity.ShieldStatusAtRisk,
			wantAccess:    entity.FeatureAccess{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var funds []*entity.EmergencyFund
			for _, amount := range tt.funds {
				funds = append(funds, fundWith(amount))
			}
			s := Calculate(calcInput(tt.essentials, funds...))

			checks := []struct {
				field string
				got   decimal.Decimal
				want  string
			}{
				{"EmergencyTarget", s.EmergencyTarget, tt.wantTarget},
				{"EmergencyOptimal", s.EmergencyOptimal, tt.wantOptimal},
				{"CoreEmergency", s.CoreEmergency, tt.wantCore},
				{"SurplusEmergency", s.SurplusEmergency, tt.wantSurplus},
				{"Shortfall", s.Shortfall, tt.wantShortfall},
			}
			for _, c := range checks {
				if !c.got.Equal(d(c.want)) {
					t.Errorf("%s = %s, want %s", c.field, c.got, c.want)
				}
			}
			if s.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", s.Status, tt.wantStatus)
			}
			access := s.FeatureAccess
			access.Reason = ""
			if access != tt.wantAccess {
				t.Errorf("FeatureAccess = %+v, want %+v", access, tt.wantAccess)
			}
			if tt.wantStatus != entity.ShieldStatusSafe && s.FeatureAccess.Reason == "" {
				t.Error("expected a reason when features are locked")
			}

			// Invariants
			if !s.CoreEmergency.Add(s.SurplusEmergency).Equal(s.TotalEmergencyShield) {
				t.Errorf("core %s + surplus %s != total %s", s.CoreEmergency, s.SurplusEmergency, s.TotalEmergencyShield)
			}
			if !s.FreeBalance.Equal(s.NetBalance.Sub(s.AllocatedBalance)) {
				t.Errorf("free %s != net %s - allocated %s", s.FreeBalance, s.NetBalance, s.AllocatedBalance)
			}
			if s.HasSurplus != s.SurplusEmergency.IsPositive() {
				t.Errorf("HasSurplus = %v with surplus %s", s.HasSurplus, s.SurplusEmergency)
			}
			if s.HasSurplus && len(s.SurplusRecommendations) == 0 {
				t.Error("expected recommendations when surplus exists")
			}
			if !s.HasSurplus && len(s.SurplusRecommendations) != 0 {
				t.Error("expected no recommendations without surplus")
			}
		})
	}
}

func TestCalculateProgressAndCoverage(t *testing.T) {
	s := Calculate(calcInput("20000", fundWith("50000")))

	if !s.ProgressPercentage.Equal(d("83.33")) {
		t.Errorf("ProgressPercentage = %s, want 83.33", s.ProgressPercentage)
	}
	if !s.CoreProgressPercentage.Equal(d("41.67")) {
		t.Errorf("CoreProgressPercentage = %s, want 41.67", s.CoreProgressPercentage)
	}
	if !s.MonthsCovered.Equal(d("2.5")) {
		t.Errorf("MonthsCovered = %s, want 2.5", s.MonthsCovered)
	}
	if !s.ShortfallToOptimal.Equal(d("70000")) {
		t.Errorf("ShortfallToOptimal = %s, want 70000", s.ShortfallToOptimal)
	}
	if !s.MaxContribution.Equal(d("3000")) {
		t.Errorf("MaxContribution = %s, want 3000", s.MaxContribution)
	}

	zero := Calculate(calcInput("0"))
	if !zero.ProgressPercentage.Equal(d("100")) || !zero.CoreProgressPercentage.Equal(d("100")) {
		t.Errorf("zero target progress = %s/%s, want 100/100", zero.ProgressPercentage, zero.CoreProgressPercentage)
	}
	if !zero.MonthsCovered.IsZero() {
		t.Errorf("MonthsCovered = %s, want 0 without essentials", zero.MonthsCovered)
	}
}

func TestCalculateFundBreakdown(t *testing.T) {
	// 3 equal funds, surplus 100 does not split evenly into cents
	funds := []*entity.EmergencyFund{fundWith("40000"), fundWith("40000"), fundWith("40000.01")}
	in := calcInput("19983.33", funds...)
	s := Calculate(in)

	if !s.SurplusEmergency.IsPositive() {
		t.Fatalf("expected surplus, got %s", s.SurplusEmergency)
	}

	sumSurplus := decimal.Zero
	sumCore := decimal.Zero
	for _, b := range s.Funds {
		if !b.CoreShare.Add(b.SurplusShare).Equal(b.Fund.CurrentAmount) {
			t.Errorf("fund %s: core %s + surplus %s != balance %s", b.Fund.ID, b.CoreShare, b.SurplusShare, b.Fund.CurrentAmount)
		}
		if b.SurplusShare.Exponent() < -2 {
			t.Errorf("surplus share %s has sub-cent precision", b.SurplusShare)
		}
		if !b.IsProtected {
			t.Errorf("fund %s should be protected while it holds core", b.Fund.ID)
		}
		sumSurplus = sumSurplus.Add(b.SurplusShare)
		sumCore = sumCore.Add(b.CoreShare)
	}
	if sumSurplus.GreaterThan(s.SurplusEmergency) {
		t.Errorf("sum of surplus shares %s exceeds surplus %s", sumSurplus, s.SurplusEmergency)
	}
	if !sumSurplus.Add(sumCore).Equal(s.TotalEmergencyShield) {
		t.Errorf("shares %s + %s != total %s", sumSurplus, sumCore, s.TotalEmergencyShield)
	}

	b, ok := s.Breakdown(funds[0].ID)
	if !ok || b.Fund != funds[0] {
		t.Fatal("Breakdown did not find the first fund")
	}
	if _, ok := s.Breakdown(uuid.New()); ok {
		t.Error("Breakdown found an unknown fund")
	}
}

func TestCalculateEmptyFundIsUnprotected(t *testing.T) {
	s := Calculate(calcInput("20000", fundWith("0"), fundWith("10000")))
	if s.Funds[0].IsProtected {
		t.Error("empty fund should not be protected")
	}
	if !s.Funds[1].IsProtected {
		t.Error("funded fund below target should be protected")
	}
}
