package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/application/usecase/shield"
	"github.com/emergency-shield/backend/internal/domain/entity"
)

// CreateFundRequest represents the request body for emergency fund creation.
type CreateFundRequest struct {
	Name                string           `json:"name" binding:"required,min=1,max=100"`
	Type                string           `json:"type" binding:"required"`
	TargetAmount        decimal.Decimal  `json:"target_amount"`
	InitialAmount       *decimal.Decimal `json:"initial_amount,omitempty"`
	MonthlyContribution *decimal.Decimal `json:"monthly_contribution,omitempty"`
}

// ContributeRequest represents the request body for a fund contribution.
type ContributeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ReallocateSurplusRequest represents the request body for moving surplus
// emergency money to a goal or loan.
type ReallocateSurplusRequest struct {
	FromEmergencyID string          `json:"from_emergency_id" binding:"required,uuid"`
	ToGoalID        string          `json:"to_goal_id" binding:"required,uuid"`
	Amount          decimal.Decimal `json:"amount"`
	TargetType      string          `json:"target_type" binding:"required"`
}

// ReallocateInternalRequest represents the request body for moving money
// between two emergency funds.
type ReallocateInternalRequest struct {
	FromFundID string          `json:"from_fund_id" binding:"required,uuid"`
	ToFundID   string          `json:"to_fund_id" binding:"required,uuid"`
	Amount     decimal.Decimal `json:"amount"`
}

// FeatureAccessResponse represents the gated feature flags.
type FeatureAccessResponse struct {
	CanInvest                      bool   `json:"can_invest"`
	CanPrepayLoans                 bool   `json:"can_prepay_loans"`
	CanAllocateToNonEmergencyGoals bool   `json:"can_allocate_to_non_emergency_goals"`
	Reason                         string `json:"reason,omitempty"`
}

// FundResponse represents an emergency fund with its core/surplus split.
type FundResponse struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Type                string     `json:"type"`
	TargetAmount        string     `json:"target_amount"`
	CurrentAmount       string     `json:"current_amount"`
	MonthlyContribution string     `json:"monthly_contribution"`
	LastContributionAt  *time.Time `json:"last_contribution_at,omitempty"`
	CoreShare           string     `json:"core_share"`
	SurplusShare        string     `json:"surplus_share"`
	IsProtected         bool       `json:"is_protected"`
	CreatedAt           time.Time  `json:"created_at"`
}

// RecommendationResponse represents one ranked use of surplus money.
type RecommendationResponse struct {
	Type                     string  `json:"type"`
	TargetID                 *string `json:"target_id,omitempty"`
	TargetName               string  `json:"target_name,omitempty"`
	Amount                   string  `json:"amount"`
	ExpectedReturnRate       string  `json:"expected_return_rate"`
	ProjectedBenefit         string  `json:"projected_benefit"`
	Description              string  `json:"description"`
	CoreAfterReallocation    string  `json:"core_after_reallocation"`
	SurplusAfterReallocation string  `json:"surplus_after_reallocation"`
	StatusAfter              string  `json:"status_after"`
}

// ShieldStatusResponse represents the full computed shield status.
type ShieldStatusResponse struct {
	MonthlyEssentialExpenses string `json:"monthly_essential_expenses"`
	MonthlyIncome            string `json:"monthly_income"`
	NetBalance               string `json:"net_balance"`
	AllocatedBalance         string `json:"allocated_balance"`
	FreeBalance              string `json:"free_balance"`

	EmergencyTarget      string `json:"emergency_target"`
	EmergencyOptimal     string `json:"emergency_optimal"`
	TotalEmergencyShield string `json:"total_emergency_shield"`
	CoreEmergency        string `json:"core_emergency"`
	SurplusEmergency     string `json:"surplus_emergency"`

	ProgressPercentage     string `json:"progress_percentage"`
	CoreProgressPercentage string `json:"core_progress_percentage"`
	MonthsCovered          string `json:"months_covered"`
	Shortfall              string `json:"shortfall"`
	ShortfallToOptimal     string `json:"shortfall_to_optimal"`
	MaxContribution        string `json:"max_contribution"`

	Status        string                `json:"status"`
	FeatureAccess FeatureAccessResponse `json:"feature_access"`

	HasSurplus             bool                     `json:"has_surplus"`
	SurplusRecommendations []RecommendationResponse `json:"surplus_recommendations"`
	Funds                  []FundResponse           `json:"funds"`
}

// FundMutationResponse represents a fund returned alongside the new status.
type FundMutationResponse struct {
	Fund   FundResponse          `json:"fund"`
	Status *ShieldStatusResponse `json:"status"`
}

// FundListResponse represents the response for listing funds.
type FundListResponse struct {
	Funds                []FundResponse `json:"funds"`
	TotalEmergencyShield string         `json:"total_emergency_shield"`
	Status               string         `json:"status"`
}

// ContributionResponse represents one fund history entry.
type ContributionResponse struct {
	ID        string    `json:"id"`
	Amount    string    `json:"amount"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// ContributionListResponse represents a fund's balance history.
type ContributionListResponse struct {
	FundID        string                 `json:"fund_id"`
	Contributions []ContributionResponse `json:"contributions"`
}

// CanDeleteResponse represents the result of a fund deletion check.
type CanDeleteResponse struct {
	FundID    string `json:"fund_id"`
	CanDelete bool   `json:"can_delete"`
	Reason    string `json:"reason,omitempty"`
	Shortfall string `json:"shortfall"`
}

// FeatureCheckResponse represents the answer of the feature gate.
type FeatureCheckResponse struct {
	Feature string `json:"feature"`
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Status  string `json:"status"`
}

// RecommendationListResponse represents ranked surplus recommendations.
type RecommendationListResponse struct {
	Surplus         string                   `json:"surplus"`
	RiskProfile     string                   `json:"risk_profile"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}

// ReallocateSurplusResponse represents the result of a surplus reallocation.
type ReallocateSurplusResponse struct {
	Amount string                `json:"amount"`
	Status *ShieldStatusResponse `json:"status"`
}

// ReallocateInternalResponse represents the result of an internal transfer.
type ReallocateInternalResponse struct {
	From   FundResponse          `json:"from"`
	To     FundResponse          `json:"to"`
	Status *ShieldStatusResponse `json:"status"`
}

// ExplanationResponse represents a plain-language status explanation.
type ExplanationResponse struct {
	Status    string   `json:"status"`
	Summary   string   `json:"summary"`
	NextSteps []string `json:"next_steps"`
	Source    string   `json:"source"`
}

// ToShieldStatusResponse converts a computed status to its DTO.
func ToShieldStatusResponse(s *entity.ShieldStatus) *ShieldStatusResponse {
	if s == nil {
		return nil
	}

	funds := make([]FundResponse, 0, len(s.Funds))
	for _, b := range s.Funds {
		funds = append(funds, ToFundResponse(b))
	}

	return &ShieldStatusResponse{
		MonthlyEssentialExpenses: Money(s.MonthlyEssentialExpenses),
		MonthlyIncome:            Money(s.MonthlyIncome),
		NetBalance:               Money(s.NetBalance),
		AllocatedBalance:         Money(s.AllocatedBalance),
		FreeBalance:              Money(s.FreeBalance),
		EmergencyTarget:          Money(s.EmergencyTarget),
		EmergencyOptimal:         Money(s.EmergencyOptimal),
		TotalEmergencyShield:     Money(s.TotalEmergencyShield),
		CoreEmergency:            Money(s.CoreEmergency),
		SurplusEmergency:         Money(s.SurplusEmergency),
		ProgressPercentage:       Money(s.ProgressPercentage),
		CoreProgressPercentage:   Money(s.CoreProgressPercentage),
		MonthsCovered:            Money(s.MonthsCovered),
		Shortfall:                Money(s.Shortfall),
		ShortfallToOptimal:       Money(s.ShortfallToOptimal),
		MaxContribution:          Money(s.MaxContribution),
		Status:                   string(s.Status),
		FeatureAccess: FeatureAccessResponse{
			CanInvest:                      s.FeatureAccess.CanInvest,
			CanPrepayLoans:                 s.FeatureAccess.CanPrepayLoans,
			CanAllocateToNonEmergencyGoals: s.FeatureAccess.CanAllocateToNonEmergencyGoals,
			Reason:                         s.FeatureAccess.Reason,
		},
		HasSurplus:             s.HasSurplus,
		SurplusRecommendations: ToRecommendationResponses(s.SurplusRecommendations),
		Funds:                  funds,
	}
}

// ToFundResponse converts a fund breakdown to its DTO.
func ToFundResponse(b entity.FundBreakdown) FundResponse {
	f := b.Fund
	return FundResponse{
		ID:                  f.ID.String(),
		Name:                f.Name,
		Type:                string(f.Type),
		TargetAmount:        Money(f.TargetAmount),
		CurrentAmount:       Money(f.CurrentAmount),
		MonthlyContribution: Money(f.MonthlyContribution),
		LastContributionAt:  f.LastContributionAt,
		CoreShare:           Money(b.CoreShare),
		SurplusShare:        Money(b.SurplusShare),
		IsProtected:         b.IsProtected,
		CreatedAt:           f.CreatedAt,
	}
}

// ToFundMutationResponse looks up the fund's share split in the new status.
func ToFundMutationResponse(fund *entity.EmergencyFund, status *entity.ShieldStatus) FundMutationResponse {
	return FundMutationResponse{
		Fund:   fundFromStatus(fund, status),
		Status: ToShieldStatusResponse(status),
	}
}

// ToReallocateInternalResponse converts an internal transfer result to its DTO.
func ToReallocateInternalResponse(output *shield.ReallocateInternalOutput) ReallocateInternalResponse {
	return ReallocateInternalResponse{
		From:   fundFromStatus(output.From, output.Status),
		To:     fundFromStatus(output.To, output.Status),
		Status: ToShieldStatusResponse(output.Status),
	}
}

func fundFromStatus(fund *entity.EmergencyFund, status *entity.ShieldStatus) FundResponse {
	if status != nil {
		if b, ok := status.Breakdown(fund.ID); ok {
			return ToFundResponse(b)
		}
	}
	return ToFundResponse(entity.FundBreakdown{Fund: fund})
}

// ToFundListResponse converts a ListFundsOutput to its DTO.
func ToFundListResponse(output *shield.ListFundsOutput) FundListResponse {
	funds := make([]FundResponse, 0, len(output.Funds))
	for _, b := range output.Funds {
		funds = append(funds, ToFundResponse(b))
	}
	return FundListResponse{
		Funds:                funds,
		TotalEmergencyShield: Money(output.Status.TotalEmergencyShield),
		Status:               string(output.Status.Status),
	}
}

// ToContributionListResponse converts a fund's history to its DTO.
func ToContributionListResponse(output *shield.ListContributionsOutput) ContributionListResponse {
	items := make([]ContributionResponse, 0, len(output.Contributions))
	for _, c := range output.Contributions {
		items = append(items, ContributionResponse{
			ID:        c.ID.String(),
			Amount:    Money(c.Amount),
			Kind:      string(c.Kind),
			CreatedAt: c.CreatedAt,
		})
	}
	return ContributionListResponse{
		FundID:        output.Fund.ID.String(),
		Contributions: items,
	}
}

// ToRecommendationResponses converts ranked recommendations to DTOs.
func ToRecommendationResponses(recs []entity.SurplusRecommendation) []RecommendationResponse {
	items := make([]RecommendationResponse, 0, len(recs))
	for _, r := range recs {
		item := RecommendationResponse{
			Type:                     string(r.Type),
			TargetName:               r.TargetName,
			Amount:                   Money(r.Amount),
			ExpectedReturnRate:       r.ExpectedReturnRate.StringFixed(2),
			ProjectedBenefit:         Money(r.ProjectedBenefit),
			Description:              r.Description,
			CoreAfterReallocation:    Money(r.CoreAfterReallocation),
			SurplusAfterReallocation: Money(r.SurplusAfterReallocation),
			StatusAfter:              string(r.StatusAfter),
		}
		if r.TargetID != nil {
			id := r.TargetID.String()
			item.TargetID = &id
		}
		items = append(items, item)
	}
	return items
}
