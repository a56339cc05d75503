package shield

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

// GetRecommendationsInput represents the input for ranking surplus uses.
type GetRecommendationsInput struct {
	UserID      uuid.UUID
	RiskProfile string // Optional, defaults to the user's profile
}

// GetRecommendationsOutput represents ranked surplus recommendations.
type GetRecommendationsOutput struct {
	Surplus         decimal.Decimal
	RiskProfile     entity.RiskProfile
	Recommendations []entity.SurplusRecommendation
}

// GetRecommendationsUseCase ranks candidate uses of the surplus.
type GetRecommendationsUseCase struct {
	loader *SnapshotLoader
}

// NewGetRecommendationsUseCase creates a new GetRecommendationsUseCase instance.
func NewGetRecommendationsUseCase(loader *SnapshotLoader) *GetRecommendationsUseCase {
	return &GetRecommendationsUseCase{loader: loader}
}

// Execute computes the recommendations.
func (uc *GetRecommendationsUseCase) Execute(ctx context.Context, input GetRecommendationsInput) (*GetRecommendationsOutput, error) {
	var override *entity.RiskProfile
	if input.RiskProfile != "" {
		rp := entity.RiskProfile(input.RiskProfile)
		if !rp.IsValid() {
			return nil, domainerror.NewShieldError(
				domainerror.ErrCodeInvalidShieldRequest,
				domainerror.ShieldErrorValidation,
				"risk_profile must be one of conservative, balanced, growth",
				domainerror.ErrInvalidRiskProfile,
			)
		}
		override = &rp
	}

	snap, err := uc.loader.Load(ctx, input.UserID, override)
	if err != nil {
		return nil, err
	}

	risk := snap.User.RiskProfile
	if override != nil {
		risk = *override
	}

	return &GetRecommendationsOutput{
		Surplus:         snap.Status.SurplusEmergency,
		RiskProfile:     risk,
		Recommendations: snap.Status.SurplusRecommendations,
	}, nil
}
