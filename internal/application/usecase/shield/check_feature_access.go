package shield

import (
	"context"

	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

// CheckFeatureAccessInput represents the input for a feature gate check.
type CheckFeatureAccessInput struct {
	UserID  uuid.UUID
	Feature string
}

// CheckFeatureAccessOutput represents the result of a feature gate check.
type CheckFeatureAccessOutput struct {
	Feature entity.Feature
	Allowed bool
	Reason  string
	Status  entity.ShieldStatusLevel
}

// CheckFeatureAccessUseCase answers whether the shield allows a feature.
type CheckFeatureAccessUseCase struct {
	loader *SnapshotLoader
}

// NewCheckFeatureAccessUseCase creates a new CheckFeatureAccessUseCase instance.
func NewCheckFeatureAccessUseCase(loader *SnapshotLoader) *CheckFeatureAccessUseCase {
	return &CheckFeatureAccessUseCase{loader: loader}
}

// Execute performs the gate check against a freshly computed status.
func (uc *CheckFeatureAccessUseCase) Execute(ctx context.Context, input CheckFeatureAccessInput) (*CheckFeatureAccessOutput, error) {
	feature := entity.Feature(input.Feature)
	if !feature.IsValid() {
		return nil, domainerror.NewShieldError(
			domainerror.ErrCodeInvalidFeature,
			domainerror.ShieldErrorValidation,
			"feature must be one of invest, prepay_loans, allocate_to_goals",
			domainerror.ErrInvalidFeature,
		)
	}

	snap, err := uc.loader.Load(ctx, input.UserID, nil)
	if err != nil {
		return nil, err
	}

	allowed := snap.Status.FeatureAccess.Allows(feature)
	reason := ""
	if !allowed {
		reason = snap.Status.FeatureAccess.Reason
	}

	return &CheckFeatureAccessOutput{
		Feature: feature,
		Allowed: allowed,
		Reason:  reason,
		Status:  snap.Status.Status,
	}, nil
}

// RequireFeature returns a FeatureLocked error when status denies feature.
func RequireFeature(status *entity.ShieldStatus, feature entity.Feature) error {
	if status.FeatureAccess.Allows(feature) {
		return nil
	}
	return FeatureLocked(string(feature), status.FeatureAccess.Reason)
}
