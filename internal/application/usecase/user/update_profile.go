package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	vo "github.com/emergency-shield/backend/internal/domain/valueobject"
)

// MaxNameLength is the maximum allowed length for a user's display name.
const MaxNameLength = 100

// UpdateProfileInput represents a partial profile update. Nil fields are left unchanged.
type UpdateProfileInput struct {
	UserID             uuid.UUID
	Name               *string
	RiskProfile        *string
	EmailNotifications *bool
}

// UpdateProfileOutput represents the updated profile.
type UpdateProfileOutput struct {
	User *entity.User
}

// UpdateProfileUseCase changes the user's name, risk profile or notification preference.
type UpdateProfileUseCase struct {
	userRepo adapter.UserRepository
}

// NewUpdateProfileUseCase creates a new UpdateProfileUseCase instance.
func NewUpdateProfileUseCase(userRepo adapter.UserRepository) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userRepo: userRepo}
}

// Execute applies the update.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, userNotFound()
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if v := vo.Validate(vo.FieldCheck{
			Value: name,
			Rules: []vo.FieldRule{vo.Required("name"), vo.MaxLength("name", MaxNameLength)},
		}); v != nil {
			return nil, domainerror.NewAuthError(domainerror.ErrCodeMissingFields, v.Error(), nil)
		}
		user.Name = name
	}

	if input.RiskProfile != nil {
		risk := entity.RiskProfile(*input.RiskProfile)
		if !risk.IsValid() {
			return nil, domainerror.NewAuthError(
				domainerror.ErrCodeInvalidRiskProfile,
				"risk profile must be conservative, balanced or growth",
				domainerror.ErrInvalidRiskProfile,
			)
		}
		user.RiskProfile = risk
	}

	if input.EmailNotifications != nil {
		user.EmailNotifications = *input.EmailNotifications
	}

	user.UpdatedAt = time.Now().UTC()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &UpdateProfileOutput{User: user}, nil
}
