// Package goal contains goal-related use cases.
package goal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	vo "github.com/emergency-shield/backend/internal/domain/valueobject"
)

// MaxGoalNameLength is the maximum allowed length for goal names.
const MaxGoalNameLength = 100

// CreateGoalInput represents the input for goal creation.
type CreateGoalInput struct {
	UserID       uuid.UUID
	Name         string
	TargetAmount decimal.Decimal
	IsEmergency  bool
	TargetDate   *time.Time // Optional
}

// CreateGoalOutput represents the output of goal creation.
type CreateGoalOutput struct {
	Goal *entity.Goal
}

// CreateGoalUseCase handles goal creation logic.
type CreateGoalUseCase struct {
	goalRepo adapter.GoalRepository
}

// NewCreateGoalUseCase creates a new CreateGoalUseCase instance.
func NewCreateGoalUseCase(goalRepo adapter.GoalRepository) *CreateGoalUseCase {
	return &CreateGoalUseCase{
		goalRepo: goalRepo,
	}
}

// Execute performs the goal creation.
func (uc *CreateGoalUseCase) Execute(ctx context.Context, input CreateGoalInput) (*CreateGoalOutput, error) {
	name := strings.TrimSpace(input.Name)
	target := vo.RoundMoney(input.TargetAmount)

	// Validate name
	if v := vo.Validate(vo.FieldCheck{
		Value: name,
		Rules: []vo.FieldRule{vo.Required("name"), vo.MaxLength("name", MaxGoalNameLength)},
	}); v != nil {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeInvalidGoalName,
			v.Error(),
			domainerror.ErrInvalidGoalName,
		)
	}

	// Validate target amount
	if v := vo.PositiveAmount("target_amount").Check(target); v != nil {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeInvalidGoalTarget,
			v.Error(),
			domainerror.ErrInvalidGoalTarget,
		)
	}

	goal := entity.NewGoal(input.UserID, name, target, input.IsEmergency, input.TargetDate)

	// Save goal to database
	if err := uc.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return &CreateGoalOutput{
		Goal: goal,
	}, nil
}
