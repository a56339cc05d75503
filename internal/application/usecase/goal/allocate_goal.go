package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/application/usecase/shield"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	vo "github.com/emergency-shield/backend/internal/domain/valueobject"
)

// AllocateGoalInput represents the input for allocating free balance to a goal.
type AllocateGoalInput struct {
	UserID uuid.UUID
	GoalID uuid.UUID
	Amount decimal.Decimal
}

// AllocateGoalOutput represents the output of a goal allocation.
type AllocateGoalOutput struct {
	Goal   *entity.Goal
	Status *entity.ShieldStatus
}

// AllocateGoalUseCase earmarks free balance for a goal. Non-emergency goals
// require the allocate_to_goals feature.
type AllocateGoalUseCase struct {
	mutator *shield.Mutator
}

// NewAllocateGoalUseCase creates a new AllocateGoalUseCase instance.
func NewAllocateGoalUseCase(mutator *shield.Mutator) *AllocateGoalUseCase {
	return &AllocateGoalUseCase{mutator: mutator}
}

// Execute performs the allocation.
func (uc *AllocateGoalUseCase) Execute(ctx context.Context, input AllocateGoalInput) (*AllocateGoalOutput, error) {
	amount := vo.RoundMoney(input.Amount)
	if v := vo.PositiveAmount("amount").Check(amount); v != nil {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeInvalidGoalAmount,
			v.Error(),
			domainerror.ErrInvalidAmount,
		)
	}

	fresh, err := uc.mutator.Run(ctx, input.UserID, "allocate_goal", func(snap *shield.Snapshot, now time.Time) (*entity.ShieldMutation, error) {
		goal, ok := snap.Goal(input.GoalID)
		if !ok {
			return nil, goalNotFound()
		}
		if !goal.IsActive() {
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeGoalNotActive,
				"goal is already completed",
				domainerror.ErrGoalNotActive,
			)
		}
		if !goal.IsEmergency {
			if err := shield.RequireFeature(snap.Status, entity.FeatureAllocateToGoals); err != nil {
				return nil, err
			}
		}
		if amount.GreaterThan(goal.Remaining()) {
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeInvalidGoalAmount,
				fmt.Sprintf("amount exceeds the remaining %s", vo.FormatINR(goal.Remaining())),
				domainerror.ErrInvalidAmount,
			)
		}
		if amount.GreaterThan(snap.Status.FreeBalance) {
			return nil, shield.InsufficientFreeBalance(amount, snap.Status.FreeBalance)
		}

		return &entity.ShieldMutation{
			GoalCredits: []entity.AllocationCredit{{TargetID: goal.ID, Amount: amount}},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	goal, ok := fresh.Goal(input.GoalID)
	if !ok {
		return nil, goalNotFound()
	}

	return &AllocateGoalOutput{
		Goal:   goal,
		Status: fresh.Status,
	}, nil
}
