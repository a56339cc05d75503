package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

type GetGoalInput struct {
	GoalID uuid.UUID
	UserID uuid.UUID
}

type GetGoalOutput struct {
	Goal *entity.Goal
}

type GetGoalUseCase struct {
	goalRepo adapter.GoalRepository
}

func NewGetGoalUseCase(goalRepo adapter.GoalRepository) *GetGoalUseCase {
	return &GetGoalUseCase{goalRepo: goalRepo}
}

// Execute loads a goal owned by the user. Another user's goal is reported
// as not found so ids cannot be probed.
func (uc *GetGoalUseCase) Execute(ctx context.Context, input GetGoalInput) (*GetGoalOutput, error) {
	g, err := findOwnedGoal(ctx, uc.goalRepo, input.UserID, input.GoalID)
	if err != nil {
		return nil, err
	}
	return &GetGoalOutput{Goal: g}, nil
}

func findOwnedGoal(ctx context.Context, repo adapter.GoalRepository, userID, goalID uuid.UUID) (*entity.Goal, error) {
	g, err := repo.FindByID(ctx, goalID)
	switch {
	case errors.Is(err, domainerror.ErrGoalNotFound):
		return nil, goalNotFound()
	case err != nil:
		return nil, fmt.Errorf("failed to find goal: %w", err)
	case g.UserID != userID:
		return nil, goalNotFound()
	}
	return g, nil
}

func goalNotFound() *domainerror.GoalError {
	return domainerror.NewGoalError(domainerror.ErrCodeGoalNotFound, "goal not found", domainerror.ErrGoalNotFound)
}

type ListGoalsInput struct {
	UserID     uuid.UUID
	ActiveOnly bool
}

// ListGoalsOutput carries the goals oldest first, plus the totals across
// the listed goals.
type ListGoalsOutput struct {
	Goals          []*entity.Goal
	TotalTarget    decimal.Decimal
	TotalAllocated decimal.Decimal
}

type ListGoalsUseCase struct {
	goalRepo adapter.GoalRepository
}

func NewListGoalsUseCase(goalRepo adapter.GoalRepository) *ListGoalsUseCase {
	return &ListGoalsUseCase{goalRepo: goalRepo}
}

func (uc *ListGoalsUseCase) Execute(ctx context.Context, input ListGoalsInput) (*ListGoalsOutput, error) {
	goals, err := uc.goalRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	out := &ListGoalsOutput{Goals: make([]*entity.Goal, 0, len(goals))}
	for _, g := range goals {
		if input.ActiveOnly && !g.IsActive() {
			continue
		}
		out.Goals = append(out.Goals, g)
		out.TotalTarget = out.TotalTarget.Add(g.TargetAmount)
		out.TotalAllocated = out.TotalAllocated.Add(g.AllocatedAmount)
	}
	return out, nil
}
