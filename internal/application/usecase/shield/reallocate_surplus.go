package shield

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
	vo "github.com/emergency-shield/backend/internal/domain/valueobject"
)

// Reallocation target types.
const (
	TargetTypeGoal = "goal"
	TargetTypeLoan = "loan"
)

// ReallocateSurplusInput represents the input for moving surplus out of a fund.
type ReallocateSurplusInput struct {
	UserID     uuid.UUID
	FromFundID uuid.UUID
	ToTargetID uuid.UUID
	Amount     decimal.Decimal
	TargetType string
}

// ReallocateSurplusOutput represents the output of a surplus reallocation.
type ReallocateSurplusOutput struct {
	Amount decimal.Decimal
	Status *entity.ShieldStatus
}

// ReallocateSurplusUseCase moves a fund's surplus share onto a goal or loan allocation.
type ReallocateSurplusUseCase struct {
	mutator *Mutator
}

// NewReallocateSurplusUseCase creates a new ReallocateSurplusUseCase instance.
func NewReallocateSurplusUseCase(mutator *Mutator) *ReallocateSurplusUseCase {
	return &ReallocateSurplusUseCase{mutator: mutator}
}

// Execute performs the reallocation. The debit is bounded by the fund's
// surplus share, so the core and the allocated balance do not change. The
// credit is bounded by what the target still lacks: a goal's remaining amount
// or the part of a loan's outstanding not yet earmarked.
func (uc *ReallocateSurplusUseCase) Execute(ctx context.Context, input ReallocateSurplusInput) (*ReallocateSurplusOutput, error) {
	amount := vo.RoundMoney(input.Amount)

	// Validate request
	if v := vo.Validate(
		vo.FieldCheck{Value: amount, Rules: []vo.FieldRule{vo.PositiveAmount("amount")}},
		vo.FieldCheck{Value: input.TargetType, Rules: []vo.FieldRule{vo.OneOf("target_type", TargetTypeGoal, TargetTypeLoan)}},
		vo.FieldCheck{Value: input.FromFundID, Rules: []vo.FieldRule{vo.UUID("from_emergency_id")}},
		vo.FieldCheck{Value: input.ToTargetID, Rules: []vo.FieldRule{vo.UUID("to_goal_id")}},
	); v != nil {
		return nil, validationError(v)
	}

	fresh, err := uc.mutator.Run(ctx, input.UserID, "reallocate_surplus", func(snap *Snapshot, now time.Time) (*entity.ShieldMutation, error) {
		fund, ok := snap.Fund(input.FromFundID)
		if !ok {
			return nil, fundNotFound()
		}

		mutation := &entity.ShieldMutation{
			FundDeltas: []entity.FundDelta{{FundID: fund.ID, Amount: amount.Neg()}},
			History: []*entity.FundContribution{
				entity.NewFundContribution(fund.ID, input.UserID, amount.Neg(), entity.ContributionKindSurplusOut, now),
			},
		}
		credit := entity.AllocationCredit{TargetID: input.ToTargetID, Amount: amount}

		switch input.TargetType {
		case TargetTypeGoal:
			goal, ok := snap.Goal(input.ToTargetID)
			if !ok || !goal.IsActive() {
				return nil, targetNotFound(TargetTypeGoal)
			}
			if amount.GreaterThan(goal.Remaining()) {
				return nil, exceedsTargetCapacity(TargetTypeGoal, amount, goal.Remaining())
			}
			mutation.GoalCredits = append(mutation.GoalCredits, credit)
		case TargetTypeLoan:
			loan, ok := snap.Loan(input.ToTargetID)
			if !ok || !loan.IsOpen() {
				return nil, targetNotFound(TargetTypeLoan)
			}
			if amount.GreaterThan(loan.Unallocated()) {
				return nil, exceedsTargetCapacity(TargetTypeLoan, amount, loan.Unallocated())
			}
			mutation.LoanCredits = append(mutation.LoanCredits, credit)
		}

		breakdown, _ := snap.Status.Breakdown(fund.ID)
		if amount.GreaterThan(breakdown.SurplusShare) {
			return nil, exceedsSurplus(amount, breakdown.SurplusShare)
		}

		return mutation, nil
	})
	if err != nil {
		return nil, err
	}

	return &ReallocateSurplusOutput{
		Amount: amount,
		Status: fresh.Status,
	}, nil
}
