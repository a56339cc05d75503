package shield

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

// DeleteFundInput represents the input for deleting a fund.
type DeleteFundInput struct {
	UserID uuid.UUID
	FundID uuid.UUID
}

// DeleteFundOutput represents the output of fund deletion.
type DeleteFundOutput struct {
	Status *entity.ShieldStatus
}

// DeleteFundUseCase removes a fund and releases its balance to the free balance.
type DeleteFundUseCase struct {
	mutator *Mutator
}

// NewDeleteFundUseCase creates a new DeleteFundUseCase instance.
func NewDeleteFundUseCase(mutator *Mutator) *DeleteFundUseCase {
	return &DeleteFundUseCase{mutator: mutator}
}

// Execute deletes the fund when the deletion check passes at write time.
func (uc *DeleteFundUseCase) Execute(ctx context.Context, input DeleteFundInput) (*DeleteFundOutput, error) {
	fresh, err := uc.mutator.Run(ctx, input.UserID, "delete_fund", func(snap *Snapshot, now time.Time) (*entity.ShieldMutation, error) {
		fund, ok := snap.Fund(input.FundID)
		if !ok {
			return nil, fundNotFound()
		}

		decision := evaluateDeletion(snap.Status, fund, snap.Policy.TargetMonths)
		if !decision.allowed {
			err := domainerror.NewShieldError(
				domainerror.ErrCodeFundProtected,
				domainerror.ShieldErrorValidation,
				decision.reason,
				domainerror.ErrFundProtected,
			)
			err.Reason = domainerror.ReasonFundProtected
			return nil, err
		}

		return &entity.ShieldMutation{DeletedFundIDs: []uuid.UUID{fund.ID}}, nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteFundOutput{Status: fresh.Status}, nil
}
