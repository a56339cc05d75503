package shield

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
	vo "github.com/emergency-shield/backend/internal/domain/valueobject"
)

// ContributeInput represents the input for contributing to a fund.
type ContributeInput struct {
	UserID uuid.UUID
	FundID uuid.UUID
	Amount decimal.Decimal
}

// ContributeOutput represents the output of a contribution.
type ContributeOutput struct {
	Fund   *entity.EmergencyFund
	Status *entity.ShieldStatus
}

// ContributeUseCase moves free balance into an emergency fund.
type ContributeUseCase struct {
	mutator *Mutator
}

// NewContributeUseCase creates a new ContributeUseCase instance.
func NewContributeUseCase(mutator *Mutator) *ContributeUseCase {
	return &ContributeUseCase{mutator: mutator}
}

// Execute performs the contribution.
func (uc *ContributeUseCase) Execute(ctx context.Context, input ContributeInput) (*ContributeOutput, error) {
	amount := vo.RoundMoney(input.Amount)
	if v := vo.PositiveAmount("amount").Check(amount); v != nil {
		return nil, validationError(v)
	}

	fresh, err := uc.mutator.Run(ctx, input.UserID, "contribute", func(snap *Snapshot, now time.Time) (*entity.ShieldMutation, error) {
		fund, ok := snap.Fund(input.FundID)
		if !ok {
			return nil, fundNotFound()
		}
		if amount.GreaterThan(snap.Status.FreeBalance) {
			return nil, InsufficientFreeBalance(amount, snap.Status.FreeBalance)
		}

		return &entity.ShieldMutation{
			FundDeltas: []entity.FundDelta{{FundID: fund.ID, Amount: amount, Contributed: true}},
			History: []*entity.FundContribution{
				entity.NewFundContribution(fund.ID, input.UserID, amount, entity.ContributionKindContribution, now),
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	fund, ok := fresh.Fund(input.FundID)
	if !ok {
		return nil, fundNotFound()
	}

	return &ContributeOutput{
		Fund:   fund,
		Status: fresh.Status,
	}, nil
}
