package shield

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	vo "github.com/emergency-shield/backend/internal/domain/valueobject"
)

// ReallocateInternalInput represents the input for moving money between funds.
type ReallocateInternalInput struct {
	UserID     uuid.UUID
	FromFundID uuid.UUID
	ToFundID   uuid.UUID
	Amount     decimal.Decimal
}

// ReallocateInternalOutput represents the output of an internal reallocation.
type ReallocateInternalOutput struct {
	From   *entity.EmergencyFund
	To     *entity.EmergencyFund
	Status *entity.ShieldStatus
}

// ReallocateInternalUseCase moves money between two of the user's funds.
type ReallocateInternalUseCase struct {
	mutator *Mutator
}

// NewReallocateInternalUseCase creates a new ReallocateInternalUseCase instance.
func NewReallocateInternalUseCase(mutator *Mutator) *ReallocateInternalUseCase {
	return &ReallocateInternalUseCase{mutator: mutator}
}

// Execute performs the transfer. The shield total is unchanged.
func (uc *ReallocateInternalUseCase) Execute(ctx context.Context, input ReallocateInternalInput) (*ReallocateInternalOutput, error) {
	amount := vo.RoundMoney(input.Amount)
	if v := vo.PositiveAmount("amount").Check(amount); v != nil {
		return nil, validationError(v)
	}
	if input.FromFundID == input.ToFundID {
		return nil, domainerror.NewShieldError(
			domainerror.ErrCodeSameFund,
			domainerror.ShieldErrorValidation,
			"source and destination funds must differ",
			nil,
		)
	}

	fresh, err := uc.mutator.Run(ctx, input.UserID, "reallocate_internal", func(snap *Snapshot, now time.Time) (*entity.ShieldMutation, error) {
		from, ok := snap.Fund(input.FromFundID)
		if !ok {
			return nil, fundNotFound()
		}
		to, ok := snap.Fund(input.ToFundID)
		if !ok {
			return nil, fundNotFound()
		}
		if amount.GreaterThan(from.CurrentAmount) {
			return nil, insufficientFundBalance(amount, from.CurrentAmount)
		}

		return &entity.ShieldMutation{
			FundDeltas: []entity.FundDelta{
				{FundID: from.ID, Amount: amount.Neg()},
				{FundID: to.ID, Amount: amount},
			},
			History: []*entity.FundContribution{
				entity.NewFundContribution(from.ID, input.UserID, amount.Neg(), entity.ContributionKindReallocationOut, now),
				entity.NewFundContribution(to.ID, input.UserID, amount, entity.ContributionKindReallocationIn, now),
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	from, _ := fresh.Fund(input.FromFundID)
	to, _ := fresh.Fund(input.ToFundID)
	return &ReallocateInternalOutput{
		From:   from,
		To:     to,
		Status: fresh.Status,
	}, nil
}
