package shield

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
	vo "github.com/emergency-shield/backend/internal/domain/valueobject"
)

const maxFundNameLength = 100

var fundTypeOptions = func() []string {
	out := make([]string, 0, len(entity.FundTypes))
	for _, t := range entity.FundTypes {
		out = append(out, string(t))
	}
	return out
}()

// CreateFundInput represents the input for creating an emergency fund.
type CreateFundInput struct {
	UserID              uuid.UUID
	Name                string
	Type                string
	TargetAmount        decimal.Decimal
	InitialAmount       *decimal.Decimal // Optional, defaults to zero
	MonthlyContribution *decimal.Decimal // Optional, defaults to zero
}

// CreateFundOutput represents the output of fund creation.
type CreateFundOutput struct {
	Fund   *entity.EmergencyFund
	Status *entity.ShieldStatus
}

// CreateFundUseCase handles emergency fund creation.
type CreateFundUseCase struct {
	mutator *Mutator
}

// NewCreateFundUseCase creates a new CreateFundUseCase instance.
func NewCreateFundUseCase(mutator *Mutator) *CreateFundUseCase {
	return &CreateFundUseCase{mutator: mutator}
}

// Execute validates the request and creates the fund, seeding it from the
// free balance when an initial amount is given.
func (uc *CreateFundUseCase) Execute(ctx context.Context, input CreateFundInput) (*CreateFundOutput, error) {
	name := strings.TrimSpace(input.Name)
	initial := decimal.Zero
	if input.InitialAmount != nil {
		initial = vo.RoundMoney(*input.InitialAmount)
	}
	monthly := decimal.Zero
	if input.MonthlyContribution != nil {
		monthly = vo.RoundMoney(*input.MonthlyContribution)
	}
	target := vo.RoundMoney(input.TargetAmount)

	// Validate request
	if v := vo.Validate(
		vo.FieldCheck{Value: name, Rules: []vo.FieldRule{vo.Required("name"), vo.MaxLength("name", maxFundNameLength)}},
		vo.FieldCheck{Value: input.Type, Rules: []vo.FieldRule{vo.OneOf("type", fundTypeOptions...)}},
		vo.FieldCheck{Value: target, Rules: []vo.FieldRule{vo.PositiveAmount("target_amount")}},
		vo.FieldCheck{Value: initial, Rules: []vo.FieldRule{vo.NonNegativeAmount("initial_amount")}},
		vo.FieldCheck{Value: monthly, Rules: []vo.FieldRule{vo.NonNegativeAmount("monthly_contribution")}},
	); v != nil {
		return nil, validationError(v)
	}

	var fundID uuid.UUID
	fresh, err := uc.mutator.Run(ctx, input.UserID, "create_fund", func(snap *Snapshot, now time.Time) (*entity.ShieldMutation, error) {
		if initial.GreaterThan(snap.Status.FreeBalance) {
			return nil, InsufficientFreeBalance(initial, snap.Status.FreeBalance)
		}

		fund := entity.NewEmergencyFund(input.UserID, name, entity.FundType(input.Type), target, initial, monthly, now)
		fundID = fund.ID

		mutation := &entity.ShieldMutation{NewFunds: []*entity.EmergencyFund{fund}}
		if initial.IsPositive() {
			mutation.History = append(mutation.History,
				entity.NewFundContribution(fund.ID, input.UserID, initial, entity.ContributionKindInitial, now))
		}
		return mutation, nil
	})
	if err != nil {
		return nil, err
	}

	fund, ok := fresh.Fund(fundID)
	if !ok {
		return nil, fundNotFound()
	}

	return &CreateFundOutput{
		Fund:   fund,
		Status: fresh.Status,
	}, nil
}
