package shield

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
	vo "github.com/emergency-shield/backend/internal/domain/valueobject"
)

// CanDeleteFundInput represents the input for a deletion check.
type CanDeleteFundInput struct {
	UserID uuid.UUID
	FundID uuid.UUID
}

// CanDeleteFundOutput represents the result of a deletion check.
type CanDeleteFundOutput struct {
	FundID    uuid.UUID
	Allowed   bool
	Reason    string
	Shortfall decimal.Decimal
}

// CanDeleteFundUseCase reports whether a fund can be removed without
// dropping the shield below its target.
type CanDeleteFundUseCase struct {
	loader *SnapshotLoader
}

// NewCanDeleteFundUseCase creates a new CanDeleteFundUseCase instance.
func NewCanDeleteFundUseCase(loader *SnapshotLoader) *CanDeleteFundUseCase {
	return &CanDeleteFundUseCase{loader: loader}
}

// Execute performs the deletion check.
func (uc *CanDeleteFundUseCase) Execute(ctx context.Context, input CanDeleteFundInput) (*CanDeleteFundOutput, error) {
	snap, err := uc.loader.Load(ctx, input.UserID, nil)
	if err != nil {
		return nil, err
	}

	fund, ok := snap.Fund(input.FundID)
	if !ok {
		return nil, fundNotFound()
	}

	decision := evaluateDeletion(snap.Status, fund, snap.Policy.TargetMonths)
	return &CanDeleteFundOutput{
		FundID:    fund.ID,
		Allowed:   decision.allowed,
		Reason:    decision.reason,
		Shortfall: decision.shortfall,
	}, nil
}

type deletionDecision struct {
	allowed   bool
	reason    string
	shortfall decimal.Decimal
}

// evaluateDeletion allows deletion when the fund is entirely surplus or the
// remaining funds still reach the target.
func evaluateDeletion(status *entity.ShieldStatus, fund *entity.EmergencyFund, targetMonths decimal.Decimal) deletionDecision {
	balance := fund.CurrentAmount

	if balance.LessThanOrEqual(status.SurplusEmergency) {
		return deletionDecision{
			allowed:   true,
			reason:    "Fund balance is entirely surplus",
			shortfall: decimal.Zero,
		}
	}

	remaining := status.TotalEmergencyShield.Sub(balance)
	if remaining.GreaterThanOrEqual(status.EmergencyTarget) {
		return deletionDecision{
			allowed:   true,
			reason:    fmt.Sprintf("Remaining funds still cover the %s-month target", targetMonths.String()),
			shortfall: decimal.Zero,
		}
	}

	shortfall := status.EmergencyTarget.Sub(remaining)
	reason := fmt.Sprintf("Deleting this fund would leave the shield %s short of the %s-month target",
		vo.FormatINR(shortfall), targetMonths.String())
	return deletionDecision{
		allowed:   false,
		reason:    reason,
		shortfall: shortfall,
	}
}
