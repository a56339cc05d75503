package shield

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

const (
	defaultContributionLimit = 50
	maxContributionLimit     = 200
)

// ListContributionsInput represents the input for listing a fund's history.
type ListContributionsInput struct {
	UserID uuid.UUID
	FundID uuid.UUID
	Limit  int
}

// ListContributionsOutput represents a fund's balance history.
type ListContributionsOutput struct {
	Fund          *entity.EmergencyFund
	Contributions []*entity.FundContribution
}

// ListContributionsUseCase lists the balance history of a fund.
type ListContributionsUseCase struct {
	fundRepo adapter.EmergencyFundRepository
}

// NewListContributionsUseCase creates a new ListContributionsUseCase instance.
func NewListContributionsUseCase(fundRepo adapter.EmergencyFundRepository) *ListContributionsUseCase {
	return &ListContributionsUseCase{fundRepo: fundRepo}
}

// Execute lists the history, newest first.
func (uc *ListContributionsUseCase) Execute(ctx context.Context, input ListContributionsInput) (*ListContributionsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultContributionLimit
	}
	if limit > maxContributionLimit {
		limit = maxContributionLimit
	}

	fund, err := uc.fundRepo.FindByID(ctx, input.FundID)
	if err != nil {
		if errors.Is(err, domainerror.ErrFundNotFound) {
			return nil, fundNotFound()
		}
		return nil, fmt.Errorf("failed to find fund: %w", err)
	}

	// Verify ownership
	if fund.UserID != input.UserID {
		return nil, fundNotFound()
	}

	contributions, err := uc.fundRepo.ListContributions(ctx, fund.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}

	return &ListContributionsOutput{
		Fund:          fund,
		Contributions: contributions,
	}, nil
}
