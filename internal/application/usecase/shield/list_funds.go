package shield

import (
	"context"

	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/domain/entity"
)

// ListFundsInput represents the input for listing funds.
type ListFundsInput struct {
	UserID uuid.UUID
}

// ListFundsOutput represents the user's funds with their core and surplus split.
type ListFundsOutput struct {
	Funds  []entity.FundBreakdown
	Status *entity.ShieldStatus
}

// ListFundsUseCase lists emergency funds.
type ListFundsUseCase struct {
	loader *SnapshotLoader
}

// NewListFundsUseCase creates a new ListFundsUseCase instance.
func NewListFundsUseCase(loader *SnapshotLoader) *ListFundsUseCase {
	return &ListFundsUseCase{loader: loader}
}

// Execute lists the funds.
func (uc *ListFundsUseCase) Execute(ctx context.Context, input ListFundsInput) (*ListFundsOutput, error) {
	snap, err := uc.loader.Load(ctx, input.UserID, nil)
	if err != nil {
		return nil, err
	}
	return &ListFundsOutput{
		Funds:  snap.Status.Funds,
		Status: snap.Status,
	}, nil
}
