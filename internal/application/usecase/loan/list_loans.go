package loan

import (
	"context"

	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
)

// ListLoansInput represents the input for listing loans.
type ListLoansInput struct {
	UserID uuid.UUID
}

// ListLoansOutput represents the output of listing loans.
type ListLoansOutput struct {
	Loans []*entity.Loan
}

// ListLoansUseCase handles listing loans logic.
type ListLoansUseCase struct {
	loanRepo adapter.LoanRepository
}

// NewListLoansUseCase creates a new ListLoansUseCase instance.
func NewListLoansUseCase(loanRepo adapter.LoanRepository) *ListLoansUseCase {
	return &ListLoansUseCase{
		loanRepo: loanRepo,
	}
}

// Execute performs the loan listing.
func (uc *ListLoansUseCase) Execute(ctx context.Context, input ListLoansInput) (*ListLoansOutput, error) {
	loans, err := uc.loanRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if loans == nil {
		loans = []*entity.Loan{}
	}

	return &ListLoansOutput{
		Loans: loans,
	}, nil
}
