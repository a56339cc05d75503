// Package loan contains loan-related use cases.
package loan

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	vo "github.com/emergency-shield/backend/internal/domain/valueobject"
)

// MaxLoanNameLength is the maximum allowed length for loan names.
const MaxLoanNameLength = 100

var maxAnnualRate = decimal.NewFromInt(100)

// CreateLoanInput represents the input for loan creation.
type CreateLoanInput struct {
	UserID      uuid.UUID
	Name        string
	Principal   decimal.Decimal
	Outstanding *decimal.Decimal // Optional, defaults to the principal
	AnnualRate  decimal.Decimal  // Percent
}

// CreateLoanOutput represents the output of loan creation.
type CreateLoanOutput struct {
	Loan *entity.Loan
}

// CreateLoanUseCase handles loan creation logic.
type CreateLoanUseCase struct {
	loanRepo adapter.LoanRepository
}

// NewCreateLoanUseCase creates a new CreateLoanUseCase instance.
func NewCreateLoanUseCase(loanRepo adapter.LoanRepository) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		loanRepo: loanRepo,
	}
}

// Execute performs the loan creation.
func (uc *CreateLoanUseCase) Execute(ctx context.Context, input CreateLoanInput) (*CreateLoanOutput, error) {
	name := strings.TrimSpace(input.Name)
	principal := vo.RoundMoney(input.Principal)
	outstanding := principal
	if input.Outstanding != nil {
		outstanding = vo.RoundMoney(*input.Outstanding)
	}

	if v := vo.Validate(vo.FieldCheck{
		Value: name,
		Rules: []vo.FieldRule{vo.Required("name"), vo.MaxLength("name", MaxLoanNameLength)},
	}); v != nil {
		return nil, domainerror.NewLoanError(domainerror.ErrCodeMissingLoanFields, v.Error(), nil)
	}

	// Validate amounts
	if v := vo.Validate(
		vo.FieldCheck{Value: principal, Rules: []vo.FieldRule{vo.PositiveAmount("principal")}},
		vo.FieldCheck{Value: outstanding, Rules: []vo.FieldRule{vo.NonNegativeAmount("outstanding")}},
	); v != nil {
		return nil, domainerror.NewLoanError(domainerror.ErrCodeInvalidLoanAmount, v.Error(), domainerror.ErrInvalidLoanAmount)
	}
	if outstanding.GreaterThan(principal) {
		return nil, domainerror.NewLoanError(
			domainerror.ErrCodeInvalidLoanAmount,
			"outstanding must not exceed principal",
			domainerror.ErrInvalidLoanAmount,
		)
	}

	// Validate rate
	if input.AnnualRate.IsNegative() || input.AnnualRate.GreaterThan(maxAnnualRate) {
		return nil, domainerror.NewLoanError(
			domainerror.ErrCodeInvalidInterestRate,
			"annual_rate must be between 0 and 100",
			domainerror.ErrInvalidInterestRate,
		)
	}

	loan := entity.NewLoan(input.UserID, name, principal, outstanding, input.AnnualRate)
	if outstanding.IsZero() {
		loan.Status = entity.LoanStatusClosed
	}

	if err := uc.loanRepo.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	return &CreateLoanOutput{
		Loan: loan,
	}, nil
}
