package loan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/application/usecase/shield"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	vo "github.com/emergency-shield/backend/internal/domain/valueobject"
)

// PrepayLoanInput represents the input for a loan prepayment.
type PrepayLoanInput struct {
	UserID uuid.UUID
	LoanID uuid.UUID
	Amount decimal.Decimal
}

// PrepayLoanOutput represents the output of a loan prepayment.
type PrepayLoanOutput struct {
	Loan           *entity.Loan
	AllocationUsed decimal.Decimal
	Status         *entity.ShieldStatus
}

// PrepayLoanUseCase pays down a loan. Money already earmarked for the loan
// is used first; the rest comes from the free balance.
type PrepayLoanUseCase struct {
	mutator *shield.Mutator
}

// NewPrepayLoanUseCase creates a new PrepayLoanUseCase instance.
func NewPrepayLoanUseCase(mutator *shield.Mutator) *PrepayLoanUseCase {
	return &PrepayLoanUseCase{mutator: mutator}
}

// Execute performs the prepayment, recording it as an expense.
func (uc *PrepayLoanUseCase) Execute(ctx context.Context, input PrepayLoanInput) (*PrepayLoanOutput, error) {
	amount := vo.RoundMoney(input.Amount)
	if v := vo.PositiveAmount("amount").Check(amount); v != nil {
		return nil, domainerror.NewLoanError(domainerror.ErrCodeInvalidLoanAmount, v.Error(), domainerror.ErrInvalidLoanAmount)
	}

	var used decimal.Decimal
	fresh, err := uc.mutator.Run(ctx, input.UserID, "prepay_loan", func(snap *shield.Snapshot, now time.Time) (*entity.ShieldMutation, error) {
		loan, ok := snap.Loan(input.LoanID)
		if !ok {
			return nil, loanNotFound()
		}
		if !loan.IsOpen() {
			return nil, domainerror.NewLoanError(domainerror.ErrCodeLoanClosed, "loan is already repaid", domainerror.ErrLoanClosed)
		}
		if err := shield.RequireFeature(snap.Status, entity.FeaturePrepayLoans); err != nil {
			return nil, err
		}
		if amount.GreaterThan(loan.Outstanding) {
			return nil, domainerror.NewLoanError(
				domainerror.ErrCodePrepaymentExceedsOutstanding,
				fmt.Sprintf("amount exceeds the outstanding %s", vo.FormatINR(loan.Outstanding)),
				domainerror.ErrPrepaymentExceedsOutstanding,
			)
		}

		used = decimal.Min(amount, loan.AllocatedAmount)
		fromFree := amount.Sub(used)
		if fromFree.GreaterThan(snap.Status.FreeBalance) {
			return nil, shield.InsufficientFreeBalance(fromFree, snap.Status.FreeBalance)
		}

		payment := entity.NewTransaction(input.UserID, now, "Loan prepayment: "+loan.Name, amount, entity.TransactionTypeExpense, false, "")
		return &entity.ShieldMutation{
			LoanPayments: []entity.LoanPayment{{LoanID: loan.ID, Amount: amount, AllocationUsed: used}},
			Transactions: []*entity.Transaction{payment},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	loan, ok := fresh.Loan(input.LoanID)
	if !ok {
		return nil, loanNotFound()
	}

	return &PrepayLoanOutput{
		Loan:           loan,
		AllocationUsed: used,
		Status:         fresh.Status,
	}, nil
}

func loanNotFound() *domainerror.LoanError {
	return domainerror.NewLoanError(domainerror.ErrCodeLoanNotFound, "loan not found", domainerror.ErrLoanNotFound)
}
