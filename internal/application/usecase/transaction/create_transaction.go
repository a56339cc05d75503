// Package transaction contains transaction-related use cases.
package transaction

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

const (
	// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
	MaxDescriptionLength = 255
	// MaxNotesLength is the maximum allowed length for transaction notes.
	MaxNotesLength = 1000
)

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	UserID      uuid.UUID
	Date        time.Time // Optional, defaults to now
	Description string
	Amount      decimal.Decimal // Positive for income, negative for expenses
	Essential   bool
	Notes       string
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *entity.Transaction
	Status      *entity.ShieldStatus
}

// CreateTransactionUseCase records a ledger entry. Entries change the net
// balance, so they go through the shield mutator and bump the account version.
type CreateTransactionUseCase struct {
	mutator *shield.Mutator
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(mutator *shield.Mutator) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		mutator: mutator,
	}
}

// Execute performs the transaction creation. An expense may not spend money
// that is allocated to funds, goals or loans.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	// Validate description length
	if v := vo.MaxLength("description", MaxDescriptionLength).Check(input.Description); v != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}
	if v := vo.Required("description").Check(input.Description); v != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeMissingTransactionFields,
			v.Error(),
			nil,
		)
	}

	amount := vo.RoundMoney(input.Amount)
	if amount.IsZero() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must not be zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	txnType := entity.TransactionTypeIncome
	if amount.IsNegative() {
		txnType = entity.TransactionTypeExpense
	}

	var created *entity.Transaction
	fresh, err := uc.mutator.Run(ctx, input.UserID, "create_transaction", func(snap *shield.Snapshot, now time.Time) (*entity.ShieldMutation, error) {
		if txnType == entity.TransactionTypeExpense && amount.Abs().GreaterThan(snap.Status.FreeBalance) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeExpenseExceedsFree,
				fmt.Sprintf("expense %s exceeds free balance %s", vo.FormatINR(amount.Abs()), vo.FormatINR(snap.Status.FreeBalance)),
				domainerror.ErrExpenseExceedsFreeBalance,
			)
		}

		date := input.Date
		if date.IsZero() {
			date = now
		}
		created = entity.NewTransaction(input.UserID, date, input.Description, amount, txnType, input.Essential, input.Notes)

		return &entity.ShieldMutation{Transactions: []*entity.Transaction{created}}, nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateTransactionOutput{
		Transaction: created,
		Status:      fresh.Status,
	}, nil
}
