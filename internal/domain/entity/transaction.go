package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// Transaction is an entry of the append-only ledger. Amount carries the
// sign: income is positive and expenses are negative, so the net balance is
// a plain sum.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Essential   bool
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTransaction signs amount from the type, whatever sign it was given.
// Only expenses can be essential.
func NewTransaction(
	userID uuid.UUID,
	date time.Time,
	description string,
	amount decimal.Decimal,
	transactionType TransactionType,
	essential bool,
	notes string,
) *Transaction {
	signed := amount.Abs()
	if transactionType == TransactionTypeExpense {
		signed = signed.Neg()
	}

	now := time.Now().UTC()
	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        date,
		Description: description,
		Amount:      signed,
		Type:        transactionType,
		Essential:   essential && transactionType == TransactionTypeExpense,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TransactionListResult is one page of a user's ledger.
type TransactionListResult struct {
	Transactions []*Transaction
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}
