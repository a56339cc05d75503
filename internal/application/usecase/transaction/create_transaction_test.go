package transaction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/application/usecase/shield"
	"github.com/emergency-shield/backend/internal/application/usecase/shield/shieldtest"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/domain/valueobject"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateTransaction(t *testing.T) {
	store := shieldtest.NewStore()
	user := store.AddUser(entity.RiskProfileBalanced)
	store.SetEssentials(user.ID, d("20000"), d("50000"))
	store.AddIncome(user.ID, d("60000"))
	store.AddFund(user.ID, "Rainy day", d("50000"))
	loader := shield.NewSnapshotLoader(store.Funds(), store.Ledger(), store.Balance(), store.Users(), store.Loans(), store.Goals(), valueobject.DefaultShieldPolicy())
	uc := NewCreateTransactionUseCase(shield.NewMutator(loader, store.Funds(), shield.DefaultMaxRetries))

	tests := []struct {
		name        string
		input       CreateTransactionInput
		wantCode    domainerror.TransactionErrorCode
		wantType    entity.TransactionType
		wantFree    string
		wantEssense bool
	}{
		{
			name:     "income",
			input:    CreateTransactionInput{Description: "Bonus", Amount: d("5000")},
			wantType: entity.TransactionTypeIncome,
			wantFree: "15000",
		},
		{
			name:        "essential expense",
			input:       CreateTransactionInput{Description: "Rent", Amount: d("-12000"), Essential: true},
			wantType:    entity.TransactionTypeExpense,
			wantFree:    "3000",
			wantEssense: true,
		},
		{
			name:     "expense above free balance",
			input:    CreateTransactionInput{Description: "TV", Amount: d("-3000.01")},
			wantCode: domainerror.ErrCodeExpenseExceedsFree,
		},
		{
			name:     "zero amount",
			input:    CreateTransactionInput{Description: "Nothing", Amount: d("0")},
			wantCode: domainerror.ErrCodeInvalidTransactionAmount,
		},
		{
			name:     "missing description",
			input:    CreateTransactionInput{Amount: d("10")},
			wantCode: domainerror.ErrCodeMissingTransactionFields,
		},
		{
			name:     "description too long",
			input:    CreateTransactionInput{Description: strings.Repeat("a", MaxDescriptionLength+1), Amount: d("10")},
			wantCode: domainerror.ErrCodeDescriptionTooLong,
		},
	}

	// Cases run in order; each successful one changes the free balance.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.UserID = user.ID
			out, err := uc.Execute(context.Background(), tt.input)
			if tt.wantCode != "" {
				var txnErr *domainerror.TransactionError
				if !errors.As(err, &txnErr) {
					t.Fatalf("expected TransactionError, got %v", err)
				}
				if txnErr.Code != tt.wantCode {
					t.Errorf("Code = %s, want %s", txnErr.Code, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Transaction.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", out.Transaction.Type, tt.wantType)
			}
			if out.Transaction.Essential != tt.wantEssense {
				t.Errorf("Essential = %v, want %v", out.Transaction.Essential, tt.wantEssense)
			}
			if !out.Status.FreeBalance.Equal(d(tt.wantFree)) {
				t.Errorf("free = %s, want %s", out.Status.FreeBalance, tt.wantFree)
			}
		})
	}

	list, err := NewListTransactionsUseCase(store.Transactions()).Execute(context.Background(), ListTransactionsInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list.Transactions) != 3 {
		t.Errorf("listed %d transactions, want 3", len(list.Transactions))
	}
}
