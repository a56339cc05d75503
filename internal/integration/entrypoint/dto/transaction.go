package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/application/usecase/transaction"
	"github.com/emergency-shield/backend/internal/domain/entity"
)

// CreateTransactionRequest represents the request body for transaction creation.
// Amount is signed: income positive, expenses negative.
type CreateTransactionRequest struct {
	Date        string          `json:"date,omitempty"`
	Description string          `json:"description" binding:"required,min=1,max=255"`
	Amount      decimal.Decimal `json:"amount"`
	Essential   bool            `json:"essential"`
	Notes       string          `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Essential   bool      `json:"essential"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PaginationResponse represents pagination metadata in API responses.
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   PaginationResponse    `json:"pagination"`
}

// CreateTransactionResponse represents the response for transaction creation.
type CreateTransactionResponse struct {
	Transaction TransactionResponse   `json:"transaction"`
	Status      *ShieldStatusResponse `json:"status,omitempty"`
}

// ToTransactionResponse renders a ledger entry with its signed amount.
func ToTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID.String(),
		Date:        t.Date.Format("2006-01-02"),
		Description: t.Description,
		Amount:      Money(t.Amount),
		Type:        string(t.Type),
		Essential:   t.Essential,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
	}
}

// ToTransactionListResponse converts a ListTransactionsOutput to a response DTO.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	items := make([]TransactionResponse, 0, len(output.Transactions))
	for _, t := range output.Transactions {
		items = append(items, ToTransactionResponse(t))
	}
	return TransactionListResponse{
		Transactions: items,
		Pagination: PaginationResponse{
			Page:       output.Pagination.Page,
			Limit:      output.Pagination.Limit,
			Total:      output.Pagination.Total,
			TotalPages: output.Pagination.TotalPages,
		},
	}
}
