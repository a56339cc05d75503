package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
)

// CreateLoanRequest represents the request body for loan creation.
type CreateLoanRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=100"`
	Principal   decimal.Decimal  `json:"principal"`
	Outstanding *decimal.Decimal `json:"outstanding,omitempty"`
	AnnualRate  decimal.Decimal  `json:"annual_rate"`
}

// LoanResponse represents a single loan in API responses.
type LoanResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Principal       string    `json:"principal"`
	Outstanding     string    `json:"outstanding"`
	AnnualRate      string    `json:"annual_rate"`
	AllocatedAmount string    `json:"allocated_amount"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// LoanListResponse represents the response for listing loans.
type LoanListResponse struct {
	Loans []LoanResponse `json:"loans"`
}

// PrepayLoanResponse represents the response for a loan prepayment.
type PrepayLoanResponse struct {
	Loan           LoanResponse          `json:"loan"`
	AllocationUsed string                `json:"allocation_used"`
	Status         *ShieldStatusResponse `json:"status"`
}

// ToLoanResponse converts a domain Loan entity to a LoanResponse DTO.
func ToLoanResponse(l *entity.Loan) LoanResponse {
	return LoanResponse{
		ID:              l.ID.String(),
		Name:            l.Name,
		Principal:       Money(l.Principal),
		Outstanding:     Money(l.Outstanding),
		AnnualRate:      l.AnnualRate.StringFixed(2),
		AllocatedAmount: Money(l.AllocatedAmount),
		Status:          string(l.Status),
		CreatedAt:       l.CreatedAt,
	}
}

// ToLoanListResponse converts loans to a LoanListResponse DTO.
func ToLoanListResponse(loans []*entity.Loan) LoanListResponse {
	items := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		items = append(items, ToLoanResponse(l))
	}
	return LoanListResponse{Loans: items}
}
