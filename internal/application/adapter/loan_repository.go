// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/domain/entity"
)

// LoanRepository defines the interface for loan persistence operations.
// Allocation and repayment changes are applied through EmergencyFundRepository.Apply.
type LoanRepository interface {
	// Create creates a new loan in the database.
	Create(ctx context.Context, loan *entity.Loan) error

	// FindByID retrieves a loan by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Loan, error)

	// FindByUserID retrieves all loans for a given user.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Loan, error)
}
