// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/domain/entity"
)

// EmergencyFundRepository defines persistence for emergency funds and the
// per-user shield account version used for optimistic concurrency.
type EmergencyFundRepository interface {
	// FindByUserID retrieves all funds for a user, oldest first.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.EmergencyFund, error)

	// FindByID retrieves a fund by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.EmergencyFund, error)

	// ListContributions retrieves a fund's balance history, newest first.
	ListContributions(ctx context.Context, fundID uuid.UUID, limit int) ([]*entity.FundContribution, error)

	// Version returns the user's shield account version, 0 if none exists yet.
	Version(ctx context.Context, userID uuid.UUID) (int64, error)

	// Apply writes the mutation atomically, conditional on the account still
	// being at expectedVersion. It returns domainerror.ErrConcurrentModification
	// when another writer got there first and domainerror.ErrInvariantViolation
	// when a fund debit would go negative. Nothing is written on error.
	Apply(ctx context.Context, userID uuid.UUID, expectedVersion int64, mutation *entity.ShieldMutation) error
}
