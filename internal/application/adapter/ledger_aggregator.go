// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/domain/entity"
)

// LedgerAggregator derives monthly averages from the transaction ledger.
type LedgerAggregator interface {
	// GetMonthlyEssentials averages essential expenses and income over the
	// most recent complete calendar months.
	GetMonthlyEssentials(ctx context.Context, userID uuid.UUID) (entity.LedgerAggregates, error)
}

// BalanceService computes a user's balance totals.
type BalanceService interface {
	// GetUserBalance returns the net balance, the amount already allocated to
	// funds, goals and loans, and the difference.
	GetUserBalance(ctx context.Context, userID uuid.UUID) (entity.BalanceSnapshot, error)
}
