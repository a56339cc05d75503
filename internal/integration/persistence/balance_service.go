// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	"github.com/emergency-shield/backend/internal/integration/persistence/model"
)

type balanceService struct {
	db *gorm.DB
}

// NewBalanceService creates a BalanceService that sums the user's ledger and
// allocations straight from the database.
func NewBalanceService(db *gorm.DB) adapter.BalanceService {
	return &balanceService{db: db}
}

type sumRow struct {
	Total decimal.Decimal
}

// GetUserBalance returns net = Σ transactions and allocated = Σ fund balances
// + Σ goal allocations + Σ loan allocations.
func (s *balanceService) GetUserBalance(ctx context.Context, userID uuid.UUID) (entity.BalanceSnapshot, error) {
	db := s.db.WithContext(ctx)

	net, err := sum(db.Model(&model.TransactionModel{}), "amount", userID)
	if err != nil {
		return entity.BalanceSnapshot{}, err
	}
	funds, err := sum(db.Model(&model.EmergencyFundModel{}), "current_amount", userID)
	if err != nil {
		return entity.BalanceSnapshot{}, err
	}
	goals, err := sum(db.Model(&model.GoalModel{}), "allocated_amount", userID)
	if err != nil {
		return entity.BalanceSnapshot{}, err
	}
	loans, err := sum(db.Model(&model.LoanModel{}), "allocated_amount", userID)
	if err != nil {
		return entity.BalanceSnapshot{}, err
	}

	allocated := funds.Add(goals).Add(loans)
	return entity.BalanceSnapshot{
		NetBalance:       net,
		AllocatedBalance: allocated,
		FreeBalance:      net.Sub(allocated),
	}, nil
}

func sum(query *gorm.DB, column string, userID uuid.UUID) (decimal.Decimal, error) {
	var row sumRow
	err := query.
		Select("COALESCE(SUM("+column+"), 0) AS total").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s: %w", column, err)
	}
	return row.Total.Round(2), nil
}
