// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	"github.com/emergency-shield/backend/internal/integration/persistence/model"
)

// DefaultLookbackMonths is used when the configured lookback is not positive.
const DefaultLookbackMonths = 3

// ledgerAggregator implements adapter.LedgerAggregator over the transactions table.
type ledgerAggregator struct {
	db     *gorm.DB
	months int
	now    func() time.Time
}

// LedgerAggregatorOption configures a ledger aggregator.
type LedgerAggregatorOption func(*ledgerAggregator)

// WithLedgerClock overrides the clock used to pick the lookback window.
func WithLedgerClock(now func() time.Time) LedgerAggregatorOption {
	return func(a *ledgerAggregator) {
		a.now = now
	}
}

// NewLedgerAggregator creates an aggregator averaging over the last
// lookbackMonths complete calendar months.
func NewLedgerAggregator(db *gorm.DB, lookbackMonths int, opts ...LedgerAggregatorOption) adapter.LedgerAggregator {
	if lookbackMonths <= 0 {
		lookbackMonths = DefaultLookbackMonths
	}
	a := &ledgerAggregator{
		db:     db,
		months: lookbackMonths,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetMonthlyEssentials averages essential expenses and income over the
// lookback window. The current, incomplete month is excluded.
func (a *ledgerAggregator) GetMonthlyEssentials(ctx context.Context, userID uuid.UUID) (entity.LedgerAggregates, error) {
	start, end := a.window()

	var totals struct {
		Essentials decimal.Decimal
		Income     decimal.Decimal
	}
	err := a.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? AND essential = ? THEN -amount ELSE 0 END), 0) AS essentials, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income",
			string(entity.TransactionTypeExpense), true, string(entity.TransactionTypeIncome),
		).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Scan(&totals).Error
	if err != nil {
		return entity.LedgerAggregates{}, fmt.Errorf("failed to aggregate ledger: %w", err)
	}

	months := decimal.NewFromInt(int64(a.months))
	return entity.LedgerAggregates{
		MonthlyEssentialExpenses: totals.Essentials.Abs().DivRound(months, 2),
		MonthlyIncome:            totals.Income.DivRound(months, 2),
	}, nil
}

// window returns [first day of the oldest month, first day of the current month).
func (a *ledgerAggregator) window() (time.Time, time.Time) {
	now := a.now().UTC()
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, -a.months, 0), end
}
