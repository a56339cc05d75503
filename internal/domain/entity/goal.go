// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalStatus represents the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
)

// Goal represents a savings goal that money can be allocated to.
type Goal struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	TargetAmount    decimal.Decimal
	AllocatedAmount decimal.Decimal
	IsEmergency     bool
	Status          GoalStatus
	TargetDate      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time // Soft-delete support
}

// NewGoal creates a new active Goal entity.
func NewGoal(userID uuid.UUID, name string, targetAmount decimal.Decimal, isEmergency bool, targetDate *time.Time) *Goal {
	now := time.Now().UTC()

	return &Goal{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            name,
		TargetAmount:    targetAmount,
		AllocatedAmount: decimal.Zero,
		IsEmergency:     isEmergency,
		Status:          GoalStatusActive,
		TargetDate:      targetDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Remaining returns how much is still needed to reach the target.
func (g *Goal) Remaining() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.AllocatedAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsActive reports whether the goal still accepts allocations.
func (g *Goal) IsActive() bool {
	return g.Status == GoalStatusActive
}
