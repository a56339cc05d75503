// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanStatus represents whether a loan still has an outstanding balance.
type LoanStatus string

const (
	LoanStatusOpen   LoanStatus = "open"
	LoanStatusClosed LoanStatus = "closed"
)

// Loan represents a debt the user is repaying.
type Loan struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	Principal       decimal.Decimal
	Outstanding     decimal.Decimal
	AnnualRate      decimal.Decimal // Percent, e.g. 18.5
	AllocatedAmount decimal.Decimal // Money earmarked for prepayment
	Status          LoanStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewLoan creates a new open Loan entity.
func NewLoan(userID uuid.UUID, name string, principal, outstanding, annualRate decimal.Decimal) *Loan {
	now := time.Now().UTC()

	return &Loan{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            name,
		Principal:       principal,
		Outstanding:     outstanding,
		AnnualRate:      annualRate,
		AllocatedAmount: decimal.Zero,
		Status:          LoanStatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsOpen reports whether the loan still has a balance to repay.
func (l *Loan) IsOpen() bool {
	return l.Status == LoanStatusOpen && l.Outstanding.IsPositive()
}

// Unallocated is the part of the outstanding balance not yet earmarked for
// prepayment. It never goes below zero.
func (l *Loan) Unallocated() decimal.Decimal {
	return decimal.Max(decimal.Zero, l.Outstanding.Sub(l.AllocatedAmount))
}
