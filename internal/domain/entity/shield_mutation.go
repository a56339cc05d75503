// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundDelta is a signed change to one fund's balance.
type FundDelta struct {
	FundID uuid.UUID
	Amount decimal.Decimal
	// Contributed marks deltas that should refresh LastContributionAt.
	Contributed bool
}

// AllocationCredit moves tracked allocation onto a goal or loan.
type AllocationCredit struct {
	TargetID uuid.UUID
	Amount   decimal.Decimal
}

// LoanPayment reduces a loan's outstanding balance, consuming its tracked
// allocation first.
type LoanPayment struct {
	LoanID         uuid.UUID
	Amount         decimal.Decimal
	AllocationUsed decimal.Decimal
}

// ShieldMutation is the complete set of writes for one balance-affecting
// operation. It is applied atomically together with the account version bump.
type ShieldMutation struct {
	NewFunds       []*EmergencyFund
	FundDeltas     []FundDelta
	DeletedFundIDs []uuid.UUID
	GoalCredits    []AllocationCredit
	LoanCredits    []AllocationCredit
	LoanPayments   []LoanPayment
	Transactions   []*Transaction
	History        []*FundContribution
	Emails         []*EmailJob
	At             time.Time
}

// IsEmpty reports whether the mutation carries no writes.
func (m *ShieldMutation) IsEmpty() bool {
	return len(m.NewFunds) == 0 &&
		len(m.FundDeltas) == 0 &&
		len(m.DeletedFundIDs) == 0 &&
		len(m.GoalCredits) == 0 &&
		len(m.LoanCredits) == 0 &&
		len(m.LoanPayments) == 0 &&
		len(m.Transactions) == 0
}
