// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundType represents the purpose of an emergency fund.
type FundType string

const (
	FundTypeMedical FundType = "medical"
	FundTypeJobLoss FundType = "job_loss"
	FundTypeHome    FundType = "home"
	FundTypeVehicle FundType = "vehicle"
	FundTypeGeneral FundType = "general"
)

// FundTypes lists every accepted fund type.
var FundTypes = []FundType{
	FundTypeMedical,
	FundTypeJobLoss,
	FundTypeHome,
	FundTypeVehicle,
	FundTypeGeneral,
}

// IsValid reports whether the fund type is one of the known types.
func (t FundType) IsValid() bool {
	for _, known := range FundTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ContributionKind describes what caused a fund balance change.
type ContributionKind string

const (
	ContributionKindInitial         ContributionKind = "initial"
	ContributionKindContribution    ContributionKind = "contribution"
	ContributionKindReallocationIn  ContributionKind = "reallocation_in"
	ContributionKindReallocationOut ContributionKind = "reallocation_out"
	ContributionKindSurplusOut      ContributionKind = "surplus_out"
)

// EmergencyFund represents a named pool of emergency savings.
type EmergencyFund struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Name                string
	Type                FundType
	TargetAmount        decimal.Decimal
	CurrentAmount       decimal.Decimal
	MonthlyContribution decimal.Decimal
	LastContributionAt  *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewEmergencyFund creates a new EmergencyFund entity.
func NewEmergencyFund(
	userID uuid.UUID,
	name string,
	fundType FundType,
	targetAmount decimal.Decimal,
	initialAmount decimal.Decimal,
	monthlyContribution decimal.Decimal,
	now time.Time,
) *EmergencyFund {
	fund := &EmergencyFund{
		ID:                  uuid.New(),
		UserID:              userID,
		Name:                name,
		Type:                fundType,
		TargetAmount:        targetAmount,
		CurrentAmount:       initialAmount,
		MonthlyContribution: monthlyContribution,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if initialAmount.IsPositive() {
		fund.LastContributionAt = &now
	}
	return fund
}

// IsFunded reports whether the fund has reached its own target.
func (f *EmergencyFund) IsFunded() bool {
	return f.CurrentAmount.GreaterThanOrEqual(f.TargetAmount)
}

// FundContribution is a single entry in a fund's balance history.
type FundContribution struct {
	ID        uuid.UUID
	FundID    uuid.UUID
	UserID    uuid.UUID
	Amount    decimal.Decimal
	Kind      ContributionKind
	CreatedAt time.Time
}

// NewFundContribution creates a history entry for a fund balance change.
func NewFundContribution(fundID, userID uuid.UUID, amount decimal.Decimal, kind ContributionKind, now time.Time) *FundContribution {
	return &FundContribution{
		ID:        uuid.New(),
		FundID:    fundID,
		UserID:    userID,
		Amount:    amount,
		Kind:      kind,
		CreatedAt: now,
	}
}
