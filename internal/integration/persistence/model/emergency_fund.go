// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
)

// EmergencyFundModel represents the emergency_funds table in the database.
type EmergencyFundModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name                string          `gorm:"type:varchar(100);not null"`
	Type                string          `gorm:"type:varchar(20);not null"`
	TargetAmount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CurrentAmount       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	MonthlyContribution decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	LastContributionAt  *time.Time      `gorm:"type:timestamp"`
	CreatedAt           time.Time       `gorm:"not null"`
	UpdatedAt           time.Time       `gorm:"not null"`
}

// TableName returns the table name for the EmergencyFundModel.
func (EmergencyFundModel) TableName() string {
	return "emergency_funds"
}

// ToEntity converts an EmergencyFundModel to a domain EmergencyFund entity.
func (m *EmergencyFundModel) ToEntity() *entity.EmergencyFund {
	return &entity.EmergencyFund{
		ID:                  m.ID,
		UserID:              m.UserID,
		Name:                m.Name,
		Type:                entity.FundType(m.Type),
		TargetAmount:        m.TargetAmount,
		CurrentAmount:       m.CurrentAmount,
		MonthlyContribution: m.MonthlyContribution,
		LastContributionAt:  m.LastContributionAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// EmergencyFundFromEntity creates an EmergencyFundModel from a domain EmergencyFund entity.
func EmergencyFundFromEntity(fund *entity.EmergencyFund) *EmergencyFundModel {
	return &EmergencyFundModel{
		ID:                  fund.ID,
		UserID:              fund.UserID,
		Name:                fund.Name,
		Type:                string(fund.Type),
		TargetAmount:        fund.TargetAmount,
		CurrentAmount:       fund.CurrentAmount,
		MonthlyContribution: fund.MonthlyContribution,
		LastContributionAt:  fund.LastContributionAt,
		CreatedAt:           fund.CreatedAt,
		UpdatedAt:           fund.UpdatedAt,
	}
}

// FundContributionModel represents the emergency_fund_contributions table.
type FundContributionModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FundID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Kind      string          `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for the FundContributionModel.
func (FundContributionModel) TableName() string {
	return "emergency_fund_contributions"
}

// ToEntity converts a FundContributionModel to a domain FundContribution entity.
func (m *FundContributionModel) ToEntity() *entity.FundContribution {
	return &entity.FundContribution{
		ID:        m.ID,
		FundID:    m.FundID,
		UserID:    m.UserID,
		Amount:    m.Amount,
		Kind:      entity.ContributionKind(m.Kind),
		CreatedAt: m.CreatedAt,
	}
}

// FundContributionFromEntity creates a FundContributionModel from a domain entity.
func FundContributionFromEntity(c *entity.FundContribution) *FundContributionModel {
	return &FundContributionModel{
		ID:        c.ID,
		FundID:    c.FundID,
		UserID:    c.UserID,
		Amount:    c.Amount,
		Kind:      string(c.Kind),
		CreatedAt: c.CreatedAt,
	}
}

// ShieldAccountModel holds the per-user version counter used for optimistic
// concurrency on every balance-affecting write.
type ShieldAccountModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Version   int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the ShieldAccountModel.
func (ShieldAccountModel) TableName() string {
	return "shield_accounts"
}
