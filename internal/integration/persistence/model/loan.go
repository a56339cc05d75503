// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/domain/entity"
)

// LoanModel represents the loans table in the database.
type LoanModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name            string          `gorm:"type:varchar(100);not null"`
	Principal       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Outstanding     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	AnnualRate      decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	AllocatedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Status          string          `gorm:"type:varchar(10);not null;default:'open'"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the LoanModel.
func (LoanModel) TableName() string {
	return "loans"
}

// ToEntity converts a LoanModel to a domain Loan entity.
func (m *LoanModel) ToEntity() *entity.Loan {
	return &entity.Loan{
		ID:              m.ID,
		UserID:          m.UserID,
		Name:            m.Name,
		Principal:       m.Principal,
		Outstanding:     m.Outstanding,
		AnnualRate:      m.AnnualRate,
		AllocatedAmount: m.AllocatedAmount,
		Status:          entity.LoanStatus(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// LoanFromEntity creates a LoanModel from a domain Loan entity.
func LoanFromEntity(loan *entity.Loan) *LoanModel {
	return &LoanModel{
		ID:              loan.ID,
		UserID:          loan.UserID,
		Name:            loan.Name,
		Principal:       loan.Principal,
		Outstanding:     loan.Outstanding,
		AnnualRate:      loan.AnnualRate,
		AllocatedAmount: loan.AllocatedAmount,
		Status:          string(loan.Status),
		CreatedAt:       loan.CreatedAt,
		UpdatedAt:       loan.UpdatedAt,
	}
}
