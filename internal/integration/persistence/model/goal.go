// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emergency-shield/backend/internal/domain/entity"
)

// GoalModel represents the goals table in the database.
type GoalModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name            string          `gorm:"type:varchar(100);not null"`
	TargetAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	AllocatedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	IsEmergency     bool            `gorm:"not null;default:false"`
	Status          string          `gorm:"type:varchar(20);not null;default:'active'"`
	TargetDate      *time.Time      `gorm:"type:date"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the GoalModel.
func (GoalModel) TableName() string {
	return "goals"
}

// ToEntity converts a GoalModel to a domain Goal entity.
func (m *GoalModel) ToEntity() *entity.Goal {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Goal{
		ID:              m.ID,
		UserID:          m.UserID,
		Name:            m.Name,
		TargetAmount:    m.TargetAmount,
		AllocatedAmount: m.AllocatedAmount,
		IsEmergency:     m.IsEmergency,
		Status:          entity.GoalStatus(m.Status),
		TargetDate:      m.TargetDate,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		DeletedAt:       deletedAt,
	}
}

// GoalFromEntity creates a GoalModel from a domain Goal entity.
func GoalFromEntity(goal *entity.Goal) *GoalModel {
	var deletedAt gorm.DeletedAt
	if goal.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *goal.DeletedAt, Valid: true}
	}

	return &GoalModel{
		ID:              goal.ID,
		UserID:          goal.UserID,
		Name:            goal.Name,
		TargetAmount:    goal.TargetAmount,
		AllocatedAmount: goal.AllocatedAmount,
		IsEmergency:     goal.IsEmergency,
		Status:          string(goal.Status),
		TargetDate:      goal.TargetDate,
		CreatedAt:       goal.CreatedAt,
		UpdatedAt:       goal.UpdatedAt,
		DeletedAt:       deletedAt,
	}
}
