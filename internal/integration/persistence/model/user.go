package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/domain/entity"
)

// UserModel is an account holder. RiskProfile drives the ordering of surplus
// recommendations and EmailNotifications gates status-change emails.
type UserModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name               string    `gorm:"type:varchar(100);not null"`
	PasswordHash       string    `gorm:"type:varchar(255);not null"`
	RiskProfile        string    `gorm:"type:varchar(20);not null;default:'balanced'"`
	EmailNotifications bool      `gorm:"not null;default:true"`
	TermsAcceptedAt    time.Time `gorm:"not null"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToEntity() *entity.User {
	u := entity.User{
		ID:                 m.ID,
		Email:              m.Email,
		Name:               m.Name,
		PasswordHash:       m.PasswordHash,
		RiskProfile:        entity.RiskProfile(m.RiskProfile),
		EmailNotifications: m.EmailNotifications,
		TermsAcceptedAt:    m.TermsAcceptedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if !u.RiskProfile.IsValid() {
		u.RiskProfile = entity.RiskProfileBalanced
	}
	return &u
}

func FromEntity(u *entity.User) *UserModel {
	return &UserModel{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		PasswordHash:       u.PasswordHash,
		RiskProfile:        string(u.RiskProfile),
		EmailNotifications: u.EmailNotifications,
		TermsAcceptedAt:    u.TermsAcceptedAt,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
