package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenModel tracks issued refresh tokens so they can be revoked.
// Only a SHA-256 digest of the token is stored.
type RefreshTokenModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TokenHash   string    `gorm:"type:char(64);uniqueIndex;not null"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Invalidated bool      `gorm:"not null;default:false"`
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (RefreshTokenModel) TableName() string { return "refresh_tokens" }
