// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// RiskProfile represents how much market risk the user accepts for surplus money.
type RiskProfile string

const (
	RiskProfileConservative RiskProfile = "conservative"
	RiskProfileBalanced     RiskProfile = "balanced"
	RiskProfileGrowth       RiskProfile = "growth"
)

// IsValid reports whether the risk profile is known.
func (r RiskProfile) IsValid() bool {
	return r == RiskProfileConservative || r == RiskProfileBalanced || r == RiskProfileGrowth
}

// User represents an account holder.
type User struct {
	ID                 uuid.UUID
	Email              string
	Name               string
	PasswordHash       string
	RiskProfile        RiskProfile
	EmailNotifications bool
	TermsAcceptedAt    time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewUser creates a new User with default values.
func NewUser(email, name, passwordHash string, termsAcceptedAt time.Time) *User {
	now := time.Now().UTC()
	return &User{
		ID:                 uuid.New(),
		Email:              email,
		Name:               name,
		PasswordHash:       passwordHash,
		RiskProfile:        RiskProfileBalanced,
		EmailNotifications: true,
		TermsAcceptedAt:    termsAcceptedAt,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
