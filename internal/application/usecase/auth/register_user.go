package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

type RegisterUserInput struct {
	Email         string
	Name          string
	Password      string
	RiskProfile   string // empty means balanced
	TermsAccepted bool
}

type RegisterUserOutput = Session

// RegisterUserUseCase creates an account and signs it in. New users start
// with email notifications on.
type RegisterUserUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
	now             func() time.Time
}

func NewRegisterUserUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterUserInput) (*RegisterUserOutput, error) {
	email := normalizeEmail(input.Email)
	risk, err := uc.validate(email, input)
	if err != nil {
		return nil, err
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, authErr(domainerror.ErrCodeEmailExists, "email already exists", domainerror.ErrEmailAlreadyExists)
	}

	hash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser(email, strings.TrimSpace(input.Name), hash, uc.now())
	user.RiskProfile = risk
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return issueSession(ctx, uc.tokenService, user, false)
}

func (uc *RegisterUserUseCase) validate(email string, input RegisterUserInput) (entity.RiskProfile, error) {
	if !input.TermsAccepted {
		return "", authErr(domainerror.ErrCodeTermsNotAccepted, "terms of service must be accepted", domainerror.ErrTermsNotAccepted)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", authErr(domainerror.ErrCodeInvalidEmail, "invalid email format", domainerror.ErrInvalidEmail)
	}
	if err := uc.passwordService.ValidatePasswordStrength(input.Password); err != nil {
		return "", authErr(domainerror.ErrCodeWeakPassword, "password does not meet minimum requirements", domainerror.ErrWeakPassword)
	}

	if input.RiskProfile == "" {
		return entity.RiskProfileBalanced, nil
	}
	risk := entity.RiskProfile(input.RiskProfile)
	if !risk.IsValid() {
		return "", authErr(domainerror.ErrCodeInvalidRiskProfile, "risk profile must be conservative, balanced or growth", domainerror.ErrInvalidRiskProfile)
	}
	return risk, nil
}
