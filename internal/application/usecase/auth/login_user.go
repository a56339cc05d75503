package auth

import (
	"context"

	"github.com/emergency-shield/backend/internal/application/adapter"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

type LoginUserInput struct {
	Email      string
	Password   string
	RememberMe bool
}

type LoginUserOutput = Session

type LoginUserUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
}

func NewLoginUserUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
) *LoginUserUseCase {
	return &LoginUserUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}

// Execute checks the credentials. Unknown emails and wrong passwords fail
// with the same error.
func (uc *LoginUserUseCase) Execute(ctx context.Context, input LoginUserInput) (*LoginUserOutput, error) {
	user, err := uc.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err == nil {
		err = uc.passwordService.VerifyPassword(user.PasswordHash, input.Password)
	}
	if err != nil {
		return nil, authErr(domainerror.ErrCodeInvalidCredentials, "invalid email or password", domainerror.ErrInvalidCredentials)
	}
	return issueSession(ctx, uc.tokenService, user, input.RememberMe)
}
