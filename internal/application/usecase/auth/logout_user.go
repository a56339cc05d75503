package auth

import (
	"context"
	"log/slog"

	"github.com/emergency-shield/backend/internal/application/adapter"
)

const logoutMessage = "Successfully logged out"

type LogoutUserInput struct {
	RefreshToken string
}

type LogoutUserOutput struct {
	Message string
}

type LogoutUserUseCase struct {
	tokenService adapter.TokenService
}

func NewLogoutUserUseCase(tokenService adapter.TokenService) *LogoutUserUseCase {
	return &LogoutUserUseCase{tokenService: tokenService}
}

// Execute revokes the refresh token. It never fails, so clients can always
// drop their local session.
func (uc *LogoutUserUseCase) Execute(ctx context.Context, input LogoutUserInput) (*LogoutUserOutput, error) {
	if input.RefreshToken != "" {
		if err := uc.tokenService.InvalidateRefreshToken(ctx, input.RefreshToken); err != nil {
			slog.DebugContext(ctx, "Refresh token revocation failed during logout", "error", err)
		}
	}
	return &LogoutUserOutput{Message: logoutMessage}, nil
}
