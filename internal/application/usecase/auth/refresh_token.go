package auth

import (
	"context"
	"fmt"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

type RefreshTokenInput struct {
	RefreshToken string
}

type RefreshTokenOutput = Session

// RefreshTokenUseCase rotates refresh tokens. Each token can be exchanged
// once; replaying it after rotation or logout fails.
type RefreshTokenUseCase struct {
	tokenService adapter.TokenService
}

func NewRefreshTokenUseCase(tokenService adapter.TokenService) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{tokenService: tokenService}
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, input RefreshTokenInput) (*RefreshTokenOutput, error) {
	claims, err := uc.tokenService.ValidateRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, authErr(domainerror.ErrCodeInvalidToken, "invalid or expired refresh token", domainerror.ErrInvalidToken)
	}

	valid, err := uc.tokenService.IsRefreshTokenValid(ctx, input.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check token validity: %w", err)
	}
	if !valid {
		return nil, authErr(domainerror.ErrCodeInvalidToken, "refresh token has been revoked", domainerror.ErrInvalidToken)
	}

	if err := uc.tokenService.InvalidateRefreshToken(ctx, input.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to invalidate old token: %w", err)
	}

	session, err := issueSession(ctx, uc.tokenService, &entity.User{ID: claims.UserID, Email: claims.Email}, false)
	if err != nil {
		return nil, err
	}
	session.User = nil
	return session, nil
}
