// Package auth registers users and manages their token sessions.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

// Session is the token pair handed to a client after it authenticates.
// User is nil when the session comes from a token refresh.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds
	User         *entity.User
}

func issueSession(ctx context.Context, tokens adapter.TokenService, user *entity.User, rememberMe bool) (*Session, error) {
	pair, err := tokens.GenerateTokenPair(ctx, user.ID, user.Email, rememberMe)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
		User:         user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func authErr(code domainerror.AuthErrorCode, msg string, sentinel error) *domainerror.AuthError {
	return domainerror.NewAuthError(code, msg, sentinel)
}
