// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/emergency-shield/backend/internal/application/adapter"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/integration/entrypoint/dto"
)

// userIDKey holds the authenticated user's id in the gin context.
const userIDKey = "user_id"

// AuthMiddleware guards every shield route with a bearer access token.
type AuthMiddleware struct {
	tokenService adapter.TokenService
}

func NewAuthMiddleware(tokenService adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService}
}

// Authenticate rejects the request with 401 unless it carries a valid access
// token. Expired tokens get their own error code so clients know to refresh.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, code, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "A bearer access token is required", code)
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			code := domainerror.ErrCodeInvalidToken
			if errors.Is(err, domainerror.ErrExpiredToken) {
				code = domainerror.ErrCodeExpiredToken
			}
			abortUnauthorized(c, "Invalid or expired token", code)
			return
		}

		c.Set(userIDKey, claims.UserID)
		trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String("enduser.id", claims.UserID.String()))
		c.Next()
	}
}

func bearerToken(header string) (string, domainerror.AuthErrorCode, bool) {
	if header == "" {
		return "", domainerror.ErrCodeMissingToken, false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", domainerror.ErrCodeInvalidToken, false
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", domainerror.ErrCodeMissingToken, false
	}
	return token, "", true
}

func abortUnauthorized(c *gin.Context, message string, code domainerror.AuthErrorCode) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: message, Code: string(code)})
}

// GetUserIDFromContext returns the user set by Authenticate.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	id, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := id.(uuid.UUID)
	return userID, ok
}
