package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emergency-shield/backend/internal/integration/persistence/model"
)

// TokenRepository stores refresh tokens for rotation and logout.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error
	// IsRefreshTokenValid is true only for a known, unexpired, non-revoked token.
	IsRefreshTokenValid(ctx context.Context, token string) (bool, error)
	InvalidateRefreshToken(ctx context.Context, token string) error
	InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

type tokenRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *tokenRepository) SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Create(&model.RefreshTokenModel{
		ID:        uuid.New(),
		TokenHash: tokenDigest(token),
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: r.now(),
	}).Error
}

func (r *tokenRepository) IsRefreshTokenValid(ctx context.Context, token string) (bool, error) {
	var row model.RefreshTokenModel
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND invalidated = ? AND expires_at > ?", tokenDigest(token), false, r.now()).
		Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (r *tokenRepository) InvalidateRefreshToken(ctx context.Context, token string) error {
	return r.revoke(ctx, "token_hash = ?", tokenDigest(token))
}

func (r *tokenRepository) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	return r.revoke(ctx, "user_id = ?", userID)
}

func (r *tokenRepository) revoke(ctx context.Context, query string, arg any) error {
	return r.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where(query, arg).
		Where("invalidated = ?", false).
		Update("invalidated", true).Error
}
