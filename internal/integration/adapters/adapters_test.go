package adapters

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/emergency-shield/backend/internal/application/adapter"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

func TestValidatePasswordStrength(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	tests := []struct {
		password string
		wantErr  bool
	}{
		{"abc12345", false},
		{"short1", true},
		{"lettersonly", true},
		{"1234567890", true},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := svc.ValidatePasswordStrength(tt.password)
			if tt.wantErr != (err != nil) {
				t.Fatalf("ValidatePasswordStrength(%q) = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domainerror.ErrWeakPassword) {
				t.Errorf("expected ErrWeakPassword, got %v", err)
			}
		})
	}

	hash, err := svc.HashPassword("abc12345")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if err := svc.VerifyPassword(hash, "abc12345"); err != nil {
		t.Errorf("VerifyPassword rejected the right password: %v", err)
	}
	if err := svc.VerifyPassword(hash, "abc123456"); err == nil {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

type memoryTokens struct {
	valid map[string]bool
}

func (m *memoryTokens) SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	m.valid[token] = true
	return nil
}

func (m *memoryTokens) IsRefreshTokenValid(ctx context.Context, token string) (bool, error) {
	return m.valid[token], nil
}

func (m *memoryTokens) InvalidateRefreshToken(ctx context.Context, token string) error {
	m.valid[token] = false
	return nil
}

func (m *memoryTokens) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func TestTokenService(t *testing.T) {
	repo := &memoryTokens{valid: map[string]bool{}}
	cfg := TokenConfig{Secret: "test-secret", Issuer: "emergency-shield", AccessDuration: time.Minute, RefreshDuration: time.Hour}
	svc := NewTokenService(cfg, repo).(*tokenService)
	ctx := context.Background()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(ctx, userID, "a@example.com", false)
	if err != nil {
		t.Fatalf("GenerateTokenPair returned error: %v", err)
	}
	if pair.ExpiresIn != time.Minute {
		t.Errorf("ExpiresIn = %v, want 1m", pair.ExpiresIn)
	}

	claims, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken returned error: %v", err)
	}
	if claims.UserID != userID || claims.Email != "a@example.com" {
		t.Errorf("unexpected claims %+v", claims)
	}

	if _, err := svc.ValidateAccessToken(ctx, pair.RefreshToken); !errors.Is(err, domainerror.ErrInvalidToken) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
	if _, err := svc.ValidateRefreshToken(ctx, pair.RefreshToken); err != nil {
		t.Errorf("ValidateRefreshToken returned error: %v", err)
	}
	if ok, _ := svc.IsRefreshTokenValid(ctx, pair.RefreshToken); !ok {
		t.Error("refresh token should be recorded")
	}

	other := NewTokenService(TokenConfig{Secret: "other-secret", Issuer: "emergency-shield"}, repo)
	if _, err := other.ValidateAccessToken(ctx, pair.AccessToken); !errors.Is(err, domainerror.ErrInvalidToken) {
		t.Errorf("token signed with another secret accepted: %v", err)
	}

	svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Minute) }
	if _, err := svc.ValidateAccessToken(ctx, pair.AccessToken); !errors.Is(err, domainerror.ErrExpiredToken) {
		t.Errorf("expected expired token, got %v", err)
	}
}

func TestDecodeExplanation(t *testing.T) {
	got, err := decodeExplanation("```json\n{\"summary\": \" You are partly covered. \", \"next_steps\": [\"a\", \" \", \"b\", \"c\", \"d\"]}\n```")
	if err != nil {
		t.Fatalf("decodeExplanation returned error: %v", err)
	}
	if got.Summary != "You are partly covered." {
		t.Errorf("Summary = %q", got.Summary)
	}
	if strings.Join(got.NextSteps, ",") != "a,b,c" {
		t.Errorf("NextSteps = %v, want [a b c]", got.NextSteps)
	}

	for _, bad := range []string{"", "not json", `{"summary": ""}`} {
		if _, err := decodeExplanation(bad); err == nil {
			t.Errorf("decodeExplanation(%q) should fail", bad)
		}
	}
}

func TestGeminiExplainerUnavailableWithoutKey(t *testing.T) {
	explainer := NewGeminiExplainer("", "")
	if explainer.IsAvailable() {
		t.Fatal("explainer without key should be unavailable")
	}
	if _, err := explainer.Explain(context.Background(), adapter.ExplanationRequest{}); err == nil {
		t.Error("Explain without key should fail")
	}
}
