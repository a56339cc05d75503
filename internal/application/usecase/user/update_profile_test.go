package user

import (
	"context"
	"errors"
	"testing"

	"github.com/emergency-shield/backend/internal/application/usecase/shield/shieldtest"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateProfile(t *testing.T) {
	store := shieldtest.NewStore()
	u := store.AddUser(entity.RiskProfileBalanced)
	uc := NewUpdateProfileUseCase(store.Users())

	tests := []struct {
		name     string
		input    UpdateProfileInput
		wantCode domainerror.AuthErrorCode
		check    func(t *testing.T, got *entity.User)
	}{
		{
			name:  "risk profile",
			input: UpdateProfileInput{RiskProfile: ptr("growth")},
			check: func(t *testing.T, got *entity.User) {
				if got.RiskProfile != entity.RiskProfileGrowth {
					t.Errorf("RiskProfile = %s, want growth", got.RiskProfile)
				}
			},
		},
		{
			name:  "notifications and name",
			input: UpdateProfileInput{Name: ptr("  Asha "), EmailNotifications: ptr(false)},
			check: func(t *testing.T, got *entity.User) {
				if got.Name != "Asha" || got.EmailNotifications {
					t.Errorf("got name %q notifications %v", got.Name, got.EmailNotifications)
				}
				if got.RiskProfile != entity.RiskProfileGrowth {
					t.Error("unset fields must be left unchanged")
				}
			},
		},
		{
			name:     "unknown risk profile",
			input:    UpdateProfileInput{RiskProfile: ptr("yolo")},
			wantCode: domainerror.ErrCodeInvalidRiskProfile,
		},
		{
			name:     "blank name",
			input:    UpdateProfileInput{Name: ptr("   ")},
			wantCode: domainerror.ErrCodeMissingFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.UserID = u.ID
			_, err := uc.Execute(context.Background(), tt.input)
			if tt.wantCode != "" {
				var authErr *domainerror.AuthError
				if !errors.As(err, &authErr) || authErr.Code != tt.wantCode {
					t.Fatalf("expected %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := NewGetProfileUseCase(store.Users()).Execute(context.Background(), GetProfileInput{UserID: u.ID})
			if err != nil {
				t.Fatalf("GetProfile returned error: %v", err)
			}
			tt.check(t, got.User)
		})
	}
}
