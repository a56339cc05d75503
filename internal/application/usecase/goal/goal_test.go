package goal

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/application/usecase/shield"
	"github.com/emergency-shield/backend/internal/application/usecase/shield/shieldtest"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/domain/valueobject"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newMutator(store *shieldtest.Store) *shield.Mutator {
	loader := shield.NewSnapshotLoader(store.Funds(), store.Ledger(), store.Balance(), store.Users(), store.Loans(), store.Goals(), valueobject.DefaultShieldPolicy())
	return shield.NewMutator(loader, store.Funds(), shield.DefaultMaxRetries)
}

func TestCreateGoal(t *testing.T) {
	store := shieldtest.NewStore()
	user := store.AddUser(entity.RiskProfileBalanced)
	uc := NewCreateGoalUseCase(store.Goals())

	tests := []struct {
		name     string
		input    CreateGoalInput
		wantCode domainerror.GoalErrorCode
	}{
		{"valid", CreateGoalInput{Name: " Vacation ", TargetAmount: d("50000")}, ""},
		{"empty name", CreateGoalInput{Name: "", TargetAmount: d("50000")}, domainerror.ErrCodeInvalidGoalName},
		{"zero target", CreateGoalInput{Name: "Car", TargetAmount: d("0")}, domainerror.ErrCodeInvalidGoalTarget},
		{"negative target", CreateGoalInput{Name: "Car", TargetAmount: d("-5")}, domainerror.ErrCodeInvalidGoalTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.UserID = user.ID
			out, err := uc.Execute(context.Background(), tt.input)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if out.Goal.Name != "Vacation" || out.Goal.Status != entity.GoalStatusActive {
					t.Errorf("unexpected goal %+v", out.Goal)
				}
				return
			}
			var goalErr *domainerror.GoalError
			if !errors.As(err, &goalErr) {
				t.Fatalf("expected GoalError, got %v", err)
			}
			if goalErr.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", goalErr.Code, tt.wantCode)
			}
		})
	}
}

func TestAllocateGoalIsGatedByStatus(t *testing.T) {
	store := shieldtest.NewStore()
	user := store.AddUser(entity.RiskProfileBalanced)
	store.SetEssentials(user.ID, d("20000"), d("50000"))
	store.AddIncome(user.ID, d("60000"))
	store.AddFund(user.ID, "Rainy day", d("50000"))
	vacation := store.AddGoal(user.ID, "Vacation", d("50000"), false)
	medical := store.AddGoal(user.ID, "Medical reserve", d("5000"), true)
	uc := NewAllocateGoalUseCase(newMutator(store))

	_, err := uc.Execute(context.Background(), AllocateGoalInput{UserID: user.ID, GoalID: vacation.ID, Amount: d("1000")})
	var shieldErr *domainerror.ShieldError
	if !errors.As(err, &shieldErr) || shieldErr.Kind != domainerror.ShieldErrorFeatureLocked {
		t.Fatalf("expected feature_locked, got %v", err)
	}

	out, err := uc.Execute(context.Background(), AllocateGoalInput{UserID: user.ID, GoalID: medical.ID, Amount: d("1000")})
	if err != nil {
		t.Fatalf("emergency goal allocation returned error: %v", err)
	}
	if !out.Goal.AllocatedAmount.Equal(d("1000")) {
		t.Errorf("allocated = %s, want 1000", out.Goal.AllocatedAmount)
	}
	if !out.Status.FreeBalance.Equal(d("9000")) {
		t.Errorf("free = %s, want 9000", out.Status.FreeBalance)
	}
}

func TestAllocateGoal(t *testing.T) {
	store := shieldtest.NewStore()
	user := store.AddUser(entity.RiskProfileBalanced)
	store.SetEssentials(user.ID, d("20000"), d("50000"))
	store.AddIncome(user.ID, d("130000"))
	store.AddFund(user.ID, "Rainy day", d("120000"))
	goal := store.AddGoal(user.ID, "Laptop", d("8000"), false)
	other := store.AddUser(entity.RiskProfileBalanced)
	theirs := store.AddGoal(other.ID, "Theirs", d("8000"), false)
	uc := NewAllocateGoalUseCase(newMutator(store))

	tests := []struct {
		name     string
		goal     *entity.Goal
		amount   string
		wantCode domainerror.GoalErrorCode
	}{
		{"above remaining", goal, "8000.01", domainerror.ErrCodeInvalidGoalAmount},
		{"zero amount", goal, "0", domainerror.ErrCodeInvalidGoalAmount},
		{"another user's goal", theirs, "10", domainerror.ErrCodeGoalNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), AllocateGoalInput{UserID: user.ID, GoalID: tt.goal.ID, Amount: d(tt.amount)})
			var goalErr *domainerror.GoalError
			if !errors.As(err, &goalErr) {
				t.Fatalf("expected GoalError, got %v", err)
			}
			if goalErr.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", goalErr.Code, tt.wantCode)
			}
		})
	}

	out, err := uc.Execute(context.Background(), AllocateGoalInput{UserID: user.ID, GoalID: goal.ID, Amount: d("8000")})
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if out.Goal.Status != entity.GoalStatusCompleted {
		t.Errorf("Status = %s, want completed", out.Goal.Status)
	}
	if !out.Status.FreeBalance.Equal(d("2000")) {
		t.Errorf("free = %s, want 2000", out.Status.FreeBalance)
	}

	_, err = uc.Execute(context.Background(), AllocateGoalInput{UserID: user.ID, GoalID: goal.ID, Amount: d("1")})
	var goalErr *domainerror.GoalError
	if !errors.As(err, &goalErr) || goalErr.Code != domainerror.ErrCodeGoalNotActive {
		t.Errorf("expected goal not active, got %v", err)
	}
}

func TestAllocateGoalAboveFreeBalance(t *testing.T) {
	store := shieldtest.NewStore()
	user := store.AddUser(entity.RiskProfileBalanced)
	store.SetEssentials(user.ID, d("20000"), d("50000"))
	store.AddIncome(user.ID, d("121000"))
	store.AddFund(user.ID, "Rainy day", d("120000"))
	goal := store.AddGoal(user.ID, "Laptop", d("8000"), false)

	_, err := NewAllocateGoalUseCase(newMutator(store)).Execute(context.Background(), AllocateGoalInput{
		UserID: user.ID, GoalID: goal.ID, Amount: d("1000.01"),
	})
	if !errors.Is(err, domainerror.ErrInsufficientFreeBalance) {
		t.Errorf("expected insufficient free balance, got %v", err)
	}
}

func TestGoalQueries(t *testing.T) {
	store := shieldtest.NewStore()
	owner := store.AddUser(entity.RiskProfileBalanced)
	stranger := store.AddUser(entity.RiskProfileBalanced)
	vacation := store.AddGoal(owner.ID, "Vacation", d("50000"), false)
	car := store.AddGoal(owner.ID, "Car", d("20000"), false)
	car.Status = entity.GoalStatusCompleted
	car.AllocatedAmount = d("20000")
	if err := store.Goals().Create(context.Background(), car); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("list totals", func(t *testing.T) {
		out, err := NewListGoalsUseCase(store.Goals()).Execute(context.Background(), ListGoalsInput{UserID: owner.ID})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(out.Goals) != 2 || !out.TotalTarget.Equal(d("70000")) || !out.TotalAllocated.Equal(d("20000")) {
			t.Errorf("got %d goals, target %s, allocated %s", len(out.Goals), out.TotalTarget, out.TotalAllocated)
		}
	})

	t.Run("active only", func(t *testing.T) {
		out, err := NewListGoalsUseCase(store.Goals()).Execute(context.Background(), ListGoalsInput{UserID: owner.ID, ActiveOnly: true})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(out.Goals) != 1 || out.Goals[0].ID != vacation.ID {
			t.Errorf("active goals = %v, want only Vacation", out.Goals)
		}
	})

	t.Run("get hides other users' goals", func(t *testing.T) {
		uc := NewGetGoalUseCase(store.Goals())
		if _, err := uc.Execute(context.Background(), GetGoalInput{UserID: owner.ID, GoalID: vacation.ID}); err != nil {
			t.Fatalf("owner Execute() error = %v", err)
		}
		_, err := uc.Execute(context.Background(), GetGoalInput{UserID: stranger.ID, GoalID: vacation.ID})
		var goalErr *domainerror.GoalError
		if !errors.As(err, &goalErr) || goalErr.Code != domainerror.ErrCodeGoalNotFound {
			t.Errorf("stranger error = %v, want goal not found", err)
		}
	})
}
