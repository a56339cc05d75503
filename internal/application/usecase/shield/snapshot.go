package shield

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/domain/valueobject"
)

// Snapshot is one consistent read of everything a shield decision depends on.
type Snapshot struct {
	Version    int64
	User       *entity.User
	Funds      []*entity.EmergencyFund
	Aggregates entity.LedgerAggregates
	Balance    entity.BalanceSnapshot
	Loans      []*entity.Loan
	Goals      []*entity.Goal
	Status     *entity.ShieldStatus
	Policy     valueobject.ShieldPolicy
}

// Fund returns the snapshot's fund with the given ID.
func (s *Snapshot) Fund(id uuid.UUID) (*entity.EmergencyFund, bool) {
	for _, f := range s.Funds {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Goal returns the snapshot's goal with the given ID.
func (s *Snapshot) Goal(id uuid.UUID) (*entity.Goal, bool) {
	for _, g := range s.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

// Loan returns the snapshot's loan with the given ID.
func (s *Snapshot) Loan(id uuid.UUID) (*entity.Loan, bool) {
	for _, l := range s.Loans {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// SnapshotLoader reads shield snapshots.
type SnapshotLoader struct {
	fundRepo adapter.EmergencyFundRepository
	ledger   adapter.LedgerAggregator
	balance  adapter.BalanceService
	userRepo adapter.UserRepository
	loanRepo adapter.LoanRepository
	goalRepo adapter.GoalRepository
	policy   valueobject.ShieldPolicy
}

// NewSnapshotLoader creates a new SnapshotLoader.
func NewSnapshotLoader(
	fundRepo adapter.EmergencyFundRepository,
	ledger adapter.LedgerAggregator,
	balance adapter.BalanceService,
	userRepo adapter.UserRepository,
	loanRepo adapter.LoanRepository,
	goalRepo adapter.GoalRepository,
	policy valueobject.ShieldPolicy,
) *SnapshotLoader {
	return &SnapshotLoader{
		fundRepo: fundRepo,
		ledger:   ledger,
		balance:  balance,
		userRepo: userRepo,
		loanRepo: loanRepo,
		goalRepo: goalRepo,
		policy:   policy,
	}
}

// Load reads the account version first and then everything else concurrently.
// Any write that lands after the version read bumps the version, so a
// mutation planned from this snapshot fails its version check instead of
// acting on mixed state.
func (l *SnapshotLoader) Load(ctx context.Context, userID uuid.UUID, riskOverride *entity.RiskProfile) (*Snapshot, error) {
	version, err := l.fundRepo.Version(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read shield version: %w", err)
	}

	snap := &Snapshot{Version: version, Policy: l.policy}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := l.userRepo.FindByID(gctx, userID)
		if err != nil {
			if errors.Is(err, domainerror.ErrUserNotFound) {
				return domainerror.NewAuthError(domainerror.ErrCodeUserNotFound, "User not found", err)
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		snap.User = user
		return nil
	})
	g.Go(func() error {
		funds, err := l.fundRepo.FindByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load emergency funds: %w", err)
		}
		snap.Funds = funds
		return nil
	})
	g.Go(func() error {
		agg, err := l.ledger.GetMonthlyEssentials(gctx, userID)
		if err != nil {
			return unavailable("ledger aggregates", err)
		}
		snap.Aggregates = agg
		return nil
	})
	g.Go(func() error {
		bal, err := l.balance.GetUserBalance(gctx, userID)
		if err != nil {
			return unavailable("balance", err)
		}
		snap.Balance = bal
		return nil
	})
	g.Go(func() error {
		loans, err := l.loanRepo.FindByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load loans: %w", err)
		}
		snap.Loans = loans
		return nil
	})
	g.Go(func() error {
		goals, err := l.goalRepo.FindByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load goals: %w", err)
		}
		snap.Goals = goals
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	risk := snap.User.RiskProfile
	if riskOverride != nil {
		risk = *riskOverride
	}
	snap.Status = l.calculate(snap, snap.Funds, snap.Balance, risk)
	return snap, nil
}

func (l *SnapshotLoader) calculate(snap *Snapshot, funds []*entity.EmergencyFund, balance entity.BalanceSnapshot, risk entity.RiskProfile) *entity.ShieldStatus {
	return Calculate(ShieldInput{
		Aggregates:  snap.Aggregates,
		Balance:     balance,
		Funds:       funds,
		Loans:       snap.Loans,
		Goals:       snap.Goals,
		RiskProfile: risk,
		Policy:      l.policy,
	})
}
