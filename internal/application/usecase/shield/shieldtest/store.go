// Package shieldtest provides an in-memory implementation of the shield
// persistence ports for use case tests. It honours the account version
// protocol, so concurrent callers see the same conflicts a database would
// produce.
package shieldtest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

// ErrInjected is the default error returned by failure hooks.
var ErrInjected = errors.New("injected failure")

type state struct {
	users         map[uuid.UUID]*entity.User
	funds         map[uuid.UUID]*entity.EmergencyFund
	contributions []*entity.FundContribution
	goals         map[uuid.UUID]*entity.Goal
	loans         map[uuid.UUID]*entity.Loan
	transactions  []*entity.Transaction
	emails        []*entity.EmailJob
	versions      map[uuid.UUID]int64
}

func (s *state) clone() *state {
	c := &state{
		users:         make(map[uuid.UUID]*entity.User, len(s.users)),
		funds:         make(map[uuid.UUID]*entity.EmergencyFund, len(s.funds)),
		contributions: append([]*entity.FundContribution(nil), s.contributions...),
		goals:         make(map[uuid.UUID]*entity.Goal, len(s.goals)),
		loans:         make(map[uuid.UUID]*entity.Loan, len(s.loans)),
		transactions:  append([]*entity.Transaction(nil), s.transactions...),
		emails:        append([]*entity.EmailJob(nil), s.emails...),
		versions:      make(map[uuid.UUID]int64, len(s.versions)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.funds {
		copied := *v
		c.funds[k] = &copied
	}
	for k, v := range s.goals {
		copied := *v
		c.goals[k] = &copied
	}
	for k, v := range s.loans {
		copied := *v
		c.loans[k] = &copied
	}
	for k, v := range s.versions {
		c.versions[k] = v
	}
	return c
}

// Store is an in-memory backing for every shield port.
type Store struct {
	mu    sync.Mutex
	state *state

	aggregates map[uuid.UUID]entity.LedgerAggregates

	// LedgerErr and BalanceErr make the collaborators fail when set.
	LedgerErr  error
	BalanceErr error

	// BeforeApply runs before each Apply acquires the lock. Tests use it to
	// interleave a competing write.
	BeforeApply func(userID uuid.UUID)

	applyCalls int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		state: &state{
			users:    map[uuid.UUID]*entity.User{},
			funds:    map[uuid.UUID]*entity.EmergencyFund{},
			goals:    map[uuid.UUID]*entity.Goal{},
			loans:    map[uuid.UUID]*entity.Loan{},
			versions: map[uuid.UUID]int64{},
		},
		aggregates: map[uuid.UUID]entity.LedgerAggregates{},
	}
}

// AddUser stores a user with the given risk profile.
func (s *Store) AddUser(risk entity.RiskProfile) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := entity.NewUser(uuid.NewString()+"@example.com", "Test User", "hash", time.Now().UTC())
	u.RiskProfile = risk
	s.state.users[u.ID] = u
	return u
}

// SetEssentials sets the ledger aggregates returned for a user.
func (s *Store) SetEssentials(userID uuid.UUID, essentials, income decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aggregates[userID] = entity.LedgerAggregates{MonthlyEssentialExpenses: essentials, MonthlyIncome: income}
}

// AddIncome records an income transaction, raising the net balance.
func (s *Store) AddIncome(userID uuid.UUID, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := entity.NewTransaction(userID, time.Now().UTC(), "Salary", amount, entity.TransactionTypeIncome, false, "")
	s.state.transactions = append(s.state.transactions, t)
}

// AddFund stores a fund directly, bypassing the version protocol.
func (s *Store) AddFund(userID uuid.UUID, name string, amount decimal.Decimal) *entity.EmergencyFund {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := entity.NewEmergencyFund(userID, name, entity.FundTypeGeneral, amount.Add(decimal.NewFromInt(1)), amount, decimal.Zero, time.Now().UTC())
	s.state.funds[f.ID] = f
	return f
}

// AddGoal stores a goal directly.
func (s *Store) AddGoal(userID uuid.UUID, name string, target decimal.Decimal, isEmergency bool) *entity.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := entity.NewGoal(userID, name, target, isEmergency, nil)
	s.state.goals[g.ID] = g
	return g
}

// AddLoan stores an open loan directly.
func (s *Store) AddLoan(userID uuid.UUID, name string, outstanding, rate decimal.Decimal) *entity.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := entity.NewLoan(userID, name, outstanding, outstanding, rate)
	s.state.loans[l.ID] = l
	return l
}

// BumpVersion simulates a competing writer.
func (s *Store) BumpVersion(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.versions[userID]++
}

// ApplyCalls returns how many times Apply was attempted.
func (s *Store) ApplyCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyCalls
}

// Emails returns every queued email job.
func (s *Store) Emails() []*entity.EmailJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.EmailJob(nil), s.state.emails...)
}

// Contributions returns the history rows of a fund in insertion order.
func (s *Store) Contributions(fundID uuid.UUID) []*entity.FundContribution {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.FundContribution
	for _, c := range s.state.contributions {
		if c.FundID == fundID {
			out = append(out, c)
		}
	}
	return out
}

// Funds returns the EmergencyFundRepository view.
func (s *Store) Funds() adapter.EmergencyFundRepository { return fundRepo{s} }

// Users returns the UserRepository view.
func (s *Store) Users() adapter.UserRepository { return userRepo{s} }

// Goals returns the GoalRepository view.
func (s *Store) Goals() adapter.GoalRepository { return goalRepo{s} }

// Loans returns the LoanRepository view.
func (s *Store) Loans() adapter.LoanRepository { return loanRepo{s} }

// Transactions returns the TransactionRepository view.
func (s *Store) Transactions() adapter.TransactionRepository { return transactionRepo{s} }

// Ledger returns the LedgerAggregator view.
func (s *Store) Ledger() adapter.LedgerAggregator { return ledger{s} }

// Balance returns the BalanceService view.
func (s *Store) Balance() adapter.BalanceService { return balance{s} }

type fundRepo struct{ s *Store }

func (r fundRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.EmergencyFund, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.EmergencyFund
	for _, f := range r.s.state.funds {
		if f.UserID == userID {
			copied := *f
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r fundRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.EmergencyFund, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.state.funds[id]
	if !ok {
		return nil, domainerror.ErrFundNotFound
	}
	copied := *f
	return &copied, nil
}

func (r fundRepo) ListContributions(ctx context.Context, fundID uuid.UUID, limit int) ([]*entity.FundContribution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.FundContribution
	for i := len(r.s.state.contributions) - 1; i >= 0 && len(out) < limit; i-- {
		if c := r.s.state.contributions[i]; c.FundID == fundID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fundRepo) Version(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.state.versions[userID], nil
}

func (r fundRepo) Apply(ctx context.Context, userID uuid.UUID, expectedVersion int64, m *entity.ShieldMutation) error {
	if hook := r.s.BeforeApply; hook != nil {
		hook(userID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.applyCalls++

	if r.s.state.versions[userID] != expectedVersion {
		return domainerror.ErrConcurrentModification
	}

	next := r.s.state.clone()
	next.versions[userID] = expectedVersion + 1

	for _, f := range m.NewFunds {
		copied := *f
		next.funds[f.ID] = &copied
	}
	for _, d := range m.FundDeltas {
		f, ok := next.funds[d.FundID]
		if !ok || f.UserID != userID {
			return domainerror.ErrInvariantViolation
		}
		updated := f.CurrentAmount.Add(d.Amount)
		if updated.IsNegative() {
			return domainerror.ErrInvariantViolation
		}
		f.CurrentAmount = updated
		f.UpdatedAt = m.At
		if d.Contributed {
			at := m.At
			f.LastContributionAt = &at
		}
	}
	for _, id := range m.DeletedFundIDs {
		f, ok := next.funds[id]
		if !ok || f.UserID != userID {
			return domainerror.ErrInvariantViolation
		}
		delete(next.funds, id)
		kept := next.contributions[:0:0]
		for _, c := range next.contributions {
			if c.FundID != id {
				kept = append(kept, c)
			}
		}
		next.contributions = kept
	}
	for _, c := range m.GoalCredits {
		g, ok := next.goals[c.TargetID]
		if !ok || g.UserID != userID {
			return domainerror.ErrInvariantViolation
		}
		g.AllocatedAmount = g.AllocatedAmount.Add(c.Amount)
		if g.AllocatedAmount.GreaterThanOrEqual(g.TargetAmount) {
			g.Status = entity.GoalStatusCompleted
		}
	}
	for _, c := range m.LoanCredits {
		l, ok := next.loans[c.TargetID]
		if !ok || l.UserID != userID {
			return domainerror.ErrInvariantViolation
		}
		l.AllocatedAmount = l.AllocatedAmount.Add(c.Amount)
	}
	for _, p := range m.LoanPayments {
		l, ok := next.loans[p.LoanID]
		if !ok || l.UserID != userID {
			return domainerror.ErrInvariantViolation
		}
		outstanding := l.Outstanding.Sub(p.Amount)
		allocated := l.AllocatedAmount.Sub(p.AllocationUsed)
		if outstanding.IsNegative() || allocated.IsNegative() {
			return domainerror.ErrInvariantViolation
		}
		l.Outstanding = outstanding
		l.AllocatedAmount = allocated
		if outstanding.IsZero() {
			l.Status = entity.LoanStatusClosed
		}
	}
	next.transactions = append(next.transactions, m.Transactions...)
	next.contributions = append(next.contributions, m.History...)
	next.emails = append(next.emails, m.Emails...)

	r.s.state = next
	return nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.users[user.ID] = user
	return nil
}

func (r userRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.state.users[id]
	if !ok {
		return nil, domainerror.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.state.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r userRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.users[user.ID]; !ok {
		return domainerror.ErrUserNotFound
	}
	copied := *user
	r.s.state.users[user.ID] = &copied
	return nil
}

func (r userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, domainerror.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

type goalRepo struct{ s *Store }

func (r goalRepo) Create(ctx context.Context, goal *entity.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *goal
	r.s.state.goals[goal.ID] = &copied
	return nil
}

func (r goalRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.state.goals[id]
	if !ok {
		return nil, domainerror.ErrGoalNotFound
	}
	copied := *g
	return &copied, nil
}

func (r goalRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Goal
	for _, g := range r.s.state.goals {
		if g.UserID == userID {
			copied := *g
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type loanRepo struct{ s *Store }

func (r loanRepo) Create(ctx context.Context, loan *entity.Loan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *loan
	r.s.state.loans[loan.ID] = &copied
	return nil
}

func (r loanRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.state.loans[id]
	if !ok {
		return nil, domainerror.ErrLoanNotFound
	}
	copied := *l
	return &copied, nil
}

func (r loanRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Loan
	for _, l := range r.s.state.loans {
		if l.UserID == userID {
			copied := *l
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type transactionRepo struct{ s *Store }

func (r transactionRepo) List(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*entity.TransactionListResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Transaction
	for i := len(r.s.state.transactions) - 1; i >= 0; i-- {
		if t := r.s.state.transactions[i]; t.UserID == filter.UserID {
			out = append(out, t)
		}
	}
	return &entity.TransactionListResult{
		Transactions: out,
		Total:        int64(len(out)),
		Page:         1,
		Limit:        len(out),
		TotalPages:   1,
	}, nil
}

func (r transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.state.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domainerror.ErrTransactionNotFound
}

type ledger struct{ s *Store }

func (l ledger) GetMonthlyEssentials(ctx context.Context, userID uuid.UUID) (entity.LedgerAggregates, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if l.s.LedgerErr != nil {
		return entity.LedgerAggregates{}, l.s.LedgerErr
	}
	return l.s.aggregates[userID], nil
}

type balance struct{ s *Store }

func (b balance) GetUserBalance(ctx context.Context, userID uuid.UUID) (entity.BalanceSnapshot, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if b.s.BalanceErr != nil {
		return entity.BalanceSnapshot{}, b.s.BalanceErr
	}

	net := decimal.Zero
	for _, t := range b.s.state.transactions {
		if t.UserID == userID {
			net = net.Add(t.Amount)
		}
	}
	allocated := decimal.Zero
	for _, f := range b.s.state.funds {
		if f.UserID == userID {
			allocated = allocated.Add(f.CurrentAmount)
		}
	}
	for _, g := range b.s.state.goals {
		if g.UserID == userID {
			allocated = allocated.Add(g.AllocatedAmount)
		}
	}
	for _, l := range b.s.state.loans {
		if l.UserID == userID {
			allocated = allocated.Add(l.AllocatedAmount)
		}
	}
	return entity.BalanceSnapshot{
		NetBalance:       net,
		AllocatedBalance: allocated,
		FreeBalance:      net.Sub(allocated),
	}, nil
}
