package shield

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

// DefaultMaxRetries is used when the configured retry count is not positive.
const DefaultMaxRetries = 5

// PlanFunc validates a request against a snapshot and returns the writes to
// apply. It must not have side effects; it may run once per attempt.
type PlanFunc func(snap *Snapshot, now time.Time) (*entity.ShieldMutation, error)

// Mutator runs balance-affecting operations with optimistic concurrency:
// load a snapshot, plan, apply conditional on the snapshot version, retry on
// conflict.
type Mutator struct {
	loader     *SnapshotLoader
	fundRepo   adapter.EmergencyFundRepository
	notifier   adapter.StatusChangeNotifier
	maxRetries int
	now        func() time.Time
	tracer     trace.Tracer
}

// MutatorOption configures a Mutator.
type MutatorOption func(*Mutator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MutatorOption {
	return func(m *Mutator) { m.now = now }
}

// WithNotifier enables status change notifications.
func WithNotifier(n adapter.StatusChangeNotifier) MutatorOption {
	return func(m *Mutator) { m.notifier = n }
}

// NewMutator creates a new Mutator.
func NewMutator(loader *SnapshotLoader, fundRepo adapter.EmergencyFundRepository, maxRetries int, opts ...MutatorOption) *Mutator {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	m := &Mutator{
		loader:     loader,
		fundRepo:   fundRepo,
		maxRetries: maxRetries,
		now:        func() time.Time { return time.Now().UTC() },
		tracer:     otel.Tracer("github.com/emergency-shield/backend/shield"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes plan until it applies cleanly or retries are exhausted, and
// returns a fresh snapshot taken after the write.
func (m *Mutator) Run(ctx context.Context, userID uuid.UUID, operation string, plan PlanFunc) (*Snapshot, error) {
	ctx, span := m.tracer.Start(ctx, "shield.mutate", trace.WithAttributes(
		attribute.String("shield.operation", operation),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	for attempt := 1; attempt <= m.maxRetries; attempt++ {
		err := m.attempt(ctx, userID, plan)
		if err == nil {
			span.SetAttributes(attribute.Int("shield.attempts", attempt))
			fresh, err := m.loader.Load(ctx, userID, nil)
			if err != nil {
				span.RecordError(err)
				return nil, err
			}
			return fresh, nil
		}

		if errors.Is(err, domainerror.ErrConcurrentModification) {
			span.AddEvent("version conflict", trace.WithAttributes(attribute.Int("shield.attempt", attempt)))
			continue
		}

		if errors.Is(err, domainerror.ErrInvariantViolation) {
			slog.ErrorContext(ctx, "Shield invariant violation",
				"operation", operation,
				"user_id", userID,
				"error", err,
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "invariant violation")
			var shieldErr *domainerror.ShieldError
			if errors.As(err, &shieldErr) {
				return nil, err
			}
			return nil, invariantViolation(err)
		}

		span.RecordError(err)
		return nil, err
	}

	slog.WarnContext(ctx, "Shield mutation retries exhausted",
		"operation", operation,
		"user_id", userID,
		"attempts", m.maxRetries,
	)
	span.SetStatus(codes.Error, "retries exhausted")
	return nil, conflict(fmt.Errorf("%w after %d attempts", domainerror.ErrConcurrentModification, m.maxRetries))
}

func (m *Mutator) attempt(ctx context.Context, userID uuid.UUID, plan PlanFunc) error {
	snap, err := m.loader.Load(ctx, userID, nil)
	if err != nil {
		return err
	}

	now := m.now()
	mutation, err := plan(snap, now)
	if err != nil {
		return err
	}
	if mutation == nil || mutation.IsEmpty() {
		return nil
	}
	mutation.At = now

	projected := m.project(snap, mutation)
	if projected.FreeBalance.IsNegative() && projected.FreeBalance.LessThan(snap.Status.FreeBalance) {
		return invariantViolation(fmt.Errorf("%w: free balance would become %s",
			domainerror.ErrInvariantViolation, projected.FreeBalance.StringFixed(2)))
	}

	if m.notifier != nil && snap.User.EmailNotifications && projected.Status != snap.Status.Status {
		if job := m.notifier.StatusChangedJob(snap.User, snap.Status, projected, now); job != nil {
			mutation.Emails = append(mutation.Emails, job)
		}
	}

	return m.fundRepo.Apply(ctx, userID, snap.Version, mutation)
}

// project computes the status the mutation would produce, without the ledger
// aggregates, which only move when a past month closes.
func (m *Mutator) project(snap *Snapshot, mutation *entity.ShieldMutation) *entity.ShieldStatus {
	deleted := make(map[uuid.UUID]bool, len(mutation.DeletedFundIDs))
	for _, id := range mutation.DeletedFundIDs {
		deleted[id] = true
	}
	deltas := make(map[uuid.UUID]decimal.Decimal, len(mutation.FundDeltas))
	for _, d := range mutation.FundDeltas {
		deltas[d.FundID] = deltas[d.FundID].Add(d.Amount)
	}

	balance := snap.Balance
	funds := make([]*entity.EmergencyFund, 0, len(snap.Funds)+len(mutation.NewFunds))
	for _, f := range snap.Funds {
		if deleted[f.ID] {
			balance.AllocatedBalance = balance.AllocatedBalance.Sub(f.CurrentAmount)
			continue
		}
		copied := *f
		if d, ok := deltas[f.ID]; ok {
			copied.CurrentAmount = copied.CurrentAmount.Add(d)
			balance.AllocatedBalance = balance.AllocatedBalance.Add(d)
		}
		funds = append(funds, &copied)
	}
	for _, f := range mutation.NewFunds {
		funds = append(funds, f)
		balance.AllocatedBalance = balance.AllocatedBalance.Add(f.CurrentAmount)
	}
	for _, c := range mutation.GoalCredits {
		balance.AllocatedBalance = balance.AllocatedBalance.Add(c.Amount)
	}
	for _, c := range mutation.LoanCredits {
		balance.AllocatedBalance = balance.AllocatedBalance.Add(c.Amount)
	}
	for _, p := range mutation.LoanPayments {
		balance.AllocatedBalance = balance.AllocatedBalance.Sub(p.AllocationUsed)
	}
	for _, t := range mutation.Transactions {
		balance.NetBalance = balance.NetBalance.Add(t.Amount)
	}
	balance.FreeBalance = balance.NetBalance.Sub(balance.AllocatedBalance)

	return m.loader.calculate(snap, funds, balance, snap.User.RiskProfile)
}
