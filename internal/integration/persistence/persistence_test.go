package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/integration/persistence/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *entity.User {
	t.Helper()
	u := entity.NewUser(uuid.NewString()+"@example.com", "Test User", "hash", time.Now().UTC())
	if err := NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

var at = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func TestApplyVersionProtocol(t *testing.T) {
	db := newTestDB(t)
	repo := NewEmergencyFundRepository(db)
	ctx := context.Background()
	user := seedUser(t, db)

	version, err := repo.Version(ctx, user.ID)
	if err != nil || version != 0 {
		t.Fatalf("Version = %d, %v; want 0, nil", version, err)
	}

	fund := entity.NewEmergencyFund(user.ID, "Rainy day", entity.FundTypeGeneral, d("60000"), d("1000"), decimal.Zero, at)
	first := &entity.ShieldMutation{NewFunds: []*entity.EmergencyFund{fund}, At: at}
	if err := repo.Apply(ctx, user.ID, 0, first); err != nil {
		t.Fatalf("first Apply returned error: %v", err)
	}

	// A second writer that also read version 0 loses.
	if err := repo.Apply(ctx, user.ID, 0, first); !errors.Is(err, domainerror.ErrConcurrentModification) {
		t.Fatalf("expected concurrent modification, got %v", err)
	}

	deposit := &entity.ShieldMutation{
		FundDeltas: []entity.FundDelta{{FundID: fund.ID, Amount: d("500"), Contributed: true}},
		History:    []*entity.FundContribution{entity.NewFundContribution(fund.ID, user.ID, d("500"), entity.ContributionKindContribution, at)},
		At:         at,
	}
	if err := repo.Apply(ctx, user.ID, 0, deposit); !errors.Is(err, domainerror.ErrConcurrentModification) {
		t.Fatalf("stale version must be rejected, got %v", err)
	}
	if err := repo.Apply(ctx, user.ID, 1, deposit); err != nil {
		t.Fatalf("Apply at version 1 returned error: %v", err)
	}

	version, _ = repo.Version(ctx, user.ID)
	if version != 2 {
		t.Errorf("Version = %d, want 2", version)
	}
	got, err := repo.FindByID(ctx, fund.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if !got.CurrentAmount.Equal(d("1500")) {
		t.Errorf("CurrentAmount = %s, want 1500", got.CurrentAmount)
	}
	if got.LastContributionAt == nil {
		t.Error("LastContributionAt should be set by a contribution")
	}

	history, err := repo.ListContributions(ctx, fund.ID, 10)
	if err != nil || len(history) != 1 {
		t.Fatalf("ListContributions = %d rows, %v; want 1", len(history), err)
	}
}

func TestApplyRollsBackOnOverdraw(t *testing.T) {
	db := newTestDB(t)
	repo := NewEmergencyFundRepository(db)
	ctx := context.Background()
	user := seedUser(t, db)

	a := entity.NewEmergencyFund(user.ID, "A", entity.FundTypeGeneral, d("100"), d("100"), decimal.Zero, at)
	b := entity.NewEmergencyFund(user.ID, "B", entity.FundTypeGeneral, d("100"), d("0"), decimal.Zero, at)
	if err := repo.Apply(ctx, user.ID, 0, &entity.ShieldMutation{NewFunds: []*entity.EmergencyFund{a, b}, At: at}); err != nil {
		t.Fatalf("seed Apply returned error: %v", err)
	}

	move := &entity.ShieldMutation{
		FundDeltas: []entity.FundDelta{
			{FundID: b.ID, Amount: d("150")},
			{FundID: a.ID, Amount: d("-150")},
		},
		At: at,
	}
	if err := repo.Apply(ctx, user.ID, 1, move); !errors.Is(err, domainerror.ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}

	funds, err := repo.FindByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByUserID returned error: %v", err)
	}
	for _, f := range funds {
		want := map[uuid.UUID]string{a.ID: "100", b.ID: "0"}[f.ID]
		if !f.CurrentAmount.Equal(d(want)) {
			t.Errorf("fund %s = %s, want %s after rollback", f.Name, f.CurrentAmount, want)
		}
	}
	if version, _ := repo.Version(ctx, user.ID); version != 1 {
		t.Errorf("Version = %d, want 1 after rollback", version)
	}
}

func TestApplyRejectsOtherUsersFund(t *testing.T) {
	db := newTestDB(t)
	repo := NewEmergencyFundRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db)
	intruder := seedUser(t, db)

	fund := entity.NewEmergencyFund(owner.ID, "Mine", entity.FundTypeGeneral, d("100"), d("100"), decimal.Zero, at)
	if err := repo.Apply(ctx, owner.ID, 0, &entity.ShieldMutation{NewFunds: []*entity.EmergencyFund{fund}, At: at}); err != nil {
		t.Fatalf("seed Apply returned error: %v", err)
	}

	steal := &entity.ShieldMutation{FundDeltas: []entity.FundDelta{{FundID: fund.ID, Amount: d("-50")}}, At: at}
	if err := repo.Apply(ctx, intruder.ID, 0, steal); !errors.Is(err, domainerror.ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestApplyGoalAndLoanWrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewEmergencyFundRepository(db)
	goals := NewGoalRepository(db)
	loans := NewLoanRepository(db)
	ctx := context.Background()
	user := seedUser(t, db)

	goal := entity.NewGoal(user.ID, "Laptop", d("800"), false, nil)
	loan := entity.NewLoan(user.ID, "Card", d("1000"), d("300"), d("36"))
	if err := goals.Create(ctx, goal); err != nil {
		t.Fatalf("Create goal: %v", err)
	}
	if err := loans.Create(ctx, loan); err != nil {
		t.Fatalf("Create loan: %v", err)
	}

	credit := &entity.ShieldMutation{
		GoalCredits: []entity.AllocationCredit{{TargetID: goal.ID, Amount: d("800")}},
		LoanCredits: []entity.AllocationCredit{{TargetID: loan.ID, Amount: d("100")}},
		At:          at,
	}
	if err := repo.Apply(ctx, user.ID, 0, credit); err != nil {
		t.Fatalf("credit Apply returned error: %v", err)
	}

	payment := &entity.ShieldMutation{
		LoanPayments: []entity.LoanPayment{{LoanID: loan.ID, Amount: d("300"), AllocationUsed: d("100")}},
		Transactions: []*entity.Transaction{
			entity.NewTransaction(user.ID, at, "Loan prepayment: Card", d("300"), entity.TransactionTypeExpense, false, ""),
		},
		At: at,
	}
	if err := repo.Apply(ctx, user.ID, 1, payment); err != nil {
		t.Fatalf("payment Apply returned error: %v", err)
	}

	gotGoal, _ := goals.FindByID(ctx, goal.ID)
	if gotGoal.Status != entity.GoalStatusCompleted || !gotGoal.AllocatedAmount.Equal(d("800")) {
		t.Errorf("goal = %s allocated %s, want completed at 800", gotGoal.Status, gotGoal.AllocatedAmount)
	}
	gotLoan, _ := loans.FindByID(ctx, loan.ID)
	if gotLoan.Status != entity.LoanStatusClosed || !gotLoan.Outstanding.IsZero() || !gotLoan.AllocatedAmount.IsZero() {
		t.Errorf("loan = %s outstanding %s allocated %s, want closed with zeros", gotLoan.Status, gotLoan.Outstanding, gotLoan.AllocatedAmount)
	}

	overpay := &entity.ShieldMutation{LoanPayments: []entity.LoanPayment{{LoanID: loan.ID, Amount: d("1")}}, At: at}
	if err := repo.Apply(ctx, user.ID, 2, overpay); !errors.Is(err, domainerror.ErrInvariantViolation) {
		t.Errorf("expected invariant violation paying a closed loan, got %v", err)
	}
}

func TestDeleteFundRemovesHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewEmergencyFundRepository(db)
	ctx := context.Background()
	user := seedUser(t, db)

	fund := entity.NewEmergencyFund(user.ID, "Old", entity.FundTypeHome, d("100"), d("40"), decimal.Zero, at)
	seed := &entity.ShieldMutation{
		NewFunds: []*entity.EmergencyFund{fund},
		History:  []*entity.FundContribution{entity.NewFundContribution(fund.ID, user.ID, d("40"), entity.ContributionKindInitial, at)},
		At:       at,
	}
	if err := repo.Apply(ctx, user.ID, 0, seed); err != nil {
		t.Fatalf("seed Apply returned error: %v", err)
	}

	if err := repo.Apply(ctx, user.ID, 1, &entity.ShieldMutation{DeletedFundIDs: []uuid.UUID{fund.ID}, At: at}); err != nil {
		t.Fatalf("delete Apply returned error: %v", err)
	}
	if _, err := repo.FindByID(ctx, fund.ID); !errors.Is(err, domainerror.ErrFundNotFound) {
		t.Errorf("expected fund not found, got %v", err)
	}
	history, _ := repo.ListContributions(ctx, fund.ID, 0)
	if len(history) != 0 {
		t.Errorf("history rows = %d, want 0", len(history))
	}
}

func TestBalanceService(t *testing.T) {
	db := newTestDB(t)
	repo := NewEmergencyFundRepository(db)
	ctx := context.Background()
	user := seedUser(t, db)
	other := seedUser(t, db)

	goal := entity.NewGoal(user.ID, "Trip", d("5000"), false, nil)
	if err := NewGoalRepository(db).Create(ctx, goal); err != nil {
		t.Fatalf("Create goal: %v", err)
	}
	fund := entity.NewEmergencyFund(user.ID, "Rainy day", entity.FundTypeGeneral, d("60000"), d("50000"), decimal.Zero, at)
	seed := &entity.ShieldMutation{
		NewFunds:    []*entity.EmergencyFund{fund},
		GoalCredits: []entity.AllocationCredit{{TargetID: goal.ID, Amount: d("1250.50")}},
		Transactions: []*entity.Transaction{
			entity.NewTransaction(user.ID, at, "Salary", d("60000"), entity.TransactionTypeIncome, false, ""),
			entity.NewTransaction(user.ID, at, "Rent", d("2000.25"), entity.TransactionTypeExpense, true, ""),
		},
		At: at,
	}
	if err := repo.Apply(ctx, user.ID, 0, seed); err != nil {
		t.Fatalf("seed Apply returned error: %v", err)
	}
	otherSeed := &entity.ShieldMutation{
		Transactions: []*entity.Transaction{entity.NewTransaction(other.ID, at, "Salary", d("999"), entity.TransactionTypeIncome, false, "")},
		At:           at,
	}
	if err := repo.Apply(ctx, other.ID, 0, otherSeed); err != nil {
		t.Fatalf("other seed Apply returned error: %v", err)
	}

	balance, err := NewBalanceService(db).GetUserBalance(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserBalance returned error: %v", err)
	}
	if !balance.NetBalance.Equal(d("57999.75")) {
		t.Errorf("net = %s, want 57999.75", balance.NetBalance)
	}
	if !balance.AllocatedBalance.Equal(d("51250.50")) {
		t.Errorf("allocated = %s, want 51250.50", balance.AllocatedBalance)
	}
	if !balance.FreeBalance.Equal(d("6749.25")) {
		t.Errorf("free = %s, want 6749.25", balance.FreeBalance)
	}
}

func TestLedgerAggregatorUsesCompleteMonths(t *testing.T) {
	db := newTestDB(t)
	repo := NewEmergencyFundRepository(db)
	ctx := context.Background()
	user := seedUser(t, db)

	day := func(month time.Month, dd int) time.Time { return time.Date(2026, month, dd, 0, 0, 0, 0, time.UTC) }
	txn := func(date time.Time, amount string, typ entity.TransactionType, essential bool) *entity.Transaction {
		return entity.NewTransaction(user.ID, date, "entry", decimal.RequireFromString(amount), typ, essential, "")
	}
	seed := &entity.ShieldMutation{
		Transactions: []*entity.Transaction{
			txn(time.Date(2025, time.December, 30, 0, 0, 0, 0, time.UTC), "9999", entity.TransactionTypeExpense, true),
			txn(day(time.January, 5), "20000", entity.TransactionTypeExpense, true),
			txn(day(time.February, 5), "20000", entity.TransactionTypeExpense, true),
			txn(day(time.March, 31), "20000", entity.TransactionTypeExpense, true),
			txn(day(time.February, 10), "5000", entity.TransactionTypeExpense, false),
			txn(day(time.January, 1), "150000", entity.TransactionTypeIncome, false),
			txn(day(time.April, 2), "7777", entity.TransactionTypeExpense, true),
		},
		At: at,
	}
	if err := repo.Apply(ctx, user.ID, 0, seed); err != nil {
		t.Fatalf("seed Apply returned error: %v", err)
	}

	// December and April fall outside the January to March window.
	clock := func() time.Time { return time.Date(2026, time.April, 20, 12, 0, 0, 0, time.UTC) }
	agg, err := NewLedgerAggregator(db, 3, WithLedgerClock(clock)).GetMonthlyEssentials(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetMonthlyEssentials returned error: %v", err)
	}
	if !agg.MonthlyEssentialExpenses.Equal(d("20000")) {
		t.Errorf("essentials = %s, want 20000", agg.MonthlyEssentialExpenses)
	}
	if !agg.MonthlyIncome.Equal(d("50000")) {
		t.Errorf("income = %s, want 50000", agg.MonthlyIncome)
	}
}

func TestEmailQueueRepository(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	repo := NewEmailQueueRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	newJob := func(subject string, created time.Time) *entity.EmailJob {
		return entity.NewEmailJob(user.ID, entity.TemplateShieldStatusChanged, user.Email, user.Name, subject,
			map[string]interface{}{"status_label": "Safe"}, created)
	}

	old := newJob("old", now.AddDate(0, 0, -40))
	old.MarkSent("re_old", now.AddDate(0, 0, -40))
	recent := newJob("recent", now.Add(-time.Hour))
	later := newJob("later", now.Add(time.Hour))
	for _, job := range []*entity.EmailJob{old, recent, later} {
		if err := repo.Create(ctx, job); err != nil {
			t.Fatalf("Create(%s) error = %v", job.Subject, err)
		}
	}

	pending, err := repo.GetPendingJobs(ctx, 10)
	if err != nil || len(pending) != 1 || pending[0].ID != recent.ID {
		t.Fatalf("GetPendingJobs = %d jobs, %v; want only the due job", len(pending), err)
	}

	all, err := repo.GetByUserID(ctx, user.ID)
	if err != nil || len(all) != 3 {
		t.Fatalf("GetByUserID = %d jobs, %v; want 3", len(all), err)
	}

	deleted, err := repo.DeleteOldSentJobs(ctx, 30)
	if err != nil || deleted != 1 {
		t.Fatalf("DeleteOldSentJobs = %d, %v; want 1", deleted, err)
	}
	if _, err := repo.GetByID(ctx, old.ID); !errors.Is(err, domainerror.ErrEmailJobNotFound) {
		t.Errorf("GetByID(old) error = %v, want ErrEmailJobNotFound", err)
	}
}
