// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/emergency-shield/backend/config"
	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/application/usecase/auth"
	"github.com/emergency-shield/backend/internal/application/usecase/goal"
	"github.com/emergency-shield/backend/internal/application/usecase/loan"
	"github.com/emergency-shield/backend/internal/application/usecase/shield"
	"github.com/emergency-shield/backend/internal/application/usecase/transaction"
	"github.com/emergency-shield/backend/internal/application/usecase/user"
	"github.com/emergency-shield/backend/internal/domain/valueobject"
	"github.com/emergency-shield/backend/internal/infra/server/router"
	"github.com/emergency-shield/backend/internal/integration/adapters"
	"github.com/emergency-shield/backend/internal/integration/email"
	"github.com/emergency-shield/backend/internal/integration/entrypoint/controller"
	"github.com/emergency-shield/backend/internal/integration/entrypoint/middleware"
	"github.com/emergency-shield/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config     *config.Config
	DB         *gorm.DB
	Router     *router.Router
	Mutator    *shield.Mutator
	EmailQueue adapter.EmailQueueRepository
}

// Option customises the wiring, mainly for tests.
type Option func(*options)

type options struct {
	redis     *redis.Client
	now       func() time.Time
	explainer adapter.StatusExplainer
}

// WithRedis backs the auth rate limiter with a shared Redis counter.
func WithRedis(client *redis.Client) Option {
	return func(o *options) { o.redis = client }
}

// WithClock overrides the clock used for ledger windows and mutation timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithExplainer replaces the Gemini explainer.
func WithExplainer(explainer adapter.StatusExplainer) Option {
	return func(o *options) { o.explainer = explainer }
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, policy valueobject.ShieldPolicy, opts ...Option) *Injector {
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}
	if o.explainer == nil {
		o.explainer = adapters.NewGeminiExplainer(cfg.Gemini.APIKey, cfg.Gemini.Model)
	}

	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	goalRepo := persistence.NewGoalRepository(db)
	loanRepo := persistence.NewLoanRepository(db)
	fundRepo := persistence.NewEmergencyFundRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)
	ledger := persistence.NewLedgerAggregator(db, cfg.Shield.LedgerLookbackMonths, persistence.WithLedgerClock(o.now))
	balance := persistence.NewBalanceService(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(adapters.TokenConfig{
		Secret:          cfg.JWT.Secret,
		Issuer:          cfg.JWT.Issuer,
		AccessDuration:  cfg.JWT.AccessTokenExpiry,
		RefreshDuration: cfg.JWT.RefreshTokenExpiry,
	}, tokenRepo)

	// Shield core
	loader := shield.NewSnapshotLoader(fundRepo, ledger, balance, userRepo, loanRepo, goalRepo, policy)
	mutator := shield.NewMutator(loader, fundRepo, cfg.Shield.MaxRetries,
		shield.WithClock(o.now),
		shield.WithNotifier(email.NewService(cfg.Email.AppBaseURL)),
	)

	// Create controllers
	healthController := controller.NewHealthController(
		func(ctx context.Context) bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.PingContext(ctx) == nil
		},
		redisHealthChecker(o.redis),
	)

	authController := controller.NewAuthController(
		auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService),
		auth.NewLoginUserUseCase(userRepo, passwordService, tokenService),
		auth.NewRefreshTokenUseCase(tokenService),
		auth.NewLogoutUserUseCase(tokenService),
	)

	userController := controller.NewUserController(
		user.NewGetProfileUseCase(userRepo),
		user.NewUpdateProfileUseCase(userRepo),
	)

	transactionController := controller.NewTransactionController(
		transaction.NewListTransactionsUseCase(transactionRepo),
		transaction.NewCreateTransactionUseCase(mutator),
	)

	goalController := controller.NewGoalController(
		goal.NewListGoalsUseCase(goalRepo),
		goal.NewCreateGoalUseCase(goalRepo),
		goal.NewGetGoalUseCase(goalRepo),
		goal.NewAllocateGoalUseCase(mutator),
	)

	loanController := controller.NewLoanController(
		loan.NewListLoansUseCase(loanRepo),
		loan.NewCreateLoanUseCase(loanRepo),
		loan.NewPrepayLoanUseCase(mutator),
	)

	emergencyShieldController := controller.NewEmergencyShieldController(controller.EmergencyShieldUseCases{
		GetStatus:          shield.NewGetStatusUseCase(loader),
		ExplainStatus:      shield.NewExplainStatusUseCase(loader, o.explainer, cfg.Gemini.Timeout),
		CheckFeatureAccess: shield.NewCheckFeatureAccessUseCase(loader),
		ListFunds:          shield.NewListFundsUseCase(loader),
		CreateFund:         shield.NewCreateFundUseCase(mutator),
		Contribute:         shield.NewContributeUseCase(mutator),
		ListContributions:  shield.NewListContributionsUseCase(fundRepo),
		CanDeleteFund:      shield.NewCanDeleteFundUseCase(loader),
		DeleteFund:         shield.NewDeleteFundUseCase(mutator),
		GetRecommendations: shield.NewGetRecommendationsUseCase(loader),
		ReallocateSurplus:  shield.NewReallocateSurplusUseCase(mutator),
		ReallocateInternal: shield.NewReallocateInternalUseCase(mutator),
	})

	// Create middleware
	var authRateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		maxAttempts := cfg.RateLimit.MaxAttempts
		// Use higher rate limits for E2E/test environments to prevent flaky tests
		if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
			maxAttempts = 1000
		}
		limiterOpts := []middleware.RateLimiterOption{}
		if o.redis != nil {
			limiterOpts = append(limiterOpts, middleware.WithRedis(o.redis))
		}
		authRateLimiter = middleware.NewRateLimiterWithConfig(maxAttempts, cfg.RateLimit.Window, limiterOpts...)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		authController,
		userController,
		transactionController,
		goalController,
		loanController,
		emergencyShieldController,
		authRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:     cfg,
		DB:         db,
		Router:     r,
		Mutator:    mutator,
		EmailQueue: emailQueueRepo,
	}
}

func redisHealthChecker(client *redis.Client) controller.HealthChecker {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) bool {
		return client.Ping(ctx).Err() == nil
	}
}
