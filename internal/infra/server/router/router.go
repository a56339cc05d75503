// Package router sets up the HTTP routing for the application.
package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/emergency-shield/backend/internal/integration/entrypoint/controller"
	"github.com/emergency-shield/backend/internal/integration/entrypoint/middleware"
)

// Config holds the router settings taken from the server configuration.
type Config struct {
	Environment        string
	ServiceName        string
	CORSAllowedOrigins []string
	TracingEnabled     bool
}

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                    *gin.Engine
	healthController          *controller.HealthController
	authController            *controller.AuthController
	userController            *controller.UserController
	transactionController     *controller.TransactionController
	goalController            *controller.GoalController
	loanController            *controller.LoanController
	emergencyShieldController *controller.EmergencyShieldController
	authRateLimiter           *middleware.RateLimiter
	authMiddleware            *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	userController *controller.UserController,
	transactionController *controller.TransactionController,
	goalController *controller.GoalController,
	loanController *controller.LoanController,
	emergencyShieldController *controller.EmergencyShieldController,
	authRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:          healthController,
		authController:            authController,
		userController:            userController,
		transactionController:     transactionController,
		goalController:            goalController,
		loanController:            loanController,
		emergencyShieldController: emergencyShieldController,
		authRateLimiter:           authRateLimiter,
		authMiddleware:            authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(cfg Config) *gin.Engine {
	switch cfg.Environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.engine.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.engine.Use(middleware.RequestID())
	if cfg.Environment == "development" {
		r.engine.Use(gin.Logger())
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.engine.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	} else {
		slog.Warn("No CORS origins configured; cross-origin requests will be rejected by browsers")
	}

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	r.engine.GET("/api/v1/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	if r.authController != nil {
		auth := v1.Group("/auth")
		if r.authRateLimiter != nil {
			auth.Use(r.authRateLimiter.Middleware())
		}
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authController.Logout)
		}
	}

	if r.authMiddleware == nil {
		return
	}

	protected := v1.Group("")
	protected.Use(r.authMiddleware.Authenticate())

	if r.userController != nil {
		users := protected.Group("/users")
		{
			users.GET("/me", r.userController.GetProfile)
			users.PATCH("/me", r.userController.UpdateProfile)
		}
	}

	if r.transactionController != nil {
		transactions := protected.Group("/transactions")
		{
			transactions.GET("", r.transactionController.List)
			transactions.POST("", r.transactionController.Create)
		}
	}

	if r.goalController != nil {
		goals := protected.Group("/goals")
		{
			goals.GET("", r.goalController.List)
			goals.POST("", r.goalController.Create)
			goals.GET("/:id", r.goalController.Get)
			goals.POST("/:id/allocate", r.goalController.Allocate)
		}
	}

	if r.loanController != nil {
		loans := protected.Group("/loans")
		{
			loans.GET("", r.loanController.List)
			loans.POST("", r.loanController.Create)
			loans.POST("/:id/prepay", r.loanController.Prepay)
		}
	}

	if r.emergencyShieldController != nil {
		es := r.emergencyShieldController
		shield := protected.Group("/emergency-shield")
		{
			shield.GET("/status", es.GetStatus)
			shield.GET("/status/explanation", es.ExplainStatus)
			shield.GET("/feature-access/:feature", es.CheckFeatureAccess)

			shield.GET("/funds", es.ListFunds)
			shield.POST("/funds", es.CreateFund)
			shield.POST("/funds/reallocate-internal", es.ReallocateInternal)
			shield.POST("/funds/:id/contribute", es.Contribute)
			shield.GET("/funds/:id/contributions", es.ListContributions)
			shield.GET("/funds/:id/can-delete", es.CanDeleteFund)
			shield.DELETE("/funds/:id", es.DeleteFund)

			shield.GET("/surplus/recommendations", es.GetRecommendations)
			shield.POST("/surplus/reallocate", es.ReallocateSurplus)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
