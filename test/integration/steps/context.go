// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emergency-shield/backend/config"
	"github.com/emergency-shield/backend/internal/domain/valueobject"
	"github.com/emergency-shield/backend/internal/infra/dependency"
	"github.com/emergency-shield/backend/internal/infra/server/router"
	"github.com/emergency-shield/backend/internal/integration/persistence/model"
	"github.com/emergency-shield/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// Scenarios run against a fixed mid-month instant so that the ledger window
// always covers January to March 2026.
var defaultNow = time.Date(2026, time.April, 15, 10, 0, 0, 0, time.UTC)

type testContext struct {
	uri          string
	headers      map[string]string
	client       *http.Client
	response     *response
	db           *mock.Db
	resendMock   *mock.ApiMock
	accessToken  string
	refreshToken string
	userID       uuid.UUID
	ids          map[string]uuid.UUID
}

type response struct {
	status int
	body   any
}

var (
	serverInit sync.Once
	serverURI  string
	testDB     *mock.Db
	clock      = mock.NewTime()
	resendAPI  = mock.NewApiServer()
	resendInit sync.Once
)

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		testDB = mock.NewDb(model.All()...)
		resendInit.Do(resendAPI.Start)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		client:     &http.Client{Timeout: 10 * time.Second},
		resendMock: resendAPI,
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^the current date is "([^"]*)"$`, test.theCurrentDateIs)

	registerAuthSteps(ctx, test)
	registerHTTPSteps(ctx, test)
	registerShieldSteps(ctx, test)
	registerDBSteps(ctx, test)
	registerEmailSteps(ctx, test)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.refreshToken = ""
	t.userID = uuid.Nil
	t.ids = make(map[string]uuid.UUID)
	t.db = testDB

	clock.SetCurrentTime(defaultNow)
	t.resendMock.Reset()

	if err := mock.ClearRedis(mock.NewRedis()); err != nil {
		return fmt.Errorf("failed to clear redis: %w", err)
	}
	if t.db != nil {
		return t.db.ClearDB()
	}
	return nil
}

func (t *testContext) theAPIServerIsRunning() error {
	if err := t.startServer(); err != nil {
		return err
	}
	t.uri = serverURI
	return nil
}

func (t *testContext) theCurrentDateIs(date string) error {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	clock.SetCurrentTime(parsed.Add(10 * time.Hour))
	return nil
}

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.Server.CORSAllowedOrigins = []string{"http://localhost:5173"}
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.Issuer = testIssuer
	cfg.RateLimit.Enabled = true
	cfg.Shield.MaxRetries = 3
	cfg.Shield.LedgerLookbackMonths = 3
	cfg.Email.AppBaseURL = "https://app.example.com"
	cfg.Gemini.APIKey = ""
	cfg.Telemetry.Enabled = false
	return cfg
}

func (t *testContext) startServer() error {
	var startErr error
	serverInit.Do(func() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			startErr = err
			return
		}

		cfg := testConfig()
		injector := dependency.NewInjector(cfg, testDB.DbConn, valueobject.DefaultShieldPolicy(),
			dependency.WithRedis(mock.NewRedis()),
			dependency.WithClock(clock.Now),
		)
		engine := injector.Router.Setup(router.Config{
			Environment:        cfg.Server.Environment,
			ServiceName:        "emergency-shield-test",
			CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		})

		serverURI = "http://" + listener.Addr().String()
		go func() {
			_ = http.Serve(listener, engine)
		}()
	})
	if startErr != nil {
		return startErr
	}

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(serverURI + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server at %s did not become healthy", serverURI)
}
