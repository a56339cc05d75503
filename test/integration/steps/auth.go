package steps

import (
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/emergency-shield/backend/internal/integration/persistence/model"
)

const testIssuer = "emergency-shield"

func registerAuthSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.Given(`^a user exists with email "([^"]*)" and password "([^"]*)"$`, t.aUserExistsWithEmailAndPassword)
	ctx.Given(`^I am registered as "([^"]*)"$`, t.iAmRegisteredAs)
	ctx.Given(`^I am registered as "([^"]*)" with risk profile "([^"]*)"$`, t.iAmRegisteredAsWithRiskProfile)
	ctx.Given(`^my access token has expired$`, t.myAccessTokenHasExpired)
}

func (t *testContext) aUserExistsWithEmailAndPassword(email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := clock.Now()
	user := &model.UserModel{
		ID:                 uuid.New(),
		Email:              email,
		Name:               "Test User",
		PasswordHash:       string(hashed),
		RiskProfile:        "balanced",
		EmailNotifications: true,
		TermsAcceptedAt:    now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	t.userID = user.ID
	return t.db.DbConn.Create(user).Error
}

func (t *testContext) iAmRegisteredAs(email string) error {
	return t.iAmRegisteredAsWithRiskProfile(email, "balanced")
}

// iAmRegisteredAsWithRiskProfile registers through the API and keeps the
// issued tokens for later requests.
func (t *testContext) iAmRegisteredAsWithRiskProfile(email, riskProfile string) error {
	payload := fmt.Sprintf(`{
		"email": %q,
		"name": "Shield Tester",
		"password": "SecurePass123!",
		"risk_profile": %q,
		"terms_accepted": true
	}`, email, riskProfile)

	if err := t.executeRequest("POST", "/api/v1/auth/register", []byte(payload)); err != nil {
		return err
	}
	if err := t.theResponseStatusShouldBe(201); err != nil {
		return err
	}

	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	access, _ := getFieldValue(body, "access_token").(string)
	refresh, _ := getFieldValue(body, "refresh_token").(string)
	userID, _ := getFieldValue(body, "user.id").(string)
	if access == "" || refresh == "" {
		return fmt.Errorf("register response is missing tokens: %v", body)
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("register response has invalid user id: %w", err)
	}

	t.accessToken = access
	t.refreshToken = refresh
	t.userID = id
	t.response = nil
	return nil
}

func (t *testContext) myAccessTokenHasExpired() error {
	issued := time.Now().Add(-2 * time.Hour)
	claims := jwt.MapClaims{
		"user_id":    t.userID.String(),
		"email":      "expired@example.com",
		"token_type": "access",
		"exp":        jwt.NewNumericDate(issued.Add(15 * time.Minute)),
		"iat":        jwt.NewNumericDate(issued),
		"nbf":        jwt.NewNumericDate(issued),
		"iss":        testIssuer,
		"sub":        t.userID.String(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	t.accessToken = token
	return nil
}
