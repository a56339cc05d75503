package steps

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cucumber/godog"

	"github.com/emergency-shield/backend/internal/integration/email"
	"github.com/emergency-shield/backend/internal/integration/email/templates"
	"github.com/emergency-shield/backend/internal/integration/persistence"
)

func registerEmailSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.When(`^the email worker delivers pending emails$`, t.theEmailWorkerDeliversPendingEmails)
	ctx.Then(`^the email provider should have received (\d+) emails?$`, t.theEmailProviderShouldHaveReceived)
	ctx.Then(`^the email provider should have received an email to "([^"]*)"$`, t.theEmailProviderShouldHaveReceivedAnEmailTo)
}

// theEmailWorkerDeliversPendingEmails runs one worker batch against the
// mocked Resend API.
func (t *testContext) theEmailWorkerDeliversPendingEmails() error {
	t.resendMock.SetResponse(-1, http.MethodPost, "/emails", http.StatusOK, map[string]any{"id": "email_test_1"})

	sender, err := email.NewResendClient("re_test_key", t.resendMock.GetUrl(), "Emergency Shield", "shield@example.com")
	if err != nil {
		return err
	}
	renderer, err := templates.NewRenderer()
	if err != nil {
		return err
	}

	worker := email.NewWorker(
		persistence.NewEmailQueueRepository(t.db.DbConn),
		sender,
		renderer,
		email.WorkerConfig{PollInterval: time.Second, BatchSize: 10},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	worker.ProcessNow(ctx)
	return nil
}

func (t *testContext) theEmailProviderShouldHaveReceived(count int) error {
	if got := t.resendMock.RequestCount(http.MethodPost, "/emails"); got != count {
		return fmt.Errorf("expected %d emails sent, got %d", count, got)
	}
	return nil
}

func (t *testContext) theEmailProviderShouldHaveReceivedAnEmailTo(address string) error {
	body := t.resendMock.GetRequestBody(http.MethodPost, "/emails", 0)
	if body == nil {
		return fmt.Errorf("no email request received")
	}
	headers := t.resendMock.GetRequestHeaders(http.MethodPost, "/emails", 0)
	if headers["Authorization"] != "Bearer re_test_key" {
		return fmt.Errorf("email request was not authenticated: %v", headers)
	}

	recipients, _ := body["to"].([]any)
	for _, r := range recipients {
		if r == address {
			return nil
		}
	}
	return fmt.Errorf("email was not addressed to %s: %v", address, body["to"])
}
