package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/emergency-shield/backend/internal/application/adapter"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
)

// Resend reports failures as plain errors carrying the HTTP status text, so
// retryability is decided by matching these fragments. Rate limits and 5xx
// responses are left retryable.
var permanentFailureHints = []string{"400", "401", "403", "422", "bad request", "unauthorized", "forbidden", "validation", "invalid"}

// ResendClient sends shield notifications through the Resend API.
type ResendClient struct {
	client *resend.Client
	from   string
}

// NewResendClient builds a client. A non-empty baseURL overrides the API host.
func NewResendClient(apiKey, baseURL, fromName, fromEmail string) (*ResendClient, error) {
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		client.BaseURL = u
	}
	return &ResendClient{client: client, from: fmt.Sprintf("%s <%s>", fromName, fromEmail)}, nil
}

func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	resp, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{input.To},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
	})
	if err != nil {
		return nil, classifySendError(err)
	}
	return &adapter.SendEmailResult{ResendID: resp.Id}, nil
}

func classifySendError(err error) *domainerror.EmailError {
	msg := strings.ToLower(err.Error())
	for _, hint := range permanentFailureHints {
		if strings.Contains(msg, hint) {
			return domainerror.NewEmailError(domainerror.ErrCodePermanentEmailFailure, "resend rejected the message", err)
		}
	}
	return domainerror.NewEmailError(domainerror.ErrCodeTemporaryEmailFailure, "resend unavailable", err)
}

// MockEmailSender records messages instead of sending them. It is used when
// no Resend key is configured and in tests.
type MockEmailSender struct {
	SentEmails []adapter.SendEmailInput
	failWith   *domainerror.EmailError
}

func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{}
}

func (m *MockEmailSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.SentEmails = append(m.SentEmails, input)
	return &adapter.SendEmailResult{ResendID: fmt.Sprintf("mock-%d", len(m.SentEmails))}, nil
}

// SetFailure makes every following Send fail with err.
func (m *MockEmailSender) SetFailure(err error, permanent bool) {
	code := domainerror.ErrCodeTemporaryEmailFailure
	if permanent {
		code = domainerror.ErrCodePermanentEmailFailure
	}
	m.failWith = domainerror.NewEmailError(code, "mock failure", err)
}

var (
	_ adapter.EmailSender = (*ResendClient)(nil)
	_ adapter.EmailSender = (*MockEmailSender)(nil)
)
