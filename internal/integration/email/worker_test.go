package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	"github.com/emergency-shield/backend/internal/integration/email/templates"
)

type memoryQueue struct {
	jobs map[uuid.UUID]*entity.EmailJob
}

func newMemoryQueue(jobs ...*entity.EmailJob) *memoryQueue {
	q := &memoryQueue{jobs: map[uuid.UUID]*entity.EmailJob{}}
	for _, j := range jobs {
		q.jobs[j.ID] = j
	}
	return q
}

func (q *memoryQueue) Create(ctx context.Context, job *entity.EmailJob) error {
	q.jobs[job.ID] = job
	return nil
}

func (q *memoryQueue) GetPendingJobs(ctx context.Context, limit int) ([]*entity.EmailJob, error) {
	var out []*entity.EmailJob
	for _, j := range q.jobs {
		if j.Status == entity.EmailStatusPending && len(out) < limit {
			copied := *j
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (q *memoryQueue) Update(ctx context.Context, job *entity.EmailJob) error {
	copied := *job
	q.jobs[job.ID] = &copied
	return nil
}

func (q *memoryQueue) GetByID(ctx context.Context, id uuid.UUID) (*entity.EmailJob, error) {
	return q.jobs[id], nil
}

func (q *memoryQueue) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.EmailJob, error) {
	var out []*entity.EmailJob
	for _, j := range q.jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (q *memoryQueue) DeleteOldSentJobs(ctx context.Context, olderThanDays int) (int64, error) {
	return 0, nil
}

var _ adapter.EmailQueueRepository = (*memoryQueue)(nil)

func statusChangeJob(t *testing.T) *entity.EmailJob {
	t.Helper()
	user := entity.NewUser("asha@example.com", "Asha", "hash", time.Now().UTC())
	previous := &entity.ShieldStatus{Status: entity.ShieldStatusAtRisk}
	current := &entity.ShieldStatus{
		Status:               entity.ShieldStatusPartial,
		TotalEmergencyShield: decimal.NewFromInt(60000),
		EmergencyTarget:      decimal.NewFromInt(60000),
		EmergencyOptimal:     decimal.NewFromInt(120000),
		MonthsCovered:        decimal.NewFromInt(3),
	}
	job := NewService("https://app.example.com").StatusChangedJob(user, previous, current, time.Now().UTC())
	if job == nil {
		t.Fatal("StatusChangedJob returned nil")
	}
	return job
}

func newTestWorker(t *testing.T, queue *memoryQueue, sender adapter.EmailSender) *Worker {
	t.Helper()
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer returned error: %v", err)
	}
	return NewWorker(queue, sender, renderer, DefaultWorkerConfig())
}

func TestStatusChangedJob(t *testing.T) {
	job := statusChangeJob(t)

	if job.TemplateType != entity.TemplateShieldStatusChanged {
		t.Errorf("TemplateType = %s", job.TemplateType)
	}
	if !strings.Contains(job.Subject, "Partially protected") {
		t.Errorf("Subject = %q", job.Subject)
	}
	if job.TemplateData["dashboard_url"] != "https://app.example.com/emergency-shield" {
		t.Errorf("dashboard_url = %v", job.TemplateData["dashboard_url"])
	}

	if NewService("").StatusChangedJob(nil, nil, nil, time.Now()) != nil {
		t.Error("missing inputs should produce no job")
	}
}

func TestWorkerSendsQueuedEmail(t *testing.T) {
	job := statusChangeJob(t)
	queue := newMemoryQueue(job)
	sender := NewMockEmailSender()

	newTestWorker(t, queue, sender).ProcessNow(context.Background())

	if len(sender.SentEmails) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.SentEmails))
	}
	sent := sender.SentEmails[0]
	if sent.To != "asha@example.com" {
		t.Errorf("To = %s", sent.To)
	}
	if !strings.Contains(sent.HTML, "Partially protected") || !strings.Contains(sent.Text, "Months covered") {
		t.Error("rendered email is missing status details")
	}
	if got := queue.jobs[job.ID]; got.Status != entity.EmailStatusSent || got.ResendID == "" {
		t.Errorf("job = %s resend id %q, want sent", got.Status, got.ResendID)
	}
}

func TestWorkerFailures(t *testing.T) {
	tests := []struct {
		name       string
		permanent  bool
		wantStatus entity.EmailStatus
	}{
		{"temporary failure is rescheduled", false, entity.EmailStatusPending},
		{"permanent failure is final", true, entity.EmailStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := statusChangeJob(t)
			queue := newMemoryQueue(job)
			sender := NewMockEmailSender()
			sender.SetFailure(errors.New("boom"), tt.permanent)

			newTestWorker(t, queue, sender).ProcessNow(context.Background())

			got := queue.jobs[job.ID]
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", got.Status, tt.wantStatus)
			}
			if got.Attempts != 1 {
				t.Errorf("Attempts = %d, want 1", got.Attempts)
			}
			if !tt.permanent && !got.ScheduledAt.After(job.ScheduledAt) {
				t.Error("temporary failure should push ScheduledAt forward")
			}
		})
	}
}

func TestWorkerRejectsUnknownTemplate(t *testing.T) {
	job := entity.NewEmailJob(uuid.New(), "password_reset", "a@example.com", "", "x", nil, time.Now().UTC())
	queue := newMemoryQueue(job)
	sender := NewMockEmailSender()

	newTestWorker(t, queue, sender).ProcessNow(context.Background())

	if len(sender.SentEmails) != 0 {
		t.Error("unknown template should not be sent")
	}
	if queue.jobs[job.ID].Status != entity.EmailStatusFailed {
		t.Errorf("Status = %s, want failed", queue.jobs[job.ID].Status)
	}
}
