// Package email delivers shield notifications queued in the email outbox.
package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/integration/email/templates"
)

// Worker drains the email outbox on a fixed interval.
type Worker struct {
	queue    adapter.EmailQueueRepository
	sender   adapter.EmailSender
	renderer *templates.Renderer
	cfg      WorkerConfig
	now      func() time.Time
}

type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{PollInterval: 5 * time.Second, BatchSize: 10}
}

// NewWorker builds a worker. Zero values in cfg fall back to the defaults.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, cfg WorkerConfig) *Worker {
	def := DefaultWorkerConfig()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	return &Worker{
		queue:    queue,
		sender:   sender,
		renderer: renderer,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start polls until ctx is cancelled. The first batch runs immediately.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Notification worker started", "poll_interval", w.cfg.PollInterval, "batch_size", w.cfg.BatchSize)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		w.drain(ctx)
		select {
		case <-ctx.Done():
			slog.Info("Notification worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// ProcessNow runs a single batch synchronously.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.drain(ctx)
}

func (w *Worker) drain(ctx context.Context) {
	jobs, err := w.queue.GetPendingJobs(ctx, w.cfg.BatchSize)
	if err != nil {
		slog.Error("Failed to load pending notifications", "error", err)
		return
	}
	if len(jobs) > 0 {
		slog.Debug("Delivering notifications", "count", len(jobs))
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		w.handle(ctx, job)
	}
}

func (w *Worker) handle(ctx context.Context, job *entity.EmailJob) {
	logger := slog.With("job_id", job.ID, "template", job.TemplateType)

	job.MarkProcessing()
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to claim notification", "error", err)
		return
	}

	resendID, err := w.deliver(ctx, job)
	if err != nil {
		job.MarkFailed(err, domainerror.IsPermanentEmailError(err), w.now())
		if updateErr := w.queue.Update(ctx, job); updateErr != nil {
			logger.Error("Failed to record delivery failure", "error", updateErr)
		}
		if job.Status == entity.EmailStatusFailed {
			logger.Warn("Notification dropped", "attempts", job.Attempts, "error", err)
		} else {
			logger.Info("Notification rescheduled", "attempts", job.Attempts, "scheduled_at", job.ScheduledAt, "error", err)
		}
		return
	}

	job.MarkSent(resendID, w.now())
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark notification as sent", "error", err)
		return
	}
	logger.Info("Notification sent", "resend_id", resendID)
}

func (w *Worker) deliver(ctx context.Context, job *entity.EmailJob) (string, error) {
	data, err := templateData(job)
	if err != nil {
		return "", err
	}
	html, text, err := w.renderer.Render(string(job.TemplateType), data)
	if err != nil {
		return "", domainerror.NewEmailError(domainerror.ErrCodeInvalidTemplate, "render failed", err)
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:      job.RecipientEmail,
		Name:    job.RecipientName,
		Subject: job.Subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return "", err
	}
	return result.ResendID, nil
}

// templateData maps the stored job payload onto the template's view model.
func templateData(job *entity.EmailJob) (any, error) {
	field := func(key string) string {
		s, _ := job.TemplateData[key].(string)
		return s
	}

	switch job.TemplateType {
	case entity.TemplateShieldStatusChanged:
		return templates.ShieldStatusChangedData{
			UserName:       field("user_name"),
			PreviousStatus: field("previous_status"),
			CurrentStatus:  field("current_status"),
			Total:          field("total"),
			Target:         field("target"),
			Optimal:        field("optimal"),
			MonthsCovered:  field("months_covered"),
			Shortfall:      field("shortfall"),
			DashboardURL:   field("dashboard_url"),
		}, nil
	default:
		return nil, domainerror.NewEmailError(domainerror.ErrCodeInvalidTemplate, string(job.TemplateType), domainerror.ErrInvalidTemplate)
	}
}
