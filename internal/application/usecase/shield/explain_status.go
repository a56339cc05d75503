package shield

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/application/adapter"
	"github.com/emergency-shield/backend/internal/domain/entity"
	vo "github.com/emergency-shield/backend/internal/domain/valueobject"
)

// Explanation sources.
const (
	ExplanationSourceTemplate = "template"
	ExplanationSourceAI       = "ai"
)

const maxExplainedRecommendations = 3

// ExplainStatusInput represents the input for explaining the shield status.
type ExplainStatusInput struct {
	UserID uuid.UUID
}

// ExplainStatusOutput represents a plain-language explanation of the status.
type ExplainStatusOutput struct {
	Status    entity.ShieldStatusLevel
	Summary   string
	NextSteps []string
	Source    string
}

// ExplainStatusUseCase describes the shield status in plain language. The
// explanation is built from a template and optionally rewritten by the
// explainer; any explainer failure falls back to the template.
type ExplainStatusUseCase struct {
	loader    *SnapshotLoader
	explainer adapter.StatusExplainer
	timeout   time.Duration
}

// NewExplainStatusUseCase creates a new ExplainStatusUseCase instance.
// explainer may be nil.
func NewExplainStatusUseCase(loader *SnapshotLoader, explainer adapter.StatusExplainer, timeout time.Duration) *ExplainStatusUseCase {
	return &ExplainStatusUseCase{
		loader:    loader,
		explainer: explainer,
		timeout:   timeout,
	}
}

// Execute builds the explanation.
func (uc *ExplainStatusUseCase) Execute(ctx context.Context, input ExplainStatusInput) (*ExplainStatusOutput, error) {
	snap, err := uc.loader.Load(ctx, input.UserID, nil)
	if err != nil {
		return nil, err
	}

	status := snap.Status
	summary, steps := templateExplanation(status, snap.Policy)
	output := &ExplainStatusOutput{
		Status:    status.Status,
		Summary:   summary,
		NextSteps: steps,
		Source:    ExplanationSourceTemplate,
	}

	if uc.explainer == nil || !uc.explainer.IsAvailable() {
		return output, nil
	}

	aiCtx := ctx
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		aiCtx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	explanation, err := uc.explainer.Explain(aiCtx, explanationRequest(status, summary, snap.Policy))
	if err != nil {
		slog.WarnContext(ctx, "Status explainer failed, using template",
			"user_id", input.UserID,
			"error", err,
		)
		return output, nil
	}
	if explanation == nil || explanation.Summary == "" {
		return output, nil
	}

	output.Summary = explanation.Summary
	if len(explanation.NextSteps) > 0 {
		output.NextSteps = explanation.NextSteps
	}
	output.Source = ExplanationSourceAI
	return output, nil
}

func templateExplanation(s *entity.ShieldStatus, policy vo.ShieldPolicy) (string, []string) {
	months := s.MonthsCovered.StringFixed(1)
	steps := []string{}

	if !s.MonthlyEssentialExpenses.IsPositive() {
		steps = append(steps, "Mark rent, groceries, utilities and other must-pay expenses as essential so the shield can size your target")
	}

	var summary string
	switch s.Status {
	case entity.ShieldStatusAtRisk:
		summary = fmt.Sprintf(
			"Your emergency shield holds %s, about %s months of essential expenses. The %s-month target is %s, so you are %s short. Investing, loan prepayment and goal funding stay locked until the target is met.",
			vo.FormatINR(s.TotalEmergencyShield), months, policy.TargetMonths.String(),
			vo.FormatINR(s.EmergencyTarget), vo.FormatINR(s.Shortfall))
		if s.MaxContribution.IsPositive() {
			steps = append(steps, fmt.Sprintf("Contribute up to %s from your free balance", vo.FormatINR(s.MaxContribution)))
		}
		steps = append(steps, fmt.Sprintf("Add %s to reach the %s-month target", vo.FormatINR(s.Shortfall), policy.TargetMonths.String()))
	case entity.ShieldStatusPartial:
		summary = fmt.Sprintf(
			"Your emergency shield holds %s, about %s months of essential expenses. The %s-month target is met and loan prepayment is unlocked. Reach %s to unlock investing and goal funding.",
			vo.FormatINR(s.TotalEmergencyShield), months, policy.TargetMonths.String(),
			vo.FormatINR(s.EmergencyOptimal))
		steps = append(steps, fmt.Sprintf("Add %s to reach the %s-month optimal level", vo.FormatINR(s.ShortfallToOptimal), policy.OptimalMonths.String()))
	default:
		summary = fmt.Sprintf(
			"Your emergency shield is fully funded with %s, about %s months of essential expenses. Every feature is unlocked.",
			vo.FormatINR(s.TotalEmergencyShield), months)
		if s.HasSurplus {
			summary += fmt.Sprintf(" %s above the optimal level can be put to work.", vo.FormatINR(s.SurplusEmergency))
			for i, r := range s.SurplusRecommendations {
				if i == maxExplainedRecommendations {
					break
				}
				steps = append(steps, r.Description)
			}
		}
	}

	return summary, steps
}

func explanationRequest(s *entity.ShieldStatus, draft string, policy vo.ShieldPolicy) adapter.ExplanationRequest {
	req := adapter.ExplanationRequest{
		Status:        string(s.Status),
		MonthsCovered: s.MonthsCovered.StringFixed(1),
		Target:        fmt.Sprintf("%s (%s months)", vo.FormatINR(s.EmergencyTarget), policy.TargetMonths.String()),
		Optimal:       fmt.Sprintf("%s (%s months)", vo.FormatINR(s.EmergencyOptimal), policy.OptimalMonths.String()),
		Core:          vo.FormatINR(s.CoreEmergency),
		Surplus:       vo.FormatINR(s.SurplusEmergency),
		Shortfall:     vo.FormatINR(s.Shortfall),
		DraftSummary:  draft,
	}
	for _, f := range []entity.Feature{entity.FeatureInvest, entity.FeaturePrepayLoans, entity.FeatureAllocateToGoals} {
		if !s.FeatureAccess.Allows(f) {
			req.LockedFeatures = append(req.LockedFeatures, string(f))
		}
	}
	for i, r := range s.SurplusRecommendations {
		if i == maxExplainedRecommendations {
			break
		}
		req.Recommendations = append(req.Recommendations, r.Description)
	}
	return req
}
