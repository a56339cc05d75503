// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// ExplanationRequest carries a computed shield status in display form.
type ExplanationRequest struct {
	Status          string
	MonthsCovered   string
	Target          string
	Optimal         string
	Core            string
	Surplus         string
	Shortfall       string
	LockedFeatures  []string
	Recommendations []string
	DraftSummary    string
}

// Explanation is a plain-language description of the shield state.
type Explanation struct {
	Summary   string
	NextSteps []string
}

// StatusExplainer rewrites a shield explanation in friendlier language.
type StatusExplainer interface {
	// Explain returns an explanation for the request.
	Explain(ctx context.Context, request ExplanationRequest) (*Explanation, error)

	// IsAvailable checks if the explainer is properly configured.
	IsAvailable() bool
}
