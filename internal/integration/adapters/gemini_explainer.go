// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/emergency-shield/backend/internal/application/adapter"
)

const defaultGeminiModel = "gemini-2.5-flash-lite"

// GeminiExplainer implements adapter.StatusExplainer using Google Gemini.
type GeminiExplainer struct {
	apiKey    string
	modelName string
}

// NewGeminiExplainer creates a new Gemini explainer. An empty API key leaves
// it unavailable and callers fall back to the template explanation.
func NewGeminiExplainer(apiKey, modelName string) *GeminiExplainer {
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	return &GeminiExplainer{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// IsAvailable checks if the Gemini service is properly configured.
func (s *GeminiExplainer) IsAvailable() bool {
	return s.apiKey != ""
}

// Explain rewrites the computed shield status in plain language.
func (s *GeminiExplainer) Explain(ctx context.Context, request adapter.ExplanationRequest) (*adapter.Explanation, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini service is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildExplanationPrompt(request)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	explanation, err := parseExplanation(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return explanation, nil
}

func buildExplanationPrompt(request adapter.ExplanationRequest) string {
	var sb strings.Builder

	sb.WriteString(`You explain an emergency savings status to a retail user in India.
Use short, plain sentences. Amounts are in INR. Do not invent numbers: only use the figures below.
Do not recommend specific stocks or funds.

STATUS:
`)
	fmt.Fprintf(&sb, "- status: %s\n", request.Status)
	fmt.Fprintf(&sb, "- months of essential expenses covered: %s\n", request.MonthsCovered)
	fmt.Fprintf(&sb, "- minimum target (3 months): %s\n", request.Target)
	fmt.Fprintf(&sb, "- optimal target (6 months): %s\n", request.Optimal)
	fmt.Fprintf(&sb, "- protected core: %s\n", request.Core)
	fmt.Fprintf(&sb, "- surplus above optimal: %s\n", request.Surplus)
	fmt.Fprintf(&sb, "- shortfall to target: %s\n", request.Shortfall)

	if len(request.LockedFeatures) > 0 {
		fmt.Fprintf(&sb, "- locked features: %s\n", strings.Join(request.LockedFeatures, ", "))
	}
	if len(request.Recommendations) > 0 {
		sb.WriteString("\nRANKED USES OF SURPLUS:\n")
		for _, r := range request.Recommendations {
			fmt.Fprintf(&sb, "- %s\n", r)
		}
	}

	sb.WriteString("\nDRAFT SUMMARY:\n")
	sb.WriteString(request.DraftSummary)
	sb.WriteString(`

Respond with a JSON object:
{
  "summary": "two or three sentences",
  "next_steps": ["at most three short actions"]
}
Return only the JSON object, without additional text.
`)
	return sb.String()
}

type geminiExplanation struct {
	Summary   string   `json:"summary"`
	NextSteps []string `json:"next_steps"`
}

func parseExplanation(resp *genai.GenerateContentResponse) (*adapter.Explanation, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}
	return decodeExplanation(textContent)
}

func decodeExplanation(textContent string) (*adapter.Explanation, error) {
	// Strip markdown code fences if present
	textContent = strings.TrimSpace(textContent)
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)
	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	var raw geminiExplanation
	if err := json.Unmarshal([]byte(textContent), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if strings.TrimSpace(raw.Summary) == "" {
		return nil, fmt.Errorf("response has no summary")
	}

	steps := make([]string, 0, len(raw.NextSteps))
	for _, step := range raw.NextSteps {
		if step = strings.TrimSpace(step); step != "" {
			steps = append(steps, step)
		}
	}
	if len(steps) > 3 {
		steps = steps[:3]
	}

	return &adapter.Explanation{
		Summary:   strings.TrimSpace(raw.Summary),
		NextSteps: steps,
	}, nil
}
