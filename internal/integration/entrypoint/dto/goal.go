package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/emergency-shield/backend/internal/application/usecase/goal"
	"github.com/emergency-shield/backend/internal/domain/entity"
)

// CreateGoalRequest represents the request body for goal creation.
type CreateGoalRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=100"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	IsEmergency  bool            `json:"is_emergency"`
	TargetDate   *string         `json:"target_date,omitempty"`
}

// AllocateRequest represents a request body carrying a single amount.
type AllocateRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// GoalResponse represents a single goal in API responses.
type GoalResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	TargetAmount    string    `json:"target_amount"`
	AllocatedAmount string    `json:"allocated_amount"`
	Remaining       string    `json:"remaining"`
	IsEmergency     bool      `json:"is_emergency"`
	Status          string    `json:"status"`
	TargetDate      *string   `json:"target_date,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// GoalListResponse represents the response for listing goals.
type GoalListResponse struct {
	Goals          []GoalResponse `json:"goals"`
	TotalTarget    string         `json:"total_target"`
	TotalAllocated string         `json:"total_allocated"`
}

// AllocateGoalResponse represents the response for a goal allocation.
type AllocateGoalResponse struct {
	Goal   GoalResponse          `json:"goal"`
	Status *ShieldStatusResponse `json:"status"`
}

// ToGoalResponse converts a domain Goal entity to a GoalResponse DTO.
func ToGoalResponse(g *entity.Goal) GoalResponse {
	response := GoalResponse{
		ID:              g.ID.String(),
		Name:            g.Name,
		TargetAmount:    Money(g.TargetAmount),
		AllocatedAmount: Money(g.AllocatedAmount),
		Remaining:       Money(g.Remaining()),
		IsEmergency:     g.IsEmergency,
		Status:          string(g.Status),
		CreatedAt:       g.CreatedAt,
	}

	if g.TargetDate != nil {
		dateStr := g.TargetDate.Format("2006-01-02")
		response.TargetDate = &dateStr
	}

	return response
}

// ToGoalListResponse converts a goal listing to a GoalListResponse DTO.
func ToGoalListResponse(out *goal.ListGoalsOutput) GoalListResponse {
	items := make([]GoalResponse, 0, len(out.Goals))
	for _, g := range out.Goals {
		items = append(items, ToGoalResponse(g))
	}
	return GoalListResponse{
		Goals:          items,
		TotalTarget:    Money(out.TotalTarget),
		TotalAllocated: Money(out.TotalAllocated),
	}
}
