package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emergency-shield/backend/internal/application/usecase/goal"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/integration/entrypoint/dto"
)

// GoalController handles goal endpoints.
type GoalController struct {
	listUseCase     *goal.ListGoalsUseCase
	createUseCase   *goal.CreateGoalUseCase
	getUseCase      *goal.GetGoalUseCase
	allocateUseCase *goal.AllocateGoalUseCase
}

// NewGoalController creates a new goal controller instance.
func NewGoalController(
	listUseCase *goal.ListGoalsUseCase,
	createUseCase *goal.CreateGoalUseCase,
	getUseCase *goal.GetGoalUseCase,
	allocateUseCase *goal.AllocateGoalUseCase,
) *GoalController {
	return &GoalController{
		listUseCase:     listUseCase,
		createUseCase:   createUseCase,
		getUseCase:      getUseCase,
		allocateUseCase: allocateUseCase,
	}
}

// List handles GET /goals requests.
func (c *GoalController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), goal.ListGoalsInput{
		UserID:     userID,
		ActiveOnly: ctx.Query("status") == string(entity.GoalStatusActive),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGoalListResponse(output))
}

// Get handles GET /goals/:id requests.
func (c *GoalController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	goalID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeGoalNotFound))
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), goal.GetGoalInput{
		GoalID: goalID,
		UserID: userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGoalResponse(output.Goal))
}

// Create handles POST /goals requests.
func (c *GoalController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingGoalFields))
		return
	}

	input := goal.CreateGoalInput{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		IsEmergency:  req.IsEmergency,
	}
	if req.TargetDate != nil && *req.TargetDate != "" {
		date, err := time.Parse(dateLayout, *req.TargetDate)
		if err != nil {
			badRequest(ctx, "Invalid target_date, expected YYYY-MM-DD", string(domainerror.ErrCodeMissingGoalFields))
			return
		}
		input.TargetDate = &date
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToGoalResponse(output.Goal))
}

// Allocate handles POST /goals/:id/allocate requests.
func (c *GoalController) Allocate(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	goalID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeGoalNotFound))
	if !ok {
		return
	}

	var req dto.AllocateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeInvalidGoalAmount))
		return
	}

	output, err := c.allocateUseCase.Execute(ctx.Request.Context(), goal.AllocateGoalInput{
		UserID: userID,
		GoalID: goalID,
		Amount: req.Amount,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AllocateGoalResponse{
		Goal:   dto.ToGoalResponse(output.Goal),
		Status: dto.ToShieldStatusResponse(output.Status),
	})
}
