package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emergency-shield/backend/internal/application/usecase/shield"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/integration/entrypoint/dto"
)

// EmergencyShieldUseCases groups the use cases behind the shield endpoints.
type EmergencyShieldUseCases struct {
	GetStatus          *shield.GetStatusUseCase
	ExplainStatus      *shield.ExplainStatusUseCase
	CheckFeatureAccess *shield.CheckFeatureAccessUseCase
	ListFunds          *shield.ListFundsUseCase
	CreateFund         *shield.CreateFundUseCase
	Contribute         *shield.ContributeUseCase
	ListContributions  *shield.ListContributionsUseCase
	CanDeleteFund      *shield.CanDeleteFundUseCase
	DeleteFund         *shield.DeleteFundUseCase
	GetRecommendations *shield.GetRecommendationsUseCase
	ReallocateSurplus  *shield.ReallocateSurplusUseCase
	ReallocateInternal *shield.ReallocateInternalUseCase
}

// EmergencyShieldController handles the emergency shield endpoints.
type EmergencyShieldController struct {
	uc EmergencyShieldUseCases
}

// NewEmergencyShieldController creates a new emergency shield controller instance.
func NewEmergencyShieldController(useCases EmergencyShieldUseCases) *EmergencyShieldController {
	return &EmergencyShieldController{uc: useCases}
}

// GetStatus handles GET /emergency-shield/status requests.
func (c *EmergencyShieldController) GetStatus(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.uc.GetStatus.Execute(ctx.Request.Context(), shield.GetStatusInput{UserID: userID})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToShieldStatusResponse(output.Status))
}

// ExplainStatus handles GET /emergency-shield/status/explanation requests.
func (c *EmergencyShieldController) ExplainStatus(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.uc.ExplainStatus.Execute(ctx.Request.Context(), shield.ExplainStatusInput{UserID: userID})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ExplanationResponse{
		Status:    string(output.Status),
		Summary:   output.Summary,
		NextSteps: output.NextSteps,
		Source:    output.Source,
	})
}

// CheckFeatureAccess handles GET /emergency-shield/feature-access/:feature requests.
func (c *EmergencyShieldController) CheckFeatureAccess(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.uc.CheckFeatureAccess.Execute(ctx.Request.Context(), shield.CheckFeatureAccessInput{
		UserID:  userID,
		Feature: ctx.Param("feature"),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FeatureCheckResponse{
		Feature: string(output.Feature),
		Allowed: output.Allowed,
		Reason:  output.Reason,
		Status:  string(output.Status),
	})
}

// ListFunds handles GET /emergency-shield/funds requests.
func (c *EmergencyShieldController) ListFunds(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.uc.ListFunds.Execute(ctx.Request.Context(), shield.ListFundsInput{UserID: userID})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFundListResponse(output))
}

// CreateFund handles POST /emergency-shield/funds requests.
func (c *EmergencyShieldController) CreateFund(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateFundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeInvalidShieldRequest))
		return
	}

	output, err := c.uc.CreateFund.Execute(ctx.Request.Context(), shield.CreateFundInput{
		UserID:              userID,
		Name:                req.Name,
		Type:                req.Type,
		TargetAmount:        req.TargetAmount,
		InitialAmount:       req.InitialAmount,
		MonthlyContribution: req.MonthlyContribution,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToFundMutationResponse(output.Fund, output.Status))
}

// Contribute handles POST /emergency-shield/funds/:id/contribute requests.
func (c *EmergencyShieldController) Contribute(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	fundID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeFundNotFound))
	if !ok {
		return
	}

	var req dto.ContributeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeInvalidAmount))
		return
	}

	output, err := c.uc.Contribute.Execute(ctx.Request.Context(), shield.ContributeInput{
		UserID: userID,
		FundID: fundID,
		Amount: req.Amount,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFundMutationResponse(output.Fund, output.Status))
}

// ListContributions handles GET /emergency-shield/funds/:id/contributions requests.
func (c *EmergencyShieldController) ListContributions(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	fundID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeFundNotFound))
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	output, err := c.uc.ListContributions.Execute(ctx.Request.Context(), shield.ListContributionsInput{
		UserID: userID,
		FundID: fundID,
		Limit:  limit,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToContributionListResponse(output))
}

// CanDeleteFund handles GET /emergency-shield/funds/:id/can-delete requests.
func (c *EmergencyShieldController) CanDeleteFund(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	fundID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeFundNotFound))
	if !ok {
		return
	}

	output, err := c.uc.CanDeleteFund.Execute(ctx.Request.Context(), shield.CanDeleteFundInput{
		UserID: userID,
		FundID: fundID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CanDeleteResponse{
		FundID:    output.FundID.String(),
		CanDelete: output.Allowed,
		Reason:    output.Reason,
		Shortfall: dto.Money(output.Shortfall),
	})
}

// DeleteFund handles DELETE /emergency-shield/funds/:id requests.
func (c *EmergencyShieldController) DeleteFund(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	fundID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeFundNotFound))
	if !ok {
		return
	}

	output, err := c.uc.DeleteFund.Execute(ctx.Request.Context(), shield.DeleteFundInput{
		UserID: userID,
		FundID: fundID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToShieldStatusResponse(output.Status))
}

// GetRecommendations handles GET /emergency-shield/surplus/recommendations requests.
func (c *EmergencyShieldController) GetRecommendations(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.uc.GetRecommendations.Execute(ctx.Request.Context(), shield.GetRecommendationsInput{
		UserID:      userID,
		RiskProfile: ctx.Query("risk_profile"),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RecommendationListResponse{
		Surplus:         dto.Money(output.Surplus),
		RiskProfile:     string(output.RiskProfile),
		Recommendations: dto.ToRecommendationResponses(output.Recommendations),
	})
}

// ReallocateSurplus handles POST /emergency-shield/surplus/reallocate requests.
func (c *EmergencyShieldController) ReallocateSurplus(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.ReallocateSurplusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeInvalidShieldRequest))
		return
	}

	output, err := c.uc.ReallocateSurplus.Execute(ctx.Request.Context(), shield.ReallocateSurplusInput{
		UserID:     userID,
		FromFundID: uuid.MustParse(req.FromEmergencyID),
		ToTargetID: uuid.MustParse(req.ToGoalID),
		Amount:     req.Amount,
		TargetType: req.TargetType,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ReallocateSurplusResponse{
		Amount: dto.Money(output.Amount),
		Status: dto.ToShieldStatusResponse(output.Status),
	})
}

// ReallocateInternal handles POST /emergency-shield/funds/reallocate-internal requests.
func (c *EmergencyShieldController) ReallocateInternal(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.ReallocateInternalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeInvalidShieldRequest))
		return
	}

	output, err := c.uc.ReallocateInternal.Execute(ctx.Request.Context(), shield.ReallocateInternalInput{
		UserID:     userID,
		FromFundID: uuid.MustParse(req.FromFundID),
		ToFundID:   uuid.MustParse(req.ToFundID),
		Amount:     req.Amount,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReallocateInternalResponse(output))
}
