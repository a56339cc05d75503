package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emergency-shield/backend/internal/application/usecase/loan"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/integration/entrypoint/dto"
)

// LoanController handles loan endpoints.
type LoanController struct {
	listUseCase   *loan.ListLoansUseCase
	createUseCase *loan.CreateLoanUseCase
	prepayUseCase *loan.PrepayLoanUseCase
}

// NewLoanController creates a new loan controller instance.
func NewLoanController(
	listUseCase *loan.ListLoansUseCase,
	createUseCase *loan.CreateLoanUseCase,
	prepayUseCase *loan.PrepayLoanUseCase,
) *LoanController {
	return &LoanController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		prepayUseCase: prepayUseCase,
	}
}

// List handles GET /loans requests.
func (c *LoanController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), loan.ListLoansInput{UserID: userID})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLoanListResponse(output.Loans))
}

// Create handles POST /loans requests.
func (c *LoanController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateLoanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingLoanFields))
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), loan.CreateLoanInput{
		UserID:      userID,
		Name:        req.Name,
		Principal:   req.Principal,
		Outstanding: req.Outstanding,
		AnnualRate:  req.AnnualRate,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToLoanResponse(output.Loan))
}

// Prepay handles POST /loans/:id/prepay requests.
func (c *LoanController) Prepay(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	loanID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeLoanNotFound))
	if !ok {
		return
	}

	var req dto.AllocateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeInvalidLoanAmount))
		return
	}

	output, err := c.prepayUseCase.Execute(ctx.Request.Context(), loan.PrepayLoanInput{
		UserID: userID,
		LoanID: loanID,
		Amount: req.Amount,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PrepayLoanResponse{
		Loan:           dto.ToLoanResponse(output.Loan),
		AllocationUsed: dto.Money(output.AllocationUsed),
		Status:         dto.ToShieldStatusResponse(output.Status),
	})
}
