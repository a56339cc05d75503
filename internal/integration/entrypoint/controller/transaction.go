package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emergency-shield/backend/internal/application/usecase/transaction"
	"github.com/emergency-shield/backend/internal/domain/entity"
	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/integration/entrypoint/dto"
)

const dateLayout = "2006-01-02"

// TransactionController handles ledger endpoints.
type TransactionController struct {
	listUseCase   *transaction.ListTransactionsUseCase
	createUseCase *transaction.CreateTransactionUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	listUseCase *transaction.ListTransactionsUseCase,
	createUseCase *transaction.CreateTransactionUseCase,
) *TransactionController {
	return &TransactionController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
	}
}

// List handles GET /transactions requests.
// Query parameters: start_date, end_date, type, essential, search, page, limit.
func (c *TransactionController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := transaction.ListTransactionsInput{
		UserID: userID,
		Search: ctx.Query("search"),
	}

	for param, target := range map[string]**time.Time{
		"start_date": &input.StartDate,
		"end_date":   &input.EndDate,
	} {
		raw := ctx.Query(param)
		if raw == "" {
			continue
		}
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			badRequest(ctx, "Invalid "+param+", expected YYYY-MM-DD", string(domainerror.ErrCodeInvalidTransactionDate))
			return
		}
		*target = &date
	}

	if raw := ctx.Query("type"); raw != "" {
		txType := entity.TransactionType(raw)
		if txType != entity.TransactionTypeExpense && txType != entity.TransactionTypeIncome {
			badRequest(ctx, "type must be expense or income", string(domainerror.ErrCodeInvalidTransactionType))
			return
		}
		input.Type = &txType
	}

	if raw := ctx.Query("essential"); raw != "" {
		essential, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(ctx, "essential must be true or false", string(domainerror.ErrCodeMissingTransactionFields))
			return
		}
		input.Essential = &essential
	}

	input.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	input.Limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output))
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingTransactionFields))
		return
	}

	input := transaction.CreateTransactionInput{
		UserID:      userID,
		Description: req.Description,
		Amount:      req.Amount,
		Essential:   req.Essential,
		Notes:       req.Notes,
	}
	if req.Date != "" {
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			badRequest(ctx, "Invalid date, expected YYYY-MM-DD", string(domainerror.ErrCodeInvalidTransactionDate))
			return
		}
		input.Date = date
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreateTransactionResponse{
		Transaction: dto.ToTransactionResponse(output.Transaction),
		Status:      dto.ToShieldStatusResponse(output.Status),
	})
}
