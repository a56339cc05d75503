// Package controller implements the gin handlers of the public API.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/integration/entrypoint/dto"
	"github.com/emergency-shield/backend/internal/integration/entrypoint/middleware"
)

// handleError maps typed domain errors to HTTP responses. Anything
// unrecognised is logged and reported as a 500.
func handleError(ctx *gin.Context, err error) {
	var shieldErr *domainerror.ShieldError
	if errors.As(err, &shieldErr) {
		status := statusForShieldKind(shieldErr.Kind)
		if status == http.StatusInternalServerError {
			slog.ErrorContext(ctx.Request.Context(), "Shield invariant violated",
				"code", shieldErr.Code,
				"error", shieldErr,
			)
		}
		ctx.JSON(status, dto.ErrorResponse{
			Error:  shieldErr.Message,
			Code:   string(shieldErr.Code),
			Reason: shieldErr.Reason,
		})
		return
	}

	var goalErr *domainerror.GoalError
	if errors.As(err, &goalErr) {
		ctx.JSON(statusForGoalError(goalErr.Code), dto.ErrorResponse{
			Error: goalErr.Message,
			Code:  string(goalErr.Code),
		})
		return
	}

	var loanErr *domainerror.LoanError
	if errors.As(err, &loanErr) {
		ctx.JSON(statusForLoanError(loanErr.Code), dto.ErrorResponse{
			Error: loanErr.Message,
			Code:  string(loanErr.Code),
		})
		return
	}

	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		response := dto.ErrorResponse{
			Error: txnErr.Message,
			Code:  string(txnErr.Code),
		}
		if txnErr.Code == domainerror.ErrCodeExpenseExceedsFree {
			response.Reason = domainerror.ReasonInsufficientFreeBalance
		}
		ctx.JSON(statusForTransactionError(txnErr.Code), response)
		return
	}

	var authErr *domainerror.AuthError
	if errors.As(err, &authErr) {
		ctx.JSON(statusForAuthError(authErr.Code), dto.ErrorResponse{
			Error: authErr.Message,
			Code:  string(authErr.Code),
		})
		return
	}

	slog.ErrorContext(ctx.Request.Context(), "Unhandled request error",
		"path", ctx.FullPath(),
		"error", err,
	)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

func statusForShieldKind(kind domainerror.ShieldErrorKind) int {
	switch kind {
	case domainerror.ShieldErrorValidation, domainerror.ShieldErrorInsufficientFunds:
		return http.StatusBadRequest
	case domainerror.ShieldErrorNotFound:
		return http.StatusNotFound
	case domainerror.ShieldErrorFeatureLocked:
		return http.StatusForbidden
	case domainerror.ShieldErrorConflict:
		return http.StatusConflict
	case domainerror.ShieldErrorUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func statusForGoalError(code domainerror.GoalErrorCode) int {
	switch code {
	case domainerror.ErrCodeGoalNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidGoalTarget,
		domainerror.ErrCodeInvalidGoalName,
		domainerror.ErrCodeMissingGoalFields,
		domainerror.ErrCodeGoalNotActive,
		domainerror.ErrCodeInvalidGoalAmount:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func statusForLoanError(code domainerror.LoanErrorCode) int {
	switch code {
	case domainerror.ErrCodeLoanNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidLoanAmount,
		domainerror.ErrCodeInvalidInterestRate,
		domainerror.ErrCodeMissingLoanFields,
		domainerror.ErrCodeLoanClosed,
		domainerror.ErrCodePrepaymentExceedsOutstanding:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func statusForTransactionError(code domainerror.TransactionErrorCode) int {
	switch code {
	case domainerror.ErrCodeTransactionNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidTransactionType,
		domainerror.ErrCodeInvalidTransactionDate,
		domainerror.ErrCodeInvalidTransactionAmount,
		domainerror.ErrCodeDescriptionTooLong,
		domainerror.ErrCodeMissingTransactionFields,
		domainerror.ErrCodeExpenseExceedsFree:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func statusForAuthError(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists:
		return http.StatusConflict
	case domainerror.ErrCodeTermsNotAccepted,
		domainerror.ErrCodeWeakPassword,
		domainerror.ErrCodeInvalidEmail,
		domainerror.ErrCodeMissingFields,
		domainerror.ErrCodeInvalidRiskProfile:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidCredentials,
		domainerror.ErrCodeInvalidToken,
		domainerror.ErrCodeExpiredToken,
		domainerror.ErrCodeMissingToken:
		return http.StatusUnauthorized
	case domainerror.ErrCodeUserNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// badRequest writes a 400 for a malformed body or parameter.
func badRequest(ctx *gin.Context, message, code string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// requireUser returns the authenticated user ID or writes a 401.
func requireUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID parses a UUID path parameter or writes a 400.
func pathUUID(ctx *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		badRequest(ctx, "Invalid "+name, code)
		return uuid.Nil, false
	}
	return id, true
}
