package shield

import (
	"fmt"

	"github.com/shopspring/decimal"

	domainerror "github.com/emergency-shield/backend/internal/domain/error"
	"github.com/emergency-shield/backend/internal/domain/valueobject"
)

func validationError(v *valueobject.FieldViolation) *domainerror.ShieldError {
	code := domainerror.ErrCodeInvalidShieldRequest
	var cause error = v
	switch v.Field {
	case "amount", "target_amount", "initial_amount", "monthly_contribution":
		code = domainerror.ErrCodeInvalidAmount
		cause = fmt.Errorf("%w: %s", domainerror.ErrInvalidAmount, v.Error())
	case "type":
		code = domainerror.ErrCodeInvalidFundType
		cause = fmt.Errorf("%w: %s", domainerror.ErrInvalidFundType, v.Error())
	}
	return domainerror.NewShieldError(code, domainerror.ShieldErrorValidation, v.Error(), cause)
}

func fundNotFound() *domainerror.ShieldError {
	return domainerror.NewShieldError(domainerror.ErrCodeFundNotFound, domainerror.ShieldErrorNotFound,
		"Emergency fund not found", domainerror.ErrFundNotFound)
}

func targetNotFound(targetType string) *domainerror.ShieldError {
	return domainerror.NewShieldError(domainerror.ErrCodeTargetNotFound, domainerror.ShieldErrorNotFound,
		fmt.Sprintf("Reallocation target %s not found", targetType), domainerror.ErrTargetNotFound)
}

// InsufficientFreeBalance builds the error returned when an amount is larger than the free balance.
func InsufficientFreeBalance(amount, free decimal.Decimal) *domainerror.ShieldError {
	return domainerror.NewInsufficientFundsError(domainerror.ErrCodeInsufficientFreeBalance,
		domainerror.ReasonInsufficientFreeBalance,
		fmt.Sprintf("Amount %s exceeds free balance %s", valueobject.FormatINR(amount), valueobject.FormatINR(free)),
		domainerror.ErrInsufficientFreeBalance)
}

func insufficientFundBalance(amount, balance decimal.Decimal) *domainerror.ShieldError {
	return domainerror.NewInsufficientFundsError(domainerror.ErrCodeInsufficientFundBalance,
		domainerror.ReasonInsufficientFundBalance,
		fmt.Sprintf("Amount %s exceeds fund balance %s", valueobject.FormatINR(amount), valueobject.FormatINR(balance)),
		domainerror.ErrInsufficientFundBalance)
}

func exceedsSurplus(amount, surplusShare decimal.Decimal) *domainerror.ShieldError {
	return domainerror.NewInsufficientFundsError(domainerror.ErrCodeExceedsSurplus,
		domainerror.ReasonExceedsSurplus,
		fmt.Sprintf("Amount %s exceeds the fund's surplus %s", valueobject.FormatINR(amount), valueobject.FormatINR(surplusShare)),
		domainerror.ErrExceedsSurplus)
}

func exceedsTargetCapacity(targetType string, amount, capacity decimal.Decimal) *domainerror.ShieldError {
	return domainerror.NewInsufficientFundsError(domainerror.ErrCodeExceedsTargetCapacity,
		domainerror.ReasonExceedsTargetCapacity,
		fmt.Sprintf("Amount %s exceeds what the %s can take (%s)", valueobject.FormatINR(amount), targetType, valueobject.FormatINR(capacity)),
		domainerror.ErrExceedsTargetCapacity)
}

// FeatureLocked builds the error returned when the shield status denies a feature.
func FeatureLocked(feature string, reason string) *domainerror.ShieldError {
	err := domainerror.NewShieldError(domainerror.ErrCodeFeatureLocked, domainerror.ShieldErrorFeatureLocked,
		fmt.Sprintf("%s is locked: %s", feature, reason), domainerror.ErrFeatureLocked)
	err.Reason = domainerror.ReasonFeatureLocked
	return err
}

func unavailable(what string, err error) *domainerror.ShieldError {
	return domainerror.NewShieldError(domainerror.ErrCodeCollaboratorUnavailable, domainerror.ShieldErrorUnavailable,
		fmt.Sprintf("Could not read %s", what), fmt.Errorf("%w: %v", domainerror.ErrCollaboratorUnavailable, err))
}

func conflict(err error) *domainerror.ShieldError {
	return domainerror.NewShieldError(domainerror.ErrCodeConcurrentModification, domainerror.ShieldErrorConflict,
		"The emergency shield changed while the request was processed; please retry", err)
}

func invariantViolation(err error) *domainerror.ShieldError {
	return domainerror.NewShieldError(domainerror.ErrCodeInvariantViolation, domainerror.ShieldErrorInvariantViolation,
		"The operation would break a balance invariant", err)
}
