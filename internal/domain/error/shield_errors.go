package error

import "errors"

// Emergency shield domain errors.
var (
	// ErrFundNotFound is returned when an emergency fund is absent or owned by another user.
	ErrFundNotFound = errors.New("emergency fund not found")

	// ErrTargetNotFound is returned when a reallocation target goal or loan is absent or not owned.
	ErrTargetNotFound = errors.New("reallocation target not found")

	// ErrInvalidAmount is returned when an amount is zero, negative, or malformed.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidFundType is returned when the fund type is not one of the known types.
	ErrInvalidFundType = errors.New("invalid fund type")

	// ErrInvalidFeature is returned when an unknown feature is queried.
	ErrInvalidFeature = errors.New("invalid feature")

	// ErrInsufficientFreeBalance is returned when an amount exceeds the free balance.
	ErrInsufficientFreeBalance = errors.New("insufficient free balance")

	// ErrInsufficientFundBalance is returned when an amount exceeds a fund's balance.
	ErrInsufficientFundBalance = errors.New("insufficient fund balance")

	// ErrExceedsSurplus is returned when an amount exceeds a fund's surplus share.
	ErrExceedsSurplus = errors.New("amount exceeds surplus share")

	// ErrExceedsTargetCapacity is returned when a goal or loan cannot absorb the amount.
	ErrExceedsTargetCapacity = errors.New("amount exceeds reallocation target capacity")

	// ErrFundProtected is returned when deleting a fund would break the core floor.
	ErrFundProtected = errors.New("fund is protecting the emergency core")

	// ErrFeatureLocked is returned when the shield status denies a gated feature.
	ErrFeatureLocked = errors.New("feature locked by emergency shield")

	// ErrConcurrentModification is returned when the account version changed between read and write.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrInvariantViolation is returned when a write would break a money invariant.
	ErrInvariantViolation = errors.New("shield invariant violation")

	// ErrCollaboratorUnavailable is returned when ledger or balance data cannot be read.
	ErrCollaboratorUnavailable = errors.New("financial data unavailable")
)

// ShieldErrorKind classifies a shield error for transport mapping.
type ShieldErrorKind string

const (
	ShieldErrorValidation         ShieldErrorKind = "validation"
	ShieldErrorNotFound           ShieldErrorKind = "not_found"
	ShieldErrorInsufficientFunds  ShieldErrorKind = "insufficient_funds"
	ShieldErrorFeatureLocked      ShieldErrorKind = "feature_locked"
	ShieldErrorConflict           ShieldErrorKind = "conflict"
	ShieldErrorInvariantViolation ShieldErrorKind = "invariant_violation"
	ShieldErrorUnavailable        ShieldErrorKind = "unavailable"
)

// Machine-readable reasons attached to insufficient funds errors.
const (
	ReasonInsufficientFreeBalance = "insufficient_free_balance"
	ReasonInsufficientFundBalance = "insufficient_fund_balance"
	ReasonExceedsSurplus          = "exceeds_surplus"
	ReasonExceedsTargetCapacity   = "exceeds_target_capacity"
	ReasonFundProtected           = "fund_protected"
	ReasonFeatureLocked           = "feature_locked"
)

// ShieldErrorCode defines error codes for shield errors.
// Format: SHD-XXYYYY where XX is category and YYYY is specific error.
type ShieldErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidShieldRequest ShieldErrorCode = "SHD-010001"
	ErrCodeInvalidAmount        ShieldErrorCode = "SHD-010002"
	ErrCodeInvalidFundType      ShieldErrorCode = "SHD-010003"
	ErrCodeInvalidFeature       ShieldErrorCode = "SHD-010004"
	ErrCodeSameFund             ShieldErrorCode = "SHD-010005"
	ErrCodeFundProtected        ShieldErrorCode = "SHD-010006"

	// Not found errors (02XXXX)
	ErrCodeFundNotFound   ShieldErrorCode = "SHD-020001"
	ErrCodeTargetNotFound ShieldErrorCode = "SHD-020002"

	// Insufficient funds errors (03XXXX)
	ErrCodeInsufficientFreeBalance ShieldErrorCode = "SHD-030001"
	ErrCodeInsufficientFundBalance ShieldErrorCode = "SHD-030002"
	ErrCodeExceedsSurplus          ShieldErrorCode = "SHD-030003"
	ErrCodeExceedsTargetCapacity   ShieldErrorCode = "SHD-030004"

	// Access errors (04XXXX)
	ErrCodeFeatureLocked ShieldErrorCode = "SHD-040001"

	// Consistency errors (05XXXX)
	ErrCodeConcurrentModification  ShieldErrorCode = "SHD-050001"
	ErrCodeInvariantViolation      ShieldErrorCode = "SHD-050002"
	ErrCodeCollaboratorUnavailable ShieldErrorCode = "SHD-050003"
)

// ShieldError represents an emergency shield error with code, kind and message.
type ShieldError struct {
	Code    ShieldErrorCode
	Kind    ShieldErrorKind
	Reason  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ShieldError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ShieldError) Unwrap() error {
	return e.Err
}

// NewShieldError creates a new ShieldError with the given code and message.
func NewShieldError(code ShieldErrorCode, kind ShieldErrorKind, message string, err error) *ShieldError {
	return &ShieldError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// NewInsufficientFundsError creates a ShieldError carrying a machine-readable reason.
func NewInsufficientFundsError(code ShieldErrorCode, reason, message string, err error) *ShieldError {
	return &ShieldError{
		Code:    code,
		Kind:    ShieldErrorInsufficientFunds,
		Reason:  reason,
		Message: message,
		Err:     err,
	}
}
