package error

import "errors"

// Goal domain errors.
var (
	// ErrGoalNotFound is returned when a goal is not found in the system.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrInvalidGoalTarget is returned when the target amount is zero or negative.
	ErrInvalidGoalTarget = errors.New("invalid goal target amount")

	// ErrInvalidGoalName is returned when the goal name is empty or too long.
	ErrInvalidGoalName = errors.New("invalid goal name")

	// ErrGoalNotActive is returned when allocating to a completed goal.
	ErrGoalNotActive = errors.New("goal is not active")
)

// GoalErrorCode defines error codes for goal errors.
// Format: GOL-XXYYYY where XX is category and YYYY is specific error.
type GoalErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeGoalNotFound      GoalErrorCode = "GOL-010001"
	ErrCodeInvalidGoalTarget GoalErrorCode = "GOL-010002"
	ErrCodeInvalidGoalName   GoalErrorCode = "GOL-010003"
	ErrCodeMissingGoalFields GoalErrorCode = "GOL-010004"
	ErrCodeGoalNotActive     GoalErrorCode = "GOL-010005"
	ErrCodeInvalidGoalAmount GoalErrorCode = "GOL-010006"
)

type GoalError = CodedError[GoalErrorCode]

func NewGoalError(code GoalErrorCode, message string, err error) *GoalError {
	return newCoded(code, message, err)
}
