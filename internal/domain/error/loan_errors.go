package error

import "errors"

// Loan domain errors.
var (
	// ErrLoanNotFound is returned when a loan is not found or not owned by the user.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrInvalidLoanAmount is returned when principal or outstanding amounts are invalid.
	ErrInvalidLoanAmount = errors.New("invalid loan amount")

	// ErrInvalidInterestRate is returned when the annual rate is negative or implausible.
	ErrInvalidInterestRate = errors.New("invalid interest rate")

	// ErrLoanClosed is returned when paying towards a closed loan.
	ErrLoanClosed = errors.New("loan is closed")

	// ErrPrepaymentExceedsOutstanding is returned when a prepayment is larger than the balance owed.
	ErrPrepaymentExceedsOutstanding = errors.New("prepayment exceeds outstanding balance")
)

// LoanErrorCode defines error codes for loan errors.
// Format: LON-XXYYYY where XX is category and YYYY is specific error.
type LoanErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeLoanNotFound                 LoanErrorCode = "LON-010001"
	ErrCodeInvalidLoanAmount            LoanErrorCode = "LON-010002"
	ErrCodeInvalidInterestRate          LoanErrorCode = "LON-010003"
	ErrCodeMissingLoanFields            LoanErrorCode = "LON-010004"
	ErrCodeLoanClosed                   LoanErrorCode = "LON-010005"
	ErrCodePrepaymentExceedsOutstanding LoanErrorCode = "LON-010006"
)

type LoanError = CodedError[LoanErrorCode]

func NewLoanError(code LoanErrorCode, message string, err error) *LoanError {
	return newCoded(code, message, err)
}
