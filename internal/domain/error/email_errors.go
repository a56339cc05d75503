package error

import (
	"errors"
	"fmt"
)

var (
	ErrEmailJobNotFound = errors.New("email job not found")
	ErrInvalidTemplate  = errors.New("invalid email template")
)

// EmailErrorCode classifies notification delivery failures. Codes in the
// 02 range decide whether the worker retries a job.
type EmailErrorCode string

const (
	ErrCodeEmailQueueFailed      EmailErrorCode = "EMAIL-010001"
	ErrCodePermanentEmailFailure EmailErrorCode = "EMAIL-020002"
	ErrCodeTemporaryEmailFailure EmailErrorCode = "EMAIL-020003"
	ErrCodeInvalidTemplate       EmailErrorCode = "EMAIL-030001"
)

type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

func (e *EmailError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *EmailError) Unwrap() error { return e.Err }

// Permanent reports whether retrying the delivery cannot succeed. Unknown
// templates are permanent too, since the job data will never change.
func (e *EmailError) Permanent() bool {
	return e.Code == ErrCodePermanentEmailFailure || e.Code == ErrCodeInvalidTemplate
}

func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{Code: code, Message: message, Err: err}
}

// IsPermanentEmailError unwraps err looking for a non-retryable EmailError.
func IsPermanentEmailError(err error) bool {
	var emailErr *EmailError
	return errors.As(err, &emailErr) && emailErr.Permanent()
}
