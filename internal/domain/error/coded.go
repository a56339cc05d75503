// Package error holds the sentinel errors and coded error types returned by
// the domain and application layers. Controllers map codes to HTTP statuses.
package error

// CodedError pairs a stable machine-readable code with a human message. Each
// bounded area (auth, goals, loans, ledger) instantiates it with its own code
// type, so a switch on Code cannot mix areas.
type CodedError[C ~string] struct {
	Code    C
	Message string
	Err     error
}

func (e *CodedError[C]) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *CodedError[C]) Unwrap() error {
	return e.Err
}

func newCoded[C ~string](code C, message string, err error) *CodedError[C] {
	return &CodedError[C]{Code: code, Message: message, Err: err}
}
