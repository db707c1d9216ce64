package domain

import "errors"

// Sentinel errors shared across layers.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrRegistrationClosed  = errors.New("registration closed")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrTransactionConflict = errors.New("transaction conflict")
	ErrReadAfterWrite      = errors.New("transaction reads must happen before writes")
)

// RegistrationError is a user-facing failure of a registration operation.
// Message is shown to the participant verbatim; Kind is one of the sentinels above
// so callers can branch with errors.Is.
type RegistrationError struct {
	Kind    error
	Message string
}

func (e *RegistrationError) Error() string { return e.Message }

func (e *RegistrationError) Unwrap() error { return e.Kind }

// NewRegistrationError returns a RegistrationError of the given kind.
func NewRegistrationError(kind error, message string) *RegistrationError {
	return &RegistrationError{Kind: kind, Message: message}
}

// UserMessage returns the participant-facing text for err: the RegistrationError
// message when there is one, otherwise the underlying error text.
func UserMessage(err error) string {
	var regErr *RegistrationError
	if errors.As(err, &regErr) {
		return regErr.Message
	}
	return err.Error()
}
