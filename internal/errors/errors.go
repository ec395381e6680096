// Package errors defines the domain error taxonomy shared by services and
// handlers. Handlers translate a Kind into an HTTP status in one place.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a DomainError for transport mapping.
type Kind string

const (
	KindNotFound               Kind = "NOT_FOUND"
	KindAccessDenied           Kind = "ACCESS_DENIED"
	KindWalletInactive         Kind = "WALLET_INACTIVE"
	KindInsufficientFunds      Kind = "INSUFFICIENT_FUNDS"
	KindSelfTransfer           Kind = "SELF_TRANSFER"
	KindNoWallet               Kind = "NO_WALLET"
	KindValidation             Kind = "VALIDATION_ERROR"
	KindConflictRetryExhausted Kind = "CONFLICT_RETRY_EXHAUSTED"
	KindTimeout                Kind = "TIMEOUT"
	KindUnauthenticated        Kind = "UNAUTHENTICATED"
	KindConflict               Kind = "CONFLICT"
	KindInternal               Kind = "INTERNAL"
)

// FieldError is a single per-field validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError is the error type returned across service boundaries.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches another DomainError with the same Kind and, when the target
// carries one, the same Code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// Wrap returns a copy of e carrying err as its cause.
func (e *DomainError) Wrap(err error) *DomainError {
	c := *e
	c.Err = err
	return &c
}

// WithMessage returns a copy of e with a different message.
func (e *DomainError) WithMessage(msg string) *DomainError {
	c := *e
	c.Message = msg
	return &c
}

// New creates a DomainError. Code defaults to the kind.
func New(kind Kind, code, message string) *DomainError {
	if code == "" {
		code = string(kind)
	}
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// Validation builds a ValidationError carrying per-field messages.
func Validation(fields ...FieldError) *DomainError {
	msg := "validation failed"
	if len(fields) == 1 {
		msg = fields[0].Message
	}
	return &DomainError{
		Kind:    KindValidation,
		Code:    string(KindValidation),
		Message: msg,
		Fields:  fields,
	}
}

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(err error) *DomainError {
	return &DomainError{
		Kind:    KindInternal,
		Code:    string(KindInternal),
		Message: "an internal error occurred",
		Err:     err,
	}
}

// KindOf returns the Kind of the first DomainError in err's chain, or
// KindInternal for anything else.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// As is a thin re-export so callers importing this package under the name
// errors keep access to the standard helper.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Is re-exports the standard errors.Is.
func Is(err, target error) bool { return stderrors.Is(err, target) }
