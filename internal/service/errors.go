package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure.  The HTTP layer maps each Kind to
// exactly one status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicateEmail
	KindInvalidCredentials
	KindInvalidToken
	KindUnauthenticated
	KindUserNotFound
	KindNotFound
)

// String returns the kind's name for logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicateEmail:
		return "duplicate_email"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindInvalidToken:
		return "invalid_token"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUserNotFound:
		return "user_not_found"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the only error type services hand to handlers.  Message is safe
// to show to clients; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

// Error includes the wrapped cause, which clients never see.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Client-facing messages.
const (
	MsgValidation         = "Validation error"
	MsgDuplicateEmail     = "User with this email already exists"
	MsgInvalidCredentials = "Invalid email or password"
	MsgInvalidToken       = "Invalid or expired refresh token"
	MsgUnauthenticated    = "User not authenticated"
	MsgUserNotFound       = "User not found"
	MsgTaskNotFound       = "Task not found"
	MsgInternal           = "Internal server error"
)

// ValidationError reports bad input, one FieldError per offending field.
func ValidationError(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: MsgValidation, Fields: fields}
}

// DuplicateEmailError reports a registration for a taken email.
func DuplicateEmailError() *Error {
	return &Error{Kind: KindDuplicateEmail, Message: MsgDuplicateEmail}
}

// InvalidCredentialsError covers both an unknown email and a wrong password.
func InvalidCredentialsError() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: MsgInvalidCredentials}
}

// InvalidTokenError reports a refresh token that failed verification.
func InvalidTokenError() *Error {
	return &Error{Kind: KindInvalidToken, Message: MsgInvalidToken}
}

// UnauthenticatedError reports a request with no verified identity.
func UnauthenticatedError() *Error {
	return &Error{Kind: KindUnauthenticated, Message: MsgUnauthenticated}
}

// UserNotFoundError reports a token whose user no longer exists.
func UserNotFoundError() *Error {
	return &Error{Kind: KindUserNotFound, Message: MsgUserNotFound}
}

// NotFoundError reports a missing resource with a caller-chosen message.
func NotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// InternalError hides err from clients and keeps it for logging.
func InternalError(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: fmt.Errorf("%s: %w", op, err)}
}

// AsError extracts a service error.  Anything else is reported as internal.
func AsError(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
}
