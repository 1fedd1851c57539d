package apperror

import (
	"errors"
	"net/http"
)

// Code classifies an Error for callers. The values are sent to GraphQL
// clients as extensions.code.
type Code string

const (
	CodeNotAuthenticated   Code = "UNAUTHENTICATED"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeUsernameTaken      Code = "USERNAME_TAKEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeValidation         Code = "BAD_USER_INPUT"
	CodeInternal           Code = "INTERNAL"
)

// Error is the request-level failure returned by services. Two Errors match
// under errors.Is when their codes are equal.
type Error struct {
	Code    Code
	Message string
	Err     error
}

var (
	ErrNotAuthenticated   = &Error{Code: CodeNotAuthenticated, Message: "Please login first"}
	ErrInvalidToken       = &Error{Code: CodeInvalidToken, Message: "Invalid token"}
	ErrForbidden          = &Error{Code: CodeForbidden, Message: "Only admins can do this"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "Wrong username or password"}
	ErrUsernameTaken      = &Error{Code: CodeUsernameTaken, Message: "Username already taken"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "Not found"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "Validation failed"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "Internal server error"}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithCause returns a copy of e carrying err as its underlying cause.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Extensions satisfies graphql-go's ExtendedError so the code reaches the
// client next to the message.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Code)}
}

// HTTPStatus is the status a plain HTTP handler should answer with.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeNotAuthenticated, CodeInvalidToken, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUsernameTaken:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Code: CodeInternal, Message: msg, Err: err}
}

// From returns err as an *Error, classifying anything unknown as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(ErrInternal.Message, err)
}
