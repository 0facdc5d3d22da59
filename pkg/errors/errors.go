// Package errors defines the structured error types used across the device
// monitoring API. Every error carries a stable code and the HTTP status it
// maps to at the boundary, so handlers never have to guess. Messages on the
// predefined constructors are deliberately uniform: distinctions that would
// enable credential or tenant enumeration (unknown user vs wrong password,
// missing device vs foreign-account device) are collapsed here and preserved
// only in audit logging.
package errors

import (
	stderrors "errors"
	"net/http"
)

// Code identifies an error class. Codes are internal diagnostics; the HTTP
// boundary exposes only the status and the constructor's message.
type Code string

const (
	CodeInvalidRequest      Code = "invalid_request"
	CodeInvalidCredentials  Code = "invalid_credentials"
	CodeUpstreamUnavailable Code = "upstream_unavailable"
	CodeTokenMalformed      Code = "token_malformed"
	CodeTokenSignature      Code = "token_signature_invalid"
	CodeTokenExpired        Code = "token_expired"
	CodeTokenEncoding       Code = "token_encoding_failed"
	CodeAccessDenied        Code = "access_denied"
	CodeNotFound            Code = "not_found"
	CodeRepository          Code = "repository_error"
	CodeInternal            Code = "internal_error"
)

// AppError is a structured application error.
type AppError struct {
	code       Code
	httpStatus int
	message    string
	cause      error
}

// New creates an AppError with the given code, HTTP status, and message.
func New(code Code, httpStatus int, message string) *AppError {
	return &AppError{code: code, httpStatus: httpStatus, message: message}
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Code returns the error class.
func (e *AppError) Code() Code { return e.code }

// HTTPStatus returns the status the boundary layer responds with.
func (e *AppError) HTTPStatus() int { return e.httpStatus }

// Message returns the client-safe message, without any wrapped cause.
func (e *AppError) Message() string { return e.message }

// Unwrap exposes the cause for errors.Is/errors.As chains.
func (e *AppError) Unwrap() error { return e.cause }

// WithCause attaches an underlying error, returning a copy so the predefined
// constructors stay safe for concurrent use.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.cause = cause
	return &clone
}

// Is matches two AppErrors by code, so errors.Is works against the
// constructor results regardless of attached causes.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !stderrors.As(target, &appErr) {
		return false
	}
	return e.code == appErr.code
}

// ================================================================================
// Predefined constructors
// ================================================================================

// ErrInvalidRequest reports a missing or malformed request parameter.
func ErrInvalidRequest(message string) *AppError {
	return New(CodeInvalidRequest, http.StatusBadRequest, message)
}

// ErrInvalidCredentials is returned for any failed login. The message is
// identical for unknown users and wrong passwords.
func ErrInvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, http.StatusUnauthorized, "invalid username or password")
}

// ErrUpstreamUnavailable reports that the credential store could not be reached.
func ErrUpstreamUnavailable() *AppError {
	return New(CodeUpstreamUnavailable, http.StatusInternalServerError, "authentication service unavailable")
}

// ErrTokenMalformed reports a structurally invalid token.
func ErrTokenMalformed() *AppError {
	return New(CodeTokenMalformed, http.StatusUnauthorized, "invalid token")
}

// ErrTokenSignatureInvalid reports a token that failed the tamper check.
func ErrTokenSignatureInvalid() *AppError {
	return New(CodeTokenSignature, http.StatusUnauthorized, "invalid token")
}

// ErrTokenExpired reports a token past its expiry.
func ErrTokenExpired() *AppError {
	return New(CodeTokenExpired, http.StatusUnauthorized, "invalid token")
}

// ErrTokenEncoding reports a failure to sign a token.
func ErrTokenEncoding() *AppError {
	return New(CodeTokenEncoding, http.StatusInternalServerError, "token issuance failed")
}

// ErrAccessDenied is returned when a requested account is outside the token's
// authorized set. The message never names accounts the token does hold.
func ErrAccessDenied() *AppError {
	return New(CodeAccessDenied, http.StatusForbidden, "access denied")
}

// ErrNotFound is the uniform outcome for a device that does not exist and a
// device that exists under another account.
func ErrNotFound() *AppError {
	return New(CodeNotFound, http.StatusNotFound, "device not found")
}

// ErrRepository reports a device repository failure.
func ErrRepository() *AppError {
	return New(CodeRepository, http.StatusInternalServerError, "internal server error")
}

// ErrInternal reports an unexpected condition.
func ErrInternal() *AppError {
	return New(CodeInternal, http.StatusInternalServerError, "internal server error")
}

// ================================================================================
// Inspection helpers
// ================================================================================

// AsAppError attempts to extract an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.code == code
}

// IsNotFound reports whether err is the uniform not-found outcome.
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }
