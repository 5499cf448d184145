// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for signon.

It provides a rich error type that bridges the gap between low-level storage,
provider and crypto errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing a machine-readable Code and a client-safe message.
  - Kinds: Authentication failures are typed by Code and exposed as sentinels
    ([ErrInvalidCredentials], [ErrUnsupportedProvider], [ErrOAuthAuthentication],
    [ErrInvalidToken]) so callers can branch with [errors.Is].
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeConflict            = "CONFLICT"
	CodeValidation          = "VALIDATION_ERROR"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUnsupportedProvider = "UNSUPPORTED_PROVIDER"
	CodeOAuthFailed         = "OAUTH_FAILED"
	CodeUnauthenticated     = "UNAUTHENTICATED"
)

// AppError is the canonical error type for the signon API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries or
// provider responses).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an [*AppError] of the same kind.
//
// Two AppErrors are the same kind when their codes match, so a freshly built
// error carrying a cause still matches its package-level sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// # Authentication Kinds

var (
	// ErrInvalidCredentials is returned when an email/password pair does not
	// authenticate. It never says which of the two was wrong.
	ErrInvalidCredentials = InvalidCredentials()

	// ErrUnsupportedProvider is returned for an OAuth provider name that is not registered.
	ErrUnsupportedProvider = &AppError{Code: CodeUnsupportedProvider, Message: "Unsupported authentication provider", HTTPStatus: http.StatusBadRequest}

	// ErrOAuthAuthentication is returned when a provider exchange fails.
	ErrOAuthAuthentication = OAuthFailed(nil)

	// ErrInvalidToken is returned when a session token fails verification.
	ErrInvalidToken = InvalidToken(nil)
)

// InvalidCredentials creates a 401 [AppError] for a failed email/password login.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    "Invalid email or password",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// UnsupportedProvider creates a 400 [AppError] naming the rejected provider.
func UnsupportedProvider(provider string) *AppError {
	return &AppError{
		Code:       CodeUnsupportedProvider,
		Message:    fmt.Sprintf("'%s' is not a supported authentication provider", provider),
		HTTPStatus: http.StatusBadRequest,
	}
}

// OAuthFailed creates a 401 [AppError] wrapping the upstream provider failure.
// The client only ever sees the generic message.
func OAuthFailed(cause error) *AppError {
	return &AppError{
		Code:       CodeOAuthFailed,
		Message:    "Authentication with the provider failed",
		HTTPStatus: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// InvalidToken creates a 401 [AppError] for a session token that failed
// verification. Malformed, forged and expired tokens all look the same.
func InvalidToken(cause error) *AppError {
	return &AppError{
		Code:       CodeUnauthenticated,
		Message:    "Unauthenticated",
		HTTPStatus: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("User") // Returns "User not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err's chain contains an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
