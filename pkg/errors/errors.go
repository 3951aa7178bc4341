package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// Code identifies a business failure independently of the message text shown
// to a client. Handlers translate codes into localized messages; the core
// layers never deal in display strings.
type Code string

const (
	CodeNameEmpty              Code = "NAME_EMPTY"
	CodeNameTooLong            Code = "NAME_LENGTH"
	CodeEmailEmpty             Code = "EMAIL_EMPTY"
	CodeEmailInvalid           Code = "EMAIL_INVALID"
	CodePasswordEmpty          Code = "PASSWORD_EMPTY"
	CodePasswordTooShort       Code = "INVALID_PASSWORD"
	CodeEmailAlreadyRegistered Code = "EMAIL_ALREADY_REGISTERED"
	CodePasswordMismatch       Code = "PASSWORD_DIFFERENT_CURRENT_PASSWORD"
	CodeInvalidCredentials     Code = "EMAIL_OR_PASSWORD_INVALID"
	CodeNoToken                Code = "NO_TOKEN"
	CodeTokenInvalid           Code = "TOKEN_INVALID"
	CodeTokenExpired           Code = "TOKEN_EXPIRED"
	CodeAccessDenied           Code = "USER_WITHOUT_PERMISSION_ACCESS_RESOURCE"
	CodeUnknown                Code = "UNKNOWN_ERROR"
)

// Common authorization failures. Each is a distinct value so callers can
// branch with errors.Is; only the expired case warrants a different client
// action than the rest.
var (
	ErrNoToken      = &AuthorizationError{Code: CodeNoToken}
	ErrTokenInvalid = &AuthorizationError{Code: CodeTokenInvalid}
	ErrTokenExpired = &AuthorizationError{Code: CodeTokenExpired}
	ErrAccessDenied = &AuthorizationError{Code: CodeAccessDenied}

	// ErrInvalidCredentials is returned for any failed login. The code is
	// deliberately the same for a wrong email and a wrong password.
	ErrInvalidCredentials = &InvalidCredentialsError{}
)

// ValidationError carries the ordered list of rule violations for one
// request. It always holds at least one code and maps to a 400.
type ValidationError struct {
	Codes []Code
}

// NewValidationError creates a validation error from the accumulated codes.
func NewValidationError(codes ...Code) *ValidationError {
	return &ValidationError{Codes: codes}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Codes))
	for i, c := range e.Codes {
		parts[i] = string(c)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, ", "))
}

// HTTPStatus returns the HTTP status for this error.
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// InvalidCredentialsError represents a failed login attempt.
type InvalidCredentialsError struct{}

// Error implements the error interface.
func (e *InvalidCredentialsError) Error() string {
	return "invalid email or password"
}

// Code returns the stable failure code.
func (e *InvalidCredentialsError) ErrorCode() Code {
	return CodeInvalidCredentials
}

// HTTPStatus returns the HTTP status for this error.
func (e *InvalidCredentialsError) HTTPStatus() int {
	return http.StatusUnauthorized
}

// AuthorizationError represents a rejected protected request. The four
// outward kinds are NO_TOKEN, TOKEN_INVALID, TOKEN_EXPIRED and the generic
// ACCESS_DENIED that every unclassified failure degrades to.
type AuthorizationError struct {
	Code Code
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Code)
}

// Expired reports whether the failure was caused by an expired token,
// the only case a client may react to by refreshing instead of rejecting.
func (e *AuthorizationError) Expired() bool {
	return e.Code == CodeTokenExpired
}

// HTTPStatus returns the HTTP status for this error.
func (e *AuthorizationError) HTTPStatus() int {
	return http.StatusUnauthorized
}

// HTTPStatuser is implemented by errors that know the status code the
// boundary should answer with.
type HTTPStatuser interface {
	HTTPStatus() int
}
