package authclient

import (
	goerrors "github.com/goliatone/go-errors"
)

// Error kinds. Every failure surfaced by this package carries exactly one of
// these as its text code; raw transport errors never reach calling code.
const (
	KindNetworkError    = "NETWORK_ERROR"
	KindCORSError       = "CORS_ERROR"
	KindTimeoutError    = "TIMEOUT_ERROR"
	KindValidationError = "VALIDATION_ERROR"
	KindAuthError       = "AUTH_ERROR"
	KindServerError     = "SERVER_ERROR"
	KindUnknownError    = "UNKNOWN_ERROR"
)

// ErrNoSession is returned by restoration when neither storage tier holds a
// token; it is a terminal outcome, not a failure to surface.
var ErrNoSession = goerrors.New("no persisted session", goerrors.CategoryAuth).
	WithTextCode(KindAuthError).
	WithCode(goerrors.CodeUnauthorized)

// ErrMissingAuthCode is returned by the OAuth callback when the provider
// redirect carries no authorization code.
var ErrMissingAuthCode = goerrors.New("authorization code missing from callback", goerrors.CategoryBadInput).
	WithTextCode(KindValidationError).
	WithCode(goerrors.CodeBadRequest)

// ErrAuthorizationDenied is returned when the provider reports the user
// refused the OAuth consent screen.
var ErrAuthorizationDenied = goerrors.New("authorization was denied", goerrors.CategoryAuth).
	WithTextCode(KindAuthError).
	WithCode(goerrors.CodeUnauthorized)

// ErrMissingResetToken is returned by ConfirmResetPassword when no reset
// token is held in session state.
var ErrMissingResetToken = goerrors.New("password reset token missing or expired", goerrors.CategoryBadInput).
	WithTextCode(KindValidationError).
	WithCode(goerrors.CodeBadRequest)

// Kind returns the taxonomy kind carried by a classified error, or
// KindUnknownError when the error was not produced by this package.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode != "" {
		return richErr.TextCode
	}
	return KindUnknownError
}

// Message returns the user-facing message of a classified error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}
	return err.Error()
}

// IsAuthError reports whether err was classified as an authentication
// failure (401/403 family).
func IsAuthError(err error) bool {
	return Kind(err) == KindAuthError
}

// IsValidationError reports whether err was classified as a validation
// failure (400/422 family).
func IsValidationError(err error) bool {
	return Kind(err) == KindValidationError
}

// IsTimeoutError reports whether err was classified as a transport timeout.
func IsTimeoutError(err error) bool {
	return Kind(err) == KindTimeoutError
}

// IsRetryable reports whether the pipeline may retry the request that
// produced err. Only transport timeouts qualify.
func IsRetryable(err error) bool {
	return IsTimeoutError(err)
}
