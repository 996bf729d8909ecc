package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ResponseError is the raw shape handed to Classify when the server answered
// with a non-2xx status. The pipeline builds it; callers only ever see the
// classified result.
type ResponseError struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("http %d", e.StatusCode)
}

// Classify maps a raw transport or HTTP failure into exactly one error kind
// with a user-facing message. It is pure given the raw error shape and never
// mutates session state; that is the caller's responsibility.
func Classify(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	// Already classified errors pass through unchanged.
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode != "" {
		return richErr
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return classifyResponse(respErr)
	}

	return classifyTransport(err)
}

// classifyTransport covers failures with no HTTP response at all: the network
// is down, the request timed out, or the browser-equivalent refused the
// cross-origin call. Message text is actionable, never the raw exception.
func classifyTransport(err error) *goerrors.Error {
	var netErr net.Error
	timedOut := errors.As(err, &netErr) && netErr.Timeout()
	if timedOut || errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryOperation,
			"The connection timed out. Check your internet connection and try again.").
			WithTextCode(KindTimeoutError)
	}

	if strings.Contains(strings.ToLower(err.Error()), "cors") {
		return goerrors.Wrap(err, goerrors.CategoryOperation,
			"Cross-origin configuration error. Contact technical support.").
			WithTextCode(KindCORSError)
	}

	return goerrors.Wrap(err, goerrors.CategoryOperation,
		"Unable to reach the server. Check your internet connection.").
		WithTextCode(KindNetworkError)
}

func classifyResponse(resp *ResponseError) *goerrors.Error {
	body := decodeBody(resp.Body)
	status := resp.StatusCode

	meta := map[string]any{"status_code": status}
	if len(body) > 0 {
		meta["details"] = body
	}

	switch status {
	case http.StatusBadRequest:
		msg := serverMessage(body, "Invalid data. Check your information.")
		return goerrors.New(msg, goerrors.CategoryValidation).
			WithTextCode(KindValidationError).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(meta)

	case http.StatusUnauthorized:
		return goerrors.New("Session expired. Please log in again.", goerrors.CategoryAuth).
			WithTextCode(KindAuthError).
			WithCode(goerrors.CodeUnauthorized).
			WithMetadata(meta)

	case http.StatusForbidden:
		return goerrors.New("Access denied. You do not have the required permissions.", goerrors.CategoryAuth).
			WithTextCode(KindAuthError).
			WithCode(goerrors.CodeForbidden).
			WithMetadata(meta)

	case http.StatusNotFound:
		msg := serverMessage(body, "Resource not found. The requested URL does not exist.")
		return goerrors.New(msg, goerrors.CategoryNotFound).
			WithTextCode(KindServerError).
			WithCode(goerrors.CodeNotFound).
			WithMetadata(meta)

	case http.StatusMethodNotAllowed:
		return goerrors.New("Method not allowed. Server configuration error.", goerrors.CategoryInternal).
			WithTextCode(KindServerError).
			WithMetadata(meta)

	case http.StatusUnprocessableEntity:
		msg := "Submitted data failed validation."
		for _, extract := range DefaultValidationExtractors() {
			if m, ok := extract(body); ok {
				msg = m
				break
			}
		}
		return goerrors.New(msg, goerrors.CategoryValidation).
			WithTextCode(KindValidationError).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(meta)

	case http.StatusTooManyRequests:
		msg := "Too many attempts. Please wait before retrying."
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			msg = fmt.Sprintf("Too many attempts. Retry in %s seconds.", retryAfter)
		}
		if m := serverMessage(body, ""); m != "" {
			msg = m
		}
		return goerrors.New(msg, goerrors.CategoryRateLimit).
			WithTextCode(KindServerError).
			WithMetadata(meta)

	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return goerrors.New("Temporary server error. Please try again in a few moments.", goerrors.CategoryInternal).
			WithTextCode(KindServerError).
			WithCode(goerrors.CodeInternal).
			WithMetadata(meta)

	default:
		msg := serverMessage(body, "An unexpected error occurred.")
		return goerrors.New(msg, goerrors.CategoryInternal).
			WithTextCode(KindUnknownError).
			WithMetadata(meta)
	}
}

func decodeBody(raw []byte) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	return body
}

func serverMessage(body map[string]any, fallback string) string {
	if msg, ok := body["message"].(string); ok && msg != "" {
		return msg
	}
	return fallback
}
