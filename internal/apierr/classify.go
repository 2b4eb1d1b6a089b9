package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Classify maps go-openai errors to sentinel errors.
// Unknown errors are returned unchanged; nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if wrapped := classifyStatus(apiErr.HTTPStatusCode, apiErr.Message); wrapped != nil {
			return wrapped
		}
	}

	// Non-JSON error bodies (proxies, gateways) surface as RequestError.
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if wrapped := classifyStatus(reqErr.HTTPStatusCode, reqErr.Error()); wrapped != nil {
			return wrapped
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ErrTimeout)
	}

	return err
}

// classifyStatus returns nil when the status code has no sentinel.
func classifyStatus(status int, msg string) error {
	switch status {
	case http.StatusTooManyRequests:
		// Quota exceeded requires user action and must not be retried.
		if strings.Contains(msg, "quota") || strings.Contains(msg, "billing") {
			return fmt.Errorf("%s: %w", msg, ErrQuotaExceeded)
		}
		return fmt.Errorf("%s: %w", msg, ErrRateLimit)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", msg, ErrQuotaExceeded)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", msg, ErrAuthFailed)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", msg, ErrTimeout)
	case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound,
		http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return fmt.Errorf("%s: %w", msg, ErrBadRequest)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Errorf("%s: %w", msg, ErrServer)
	}
	return nil
}

// IsRetryable determines if a classified error is transient.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServer)
}
