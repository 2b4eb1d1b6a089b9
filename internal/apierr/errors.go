// Package apierr provides shared error sentinels, classification and retry
// infrastructure for the OpenAI-backed clients. Provider errors are mapped
// to these sentinels at the adapter boundary.
//
// Adapters wrap with fmt.Errorf("%s: %w", msg, sentinel).
// Callers check with errors.Is(err, apierr.ErrRateLimit) or IsService(err).
package apierr

import "errors"

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	// The transcription endpoint answers 400 for unsupported audio formats.
	ErrBadRequest = errors.New("bad request")

	// ErrServer indicates the service answered with a 5xx status.
	ErrServer = errors.New("service unavailable")
)

// serviceErrors lists every sentinel that identifies a failure of the
// external service (as opposed to local I/O or validation).
var serviceErrors = []error{
	ErrRateLimit,
	ErrQuotaExceeded,
	ErrTimeout,
	ErrAuthFailed,
	ErrBadRequest,
	ErrServer,
}

// IsService reports whether err was classified as an external service failure.
func IsService(err error) bool {
	for _, s := range serviceErrors {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}
