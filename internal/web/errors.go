package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alnah/call-summary/internal/apierr"
	"github.com/alnah/call-summary/internal/pipeline"
	"github.com/alnah/call-summary/internal/storage"
)

// ErrTooLarge indicates an upload over the configured size limit.
var ErrTooLarge = errors.New("upload too large")

// statusFor maps an error to the HTTP status shown with it.
// Validation: 400, service: 502, everything else: 500.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, pipeline.ErrUnsupportedFormat),
		errors.Is(err, pipeline.ErrInvalidKind),
		errors.Is(err, storage.ErrInvalidFilename),
		errors.Is(err, storage.ErrDecode),
		errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case apierr.IsService(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// messageFor returns the text shown to the user for err.
func messageFor(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, "; ")
	}

	switch {
	case errors.Is(err, apierr.ErrAuthFailed):
		return "The AI service rejected the API key. Check OPENAI_API_KEY."
	case errors.Is(err, apierr.ErrQuotaExceeded):
		return "The AI service quota is exhausted. Check your billing details."
	case errors.Is(err, apierr.ErrRateLimit):
		return "The AI service is rate limiting requests. Try again shortly."
	case errors.Is(err, apierr.ErrTimeout):
		return "The AI service timed out. Try again."
	}
	return err.Error()
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}
