package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
// Unrecognised errors are treated as server failures.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusInternalServerError

	case errors.Is(err, service.ErrTaskNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	case store.IsDuplicateError(err):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, shared.ErrMalformedBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message that never includes
// internal error text.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch MapErrorToStatusCode(err) {
	case http.StatusNotFound:
		return "Task not found"
	case http.StatusConflict:
		return "Task already exists"
	case http.StatusBadRequest:
		return SanitizeValidationError(err)
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validation and decoding failures into a short
// message naming the offending fields.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	var domainErr *domain.ValidationError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"

	case errors.As(err, &validationErrs):
		messages := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			messages = append(messages, fieldErrorMessage(fe))
		}
		return strings.Join(messages, "; ")

	case errors.As(err, &domainErr):
		return domainErr.Error()

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("%s has an invalid type", typeErr.Field)
		}
		return "Invalid request format"

	case errors.Is(err, shared.ErrMalformedBody):
		return "Invalid request format"

	default:
		return "Validation error"
	}
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// HandleAPIError writes the error response for err. A non-empty message
// replaces the default safe message; the error itself is only logged.
func HandleAPIError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	message string,
	opts ...shared.ResponseOption,
) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
