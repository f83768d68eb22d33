package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	validationErr := shared.ValidateRequest(TaskRequest{})
	require.Error(t, validationErr)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusInternalServerError},
		{name: "service not found", err: service.ErrTaskNotFound, want: http.StatusNotFound},
		{name: "store not found", err: store.ErrTaskNotFound, want: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", service.ErrTaskNotFound), want: http.StatusNotFound},
		{name: "duplicate", err: store.ErrDuplicate, want: http.StatusConflict},
		{name: "domain validation", err: domain.ErrEmptyTaskTitle, want: http.StatusBadRequest},
		{
			name: "validation inside service error",
			err:  &service.TaskServiceError{Operation: "create_task", Err: domain.NewValidationError("title", "is required", domain.ErrEmptyTaskTitle)},
			want: http.StatusBadRequest,
		},
		{name: "invalid id", err: domain.ErrInvalidID, want: http.StatusBadRequest},
		{
			name: "wrapped store duplicate",
			err:  store.NewStoreError("task", "create", "insert failed", store.ErrDuplicate),
			want: http.StatusConflict,
		},
		{name: "invalid entity", err: fmt.Errorf("%w: bad", store.ErrInvalidEntity), want: http.StatusBadRequest},
		{name: "request validation", err: validationErr, want: http.StatusBadRequest},
		{name: "empty body", err: shared.ErrEmptyBody, want: http.StatusBadRequest},
		{name: "malformed body", err: shared.ErrMalformedBody, want: http.StatusBadRequest},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "An unexpected error occurred"},
		{name: "not found", err: service.ErrTaskNotFound, want: "Task not found"},
		{name: "duplicate", err: store.ErrDuplicate, want: "Task already exists"},
		{
			name: "domain validation",
			err:  domain.NewValidationError("title", "must be at most 255 characters", domain.ErrTaskTitleTooLong),
			want: "title must be at most 255 characters",
		},
		{
			name: "internal details hidden",
			err:  errors.New("pq: relation \"tasks\" does not exist"),
			want: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Run("joins field messages", func(t *testing.T) {
		err := shared.ValidateRequest(TaskRequest{Description: string(make([]byte, 1001))})
		require.Error(t, err)
		assert.Equal(t,
			"title is required; description must be at most 1000 characters",
			SanitizeValidationError(err))
	})

	t.Run("type mismatch names the field", func(t *testing.T) {
		var req TaskRequest
		err := json.Unmarshal([]byte(`{"description": 7}`), &req)
		require.Error(t, err)
		assert.Equal(t, "description has an invalid type", SanitizeValidationError(err))
	})

	t.Run("empty body", func(t *testing.T) {
		assert.Equal(t, "Request body is required", SanitizeValidationError(shared.ErrEmptyBody))
	})

	t.Run("malformed path id", func(t *testing.T) {
		err := domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID)
		assert.Equal(t, "Invalid ID format", SanitizeValidationError(err))
		assert.Equal(t, "Invalid ID format", GetSafeErrorMessage(err))
	})

	t.Run("unknown falls back", func(t *testing.T) {
		assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("weird")))
	})
}

func TestHandleAPIError(t *testing.T) {
	t.Run("custom message overrides safe message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks/x", nil)
		w := httptest.NewRecorder()

		HandleAPIError(w, req, service.ErrTaskNotFound, "Task with ID x not found")

		require.Equal(t, http.StatusNotFound, w.Code)
		var body shared.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Task with ID x not found", body.Message)
		assert.Equal(t, "Not Found", body.Error)
		assert.Equal(t, "/api/tasks/x", body.Path)
	})

	t.Run("internal errors never leak", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		w := httptest.NewRecorder()

		HandleAPIError(w, req, errors.New("password=supersecret rejected"), "")

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "supersecret")
	})
}
