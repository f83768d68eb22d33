package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestNewTaskServiceError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, NewTaskServiceError("get_task", "lookup failed", nil))
	})

	t.Run("store not found becomes sentinel", func(t *testing.T) {
		err := NewTaskServiceError("get_task", "lookup failed", fmt.Errorf("wrapped: %w", store.ErrTaskNotFound))
		assert.Same(t, ErrTaskNotFound, err)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewTaskServiceError("list_tasks", "failed to load tasks", cause)

		var svcErr *TaskServiceError
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "list_tasks", svcErr.Operation)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "task service list_tasks failed: failed to load tasks: connection refused", err.Error())
	})

	t.Run("validation errors stay inspectable", func(t *testing.T) {
		err := NewTaskServiceError("create_task", "invalid task", domain.ErrEmptyTaskTitle)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("message without cause", func(t *testing.T) {
		err := &TaskServiceError{Operation: "create_service", Message: "store cannot be nil"}
		assert.Equal(t, "task service create_service failed: store cannot be nil", err.Error())
	})
}
