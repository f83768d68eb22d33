// Package storetest holds a behavioural test suite that every store.TaskStore
// implementation must pass.
package storetest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store for a single subtest.
type Factory func(t *testing.T) store.TaskStore

// RunTaskStoreContract runs the shared TaskStore behaviour against newStore.
func RunTaskStoreContract(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		task := mustTask(t, "Write docs", "for the API")

		require.NoError(t, s.Create(ctx, task))

		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assertSameTask(t, *task, *got)
	})

	t.Run("get missing returns ErrTaskNotFound", func(t *testing.T) {
		s := newStore(t)

		got, err := s.GetByID(context.Background(), uuid.New())
		assert.Nil(t, got)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list empty is non-nil", func(t *testing.T) {
		s := newStore(t)

		tasks, err := s.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("list returns oldest first", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first := mustTask(t, "first", "")
		second := mustTask(t, "second", "")
		second.CreatedAt = first.CreatedAt.Add(time.Second)
		second.UpdatedAt = second.CreatedAt

		require.NoError(t, s.Create(ctx, second))
		require.NoError(t, s.Create(ctx, first))

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, first.ID, tasks[0].ID)
		assert.Equal(t, second.ID, tasks[1].ID)
	})

	t.Run("create duplicate id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		task := mustTask(t, "dup", "")

		require.NoError(t, s.Create(ctx, task))
		err := s.Create(ctx, task)
		assert.ErrorIs(t, err, store.ErrDuplicate)

		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "create", storeErr.Operation)
	})

	t.Run("create invalid task", func(t *testing.T) {
		s := newStore(t)
		task := mustTask(t, "valid", "")
		task.Title = "   "

		err := s.Create(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
	})

	t.Run("update refreshes updated_at and keeps created_at", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		task := mustTask(t, "before", "old")
		require.NoError(t, s.Create(ctx, task))
		createdAt := task.CreatedAt

		changed := *task
		require.NoError(t, changed.ApplyChanges("after", "new"))
		require.NoError(t, s.Update(ctx, &changed))

		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "after", got.Title)
		assert.Equal(t, "new", got.Description)
		assert.True(t, got.CreatedAt.Equal(createdAt), "created_at must not change")
		assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
		assert.True(t, got.UpdatedAt.Equal(changed.UpdatedAt), "stored updated_at should match the refreshed value")
	})

	t.Run("update missing returns ErrTaskNotFound", func(t *testing.T) {
		s := newStore(t)
		task := mustTask(t, "ghost", "")

		err := s.Update(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		task := mustTask(t, "doomed", "")
		require.NoError(t, s.Create(ctx, task))

		require.NoError(t, s.Delete(ctx, task.ID))

		_, err := s.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		err = s.Delete(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound, "second delete should report not found")
	})

	t.Run("unicode content round trips", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		task := mustTask(t, strings.Repeat("é", domain.MaxTitleLength), "日本語の説明")
		require.NoError(t, s.Create(ctx, task))

		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.Title, got.Title)
		assert.Equal(t, task.Description, got.Description)
	})
}

func mustTask(t *testing.T, title, description string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(title, description)
	require.NoError(t, err)
	return task
}

func assertSameTask(t *testing.T, want, got domain.Task) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Description, got.Description)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at: want %v, got %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updated_at: want %v, got %v", want.UpdatedAt, got.UpdatedAt)
}
