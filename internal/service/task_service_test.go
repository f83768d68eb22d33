package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/cache"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *mocks.MockTaskStore
	cache      *cache.Memory
	dispatcher *mocks.MockDispatcher
	logs       *logger.LogBuffer
	svc        service.TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	buf, log := logger.NewBufferedLogger()
	f := &fixture{
		store:      mocks.NewMockTaskStore(),
		cache:      cache.NewMemory(),
		dispatcher: &mocks.MockDispatcher{},
		logs:       buf,
	}
	svc, err := service.NewTaskService(f.store, f.cache, f.dispatcher, log)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) create(t *testing.T, title, description string) *domain.Task {
	t.Helper()
	task, err := f.svc.CreateTask(context.Background(), service.TaskInput{Title: title, Description: description})
	require.NoError(t, err)
	return task
}

func TestNewTaskServiceRequiresDependencies(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	c := cache.NewMemory()
	d := &mocks.MockDispatcher{}

	_, err := service.NewTaskService(nil, c, d, nil)
	assert.Error(t, err)
	_, err = service.NewTaskService(taskStore, nil, d, nil)
	assert.Error(t, err)
	_, err = service.NewTaskService(taskStore, c, nil, nil)
	assert.Error(t, err)

	svc, err := service.NewTaskService(taskStore, c, d, nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestCreateTask(t *testing.T) {
	t.Run("assigns id and equal timestamps", func(t *testing.T) {
		f := newFixture(t)

		task := f.create(t, "Buy milk", "2 litres")

		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, "Buy milk", task.Title)
		assert.Equal(t, "2 litres", task.Description)
		assert.True(t, task.CreatedAt.Equal(task.UpdatedAt))
		assert.Equal(t, 1, f.store.Len())
	})

	t.Run("dispatches a notification", func(t *testing.T) {
		f := newFixture(t)

		task := f.create(t, "Notify me", "")

		dispatched := f.dispatcher.Dispatched()
		require.Len(t, dispatched, 1)
		assert.Equal(t, task.ID, dispatched[0].ID)
	})

	t.Run("notification failure does not fail create", func(t *testing.T) {
		f := newFixture(t)
		f.dispatcher.DispatchFn = func(context.Context, domain.Task) error {
			return errors.New("queue full")
		}

		task, err := f.svc.CreateTask(context.Background(), service.TaskInput{Title: "Still created"})

		require.NoError(t, err)
		require.NotNil(t, task)
		assert.Equal(t, 1, f.store.Len())
		assert.Contains(t, f.logs.String(), "task notification dropped")
	})

	t.Run("invalid input is rejected before the store", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateTask(context.Background(), service.TaskInput{Title: "  "})

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
		assert.Equal(t, 0, f.store.Calls("Create"))
		assert.Empty(t, f.dispatcher.Dispatched())
	})

	t.Run("title over limit is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateTask(context.Background(), service.TaskInput{Title: strings.Repeat("a", 256)})

		assert.ErrorIs(t, err, domain.ErrTaskTitleTooLong)
	})

	t.Run("store failure is wrapped and nothing is dispatched", func(t *testing.T) {
		f := newFixture(t)
		cause := errors.New("disk full")
		f.store.CreateFn = func(context.Context, *domain.Task) error { return cause }
		f.cache.Put(context.Background(), cache.AllTasksKey, []domain.Task{})

		_, err := f.svc.CreateTask(context.Background(), service.TaskInput{Title: "x"})

		var svcErr *service.TaskServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "create_task", svcErr.Operation)
		assert.ErrorIs(t, err, cause)
		assert.Empty(t, f.dispatcher.Dispatched())
		assert.Equal(t, 1, f.cache.Len(), "failed writes must not clear the cache")
	})
}

func TestGetTaskByID(t *testing.T) {
	t.Run("returns the created task", func(t *testing.T) {
		f := newFixture(t)
		created := f.create(t, "Read book", "chapter 3")

		got, err := f.svc.GetTaskByID(context.Background(), created.ID)

		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Read book", got.Title)
		assert.Equal(t, "chapter 3", got.Description)
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		f := newFixture(t)
		created := f.create(t, "Cached", "")

		_, err := f.svc.GetTaskByID(context.Background(), created.ID)
		require.NoError(t, err)
		_, err = f.svc.GetTaskByID(context.Background(), created.ID)
		require.NoError(t, err)

		assert.Equal(t, 1, f.store.Calls("GetByID"))
	})

	t.Run("returned task does not alias the cache", func(t *testing.T) {
		f := newFixture(t)
		created := f.create(t, "Original", "")

		got, err := f.svc.GetTaskByID(context.Background(), created.ID)
		require.NoError(t, err)
		got.Title = "mutated"

		again, err := f.svc.GetTaskByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", again.Title)
	})

	t.Run("missing task is not found and not cached", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()

		_, err := f.svc.GetTaskByID(context.Background(), id)
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
		_, err = f.svc.GetTaskByID(context.Background(), id)
		assert.ErrorIs(t, err, service.ErrTaskNotFound)

		assert.Equal(t, 2, f.store.Calls("GetByID"))
		assert.Equal(t, 0, f.cache.Len())
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		f := newFixture(t)
		f.store.GetByIDFn = func(context.Context, uuid.UUID) (*domain.Task, error) {
			return nil, errors.New("timeout")
		}

		_, err := f.svc.GetTaskByID(context.Background(), uuid.New())

		var svcErr *service.TaskServiceError
		assert.True(t, errors.As(err, &svcErr))
		assert.NotErrorIs(t, err, service.ErrTaskNotFound)
	})
}

func TestGetAllTasks(t *testing.T) {
	t.Run("empty store yields empty non-nil slice", func(t *testing.T) {
		f := newFixture(t)

		tasks, err := f.svc.GetAllTasks(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("nil from store is normalised", func(t *testing.T) {
		f := newFixture(t)
		f.store.ListFn = func(context.Context) ([]domain.Task, error) { return nil, nil }

		tasks, err := f.svc.GetAllTasks(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, tasks)
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		f := newFixture(t)
		f.create(t, "one", "")

		_, err := f.svc.GetAllTasks(context.Background())
		require.NoError(t, err)
		tasks, err := f.svc.GetAllTasks(context.Background())
		require.NoError(t, err)

		assert.Len(t, tasks, 1)
		assert.Equal(t, 1, f.store.Calls("List"))
	})

	t.Run("callers cannot corrupt the cached list", func(t *testing.T) {
		f := newFixture(t)
		f.create(t, "stable", "")

		tasks, err := f.svc.GetAllTasks(context.Background())
		require.NoError(t, err)
		tasks[0].Title = "mutated"

		again, err := f.svc.GetAllTasks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "stable", again[0].Title)
	})

	t.Run("store failure is wrapped and not cached", func(t *testing.T) {
		f := newFixture(t)
		cause := errors.New("connection reset")
		f.store.ListFn = func(context.Context) ([]domain.Task, error) { return nil, cause }

		_, err := f.svc.GetAllTasks(context.Background())

		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, service.ErrTaskNotFound)
		assert.Equal(t, 0, f.cache.Len())
	})
}

func TestWritesInvalidateListCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.create(t, "first", "")
	tasks, err := f.svc.GetAllTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	second := f.create(t, "second", "")
	tasks, err = f.svc.GetAllTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2, "create must be visible in the list")

	_, err = f.svc.UpdateTask(ctx, first.ID, service.TaskInput{Title: "first, renamed"})
	require.NoError(t, err)
	tasks, err = f.svc.GetAllTasks(ctx)
	require.NoError(t, err)
	titles := []string{tasks[0].Title, tasks[1].Title}
	assert.Contains(t, titles, "first, renamed", "update must be visible in the list")

	_, err = f.svc.DeleteTask(ctx, second.ID)
	require.NoError(t, err)
	tasks, err = f.svc.GetAllTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1, "delete must be visible in the list")
	assert.Equal(t, first.ID, tasks[0].ID)

	got, err := f.svc.GetTaskByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first, renamed", got.Title, "single-task entries are cleared too")
}

func TestUpdateTask(t *testing.T) {
	t.Run("changes fields and advances updated_at", func(t *testing.T) {
		f := newFixture(t)
		created := f.create(t, "old title", "old")

		updated, err := f.svc.UpdateTask(context.Background(), created.ID, service.TaskInput{
			Title:       "new title",
			Description: "new",
		})

		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "new title", updated.Title)
		assert.Equal(t, "new", updated.Description)
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("missing task leaves store and cache alone", func(t *testing.T) {
		f := newFixture(t)
		f.create(t, "bystander", "")
		_, err := f.svc.GetAllTasks(context.Background())
		require.NoError(t, err)
		cached := f.cache.Len()

		_, err = f.svc.UpdateTask(context.Background(), uuid.New(), service.TaskInput{Title: "ghost"})

		assert.ErrorIs(t, err, service.ErrTaskNotFound)
		assert.Equal(t, 0, f.store.Calls("Update"))
		assert.Equal(t, cached, f.cache.Len())
		assert.Equal(t, 1, f.store.Len())
	})

	t.Run("invalid input leaves task unchanged", func(t *testing.T) {
		f := newFixture(t)
		created := f.create(t, "keep", "")

		_, err := f.svc.UpdateTask(context.Background(), created.ID, service.TaskInput{Title: ""})
		assert.ErrorIs(t, err, domain.ErrValidation)

		got, err := f.svc.GetTaskByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "keep", got.Title)
		assert.Equal(t, 0, f.store.Calls("Update"))
	})

	t.Run("task deleted during update reports not found", func(t *testing.T) {
		f := newFixture(t)
		created := f.create(t, "racing", "")
		f.cache.Put(context.Background(), cache.AllTasksKey, []domain.Task{})
		f.store.UpdateFn = func(context.Context, *domain.Task) error {
			return store.ErrTaskNotFound
		}

		_, err := f.svc.UpdateTask(context.Background(), created.ID, service.TaskInput{Title: "late"})

		assert.ErrorIs(t, err, service.ErrTaskNotFound)
		assert.Equal(t, 1, f.cache.Len())
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("removes the task", func(t *testing.T) {
		f := newFixture(t)
		created := f.create(t, "doomed", "")

		result, err := f.svc.DeleteTask(context.Background(), created.ID)

		require.NoError(t, err)
		assert.Equal(t, created.ID, result.DeletedID)
		assert.False(t, result.DeletedAt.IsZero())

		_, err = f.svc.GetTaskByID(context.Background(), created.ID)
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
	})

	t.Run("missing task leaves store and cache alone", func(t *testing.T) {
		f := newFixture(t)
		f.create(t, "bystander", "")
		_, err := f.svc.GetAllTasks(context.Background())
		require.NoError(t, err)
		cached := f.cache.Len()

		_, err = f.svc.DeleteTask(context.Background(), uuid.New())

		assert.ErrorIs(t, err, service.ErrTaskNotFound)
		assert.Equal(t, cached, f.cache.Len())
		assert.Equal(t, 1, f.store.Len())
	})

	t.Run("store failure is wrapped and cache kept", func(t *testing.T) {
		f := newFixture(t)
		f.cache.Put(context.Background(), cache.AllTasksKey, []domain.Task{})
		f.store.DeleteFn = func(context.Context, uuid.UUID) error { return errors.New("locked") }

		_, err := f.svc.DeleteTask(context.Background(), uuid.New())

		var svcErr *service.TaskServiceError
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, 1, f.cache.Len())
	})
}
