package service

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/cache"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/redact"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskInput carries the client-supplied fields of a task.
type TaskInput struct {
	Title       string
	Description string
}

// DeleteResult describes a completed deletion.
type DeleteResult struct {
	DeletedID uuid.UUID
	DeletedAt time.Time
}

// NotificationDispatcher accepts task-created notifications for asynchronous delivery.
// Dispatch must not block; an error means the notification was dropped.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, task domain.Task) error
}

// TaskService provides task-related operations
type TaskService interface {
	// CreateTask validates and stores a new task, then queues the admin notification.
	CreateTask(ctx context.Context, input TaskInput) (*domain.Task, error)

	// GetAllTasks returns every task, oldest first. The result is never nil.
	GetAllTasks(ctx context.Context) ([]domain.Task, error)

	// GetTaskByID returns the task with the given ID or ErrTaskNotFound.
	GetTaskByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// UpdateTask replaces the title and description of an existing task.
	UpdateTask(ctx context.Context, id uuid.UUID, input TaskInput) (*domain.Task, error)

	// DeleteTask removes the task with the given ID.
	DeleteTask(ctx context.Context, id uuid.UUID) (*DeleteResult, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	store      store.TaskStore
	cache      cache.Cache
	dispatcher NotificationDispatcher
	logger     *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	taskCache cache.Cache,
	dispatcher NotificationDispatcher,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "taskStore cannot be nil"}
	}
	if taskCache == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "taskCache cannot be nil"}
	}
	if dispatcher == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "dispatcher cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		store:      taskStore,
		cache:      taskCache,
		dispatcher: dispatcher,
		logger:     logger.With("component", "task_service"),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, input TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(input.Title, input.Description)
	if err != nil {
		log.Debug("rejected invalid task", slog.String("error", redact.Error(err)))
		return nil, NewTaskServiceError("create_task", "invalid task", err)
	}

	if err := s.store.Create(ctx, task); err != nil {
		log.Error("failed to save task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	s.invalidate(ctx, "create_task")

	if err := s.dispatcher.Dispatch(ctx, *task); err != nil {
		log.Warn("task notification dropped",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
	}

	log.Info("task created", slog.String("task_id", task.ID.String()))
	return task, nil
}

// GetAllTasks implements TaskService.GetAllTasks
func (s *taskServiceImpl) GetAllTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := cache.GetOrCompute(ctx, s.cache, cache.AllTasksKey, func(ctx context.Context) ([]domain.Task, error) {
		logger.FromContextOrDefault(ctx, s.logger).Debug("task list cache miss")
		tasks, err := s.store.List(ctx)
		if err != nil {
			return nil, err
		}
		if tasks == nil {
			tasks = []domain.Task{}
		}
		return tasks, nil
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", redact.Error(err)))
		return nil, &TaskServiceError{Operation: "list_tasks", Message: "failed to load tasks", Err: err}
	}

	// The cached slice is shared; hand out a copy.
	return slices.Clone(tasks), nil
}

// GetTaskByID implements TaskService.GetTaskByID
func (s *taskServiceImpl) GetTaskByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := cache.GetOrCompute(ctx, s.cache, cache.TaskKey(id), func(ctx context.Context) (domain.Task, error) {
		logger.FromContextOrDefault(ctx, s.logger).Debug("task cache miss", slog.String("task_id", id.String()))
		found, err := s.store.GetByID(ctx, id)
		if err != nil {
			return domain.Task{}, err
		}
		return *found, nil
	})
	if err != nil {
		return nil, s.lookupError(ctx, "get_task", id, err)
	}

	return &task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(ctx context.Context, id uuid.UUID, input TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, "update_task", id, err)
	}

	if err := task.ApplyChanges(input.Title, input.Description); err != nil {
		log.Debug("rejected invalid task update",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return nil, NewTaskServiceError("update_task", "invalid task", err)
	}

	if err := s.store.Update(ctx, task); err != nil {
		if store.IsNotFoundError(err) {
			// Deleted between the lookup and the write.
			return nil, ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return nil, NewTaskServiceError("update_task", "failed to save task", err)
	}

	s.invalidate(ctx, "update_task")

	log.Info("task updated", slog.String("task_id", id.String()))
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.store.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for delete", slog.String("task_id", id.String()))
			return nil, ErrTaskNotFound
		}
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return nil, NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	s.invalidate(ctx, "delete_task")

	log.Info("task deleted", slog.String("task_id", id.String()))
	return &DeleteResult{DeletedID: id, DeletedAt: domain.Now()}, nil
}

// invalidate clears the whole cache after a successful write.
func (s *taskServiceImpl) invalidate(ctx context.Context, operation string) {
	s.cache.ClearAll(ctx)
	logger.FromContextOrDefault(ctx, s.logger).Debug("cache cleared", slog.String("operation", operation))
}

func (s *taskServiceImpl) lookupError(ctx context.Context, operation string, id uuid.UUID, err error) error {
	if store.IsNotFoundError(err) {
		logger.FromContextOrDefault(ctx, s.logger).Debug("task not found", slog.String("task_id", id.String()))
		return ErrTaskNotFound
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("failed to load task",
		slog.String("error", redact.Error(err)),
		slog.String("task_id", id.String()),
		slog.String("operation", operation))
	return NewTaskServiceError(operation, "failed to load task", err)
}
