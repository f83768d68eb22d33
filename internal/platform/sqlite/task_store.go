package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/uptrace/bun"
)

type taskRecord struct {
	bun.BaseModel `bun:"table:tasks"`

	ID          string    `bun:",pk"`
	Title       string    `bun:",notnull"`
	Description string    `bun:",notnull"`
	CreatedAt   time.Time `bun:",notnull"`
	UpdatedAt   time.Time `bun:",notnull"`
}

func toTaskRecord(task *domain.Task) *taskRecord {
	return &taskRecord{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		CreatedAt:   task.CreatedAt.UTC(),
		UpdatedAt:   task.UpdatedAt.UTC(),
	}
}

func fromTaskRecord(rec taskRecord) (domain.Task, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("sqlite: stored task id %q is not a UUID: %w", rec.ID, err)
	}
	return domain.Task{
		ID:          id,
		Title:       rec.Title,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt.UTC(),
		UpdatedAt:   rec.UpdatedAt.UTC(),
	}, nil
}

// TaskStore implements store.TaskStore on SQLite through bun.
type TaskStore struct {
	db     bun.IDB
	logger *slog.Logger
}

// NewTaskStore creates a TaskStore over db, which may be a *bun.DB or a bun.Tx.
// If logger is nil, a default logger will be used.
func NewTaskStore(db bun.IDB, logger *slog.Logger) *TaskStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse is a programming error
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if _, err := s.db.NewInsert().Model(toTaskRecord(task)).Exec(ctx); err != nil {
		wrapped := storeError("create", "insert failed", err)
		if store.IsDuplicateError(wrapped) {
			log.Warn("task already exists", slog.String("task_id", task.ID.String()))
		} else {
			log.Error("failed to create task",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
		}
		return wrapped
	}

	log.Debug("task created", slog.String("task_id", task.ID.String()))
	return nil
}

// List implements store.TaskStore.List.
func (s *TaskStore) List(ctx context.Context) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var recs []taskRecord
	if err := s.db.NewSelect().
		Model(&recs).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx); err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, storeError("list", "query failed", err)
	}

	tasks := make([]domain.Task, 0, len(recs))
	for _, rec := range recs {
		task, err := fromTaskRecord(rec)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var rec taskRecord
	err := s.db.NewSelect().
		Model(&rec).
		Where("id = ?", id.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, storeError("get", "query failed", err)
	}

	task, err := fromTaskRecord(rec)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task.Touch()
	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.NewUpdate().
		Model(toTaskRecord(task)).
		Column("title", "description", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return storeError("update", "update failed", err)
	}

	if err := checkRowsAffected(result); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("task not found for update", slog.String("task_id", task.ID.String()))
			return store.ErrTaskNotFound
		}
		return store.NewStoreError("task", "update", "rows affected unavailable", err)
	}

	log.Debug("task updated", slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.NewDelete().
		Model((*taskRecord)(nil)).
		Where("id = ?", id.String()).
		Exec(ctx)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return storeError("delete", "delete failed", err)
	}

	if err := checkRowsAffected(result); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("task not found for delete", slog.String("task_id", id.String()))
			return store.ErrTaskNotFound
		}
		return store.NewStoreError("task", "delete", "rows affected unavailable", err)
	}

	log.Debug("task deleted", slog.String("task_id", id.String()))
	return nil
}

// storeError maps err and records the task operation that produced it.
func storeError(operation, message string, err error) error {
	return store.NewStoreError("task", operation, message, mapError(err))
}

// mapError translates driver errors into store errors. The two SQLite drivers
// sqliteshim can select expose different error types, so constraint failures
// are recognised by message.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"), strings.Contains(msg, "PRIMARY KEY"):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case strings.Contains(msg, "NOT NULL constraint failed"), strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return err
}

func checkRowsAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
