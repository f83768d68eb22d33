package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field limits for task content
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
)

// Common validation errors for Task. Each wraps ErrValidation.
var (
	ErrEmptyTaskID          = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskTitle       = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrTaskTitleTooLong     = fmt.Errorf("%w: task title is too long", ErrValidation)
	ErrTaskDescriptionLong  = fmt.Errorf("%w: task description is too long", ErrValidation)
	ErrTaskTimestampsBroken = fmt.Errorf("%w: task updated_at cannot precede created_at", ErrValidation)
)

// Task represents a to-do item managed through the API.
// The ID is assigned once on creation and never changes afterwards.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task with a fresh UUID and identical
// creation/update timestamps.
// Returns an error if validation fails.
func NewTask(title, description string) (*Task, error) {
	now := Now()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Failures are returned as *ValidationError naming the offending field.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrEmptyTaskID)
	}

	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "is required", ErrEmptyTaskTitle)
	}

	if len([]rune(t.Title)) > MaxTitleLength {
		return NewValidationError("title", fmt.Sprintf("must be at most %d characters", MaxTitleLength), ErrTaskTitleTooLong)
	}

	if len([]rune(t.Description)) > MaxDescriptionLength {
		return NewValidationError("description", fmt.Sprintf("must be at most %d characters", MaxDescriptionLength), ErrTaskDescriptionLong)
	}

	if !t.CreatedAt.IsZero() && t.UpdatedAt.Before(t.CreatedAt) {
		return NewValidationError("updatedAt", "cannot precede createdAt", ErrTaskTimestampsBroken)
	}

	return nil
}

// ApplyChanges overwrites the mutable fields of the task.
// The ID and timestamps are left untouched; stores refresh UpdatedAt on save.
func (t *Task) ApplyChanges(title, description string) error {
	candidate := *t
	candidate.Title = title
	candidate.Description = description
	if err := candidate.Validate(); err != nil {
		return err
	}

	t.Title = title
	t.Description = description
	return nil
}

// Touch refreshes UpdatedAt, never letting it fall behind CreatedAt.
func (t *Task) Touch() {
	now := Now()
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	t.UpdatedAt = now
}

// Now returns the current UTC time truncated to the precision that
// PostgreSQL timestamps preserve, so values survive a round trip unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
