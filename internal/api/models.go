package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// Response messages
const (
	MessageTaskCreated = "Task created successfully"
	MessageTaskUpdated = "Task updated successfully"
	MessageTaskDeleted = "Task deleted successfully"
)

// TaskRequest defines the payload for creating or updating a task.
type TaskRequest struct {
	Title       string `json:"title"       validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

// toInput converts the request into service input.
func (req TaskRequest) toInput() service.TaskInput {
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	CreatedAt   shared.Timestamp `json:"createdAt"`
	UpdatedAt   shared.Timestamp `json:"updatedAt"`
}

// TaskEnvelope wraps a task returned by a write operation.
type TaskEnvelope struct {
	Message   string           `json:"message"`
	Data      TaskResponse     `json:"data"`
	Timestamp shared.Timestamp `json:"timestamp"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Message   string           `json:"message"`
	DeletedID uuid.UUID        `json:"deletedId"`
	Timestamp shared.Timestamp `json:"timestamp"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		CreatedAt:   shared.NewTimestamp(task.CreatedAt),
		UpdatedAt:   shared.NewTimestamp(task.UpdatedAt),
	}
}

func tasksToResponse(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskToResponse(&tasks[i]))
	}
	return out
}
