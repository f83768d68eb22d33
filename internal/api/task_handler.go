package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
)

// TaskIDParam is the chi path parameter holding a task ID.
const TaskIDParam = "id"

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With("component", "task_handler"),
	}
}

// RegisterRoutes mounts the task endpoints on r, which is expected to be
// rooted at /api/tasks.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateTask)
	r.Get("/", h.ListTasks)
	r.Get("/{"+TaskIDParam+"}", h.GetTask)
	r.Put("/{"+TaskIDParam+"}", h.UpdateTask)
	r.Delete("/{"+TaskIDParam+"}", h.DeleteTask)
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskEnvelope{
		Message:   MessageTaskCreated,
		Data:      taskToResponse(task),
		Timestamp: shared.NewTimestamp(domain.Now()),
	})
}

// ListTasks handles GET /api/tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.GetAllTasks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve tasks")
		return
	}

	shared.RespondWithCachedJSON(w, r, tasksToResponse(tasks))
}

// GetTask handles GET /api/tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskByID(r.Context(), id)
	if err != nil {
		h.handleTaskError(w, r, id, err)
		return
	}

	shared.RespondWithCachedJSON(w, r, taskToResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id} requests
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathTaskID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, req.toInput())
	if err != nil {
		h.handleTaskError(w, r, id, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{
		Message:   MessageTaskUpdated,
		Data:      taskToResponse(task),
		Timestamp: shared.NewTimestamp(domain.Now()),
	})
}

// DeleteTask handles DELETE /api/tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathTaskID(w, r)
	if !ok {
		return
	}

	result, err := h.taskService.DeleteTask(r.Context(), id)
	if err != nil {
		h.handleTaskError(w, r, id, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteResponse{
		Message:   MessageTaskDeleted,
		DeletedID: result.DeletedID,
		Timestamp: shared.NewTimestamp(result.DeletedAt),
	})
}

// decodeTaskRequest parses and validates the body. On failure it writes a 400
// response and returns false.
func (h *TaskHandler) decodeTaskRequest(w http.ResponseWriter, r *http.Request) (TaskRequest, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("malformed task request body", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return TaskRequest{}, false
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return TaskRequest{}, false
	}

	return req, true
}

func (h *TaskHandler) pathTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := getPathUUID(r, TaskIDParam)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("invalid task id",
			slog.String("value", chi.URLParam(r, TaskIDParam)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// handleTaskError names the missing ID in not-found responses, which are
// logged at WARN.
func (h *TaskHandler) handleTaskError(w http.ResponseWriter, r *http.Request, id uuid.UUID, err error) {
	if errors.Is(err, service.ErrTaskNotFound) {
		HandleAPIError(w, r, err, notFoundMessage(id), shared.WithElevatedLogLevel())
		return
	}
	HandleAPIError(w, r, err, "")
}

func notFoundMessage(id uuid.UUID) string {
	return fmt.Sprintf("Task with ID %s not found", id)
}
