package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// TestifyMockTaskService is a mock of service.TaskService for use with testify/mock.
type TestifyMockTaskService struct {
	mock.Mock
}

var _ service.TaskService = (*TestifyMockTaskService)(nil)

// CreateTask is a mock implementation of service.TaskService.CreateTask
func (m *TestifyMockTaskService) CreateTask(ctx context.Context, input service.TaskInput) (*domain.Task, error) {
	args := m.Called(ctx, input)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetAllTasks is a mock implementation of service.TaskService.GetAllTasks
func (m *TestifyMockTaskService) GetAllTasks(ctx context.Context) ([]domain.Task, error) {
	args := m.Called(ctx)
	if tasks, ok := args.Get(0).([]domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetTaskByID is a mock implementation of service.TaskService.GetTaskByID
func (m *TestifyMockTaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateTask is a mock implementation of service.TaskService.UpdateTask
func (m *TestifyMockTaskService) UpdateTask(ctx context.Context, id uuid.UUID, input service.TaskInput) (*domain.Task, error) {
	args := m.Called(ctx, id, input)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// DeleteTask is a mock implementation of service.TaskService.DeleteTask
func (m *TestifyMockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) (*service.DeleteResult, error) {
	args := m.Called(ctx, id)
	if result, ok := args.Get(0).(*service.DeleteResult); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}
