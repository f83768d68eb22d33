package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// MockDispatcher records task notifications handed to it.
// It satisfies service.NotificationDispatcher and notify.Notifier.
type MockDispatcher struct {
	DispatchFn func(ctx context.Context, task domain.Task) error

	mu         sync.Mutex
	dispatched []domain.Task
}

// Dispatch records task and then delegates to DispatchFn when set.
func (m *MockDispatcher) Dispatch(ctx context.Context, task domain.Task) error {
	m.mu.Lock()
	m.dispatched = append(m.dispatched, task)
	m.mu.Unlock()

	if m.DispatchFn != nil {
		return m.DispatchFn(ctx, task)
	}
	return nil
}

// Notify behaves like Dispatch so the mock can stand in for a notifier.
func (m *MockDispatcher) Notify(ctx context.Context, task domain.Task) error {
	return m.Dispatch(ctx, task)
}

// Dispatched returns a copy of every task seen so far.
func (m *MockDispatcher) Dispatched() []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Task(nil), m.dispatched...)
}
