// Package mocks provides shared test doubles for the task service and its ports.
//
//   - MockTaskStore is an in-memory store.TaskStore. Each method can be
//     overridden through its function field, and Calls reports how often a
//     method ran.
//   - MockDispatcher records dispatched tasks and can be told to fail.
//   - TestifyMockTaskService is a testify mock.Mock for handler tests that
//     assert on exact service calls.
//
// Typical use:
//
//	taskStore := mocks.NewMockTaskStore()
//	taskStore.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
//	    return nil, store.ErrTaskNotFound
//	}
package mocks
