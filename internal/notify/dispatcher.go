package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// Common errors returned by Dispatch.
var (
	ErrQueueClosed = errors.New("notification queue is closed")
	ErrQueueFull   = errors.New("notification queue is full")
)

// DispatcherConfig sizes the queue and worker pool of a Dispatcher.
type DispatcherConfig struct {
	// QueueSize bounds the number of pending notifications. Defaults to 100.
	QueueSize int

	// WorkerCount is the number of concurrent senders. Defaults to 1.
	WorkerCount int

	// SendTimeout bounds each Notify call. Defaults to 10s.
	SendTimeout time.Duration
}

type job struct {
	ctx  context.Context
	task domain.Task
}

// Dispatcher delivers notifications asynchronously through a bounded queue
// drained by a fixed pool of workers.
type Dispatcher struct {
	notifier    Notifier
	jobs        chan job
	workerCount int
	sendTimeout time.Duration
	logger      *slog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Call Start before dispatching.
func NewDispatcher(n Notifier, cfg DispatcherConfig, l *slog.Logger) *Dispatcher {
	if l == nil {
		l = slog.Default()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.WorkerCount <= 0 {
		l.Warn("invalid worker count specified, using default",
			"specified_count", cfg.WorkerCount,
			"default_count", 1)
		cfg.WorkerCount = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}

	return &Dispatcher{
		notifier:    n,
		jobs:        make(chan job, cfg.QueueSize),
		workerCount: cfg.WorkerCount,
		sendTimeout: cfg.SendTimeout,
		logger:      l,
	}
}

// Start launches the worker goroutines. Calling Start more than once has no effect.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.logger.Info("notification dispatcher started",
		"worker_count", d.workerCount,
		"queue_cap", cap(d.jobs))
}

// Dispatch queues a notification for task without blocking. The request
// context's values are kept for logging but its cancellation is not, so the
// send outlives the request. A full or closed queue returns an error and the
// notification is dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, task domain.Task) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrQueueClosed
	}

	select {
	case d.jobs <- job{ctx: context.WithoutCancel(ctx), task: task}:
		d.logger.Debug("notification enqueued",
			"task_id", task.ID.String(),
			"queue_len", len(d.jobs),
			"queue_cap", cap(d.jobs))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(d.jobs))
	}
}

// Stop closes the queue and waits for queued notifications to be sent, or
// for ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notification dispatcher did not drain: %w", ctx.Err())
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for j := range d.jobs {
		d.send(id, j)
	}
}

func (d *Dispatcher) send(workerID int, j job) {
	ctx, cancel := context.WithTimeout(j.ctx, d.sendTimeout)
	defer cancel()

	log := logger.FromContextOrDefault(ctx, d.logger)

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "notifier panicked",
				slog.Int("worker_id", workerID),
				slog.String("task_id", j.task.ID.String()),
				slog.Any("panic", r))
		}
	}()

	if err := d.notifier.Notify(ctx, j.task); err != nil {
		log.ErrorContext(ctx, "task notification failed",
			slog.Int("worker_id", workerID),
			slog.String("task_id", j.task.ID.String()),
			slog.String("error", err.Error()))
	}
}
