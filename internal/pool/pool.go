package pool

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Worker pool errors.
var (
	// ErrPoolClosed is returned when a task is submitted after Shutdown,
	// or when the pool is force-cancelled while a caller is awaiting.
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrJoinTimeout is returned by Handle.Await when the task does not
	// complete before the join deadline. The task itself keeps running.
	ErrJoinTimeout = errors.New("task did not complete before the join deadline")
)

// DefaultShutdownGrace is how long Shutdown waits for in-flight tasks
// before force-cancelling them. 10 seconds covers a slow fetch without
// holding the process open indefinitely.
const DefaultShutdownGrace = 10 * time.Second

// Task is one unit of crawl work. It receives the pool's context, which
// is cancelled when the pool shuts down, and returns the links it
// discovered.
type Task func(ctx context.Context) []string

// Pool executes submitted tasks concurrently and manages their
// collective shutdown. Create one per crawl invocation with New.
type Pool struct {
	// ctx is the lifetime context shared by all tasks.
	ctx    context.Context
	cancel context.CancelFunc

	// wg tracks in-flight tasks for the shutdown grace wait.
	wg sync.WaitGroup

	// closed flips once Shutdown begins; later submissions are rejected.
	closed atomic.Bool

	// shutdownOnce makes Shutdown idempotent.
	shutdownOnce sync.Once

	// grace is how long Shutdown waits before force-cancelling.
	grace time.Duration

	logger *slog.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithShutdownGrace sets how long Shutdown waits for in-flight tasks
// before cancelling them.
func WithShutdownGrace(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.grace = d
		}
	}
}

// WithLogger sets a custom logger for pool lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// New creates a Pool whose tasks run under a context derived from ctx.
// Cancelling ctx cancels every task the pool runs.
func New(ctx context.Context, opts ...Option) *Pool {
	p := &Pool{
		grace: DefaultShutdownGrace,
	}
	p.ctx, p.cancel = context.WithCancel(ctx)

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Handle is an awaitable reference to one submitted task.
type Handle struct {
	// result receives the task's return value. Buffered so the task
	// goroutine never blocks on a parent that stopped waiting.
	result chan []string

	// poolDone observes force-cancellation of the whole pool.
	poolDone <-chan struct{}

	// rejected marks a handle created after the pool closed.
	rejected bool
}

// Submit schedules task for concurrent execution and returns its handle.
// Submit never blocks the caller. If the pool has shut down, the returned
// handle fails immediately with ErrPoolClosed.
func (p *Pool) Submit(task Task) *Handle {
	h := &Handle{
		result:   make(chan []string, 1),
		poolDone: p.ctx.Done(),
	}

	if p.closed.Load() || p.ctx.Err() != nil {
		h.rejected = true
		return h
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		h.result <- task(p.ctx)
	}()

	return h
}

// Await blocks until the task completes, the timeout elapses, or the
// pool is force-cancelled. On timeout the task is abandoned, not
// stopped: it keeps running until pool shutdown cancels its context.
func (h *Handle) Await(timeout time.Duration) ([]string, error) {
	if h.rejected {
		return nil, ErrPoolClosed
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-h.result:
		return res, nil
	case <-timer.C:
		return nil, ErrJoinTimeout
	case <-h.poolDone:
		// Prefer a result that raced with cancellation.
		select {
		case res := <-h.result:
			return res, nil
		default:
			return nil, ErrPoolClosed
		}
	}
}

// Shutdown stops accepting new tasks, waits up to the grace period for
// in-flight tasks to finish, then cancels anything still outstanding.
// It is idempotent and safe to call from any goroutine.
func (p *Pool) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.closed.Store(true)

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			p.logger.Debug("worker pool drained")
		case <-time.After(p.grace):
			p.logger.Warn("worker pool grace period expired, cancelling in-flight tasks",
				"grace", p.grace,
			)
		}

		p.cancel()
	})
}
