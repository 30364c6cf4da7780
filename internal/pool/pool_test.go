package pool

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"
)

func newTestPool(opts ...Option) *Pool {
	opts = append(opts, WithLogger(slog.New(slog.DiscardHandler)))
	return New(context.Background(), opts...)
}

func TestPool(t *testing.T) {
	t.Parallel()

	t.Run("delivers task results", func(t *testing.T) {
		t.Parallel()

		p := newTestPool()
		defer p.Shutdown()

		h := p.Submit(func(_ context.Context) []string {
			return []string{"https://example.com/a"}
		})

		got, err := h.Await(time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := []string{"https://example.com/a"}; !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("await times out on slow tasks", func(t *testing.T) {
		t.Parallel()

		p := newTestPool(WithShutdownGrace(10 * time.Millisecond))
		defer p.Shutdown()

		h := p.Submit(func(ctx context.Context) []string {
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
			return nil
		})

		if _, err := h.Await(10 * time.Millisecond); !errors.Is(err, ErrJoinTimeout) {
			t.Errorf("expected ErrJoinTimeout, got %v", err)
		}
	})

	t.Run("rejects submissions after shutdown", func(t *testing.T) {
		t.Parallel()

		p := newTestPool()
		p.Shutdown()

		h := p.Submit(func(_ context.Context) []string { return nil })
		if _, err := h.Await(time.Second); !errors.Is(err, ErrPoolClosed) {
			t.Errorf("expected ErrPoolClosed, got %v", err)
		}
	})

	t.Run("shutdown is idempotent", func(t *testing.T) {
		t.Parallel()

		p := newTestPool()
		p.Shutdown()
		p.Shutdown() // must not panic or block
	})

	t.Run("shutdown cancels in-flight tasks after the grace period", func(t *testing.T) {
		t.Parallel()

		p := newTestPool(WithShutdownGrace(10 * time.Millisecond))

		cancelled := make(chan struct{})
		p.Submit(func(ctx context.Context) []string {
			<-ctx.Done()
			close(cancelled)
			return nil
		})

		p.Shutdown()

		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Error("expected the task context to be cancelled by shutdown")
		}
	})

	t.Run("cancelling the parent context cancels tasks", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		p := New(ctx, WithLogger(slog.New(slog.DiscardHandler)))
		defer p.Shutdown()

		started := make(chan struct{})
		cancelled := make(chan struct{})
		p.Submit(func(taskCtx context.Context) []string {
			close(started)
			<-taskCtx.Done()
			close(cancelled)
			return nil
		})

		<-started
		cancel()

		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Error("expected the task context to observe parent cancellation")
		}
	})

	t.Run("abandoned task result does not block the pool", func(t *testing.T) {
		t.Parallel()

		p := newTestPool(WithShutdownGrace(time.Second))

		h := p.Submit(func(_ context.Context) []string {
			time.Sleep(50 * time.Millisecond)
			return []string{"late"}
		})

		// Abandon the handle at a short deadline, then shut down: the
		// buffered result channel lets the task finish without a reader.
		if _, err := h.Await(time.Millisecond); !errors.Is(err, ErrJoinTimeout) {
			t.Fatalf("expected ErrJoinTimeout, got %v", err)
		}

		done := make(chan struct{})
		go func() {
			p.Shutdown()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("expected shutdown to drain the abandoned task")
		}
	})
}
