package exec

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsAllPostedWork(t *testing.T) {
	p := NewPool(4)

	var n atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Post(func() {
			n.Add(1)
			wg.Done()
		})
	}
	wg.Wait()

	if got := n.Load(); got != 100 {
		t.Fatalf("expected 100 units executed, got %d", got)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
}

func TestPool_ShutdownWaitsForGuards(t *testing.T) {
	p := NewPool(2)
	g := NewWorkGuard(p)

	done := make(chan error, 1)
	go func() {
		done <- p.Shutdown(context.Background())
	}()

	select {
	case err := <-done:
		t.Fatalf("Shutdown returned with guard outstanding: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	g.Release()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Shutdown failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return after guard release")
	}
}

func TestPool_ShutdownContextExpiry(t *testing.T) {
	p := NewPool(1)
	g := NewWorkGuard(p)
	defer g.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := p.Shutdown(ctx); err != context.DeadlineExceeded {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestPool_PostAfterShutdownPanics(t *testing.T) {
	p := NewPool(1)
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic posting to a shut down pool")
		}
	}()
	p.Post(func() {})
}

func TestPool_WorkerFloor(t *testing.T) {
	p := NewPool(0)
	if p.Workers() != 1 {
		t.Fatalf("expected worker count clamped to 1, got %d", p.Workers())
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
}
