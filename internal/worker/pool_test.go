package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingJob struct {
	counter *atomic.Int64
	err     error
}

type countingResult struct {
	err error
}

func (r *countingResult) GetError() error { return r.err }

func (j *countingJob) Execute(ctx context.Context) Result {
	j.counter.Add(1)
	return &countingResult{err: j.err}
}

func TestPool_RunsAllJobs(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(4)
	pool.Start()

	const n = 20
	for i := 0; i < n; i++ {
		pool.Submit(&countingJob{counter: &counter})
	}

	results := pool.Wait()
	if len(results) != n {
		t.Errorf("expected %d results, got %d", n, len(results))
	}
	if counter.Load() != n {
		t.Errorf("expected %d executions, got %d", n, counter.Load())
	}
}

func TestPool_ZeroWorkersDefaultsToOne(t *testing.T) {
	var counter atomic.Int64

	pool := NewPool(0)
	pool.Start()
	pool.Submit(&countingJob{counter: &counter})

	results := pool.Wait()
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestLimiter_PerKeyIsolation(t *testing.T) {
	// One request per second with burst 1: a second request on the same key
	// must block, while a different key proceeds immediately.
	l := NewLimiter(1, 1)

	if !l.Allow("openai") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("openai") {
		t.Error("second immediate request on same key should be limited")
	}
	if !l.Allow("ollama") {
		t.Error("different key should have its own bucket")
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow("k") // Drain the bucket

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "k"); err == nil {
		t.Error("expected context deadline error")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.SetRate("fast", 1000, 10)

	for i := 0; i < 5; i++ {
		if !l.Allow("fast") {
			t.Fatalf("custom rate should allow burst request %d", i)
		}
	}
}
