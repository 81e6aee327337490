package api

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWorkerPoolBasic(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		MaxGameWorkers: 2,
		MaxSimWorkers:  1,
	})

	ctx := context.Background()
	if err := pool.AcquireGame(ctx); err != nil {
		t.Fatalf("Failed to acquire game worker: %v", err)
	}

	stats := pool.Stats()
	if stats.ActiveGame != 1 {
		t.Errorf("Expected 1 active game worker, got %d", stats.ActiveGame)
	}

	pool.ReleaseGame()
	stats = pool.Stats()
	if stats.ActiveGame != 0 {
		t.Errorf("Expected 0 active game workers after release, got %d", stats.ActiveGame)
	}
	if stats.TotalGame != 1 {
		t.Errorf("Expected 1 total game request, got %d", stats.TotalGame)
	}
}

func TestWorkerPoolSimOperations(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		MaxGameWorkers: 10,
		MaxSimWorkers:  2,
	})

	ctx := context.Background()

	// Acquire both simulation slots
	if err := pool.AcquireSim(ctx); err != nil {
		t.Fatalf("Failed to acquire sim worker 1: %v", err)
	}
	if err := pool.AcquireSim(ctx); err != nil {
		t.Fatalf("Failed to acquire sim worker 2: %v", err)
	}

	stats := pool.Stats()
	if stats.ActiveSim != 2 {
		t.Errorf("Expected 2 active sim workers, got %d", stats.ActiveSim)
	}

	// A third must not fit
	if pool.TryAcquireSim() {
		t.Error("Should not be able to acquire third sim worker")
	}

	pool.ReleaseSim()
	pool.ReleaseSim()

	stats = pool.Stats()
	if stats.TotalSim != 2 {
		t.Errorf("Expected 2 total sim requests, got %d", stats.TotalSim)
	}
}

func TestWorkerPoolContextCancellation(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		MaxGameWorkers: 1,
		MaxSimWorkers:  1,
	})

	ctx := context.Background()
	if err := pool.AcquireGame(ctx); err != nil {
		t.Fatalf("Failed to acquire game worker: %v", err)
	}

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := pool.AcquireGame(cancelCtx)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	pool.ReleaseGame()
}

func TestWorkerPoolConcurrency(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		MaxGameWorkers: 5,
		MaxSimWorkers:  2,
	})

	var wg sync.WaitGroup
	ctx := context.Background()

	// Launch 10 game workers - only 5 should run concurrently
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pool.AcquireGame(ctx); err != nil {
				t.Errorf("Failed to acquire game worker: %v", err)
				return
			}
			time.Sleep(10 * time.Millisecond)
			pool.ReleaseGame()
		}()
	}

	wg.Wait()

	stats := pool.Stats()
	if stats.TotalGame != 10 {
		t.Errorf("Expected 10 total game requests, got %d", stats.TotalGame)
	}
}

func TestWorkerPoolStats(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		MaxGameWorkers: 10,
		MaxSimWorkers:  4,
	})

	stats := pool.Stats()
	if stats.MaxGame != 10 {
		t.Errorf("Expected MaxGame=10, got %d", stats.MaxGame)
	}
	if stats.MaxSim != 4 {
		t.Errorf("Expected MaxSim=4, got %d", stats.MaxSim)
	}
}
