package api

import (
	"context"
	"sync/atomic"
)

// WorkerPool bounds concurrent request processing. Game operations are
// cheap and share a wide semaphore; Monte Carlo simulations are CPU-bound
// and share a narrow one.
type WorkerPool struct {
	gameSem    chan struct{} // Semaphore for game operations
	simSem     chan struct{} // Semaphore for simulations
	queuedGame int64
	queuedSim  int64
	activeGame int64
	activeSim  int64
	totalGame  int64
	totalSim   int64
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxGameWorkers int // Max concurrent game operations (default: 100)
	MaxSimWorkers  int // Max concurrent simulations (default: 4)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxGameWorkers: 100,
		MaxSimWorkers:  4,
	}
}

// NewWorkerPool creates a worker pool with the given configuration.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	if config.MaxGameWorkers <= 0 {
		config.MaxGameWorkers = 100
	}
	if config.MaxSimWorkers <= 0 {
		config.MaxSimWorkers = 4
	}

	return &WorkerPool{
		gameSem: make(chan struct{}, config.MaxGameWorkers),
		simSem:  make(chan struct{}, config.MaxSimWorkers),
	}
}

// AcquireGame acquires a slot for a game operation. Returns an error if
// the context is cancelled while waiting.
func (p *WorkerPool) AcquireGame(ctx context.Context) error {
	atomic.AddInt64(&p.queuedGame, 1)
	defer atomic.AddInt64(&p.queuedGame, -1)

	select {
	case p.gameSem <- struct{}{}:
		atomic.AddInt64(&p.activeGame, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseGame releases a game operation slot.
func (p *WorkerPool) ReleaseGame() {
	atomic.AddInt64(&p.activeGame, -1)
	atomic.AddInt64(&p.totalGame, 1)
	<-p.gameSem
}

// AcquireSim acquires a slot for a simulation. Returns an error if the
// context is cancelled while waiting.
func (p *WorkerPool) AcquireSim(ctx context.Context) error {
	atomic.AddInt64(&p.queuedSim, 1)
	defer atomic.AddInt64(&p.queuedSim, -1)

	select {
	case p.simSem <- struct{}{}:
		atomic.AddInt64(&p.activeSim, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseSim releases a simulation slot.
func (p *WorkerPool) ReleaseSim() {
	atomic.AddInt64(&p.activeSim, -1)
	atomic.AddInt64(&p.totalSim, 1)
	<-p.simSem
}

// TryAcquireSim tries to acquire a simulation slot without blocking.
func (p *WorkerPool) TryAcquireSim() bool {
	select {
	case p.simSem <- struct{}{}:
		atomic.AddInt64(&p.activeSim, 1)
		return true
	default:
		return false
	}
}

// PoolStats is a point-in-time view of pool utilization.
type PoolStats struct {
	ActiveGame int64 `json:"active_game"`
	ActiveSim  int64 `json:"active_sim"`
	QueuedGame int64 `json:"queued_game"`
	QueuedSim  int64 `json:"queued_sim"`
	TotalGame  int64 `json:"total_game"`
	TotalSim   int64 `json:"total_sim"`
	MaxGame    int   `json:"max_game"`
	MaxSim     int   `json:"max_sim"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		ActiveGame: atomic.LoadInt64(&p.activeGame),
		ActiveSim:  atomic.LoadInt64(&p.activeSim),
		QueuedGame: atomic.LoadInt64(&p.queuedGame),
		QueuedSim:  atomic.LoadInt64(&p.queuedSim),
		TotalGame:  atomic.LoadInt64(&p.totalGame),
		TotalSim:   atomic.LoadInt64(&p.totalSim),
		MaxGame:    cap(p.gameSem),
		MaxSim:     cap(p.simSem),
	}
}
