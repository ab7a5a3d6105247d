package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// Flusher folds buffered study-log entries into Postgres.
type Flusher interface {
	FlushAll(ctx context.Context) (int, error)
}

// RollupScheduler periodically flushes the Redis study-log buffer so a
// learner's activity survives a cache restart.
type RollupScheduler struct {
	flusher   Flusher
	interval  time.Duration
	running   bool
	lastRun   time.Time
	lastCount int
	totalRuns int
	mu        sync.Mutex
	stopChan  chan struct{}
}

func NewRollupScheduler(flusher Flusher, interval time.Duration) *RollupScheduler {
	if interval == 0 {
		interval = 15 * time.Minute
	}
	return &RollupScheduler{
		flusher:  flusher,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (s *RollupScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	log.Printf("[Rollup] Starting with interval %v", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Rollup] Context cancelled, stopping")
			s.flush(context.Background())
			return
		case <-s.stopChan:
			log.Println("[Rollup] Stop signal received")
			s.flush(context.Background())
			return
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

func (s *RollupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
		log.Println("[Rollup] Stopped")
	}
}

func (s *RollupScheduler) flush(ctx context.Context) {
	count, err := s.flusher.FlushAll(ctx)
	if err != nil {
		log.Printf("[Rollup] Flush failed: %v", err)
		return
	}

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastCount = count
	s.totalRuns++
	s.mu.Unlock()

	if count > 0 {
		log.Printf("[Rollup] Flushed study logs for %d users", count)
	}
}

// GetStatus returns current scheduler status
func (s *RollupScheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"running":   s.running,
		"interval":  s.interval.String(),
		"lastRun":   s.lastRun,
		"lastCount": s.lastCount,
		"totalRuns": s.totalRuns,
	}
}
