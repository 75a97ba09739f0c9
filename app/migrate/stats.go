package migrate

import (
	"sync"
	"time"
)

// Stats accumulates run counters across all pipeline stages. Safe for use
// from concurrent batch workers.
type Stats struct {
	mu sync.Mutex

	discovered int
	processed  int
	succeeded  int
	failed     int
	skipped    int

	startedAt time.Time
}

func NewStats() *Stats {
	return &Stats{
		startedAt: time.Now(),
	}
}

func (s *Stats) AddDiscovered(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discovered += n
}

// AddProcessed bumps the monotonically increasing processed count and
// returns the new total for progress reporting.
func (s *Stats) AddProcessed(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed += n
	return s.processed
}

func (s *Stats) AddSucceeded(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.succeeded += n
}

func (s *Stats) AddFailed(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed += n
}

func (s *Stats) AddSkipped(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped += n
}

func (s *Stats) Snapshot() (discovered, processed, succeeded, failed, skipped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discovered, s.processed, s.succeeded, s.failed, s.skipped
}

func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.startedAt)
}

// Throughput returns processed items per second over the whole run.
func (s *Stats) Throughput() float64 {
	elapsed := s.Elapsed().Seconds()
	if elapsed <= 0 {
		return 0
	}

	s.mu.Lock()
	processed := s.processed
	s.mu.Unlock()

	return float64(processed) / elapsed
}
