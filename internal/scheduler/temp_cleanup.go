// Package scheduler runs the background maintenance of the scratch storage.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
)

// runTimeout bounds a single cleanup pass.
const runTimeout = 5 * time.Minute

// Purger removes storage entries older than a given age.
type Purger interface {
	PurgeExpired(ctx context.Context, olderThan time.Duration) (int, int64, error)
}

// TempCleanupService periodically removes expired scratch directories.
// It runs once on Start and then every interval until Stop is called.
type TempCleanupService struct {
	// purger does the actual removal, normally a *storage.Storage
	purger Purger
	// retention is the minimum age of removed entries
	retention time.Duration
	// interval is the time between cleanup passes
	interval time.Duration
	// ticker controls the execution schedule
	ticker *time.Ticker
	// done channel enables graceful shutdown signaling
	done chan struct{}
	// stopOnce ensures Stop() can only be called once, preventing double-stop race conditions
	stopOnce sync.Once
	// runs counts completed cleanup passes
	runs atomic.Int64
}

// NewTempCleanupService creates a new background service for scratch storage cleanup.
// The service must be started with [TempCleanupService.Start] to begin operations.
func NewTempCleanupService(purger Purger, retention, interval time.Duration) *TempCleanupService {
	return &TempCleanupService{
		purger:    purger,
		retention: retention,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

// Start runs a cleanup pass immediately and schedules the following ones.
// The service runs in a separate goroutine and can be stopped with [TempCleanupService.Stop].
func (s *TempCleanupService) Start() {
	logger.Info("Starting temp cleanup service (retention: %s, interval: %s)", s.retention, s.interval)

	s.runOnce()

	s.ticker = time.NewTicker(s.interval)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.runOnce()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop gracefully shuts down the cleanup service.
// Uses sync.Once to prevent double-stop race conditions and a timeout to prevent deadlock.
func (s *TempCleanupService) Stop() {
	s.stopOnce.Do(func() {
		logger.Info("Stopping temp cleanup service")
		select {
		case s.done <- struct{}{}:
		case <-time.After(5 * time.Second):
			logger.Info("Temp cleanup service shutdown timeout")
		}
		if s.ticker != nil {
			s.ticker.Stop()
		}
	})
}

// Runs returns the number of completed cleanup passes.
func (s *TempCleanupService) Runs() int64 {
	return s.runs.Load()
}

func (s *TempCleanupService) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	defer s.runs.Add(1)

	removed, freed, err := s.purger.PurgeExpired(ctx, s.retention)
	if err != nil {
		logger.Error("Temp cleanup failed after removing %d entries: %v", removed, err)
		return
	}

	if removed > 0 {
		logger.Info("Temp cleanup complete: %d entries removed (%.1f MB freed)",
			removed, float64(freed)/1024/1024)
	}
}
