package janitor

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"tubemp3/logger"
)

// Janitor periodically removes stale files from the output directory.
// Best-effort housekeeping: failures are logged and swallowed, never
// propagated to request-serving paths.
type Janitor struct {
	dir       string
	retention time.Duration
	interval  time.Duration
}

// New creates a janitor sweeping dir on the given interval, removing files
// whose last-modified time exceeds retention.
func New(dir string, retention, interval time.Duration) *Janitor {
	return &Janitor{dir: dir, retention: retention, interval: interval}
}

// Run sweeps on a fixed period until ctx is cancelled. Intended to run in
// its own goroutine for the lifetime of the process.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	logger.Info("janitor started",
		logger.String("dir", j.dir),
		logger.Duration("interval", j.interval),
		logger.Duration("retention", j.retention))

	for {
		select {
		case <-ticker.C:
			removed := j.Sweep()
			if removed > 0 {
				logger.Info("janitor sweep removed stale files", logger.Int("removed", removed))
			}
		case <-ctx.Done():
			logger.Info("janitor stopped")
			return
		}
	}
}

// Sweep removes stale files once and returns how many were removed.
func (j *Janitor) Sweep() int {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		logger.Warn("janitor failed to read output directory",
			logger.String("dir", j.dir),
			logger.ErrorField(err))
		return 0
	}

	cutoff := time.Now().Add(-j.retention)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Raced with a concurrent delete; skip.
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn("janitor failed to remove stale file",
				logger.String("path", path),
				logger.ErrorField(err))
			continue
		}
		removed++
		logger.Debug("janitor removed stale file", logger.String("path", path))
	}

	return removed
}
