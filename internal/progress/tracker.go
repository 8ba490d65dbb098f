// Package progress holds the in-memory per-job progress percentages read by
// polling clients. Progress is not persisted: after a restart every in-flight
// job reports 0 again, which is acceptable because jobs are not resumable.
package progress

import "sync"

// Tracker maps report ids to an integer completion percentage in [0,100].
// Each running job writes only its own key; pollers read concurrently.
type Tracker struct {
	mu       sync.RWMutex
	percents map[int64]int
}

// NewTracker creates an empty tracker. One instance is created at service
// start and shared between the pipeline and the HTTP handlers.
func NewTracker() *Tracker {
	return &Tracker{
		percents: make(map[int64]int),
	}
}

// Set records the current percentage for a report. Last write wins.
func (t *Tracker) Set(reportID int64, percent int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.percents[reportID] = percent
}

// Get returns the recorded percentage, or 0 for unknown report ids.
func (t *Tracker) Get(reportID int64) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.percents[reportID]
}
