package application

import (
	"sync"
	"time"

	"hostpulse/internal/metrics/domain"
)

type processBaseline struct {
	busy    time.Duration
	at      time.Time
	percent float64
}

// ProcessTracker turns cumulative per-process busy time into CPU percent by
// diffing against the previous observation of the same pid.
type ProcessTracker struct {
	now domain.Clock

	mu       sync.Mutex
	baseline map[int32]processBaseline
}

func NewProcessTracker(now domain.Clock) *ProcessTracker {
	if now == nil {
		now = time.Now
	}
	return &ProcessTracker{
		now:      now,
		baseline: make(map[int32]processBaseline),
	}
}

// Primed reports whether any baseline exists yet.
func (t *ProcessTracker) Primed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.baseline) > 0
}

// Observe records readings and returns one snapshot per reading. A pid seen
// for the first time reports 0. When less than domain.MinProcessInterval has
// passed since a pid's baseline, the previous percent is repeated and the
// baseline is kept. Pids missing from readings are forgotten.
func (t *ProcessTracker) Observe(readings []domain.ProcessReading, cores int) []domain.ProcessSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	next := make(map[int32]processBaseline, len(readings))
	out := make([]domain.ProcessSnapshot, 0, len(readings))

	for _, r := range readings {
		cur := processBaseline{busy: r.BusyTime, at: now}

		if prev, ok := t.baseline[r.PID]; ok && r.BusyTime >= prev.busy {
			wall := now.Sub(prev.at)
			if wall < domain.MinProcessInterval {
				cur = prev
			} else {
				cur.percent = domain.ProcessCPUPercent(r.BusyTime-prev.busy, wall, cores)
			}
		}

		next[r.PID] = cur
		out = append(out, domain.ProcessSnapshot{
			PID:         r.PID,
			Name:        r.Name,
			CPUPercent:  cur.percent,
			MemoryBytes: r.MemoryBytes,
		})
	}

	t.baseline = next
	return out
}

// NetworkTracker derives byte rates from cumulative interface counters.
type NetworkTracker struct {
	now domain.Clock

	mu          sync.Mutex
	at          time.Time
	received    uint64
	transmitted uint64
}

func NewNetworkTracker(now domain.Clock) *NetworkTracker {
	if now == nil {
		now = time.Now
	}
	return &NetworkTracker{now: now}
}

// Observe sums all interfaces and returns totals plus the rate since the
// previous call. Counter resets produce a zero rate for that cycle.
func (t *NetworkTracker) Observe(readings []domain.NetworkReading) domain.NetworkActivity {
	var activity domain.NetworkActivity
	for _, r := range readings {
		activity.Received += r.Received
		activity.Transmitted += r.Transmitted
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !t.at.IsZero() {
		if elapsed := now.Sub(t.at).Seconds(); elapsed > 0 {
			if activity.Received >= t.received {
				activity.ReceivedRate = float64(activity.Received-t.received) / elapsed
			}
			if activity.Transmitted >= t.transmitted {
				activity.TransmittedRate = float64(activity.Transmitted-t.transmitted) / elapsed
			}
		}
	}

	t.at = now
	t.received = activity.Received
	t.transmitted = activity.Transmitted
	return activity
}
