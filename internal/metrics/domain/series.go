package domain

import (
	"sort"
	"sync"
	"time"
)

const (
	DefaultSeriesCapacity = 50
	DefaultStaleness      = 30 * time.Minute
)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// series is one capacity-bounded, time-ordered buffer. Its own mutex lets
// appends to different keys proceed without contending.
type series struct {
	mu        sync.Mutex
	points    []SamplePoint
	lastWrite time.Time
}

// Aggregator keeps a rolling series per key.
type Aggregator struct {
	capacity  int
	staleness time.Duration
	now       Clock

	mu     sync.RWMutex
	series map[string]*series
}

// NewAggregator creates an aggregator. Non-positive capacity or staleness
// fall back to the defaults; a nil clock uses time.Now.
func NewAggregator(capacity int, staleness time.Duration, now Clock) *Aggregator {
	if capacity <= 0 {
		capacity = DefaultSeriesCapacity
	}
	if staleness <= 0 {
		staleness = DefaultStaleness
	}
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		capacity:  capacity,
		staleness: staleness,
		now:       now,
		series:    make(map[string]*series),
	}
}

func (a *Aggregator) Capacity() int {
	return a.capacity
}

func (a *Aggregator) Staleness() time.Duration {
	return a.staleness
}

// Append adds point to the series for key and returns a copy of the
// resulting series. An absent or stale series restarts as [point].
func (a *Aggregator) Append(key string, point SamplePoint) []SamplePoint {
	return a.appendTo(a.getOrCreate(key), point)
}

func (a *Aggregator) appendTo(s *series, point SamplePoint) []SamplePoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := a.now()
	if len(s.points) == 0 || a.expired(s, now) {
		s.points = s.points[:0]
	} else if last := s.points[len(s.points)-1].Timestamp; point.Timestamp.Before(last) {
		point.Timestamp = last
	}

	s.points = append(s.points, point)
	if len(s.points) > a.capacity {
		// shift in place so the backing array never grows past capacity+1
		n := copy(s.points, s.points[len(s.points)-a.capacity:])
		s.points = s.points[:n]
	}
	s.lastWrite = now

	return clonePoints(s.points)
}

// Read returns a copy of the series for key, or an empty slice when the
// series is absent or stale.
func (a *Aggregator) Read(key string) []SamplePoint {
	a.mu.RLock()
	s, ok := a.series[key]
	a.mu.RUnlock()
	if !ok {
		return []SamplePoint{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a.expired(s, a.now()) {
		return []SamplePoint{}
	}
	return clonePoints(s.points)
}

// Reset clears the series for key. The entry stays in the map so an
// append already holding it still lands in the visible series.
func (a *Aggregator) Reset(key string) {
	a.mu.RLock()
	s, ok := a.series[key]
	a.mu.RUnlock()
	if ok {
		s.clear()
	}
}

// ResetAll clears every series.
func (a *Aggregator) ResetAll() {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, s := range a.series {
		s.clear()
	}
}

// Keys lists the keys of non-empty, non-stale series in lexical order.
func (a *Aggregator) Keys() []string {
	a.mu.RLock()
	candidates := make(map[string]*series, len(a.series))
	for k, s := range a.series {
		candidates[k] = s
	}
	a.mu.RUnlock()

	now := a.now()
	keys := make([]string, 0, len(candidates))
	for k, s := range candidates {
		s.mu.Lock()
		live := len(s.points) > 0 && !a.expired(s, now)
		s.mu.Unlock()
		if live {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (a *Aggregator) getOrCreate(key string) *series {
	a.mu.RLock()
	s, ok := a.series[key]
	a.mu.RUnlock()
	if ok {
		return s
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.series[key]; ok {
		return s
	}
	s = &series{points: make([]SamplePoint, 0, a.capacity+1)}
	a.series[key] = s
	return s
}

func (s *series) clear() {
	s.mu.Lock()
	s.points = s.points[:0]
	s.lastWrite = time.Time{}
	s.mu.Unlock()
}

// expired must be called with s.mu held.
func (a *Aggregator) expired(s *series, now time.Time) bool {
	return !s.lastWrite.IsZero() && now.Sub(s.lastWrite) > a.staleness
}

func clonePoints(src []SamplePoint) []SamplePoint {
	out := make([]SamplePoint, len(src))
	copy(out, src)
	for i := range out {
		if src[i].TemperaturePercent != nil {
			v := *src[i].TemperaturePercent
			out[i].TemperaturePercent = &v
		}
	}
	return out
}
