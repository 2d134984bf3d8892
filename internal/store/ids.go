package store

import (
	"sync"
	"time"
)

// IDSource hands out time-based task identifiers that never repeat
// and never go backwards, even if the clock does.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Next returns the current time in milliseconds, bumped past the last id if needed.
func (g *IDSource) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
