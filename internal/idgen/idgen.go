package idgen

import (
	"strconv"
	"sync"
	"time"
)

// Generator produces unique, time-derived string IDs.
type Generator interface {
	NextID() string
}

// clockGenerator issues wall-clock-millisecond IDs. Two calls inside
// the same millisecond would collide, so the generator never issues a
// value less than or equal to the previous one.
type clockGenerator struct {
	mu   sync.Mutex
	last int64
}

// NewClock creates the default millisecond-clock generator
func NewClock() Generator {
	return &clockGenerator{}
}

func (g *clockGenerator) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= g.last {
		now = g.last + 1
	}
	g.last = now

	return strconv.FormatInt(now, 10)
}
