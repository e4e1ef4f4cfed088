package ratelimit

import (
	"context"
	"sync"
	"time"

	"booking-engine/internal/pkg/clock"
)

type window struct {
	count    int64
	resetsAt time.Time
}

// MemoryGuard keeps the same state in process. Counts are per replica.
type MemoryGuard struct {
	clock clock.Clock

	mu      sync.Mutex
	blocked map[string]time.Time
	windows map[string]window
}

func NewMemoryGuard(clk clock.Clock) *MemoryGuard {
	return &MemoryGuard{
		clock:   clk,
		blocked: make(map[string]time.Time),
		windows: make(map[string]window),
	}
}

func (g *MemoryGuard) IsBlocked(_ context.Context, ip string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	until, ok := g.blocked[ip]
	if !ok {
		return false, nil
	}
	if !g.clock.Now().Before(until) {
		delete(g.blocked, ip)
		return false, nil
	}
	return true, nil
}

func (g *MemoryGuard) Block(_ context.Context, ip string, ttl time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.blocked[ip] = g.clock.Now().Add(ttl)
	return nil
}

func (g *MemoryGuard) Allow(_ context.Context, ip string, limit int64, d time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	w, ok := g.windows[ip]
	if !ok || !now.Before(w.resetsAt) {
		w = window{resetsAt: now.Add(d)}
	}
	w.count++
	g.windows[ip] = w
	return w.count <= limit, nil
}

// Prune drops expired entries. The scheduler's sweep calls it.
func (g *MemoryGuard) Prune() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	removed := 0
	for ip, until := range g.blocked {
		if !now.Before(until) {
			delete(g.blocked, ip)
			removed++
		}
	}
	for ip, w := range g.windows {
		if !now.Before(w.resetsAt) {
			delete(g.windows, ip)
			removed++
		}
	}
	return removed
}
