// internal/match/quota/guard.go

// Package quota bounds external ranking calls per rolling window.
package quota

import (
	"fmt"
	"sync"
	"time"
)

// Config defines the quota for external ranking calls.
type Config struct {
	// Limit is the maximum number of calls allowed per window. Must be > 0.
	Limit int
	// Window is the rolling period the limit applies to. Must be > 0.
	Window time.Duration
}

func (c Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("quota limit must be > 0 (got %d)", c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("quota window must be > 0 (got %s)", c.Window)
	}
	return nil
}

// Usage is a point-in-time snapshot for the operational surface.
type Usage struct {
	Used      int       `json:"used"`
	Remaining int       `json:"remaining"`
	Limit     int       `json:"limit"`
	ResetAt   time.Time `json:"resetAt"`
}

// Guard is the one piece of shared mutable state in the engine. The
// quota check and the increment happen under a single lock so two
// concurrent requests can never both pass on the last remaining slot.
type Guard struct {
	mu        sync.Mutex
	cfg       Config
	count     int
	windowEnd time.Time
	now       func() time.Time
}

// NewGuard creates a guard with a fresh window starting on first use.
func NewGuard(cfg Config) (*Guard, error) {
	return newGuard(cfg, time.Now)
}

// NewGuardWithClock is NewGuard with an injectable clock for tests.
func NewGuardWithClock(cfg Config, now func() time.Time) (*Guard, error) {
	return newGuard(cfg, now)
}

func newGuard(cfg Config, now func() time.Time) (*Guard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Guard{cfg: cfg, now: now}, nil
}

// Allow performs the atomic check-and-increment. It returns false when
// the call would exceed the configured quota; the caller must then
// skip the external call entirely.
func (g *Guard) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now.After(g.windowEnd) {
		g.windowEnd = now.Add(g.cfg.Window)
		g.count = 1
		return true
	}

	if g.count < g.cfg.Limit {
		g.count++
		return true
	}

	return false
}

// Usage returns the current window's counters.
func (g *Guard) Usage() Usage {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	used := g.count
	resetAt := g.windowEnd
	if now.After(g.windowEnd) {
		used = 0
		resetAt = now.Add(g.cfg.Window)
	}

	remaining := g.cfg.Limit - used
	if remaining < 0 {
		remaining = 0
	}

	return Usage{
		Used:      used,
		Remaining: remaining,
		Limit:     g.cfg.Limit,
		ResetAt:   resetAt,
	}
}
