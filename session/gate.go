// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"sync"
	"time"
)

const (
	// gateRetention is how long a settled key is remembered. Magic links and
	// checkout sessions expire upstream well within it.
	gateRetention = 24 * time.Hour
	gateSweep     = 10 * time.Minute
)

// GateState is the position of one key in a Gate
type GateState int

const (
	NotStarted GateState = iota
	InFlight
	Done
)

func (s GateState) String() string {
	switch s {
	case InFlight:
		return "in-flight"
	case Done:
		return "done"
	}
	return "not-started"
}

// Gate is a per-key latch for one-shot operations such as verifying a
// magic link. Begin admits one caller at a time; Fail reopens the key for a
// retry; Succeed closes it. Keys older than gateRetention are forgotten.
type Gate struct {
	mu        sync.Mutex
	entries   map[string]gateEntry
	lastSweep time.Time
	now       func() time.Time
}

type gateEntry struct {
	state GateState
	since time.Time
}

func NewGate() *Gate {
	return &Gate{
		entries:   make(map[string]gateEntry),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// sweep drops expired keys. The caller holds g.mu.
func (g *Gate) sweep(now time.Time) {
	if now.Sub(g.lastSweep) <= gateSweep {
		return
	}
	for key, e := range g.entries {
		if now.Sub(e.since) > gateRetention {
			delete(g.entries, key)
		}
	}
	g.lastSweep = now
}

// Begin moves key from NotStarted to InFlight. It returns false, leaving
// the state unchanged, if key is already in flight or done.
func (g *Gate) Begin(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.sweep(now)
	if g.entries[key].state != NotStarted {
		return false
	}
	g.entries[key] = gateEntry{state: InFlight, since: now}
	return true
}

// Succeed marks key Done
func (g *Gate) Succeed(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[key] = gateEntry{state: Done, since: g.now()}
}

// Fail returns an in-flight key to NotStarted. Done keys are not reopened.
func (g *Gate) Fail(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.entries[key].state == InFlight {
		delete(g.entries, key)
	}
}

func (g *Gate) State(key string) GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.entries[key].state
}
