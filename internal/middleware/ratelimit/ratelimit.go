// Package ratelimit keeps one misbehaving client from hammering the
// editor. Requests fall in two buckets with separate per-minute
// budgets: edits, the cheap HTMX mutations that fire on every change
// event, and renders, the spreadsheet imports, vision extractions and
// PDF renders that each occupy a service guard and, for extraction, a
// paid model call.
package ratelimit

import (
	"sync"
	"time"
)

type Config struct {
	EditsPerMinute   int
	RendersPerMinute int
	CleanupInterval  time.Duration
}

// DefaultConfig sizes the budgets for a single person editing one
// invoice: typing in a cell can emit an update per keystroke blur, so
// edits get plenty; nobody legitimately renders ten PDFs a minute.
func DefaultConfig() Config {
	return Config{
		EditsPerMinute:   120,
		RendersPerMinute: 10,
		CleanupInterval:  5 * time.Minute,
	}
}

type Limiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once

	editsPerMinute   int
	rendersPerMinute int
	cleanupInterval  time.Duration
}

type clientInfo struct {
	windowStart time.Time
	edits       int
	renders     int
}

func NewLimiter(config Config) *Limiter {
	if config.EditsPerMinute <= 0 || config.RendersPerMinute <= 0 {
		config = DefaultConfig()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &Limiter{
		clients:          make(map[string]*clientInfo),
		stopCleanup:      make(chan struct{}),
		editsPerMinute:   config.EditsPerMinute,
		rendersPerMinute: config.RendersPerMinute,
		cleanupInterval:  config.CleanupInterval,
	}
	go rl.startCleanup()
	return rl
}

// AllowEdit reports whether another cheap mutation fits this client's
// minute window.
func (rl *Limiter) AllowEdit(clientIP string) bool {
	return rl.allow(clientIP, false)
}

// AllowRender reports whether another import, extraction or PDF render
// fits this client's minute window.
func (rl *Limiter) AllowRender(clientIP string) bool {
	return rl.allow(clientIP, true)
}

func (rl *Limiter) allow(clientIP string, render bool) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, ok := rl.clients[clientIP]
	if !ok || now.Sub(client.windowStart) > time.Minute {
		client = &clientInfo{windowStart: now}
		rl.clients[clientIP] = client
	}

	if render {
		client.renders++
		return client.renders <= rl.rendersPerMinute
	}
	client.edits++
	return client.edits <= rl.editsPerMinute
}

func (rl *Limiter) startCleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries drops clients idle for more than ten minutes. An
// active client's window start is at most a minute old.
func (rl *Limiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.windowStart.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// ActiveClients returns the number of currently tracked clients.
func (rl *Limiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop shuts down the cleanup goroutine.
func (rl *Limiter) Stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
