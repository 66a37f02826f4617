package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// Gate answers "are we online right now?" for the sync engine. The
// answer comes from a health probe against the server, cached briefly
// so that a burst of mutations does not hammer the endpoint. A manual
// override lets the user force offline mode (airplane mode) or force
// a probe-bypassing online state.
type Gate struct {
	mu        sync.Mutex
	transport Transport
	log       *slog.Logger

	cacheTTL    time.Duration
	lastProbe   time.Time
	lastHealthy bool

	override    bool
	overrideVal bool
}

func NewGate(transport Transport, log *slog.Logger) *Gate {
	return &Gate{
		transport: transport,
		log:       log,
		cacheTTL:  5 * time.Second,
	}
}

// Online reports current connectivity. The override, when set, wins
// over any probe result.
func (g *Gate) Online(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.override {
		return g.overrideVal
	}

	if time.Since(g.lastProbe) < g.cacheTTL {
		return g.lastHealthy
	}

	err := g.transport.HealthCheck(ctx)
	g.lastProbe = time.Now()
	g.lastHealthy = err == nil
	if err != nil {
		g.log.Debug("health probe failed", "error", err)
	}
	return g.lastHealthy
}

// SetOverride pins connectivity to the given value until ClearOverride.
func (g *Gate) SetOverride(online bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.override = true
	g.overrideVal = online
}

// ClearOverride returns the gate to probe-based detection.
func (g *Gate) ClearOverride() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.override = false
	g.lastProbe = time.Time{}
}
