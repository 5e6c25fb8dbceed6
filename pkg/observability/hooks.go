// Package observability provides hooks for metrics, tracing, and logging.
//
// The package uses a simple hooks pattern: hook interfaces per event
// category, no-op default implementations, and a global registry that
// consumers populate at startup. This keeps the layout engine free of
// hard dependencies on any observability backend while still letting
// deployments plug in Prometheus, OpenTelemetry, or plain logging.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetEngineHooks(&myEngineHooks{})
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnLayoutStart(ctx, mode, nodeCount)
//	// ... compute ...
//	observability.Engine().OnLayoutComplete(ctx, mode, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the layout engine.
type EngineHooks interface {
	// Layout events: one-shot or rebuild-scope layout computation.
	OnLayoutStart(ctx context.Context, mode string, nodeCount int)
	OnLayoutComplete(ctx context.Context, mode string, duration time.Duration, err error)

	// OnGraphChange records the rebuild scope chosen for an update.
	OnGraphChange(ctx context.Context, change string, nodeCount, edgeCount int)

	// OnSettle records the solver crossing into its settling state.
	OnSettle(ctx context.Context, ticks int, kineticEnergy float64)

	// OnAutoFit records a viewport auto-fit for a focused subset.
	OnAutoFit(ctx context.Context, focusCount int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnLayoutStart(context.Context, string, int)                   {}
func (NoopEngineHooks) OnLayoutComplete(context.Context, string, time.Duration, error) {
}
func (NoopEngineHooks) OnGraphChange(context.Context, string, int, int) {}
func (NoopEngineHooks) OnSettle(context.Context, int, float64)          {}
func (NoopEngineHooks) OnAutoFit(context.Context, int)                  {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	cacheHooks = NoopCacheHooks{}
}
