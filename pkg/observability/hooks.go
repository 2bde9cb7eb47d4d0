// Package observability provides hooks for codec and cache metrics.
//
// Libraries call the registered hooks; the binary decides what backs them.
// The defaults do nothing, so library code never depends on a metrics
// backend being configured. [PrometheusHooks] is the bundled backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	h := observability.NewPrometheusHooks(prometheus.NewRegistry())
//	observability.SetCodecHooks(h)
//	observability.SetCacheHooks(h)
//
// Libraries emit events:
//
//	observability.Codec().OnEncodeStart(ctx, scheme, len(payload))
//	// ... encode ...
//	observability.Codec().OnEncodeComplete(ctx, scheme, g.Len(), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Codec Hooks
// =============================================================================

// CodecHooks receives events from watermark encoding and decoding.
type CodecHooks interface {
	OnEncodeStart(ctx context.Context, scheme string, payloadBytes int)
	OnEncodeComplete(ctx context.Context, scheme string, nodes int, duration time.Duration, err error)

	OnDecodeStart(ctx context.Context, scheme string, nodes int)
	OnDecodeComplete(ctx context.Context, scheme string, payloadBytes int, duration time.Duration, err error)

	// OnCorrection records a Reed-Solomon decode; err is nil when every
	// corrupted byte was repaired.
	OnCorrection(ctx context.Context, paritySymbols int, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache lookups. keyType is "graph" or
// "payload".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCodecHooks ignores every event.
type NoopCodecHooks struct{}

func (NoopCodecHooks) OnEncodeStart(context.Context, string, int)                         {}
func (NoopCodecHooks) OnEncodeComplete(context.Context, string, int, time.Duration, error) {}
func (NoopCodecHooks) OnDecodeStart(context.Context, string, int)                         {}
func (NoopCodecHooks) OnDecodeComplete(context.Context, string, int, time.Duration, error) {}
func (NoopCodecHooks) OnCorrection(context.Context, int, error)                           {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	codecHooks CodecHooks = NoopCodecHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetCodecHooks registers codec hooks. A nil h is ignored.
func SetCodecHooks(h CodecHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		codecHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Codec returns the registered codec hooks.
func Codec() CodecHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return codecHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	codecHooks = NoopCodecHooks{}
	cacheHooks = NoopCacheHooks{}
}
