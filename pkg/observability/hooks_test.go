package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	c := NoopCodecHooks{}
	c.OnEncodeStart(ctx, "a", 1)
	c.OnEncodeComplete(ctx, "a", 6, time.Millisecond, nil)
	c.OnDecodeStart(ctx, "b", 6)
	c.OnDecodeComplete(ctx, "b", 1, time.Millisecond, errors.New("boom"))
	c.OnCorrection(ctx, 4, nil)

	k := NoopCacheHooks{}
	k.OnCacheHit(ctx, "graph")
	k.OnCacheMiss(ctx, "payload")
	k.OnCacheSet(ctx, "graph", 128)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Codec().(NoopCodecHooks); !ok {
		t.Error("Codec() default is not NoopCodecHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() default is not NoopCacheHooks")
	}

	h := NewPrometheusHooks(prometheus.NewRegistry())
	SetCodecHooks(h)
	SetCacheHooks(h)
	if Codec() != CodecHooks(h) || Cache() != CacheHooks(h) {
		t.Error("registered hooks were not returned")
	}

	SetCodecHooks(nil)
	if Codec() != CodecHooks(h) {
		t.Error("SetCodecHooks(nil) replaced the hooks")
	}

	Reset()
	if _, ok := Codec().(NoopCodecHooks); !ok {
		t.Error("Reset() did not restore NoopCodecHooks")
	}
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnEncodeComplete(ctx, "a", 6, time.Millisecond, nil)
	h.OnEncodeComplete(ctx, "a", 0, time.Millisecond, errors.New("empty payload"))
	h.OnDecodeStart(ctx, "b", 6)
	h.OnDecodeComplete(ctx, "b", 1, time.Millisecond, nil)
	h.OnCorrection(ctx, 4, nil)
	h.OnCacheHit(ctx, "graph")
	h.OnCacheMiss(ctx, "graph")
	h.OnCacheMiss(ctx, "graph")
	h.OnCacheSet(ctx, "graph", 100)
	h.OnCacheSet(ctx, "graph", 28)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"encode ok", h.ops.WithLabelValues("encode", "a", "ok"), 1},
		{"encode error", h.ops.WithLabelValues("encode", "a", "error"), 1},
		{"decode ok", h.ops.WithLabelValues("decode", "b", "ok"), 1},
		{"corrections", h.corrections.WithLabelValues("ok"), 1},
		{"hits", h.cacheEvents.WithLabelValues("graph", "hit"), 1},
		{"misses", h.cacheEvents.WithLabelValues("graph", "miss"), 2},
		{"bytes", h.cacheBytes.WithLabelValues("graph"), 128},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}

	want := `
# HELP watermark_cache_events_total Cache hits, misses and writes by key type
# TYPE watermark_cache_events_total counter
watermark_cache_events_total{event="hit",key_type="graph"} 1
watermark_cache_events_total{event="miss",key_type="graph"} 2
watermark_cache_events_total{event="set",key_type="graph"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "watermark_cache_events_total"); err != nil {
		t.Error(err)
	}
}

func TestPrometheusHooksDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusHooks(reg)

	defer func() {
		if recover() == nil {
			t.Error("second registration on the same registry did not panic")
		}
	}()
	NewPrometheusHooks(reg)
}
