package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements [CodecHooks] and [CacheHooks] with Prometheus
// collectors registered on a caller-supplied registerer.
type PrometheusHooks struct {
	ops         *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	nodes       *prometheus.HistogramVec
	corrections *prometheus.CounterVec
	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec
}

// NewPrometheusHooks creates the collectors and registers them on reg.
// It panics if they are already registered there.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		ops: f.NewCounterVec(prometheus.CounterOpts{
			Name: "watermark_codec_operations_total",
			Help: "Encode and decode operations by scheme and result",
		}, []string{"op", "scheme", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "watermark_codec_duration_seconds",
			Help:    "Duration of encode and decode operations",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		}, []string{"op", "scheme"}),
		nodes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "watermark_graph_nodes",
			Help:    "Node count of encoded and decoded graphs",
			Buckets: prometheus.ExponentialBuckets(2, 2, 14),
		}, []string{"op", "scheme"}),
		corrections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "watermark_rs_decodes_total",
			Help: "Reed-Solomon decodes by result",
		}, []string{"result"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "watermark_cache_events_total",
			Help: "Cache hits, misses and writes by key type",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "watermark_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type",
		}, []string{"key_type"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnEncodeStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnEncodeComplete(_ context.Context, scheme string, nodes int, d time.Duration, err error) {
	h.ops.WithLabelValues("encode", scheme, result(err)).Inc()
	h.duration.WithLabelValues("encode", scheme).Observe(d.Seconds())
	if err == nil {
		h.nodes.WithLabelValues("encode", scheme).Observe(float64(nodes))
	}
}

func (h *PrometheusHooks) OnDecodeStart(_ context.Context, scheme string, nodes int) {
	h.nodes.WithLabelValues("decode", scheme).Observe(float64(nodes))
}

func (h *PrometheusHooks) OnDecodeComplete(_ context.Context, scheme string, _ int, d time.Duration, err error) {
	h.ops.WithLabelValues("decode", scheme, result(err)).Inc()
	h.duration.WithLabelValues("decode", scheme).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCorrection(_ context.Context, _ int, err error) {
	h.corrections.WithLabelValues(result(err)).Inc()
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

var (
	_ CodecHooks = (*PrometheusHooks)(nil)
	_ CacheHooks = (*PrometheusHooks)(nil)
)
