package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/asimos-bot/software-watermark/pkg/cache"
	wmerrors "github.com/asimos-bot/software-watermark/pkg/errors"
	"github.com/asimos-bot/software-watermark/pkg/graph"
	"github.com/asimos-bot/software-watermark/pkg/observability"
	"github.com/asimos-bot/software-watermark/pkg/rs"
	"github.com/asimos-bot/software-watermark/pkg/watermark"
)

var tracer = otel.Tracer("github.com/asimos-bot/software-watermark/pkg/pipeline")

// Runner encodes and decodes watermarks with caching.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// encodes collapses concurrent cache misses for the same graph key.
	encodes singleflight.Group
}

// NewRunner returns a runner. A nil keyer selects [cache.DefaultKeyer], a nil
// cache disables caching and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// EncodeWithCacheInfo embeds payload in a new watermark graph.
func (r *Runner) EncodeWithCacheInfo(ctx context.Context, payload []byte, opts Options) (*EncodeResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, wmerrors.Wrap(wmerrors.ErrCodeInvalidInput, err, "invalid options")
	}

	ctx, span := tracer.Start(ctx, "Runner.Encode", trace.WithAttributes(
		attribute.String("scheme", opts.Scheme),
		attribute.Int("parity_symbols", opts.ParitySymbols),
		attribute.Int("payload_bytes", len(payload)),
	))
	defer span.End()

	start := time.Now()
	res, err := r.encode(ctx, payload, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	res.Duration = time.Since(start)
	res.Stats = watermark.Analyze(res.Graph)

	span.SetAttributes(
		attribute.Int("node_count", res.Stats.Nodes),
		attribute.Int("edge_count", res.Stats.Edges),
		attribute.Bool("cache_hit", res.CacheHit),
	)
	opts.Logger.Debug("encoded watermark",
		"scheme", opts.Scheme,
		"nodes", res.Stats.Nodes,
		"backedges", res.Stats.Backedges,
		"cached", res.CacheHit,
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) encode(ctx context.Context, payload []byte, opts Options) (*EncodeResult, error) {
	if len(payload) == 0 {
		return nil, wmerrors.New(wmerrors.ErrCodeInvalidPayload, "payload is empty")
	}

	key := r.Keyer.GraphKey(opts.GraphKeyOpts(payload))
	if !opts.Refresh {
		if g, data, ok := r.cachedGraph(ctx, key); ok {
			return &EncodeResult{Graph: g, GraphHash: cache.Hash(data), CacheHit: true}, nil
		}
	}

	v, err, shared := r.encodes.Do(key, func() (any, error) {
		return r.encodeAndStore(ctx, key, payload, opts)
	})
	if err != nil {
		return nil, err
	}
	res := *v.(*EncodeResult)
	if shared {
		res.Graph = res.Graph.DeepCopy()
	}
	return &res, nil
}

func (r *Runner) encodeAndStore(ctx context.Context, key string, payload []byte, opts Options) (*EncodeResult, error) {
	hooks := observability.Codec()
	hooks.OnEncodeStart(ctx, opts.Scheme, len(payload))
	start := time.Now()

	g, err := r.encodeGraph(payload, opts)

	nodes := 0
	if g != nil {
		nodes = g.Len()
	}
	hooks.OnEncodeComplete(ctx, opts.Scheme, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	data, err := g.MarshalBinary()
	if err != nil {
		return nil, wmerrors.Wrap(wmerrors.ErrCodeInternal, err, "serialize graph")
	}
	if err := r.Cache.Set(ctx, key, data, cache.GraphTTL); err != nil {
		opts.Logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "graph", len(data))
	}
	return &EncodeResult{Graph: g, GraphHash: cache.Hash(data)}, nil
}

func (r *Runner) encodeGraph(payload []byte, opts Options) (*graph.Graph, error) {
	wrapped, err := wrapPayload(payload, opts.ParitySymbols)
	if err != nil {
		return nil, wmerrors.Wrap(wmerrors.ErrCodeInvalidConfig, err, "wrap payload")
	}
	g, err := watermark.Encode(wrapped, opts.ParsedScheme())
	if err != nil {
		return nil, wmerrors.Wrap(wmerrors.ErrCodeInvalidPayload, err, "encode watermark")
	}
	return g, nil
}

// cachedGraph returns the graph stored under key along with its stored
// bytes. An entry that no longer deserializes is dropped and counts as a
// miss.
func (r *Runner) cachedGraph(ctx context.Context, key string) (*graph.Graph, []byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "graph")
		return nil, nil, false
	}
	g, err := graph.Deserialize(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "graph")
		_ = r.Cache.Delete(ctx, key)
		return nil, nil, false
	}
	observability.Cache().OnCacheHit(ctx, "graph")
	return g, data, true
}

// Encode is [Runner.EncodeWithCacheInfo] returning only the graph.
func (r *Runner) Encode(ctx context.Context, payload []byte, opts Options) (*graph.Graph, error) {
	res, err := r.EncodeWithCacheInfo(ctx, payload, opts)
	if err != nil {
		return nil, err
	}
	return res.Graph, nil
}

// DecodeWithCacheInfo recovers the payload carried by g.
func (r *Runner) DecodeWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (*DecodeResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, wmerrors.Wrap(wmerrors.ErrCodeInvalidInput, err, "invalid options")
	}

	ctx, span := tracer.Start(ctx, "Runner.Decode", trace.WithAttributes(
		attribute.String("scheme", opts.Scheme),
		attribute.Int("parity_symbols", opts.ParitySymbols),
		attribute.Int("node_count", g.Len()),
		attribute.Int("edge_count", g.EdgeCount()),
	))
	defer span.End()

	start := time.Now()
	res, err := r.decode(ctx, g, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	res.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("payload_bytes", len(res.Payload)),
		attribute.Bool("cache_hit", res.CacheHit),
	)
	opts.Logger.Debug("decoded watermark",
		"scheme", opts.Scheme,
		"bytes", len(res.Payload),
		"cached", res.CacheHit,
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) decode(ctx context.Context, g *graph.Graph, opts Options) (*DecodeResult, error) {
	data, err := g.MarshalBinary()
	if err != nil {
		return nil, wmerrors.Wrap(wmerrors.ErrCodeInternal, err, "serialize graph")
	}
	graphHash := cache.Hash(data)
	key := r.Keyer.PayloadKey(graphHash, opts.PayloadKeyOpts())

	if !opts.Refresh {
		if payload, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "payload")
			return &DecodeResult{Payload: payload, GraphHash: graphHash, CacheHit: true}, nil
		}
		observability.Cache().OnCacheMiss(ctx, "payload")
	}

	hooks := observability.Codec()
	hooks.OnDecodeStart(ctx, opts.Scheme, g.Len())
	start := time.Now()

	payload, err := r.decodePayload(ctx, g, opts)

	hooks.OnDecodeComplete(ctx, opts.Scheme, len(payload), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if err := r.Cache.Set(ctx, key, payload, cache.PayloadTTL); err != nil {
		opts.Logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "payload", len(payload))
	}
	return &DecodeResult{Payload: payload, GraphHash: graphHash}, nil
}

func (r *Runner) decodePayload(ctx context.Context, g *graph.Graph, opts Options) ([]byte, error) {
	size := opts.Size
	if opts.ParitySymbols > 0 {
		size = 0
	}
	raw, err := watermark.DecodeSize(g, opts.ParsedScheme(), size)
	if err != nil {
		return nil, classify(err, "decode watermark")
	}
	if opts.ParitySymbols == 0 {
		return raw, nil
	}

	payload, err := unwrapPayload(raw, opts.ParitySymbols)
	observability.Codec().OnCorrection(ctx, opts.ParitySymbols, err)
	if err != nil {
		return nil, classify(err, "correct payload")
	}
	payload, err = padTo(payload, opts.Size)
	if err != nil {
		return nil, classify(err, "pad payload")
	}
	return payload, nil
}

// classify wraps codec errors with the matching error code.
func classify(err error, msg string) error {
	code := wmerrors.ErrCodeInternal
	switch {
	case errors.Is(err, watermark.ErrUndecodable):
		code = wmerrors.ErrCodeUndecodable
	case errors.Is(err, rs.ErrUncorrectable):
		code = wmerrors.ErrCodeUncorrectable
	case errors.Is(err, rs.ErrInvalidParity):
		// A block too short for its parity means the graph is not ours.
		code = wmerrors.ErrCodeUndecodable
	case errors.Is(err, watermark.ErrConfiguration):
		code = wmerrors.ErrCodeInvalidInput
	}
	return wmerrors.Wrap(code, err, "%s", msg)
}

// Decode is [Runner.DecodeWithCacheInfo] returning only the payload.
func (r *Runner) Decode(ctx context.Context, g *graph.Graph, opts Options) ([]byte, error) {
	res, err := r.DecodeWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	return res.Payload, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on opts unless one was given.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
