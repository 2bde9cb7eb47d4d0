// Package pipeline runs watermark encoding and decoding with caching,
// error correction, metrics hooks and tracing.
//
// The [Runner] is the single entry point the CLI uses. It wraps the payload
// in a Reed-Solomon block when parity symbols are configured, caches encoded
// graphs and decoded payloads, reports events to the observability hooks and
// opens an OpenTelemetry span per operation.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	g, err := runner.Encode(ctx, payload, pipeline.Options{Scheme: "b", ParitySymbols: 4})
//	...
//	payload, err := runner.Decode(ctx, g, pipeline.Options{Scheme: "b", ParitySymbols: 4})
//
// # Error Correction
//
// With ParitySymbols set, the encoded bit string is a single 1 bit followed
// by the Reed-Solomon block. The leading 1 is the implicit root of every
// watermark graph, so it survives any tampering and the decoder always
// recovers the block with its exact length, leading zero bytes included.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/asimos-bot/software-watermark/pkg/cache"
	"github.com/asimos-bot/software-watermark/pkg/graph"
	"github.com/asimos-bot/software-watermark/pkg/rs"
	"github.com/asimos-bot/software-watermark/pkg/watermark"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScheme is the scheme used when Options.Scheme is empty.
	DefaultScheme = "a"

	// DefaultParitySymbols disables Reed-Solomon wrapping.
	DefaultParitySymbols = 0

	// MaxParitySymbols is the largest parity budget one Reed-Solomon block
	// can carry alongside at least one data byte.
	MaxParitySymbols = rs.MaxBlock - 1
)

// Output formats for graphs.
const (
	FormatJSON   = "json"
	FormatBinary = "bin"
	FormatDOT    = "dot"
	FormatSVG    = "svg"
	FormatPNG    = "png"
	FormatJPEG   = "jpg"
)

// GraphFormats are the formats a graph can be read back from.
var GraphFormats = map[string]bool{
	FormatJSON:   true,
	FormatBinary: true,
	FormatDOT:    true,
}

// RenderFormats are the formats a graph can be written to.
var RenderFormats = map[string]bool{
	FormatJSON:   true,
	FormatBinary: true,
	FormatDOT:    true,
	FormatSVG:    true,
	FormatPNG:    true,
	FormatJPEG:   true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one encode or decode.
type Options struct {
	// Scheme is "a" or "b" (aliases accepted by [watermark.ParseScheme]).
	Scheme string `json:"scheme" toml:"scheme"`

	// ParitySymbols is the number of Reed-Solomon parity bytes per block.
	// Zero disables error correction.
	ParitySymbols int `json:"parity_symbols" toml:"parity_symbols"`

	// Size left-pads decoded payloads to this many bytes. Zero returns the
	// smallest payload holding every decoded bit.
	Size int `json:"size,omitempty" toml:"-"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"-" toml:"-"`

	Logger *log.Logger `json:"-" toml:"-"`

	scheme    watermark.Scheme
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Scheme == "" {
		o.Scheme = DefaultScheme
	}
	s, err := watermark.ParseScheme(o.Scheme)
	if err != nil {
		return err
	}
	if o.ParitySymbols < 0 || o.ParitySymbols > MaxParitySymbols {
		return fmt.Errorf("parity_symbols %d out of range [0, %d]", o.ParitySymbols, MaxParitySymbols)
	}
	if o.Size < 0 {
		return fmt.Errorf("size %d must not be negative", o.Size)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.scheme = s
	o.Scheme = s.String()
	o.validated = true
	return nil
}

// ParsedScheme returns the validated scheme. Call after
// [Options.ValidateAndSetDefaults].
func (o *Options) ParsedScheme() watermark.Scheme { return o.scheme }

// GraphKeyOpts returns the cache key inputs for encoding payload.
func (o *Options) GraphKeyOpts(payload []byte) cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Scheme:        o.Scheme,
		ParitySymbols: o.ParitySymbols,
		PayloadHash:   cache.Hash(payload),
	}
}

// PayloadKeyOpts returns the cache key inputs for decoding.
func (o *Options) PayloadKeyOpts() cache.PayloadKeyOpts {
	return cache.PayloadKeyOpts{
		Scheme:        o.Scheme,
		ParitySymbols: o.ParitySymbols,
		Size:          o.Size,
	}
}

// ValidateFormat checks format against one of the format sets.
func ValidateFormat(format string, formats map[string]bool) error {
	if !formats[format] {
		return fmt.Errorf("invalid format: %q", format)
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// EncodeResult is the outcome of [Runner.EncodeWithCacheInfo].
type EncodeResult struct {
	Graph     *graph.Graph
	GraphHash string
	Stats     watermark.Stats
	Duration  time.Duration
	CacheHit  bool
}

// DecodeResult is the outcome of [Runner.DecodeWithCacheInfo].
type DecodeResult struct {
	Payload   []byte
	GraphHash string
	Duration  time.Duration
	CacheHit  bool
}
