// Package cache stores encoded watermark graphs and decoded payloads.
//
// A [Cache] is a byte store with per-entry expiry. Three backends are
// provided: [FileCache] for one JSON file per entry, [BadgerCache] for an
// embedded key-value store, and [NullCache] to disable caching. Keys come
// from a [Keyer] so that every component names entries the same way.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// GraphTTL is how long an encoded graph stays cached. Encoding is
	// deterministic, so entries only expire to bound disk use.
	GraphTTL = 30 * 24 * time.Hour

	// PayloadTTL is how long a decoded payload stays cached.
	PayloadTTL = 7 * 24 * time.Hour
)

// Cache is a key-value store with expiring entries. Implementations are safe
// for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Keyer names cache entries.
type Keyer interface {
	// GraphKey names the graph encoded from a payload.
	GraphKey(opts GraphKeyOpts) string

	// PayloadKey names the payload decoded from a graph.
	PayloadKey(graphHash string, opts PayloadKeyOpts) string
}

// GraphKeyOpts are the encode inputs that determine a graph.
type GraphKeyOpts struct {
	Scheme        string `json:"scheme"`
	ParitySymbols int    `json:"parity_symbols"`
	PayloadHash   string `json:"payload_hash"`
}

// PayloadKeyOpts are the decode inputs that, with the graph, determine a
// payload.
type PayloadKeyOpts struct {
	Scheme        string `json:"scheme"`
	ParitySymbols int    `json:"parity_symbols"`
	Size          int    `json:"size"`
}

// DefaultKeyer hashes key inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey returns "graph:" followed by a SHA-256 of opts.
func (DefaultKeyer) GraphKey(opts GraphKeyOpts) string {
	return hashKey("graph", opts)
}

// PayloadKey returns "payload:" followed by a SHA-256 of the graph hash and
// opts.
func (DefaultKeyer) PayloadKey(graphHash string, opts PayloadKeyOpts) string {
	return hashKey("payload", graphHash, opts)
}
