package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// BadgerCache stores entries in an embedded Badger database. Expiry is
// handled by Badger's per-entry TTL.
type BadgerCache struct {
	db  *badger.DB
	dir string
}

// NewBadgerCache opens a Badger database in dir. An empty dir opens an
// in-memory database that is discarded on Close.
func NewBadgerCache(dir string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.MetricsEnabled = false
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger %q: %w", dir, err)
	}
	return &BadgerCache{db: db, dir: dir}, nil
}

// Get reads key.
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, false, nil
	case errors.Is(err, badger.ErrDBClosed):
		return nil, false, ErrClosed
	case err != nil:
		return nil, false, err
	}
	return data, true, nil
}

// Set writes key, retrying on transaction conflicts.
func (c *BadgerCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.update(ctx, func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes key.
func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	return c.update(ctx, func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Clear drops every entry.
func (c *BadgerCache) Clear() error {
	return c.db.DropAll()
}

// Dir returns the database directory, empty when in memory.
func (c *BadgerCache) Dir() string { return c.dir }

// Close closes the database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

func (c *BadgerCache) update(ctx context.Context, fn func(*badger.Txn) error) error {
	return RetryWithBackoff(ctx, func() error {
		err := c.db.Update(fn)
		switch {
		case errors.Is(err, badger.ErrConflict):
			return Retryable(err)
		case errors.Is(err, badger.ErrDBClosed):
			return ErrClosed
		}
		return err
	})
}

var _ Cache = (*BadgerCache)(nil)
