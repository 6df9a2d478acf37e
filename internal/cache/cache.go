package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads a fresh serialized snapshot for a key.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Result is the outcome of a non-blocking lookup. Data may carry a
// stale snapshot while a refresh is in flight; FetchErr distinguishes
// "empty because no data" from "empty because the last fetch failed".
type Result struct {
	Data     json.RawMessage
	Loading  bool
	Stale    bool
	FetchErr error
}

// entry is the serialized envelope stored per key.
type entry struct {
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetched_at"`
	Stale     bool            `json:"stale"`
}

// Cache is the shared revalidating read cache. Reads of a warm key are
// served immediately; cold or stale keys trigger a fetch shared across
// concurrent callers.
type Cache struct {
	store     Store
	ttl       time.Duration
	retention time.Duration
	logger    *slog.Logger

	group singleflight.Group

	mu       sync.Mutex
	inflight map[string]struct{}
	lastErr  map[string]error
}

// Options configures a Cache.
type Options struct {
	Store Store
	// TTL is how long an entry is served without revalidation.
	TTL time.Duration
	// Retention is how long an entry may still be served stale before
	// the store evicts it.
	Retention time.Duration
	Logger    *slog.Logger
}

// New constructs a Cache.
func New(opts Options) *Cache {
	store := opts.Store
	if store == nil {
		store = NewMemoryStore()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	retention := opts.Retention
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{
		store:     store,
		ttl:       ttl,
		retention: retention,
		logger:    logger,
		inflight:  make(map[string]struct{}),
		lastErr:   make(map[string]error),
	}
}

func (c *Cache) load(ctx context.Context, key string) (entry, bool) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache store read failed", slog.String("key", key), slog.Any("error", err))
		return entry{}, false
	}
	if !ok {
		return entry{}, false
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return entry{}, false
	}
	return e, true
}

func (c *Cache) fresh(e entry) bool {
	return !e.Stale && time.Since(e.FetchedAt) < c.ttl
}

// Get performs a non-blocking lookup: the last-known snapshot is
// returned immediately, and a shared background refresh is scheduled
// when the entry is cold or stale. The first call on a cold key yields
// an empty Result with Loading set.
func (c *Cache) Get(ctx context.Context, key string, fetch FetchFunc) Result {
	e, ok := c.load(ctx, key)
	if ok && c.fresh(e) {
		return Result{Data: e.Payload}
	}

	c.refreshAsync(ctx, key, fetch)

	c.mu.Lock()
	fetchErr := c.lastErr[key]
	c.mu.Unlock()

	res := Result{Loading: true, FetchErr: fetchErr}
	if ok {
		res.Data = e.Payload
		res.Stale = true
	}
	return res
}

// Fetch performs a blocking lookup: a fresh entry is served from the
// store, anything else waits for a fetch shared with every concurrent
// caller of the same key. A failed fetch leaves prior data in place and
// returns the error.
func (c *Cache) Fetch(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	if e, ok := c.load(ctx, key); ok && c.fresh(e) {
		return e.Payload, nil
	}

	raw, err, _ := c.group.Do(key, func() (any, error) {
		return c.refresh(ctx, key, fetch)
	})
	if err != nil {
		return nil, err
	}
	return raw.([]byte), nil
}

// refresh fetches, stores and bookkeeps one key.
func (c *Cache) refresh(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	payload, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastErr[key] = err
		return nil, fmt.Errorf("cache: refresh %s: %w", key, err)
	}
	delete(c.lastErr, key)

	e := entry{Payload: payload, FetchedAt: time.Now()}
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, raw, c.retention); err != nil {
		c.logger.Warn("cache store write failed", slog.String("key", key), slog.Any("error", err))
	}
	return payload, nil
}

func (c *Cache) refreshAsync(ctx context.Context, key string, fetch FetchFunc) {
	c.mu.Lock()
	if _, busy := c.inflight[key]; busy {
		c.mu.Unlock()
		return
	}
	c.inflight[key] = struct{}{}
	c.mu.Unlock()

	// The refresh outlives the triggering caller.
	bg := context.WithoutCancel(ctx)
	go func() {
		_, err, _ := c.group.Do(key, func() (any, error) {
			return c.refresh(bg, key, fetch)
		})
		if err != nil {
			c.logger.Warn("cache refresh failed", slog.String("key", key), slog.Any("error", err))
		}
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
	}()
}

// Invalidate marks entries for refetch on next access. A key ending in
// "*" marks every stored key with that prefix. Prior data keeps being
// served stale until the refetch lands.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if prefix, ok := strings.CutSuffix(key, "*"); ok {
			matches, err := c.store.Keys(ctx, prefix)
			if err != nil {
				c.logger.Warn("cache invalidate scan failed", slog.String("prefix", prefix), slog.Any("error", err))
				continue
			}
			for _, match := range matches {
				c.markStale(ctx, match)
			}
			continue
		}
		c.markStale(ctx, key)
	}
}

func (c *Cache) markStale(ctx context.Context, key string) {
	e, ok := c.load(ctx, key)
	if !ok {
		return
	}
	e.Stale = true
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, raw, c.retention); err != nil {
		c.logger.Warn("cache invalidate write failed", slog.String("key", key), slog.Any("error", err))
	}
}

// LastError returns the most recent fetch error recorded for key, if
// any.
func (c *Cache) LastError(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr[key]
}

// Fetch loads key through c, decoding the snapshot as T. Concurrent
// calls for one key share a single backend request.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	raw, err := c.Fetch(ctx, key, marshalFetch(fn))
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return out, nil
}

// Lookup is the non-blocking, typed variant of Fetch. The zero value of
// T is returned on a cold key.
func Lookup[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, Result) {
	var out T
	res := c.Get(ctx, key, marshalFetch(fn))
	if len(res.Data) > 0 {
		if err := json.Unmarshal(res.Data, &out); err != nil {
			res.FetchErr = fmt.Errorf("cache: decode %s: %w", key, err)
		}
	}
	return out, res
}

func marshalFetch[T any](fn func(context.Context) (T, error)) FetchFunc {
	return func(ctx context.Context) ([]byte, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}
}
