package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	return New(Options{Store: NewMemoryStore(), TTL: ttl, Retention: time.Hour})
}

func countingFetch(calls *atomic.Int64, payload string) FetchFunc {
	return func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte(payload), nil
	}
}

func TestFetchWarmsAndServesFromStore(t *testing.T) {
	c := newTestCache(t, time.Minute)
	var calls atomic.Int64
	fetch := countingFetch(&calls, `["a"]`)
	ctx := context.Background()

	raw, err := c.Fetch(ctx, KeyProducts, fetch)
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(raw))

	raw, err = c.Fetch(ctx, KeyProducts, fetch)
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(raw))
	assert.Equal(t, int64(1), calls.Load())
}

func TestFetchSharesConcurrentCalls(t *testing.T) {
	c := newTestCache(t, time.Minute)
	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte(`[1]`), nil
	}
	ctx := context.Background()

	const readers = 8
	var wg sync.WaitGroup
	results := make([][]byte, readers)
	errs := make([]error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Fetch(ctx, KeyProducts, fetch)
		}(i)
	}

	// Give every reader time to join the in-flight fetch.
	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		assert.JSONEq(t, `[1]`, string(results[i]))
	}
}

func TestGetColdKeyLoadsInBackground(t *testing.T) {
	c := newTestCache(t, time.Minute)
	var calls atomic.Int64
	fetch := countingFetch(&calls, `["a"]`)
	ctx := context.Background()

	res := c.Get(ctx, KeyProducts, fetch)
	assert.True(t, res.Loading)
	assert.Empty(t, res.Data)

	require.Eventually(t, func() bool {
		return !c.Get(ctx, KeyProducts, fetch).Loading
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}

func TestGetServesStaleWhileRevalidating(t *testing.T) {
	c := newTestCache(t, 10*time.Millisecond)
	var calls atomic.Int64
	fetch := countingFetch(&calls, `["a"]`)
	ctx := context.Background()

	_, err := c.Fetch(ctx, KeyProducts, fetch)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	res := c.Get(ctx, KeyProducts, fetch)
	assert.True(t, res.Stale)
	assert.True(t, res.Loading)
	assert.JSONEq(t, `["a"]`, string(res.Data))

	require.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	c := newTestCache(t, time.Hour)
	var calls atomic.Int64
	fetch := countingFetch(&calls, `["a"]`)
	ctx := context.Background()

	_, err := c.Fetch(ctx, KeyProducts, fetch)
	require.NoError(t, err)

	c.Invalidate(ctx, KeyProducts)

	_, err = c.Fetch(ctx, KeyProducts, fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestInvalidatePrefixMarksEveryPage(t *testing.T) {
	c := newTestCache(t, time.Hour)
	var calls atomic.Int64
	fetch := countingFetch(&calls, `[]`)
	ctx := context.Background()

	for page := 1; page <= 3; page++ {
		_, err := c.Fetch(ctx, PageKey(PrefixProductsPage, page), fetch)
		require.NoError(t, err)
	}
	_, err := c.Fetch(ctx, KeyProviders, fetch)
	require.NoError(t, err)
	require.Equal(t, int64(4), calls.Load())

	c.Invalidate(ctx, PrefixProductsPage+"*")

	for page := 1; page <= 3; page++ {
		_, err := c.Fetch(ctx, PageKey(PrefixProductsPage, page), fetch)
		require.NoError(t, err)
	}
	_, err = c.Fetch(ctx, KeyProviders, fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(7), calls.Load())
}

func TestFailedRefreshKeepsPriorData(t *testing.T) {
	c := newTestCache(t, time.Hour)
	ctx := context.Background()
	fetchErr := errors.New("backend unavailable")
	var healthy atomic.Bool
	healthy.Store(true)
	fetch := func(context.Context) ([]byte, error) {
		if !healthy.Load() {
			return nil, fetchErr
		}
		return []byte(`["a"]`), nil
	}

	_, err := c.Fetch(ctx, KeyProducts, fetch)
	require.NoError(t, err)

	c.Invalidate(ctx, KeyProducts)
	healthy.Store(false)

	_, err = c.Fetch(ctx, KeyProducts, fetch)
	require.ErrorIs(t, err, fetchErr)

	res := c.Get(ctx, KeyProducts, fetch)
	assert.True(t, res.Stale)
	assert.JSONEq(t, `["a"]`, string(res.Data))
	assert.ErrorIs(t, c.LastError(KeyProducts), fetchErr)

	// Recovery clears the recorded error.
	healthy.Store(true)
	require.Eventually(t, func() bool {
		raw, err := c.Fetch(ctx, KeyProducts, fetch)
		return err == nil && len(raw) > 0 && c.LastError(KeyProducts) == nil
	}, time.Second, 5*time.Millisecond)
}

func TestTypedFetchAndLookup(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()
	type row struct {
		Name string `json:"name"`
	}
	fn := func(context.Context) ([]row, error) {
		return []row{{Name: "Paracetamol 500mg"}}, nil
	}

	rows, err := Fetch(ctx, c, KeyProducts, fn)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Paracetamol 500mg", rows[0].Name)

	got, res := Lookup(ctx, c, KeyProducts, fn)
	assert.False(t, res.Loading)
	require.Len(t, got, 1)
	assert.Equal(t, rows[0], got[0])
}

func TestLookupDecodeErrorSurfaces(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()
	_, err := c.Fetch(ctx, KeyProducts, func(context.Context) ([]byte, error) {
		return []byte(`"not a list"`), nil
	})
	require.NoError(t, err)

	_, res := Lookup(ctx, c, KeyProducts, func(context.Context) ([]int, error) {
		return nil, nil
	})
	assert.Error(t, res.FetchErr)
}

func TestMemoryStoreRetention(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestEntryEnvelopeRoundTrip(t *testing.T) {
	e := entry{Payload: json.RawMessage(`[1,2]`), FetchedAt: time.Now().UTC(), Stale: true}
	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var got entry
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, got.Stale)
	assert.JSONEq(t, `[1,2]`, string(got.Payload))
}
