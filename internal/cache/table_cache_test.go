package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"shespeaks/internal/model"
	"shespeaks/internal/table"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)}
}

func oneRow(id string, builtAt time.Time) *table.ResponseTable {
	return table.New([]string{"year"}, []model.Response{{
		ID:        id,
		CreatedAt: builtAt,
		Fields:    map[string]model.Value{"year": model.Scalar("Final")},
	}}, builtAt)
}

// countingLoader returns a fresh table per call, or err when set
type countingLoader struct {
	calls atomic.Int32
	clock *fakeClock
	err   error
}

func (l *countingLoader) Load(context.Context) (*table.ResponseTable, error) {
	l.calls.Add(1)
	if l.err != nil {
		return table.Empty(), l.err
	}
	return oneRow("r1", l.clock.Now()), nil
}

func TestTableCache_ServesWithinTTL(t *testing.T) {
	clock := newClock()
	loader := &countingLoader{clock: clock}
	c := NewTableCache(loader.Load, 5*time.Minute, clock.Now, nil)

	first, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Len())

	clock.Advance(4*time.Minute + 59*time.Second)
	second, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.EqualValues(t, 1, loader.calls.Load())

	clock.Advance(time.Second)
	third, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, third, "expiry is exclusive")
	assert.EqualValues(t, 2, loader.calls.Load())
}

func TestTableCache_FailedReloadDropsStaleTable(t *testing.T) {
	clock := newClock()
	loader := &countingLoader{clock: clock}
	c := NewTableCache(loader.Load, time.Minute, clock.Now, nil)

	_, err := c.Get(context.Background())
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	loader.err = &table.DataSourceError{Op: "stream", Err: errors.New("connection refused")}

	got, err := c.Get(context.Background())
	require.Error(t, err)
	assert.True(t, table.IsDataSourceError(err))
	assert.True(t, got.IsEmpty())
	assert.True(t, c.Expiry().IsZero())

	// still failing: the earlier table does not come back
	got, err = c.Get(context.Background())
	require.Error(t, err)
	assert.True(t, got.IsEmpty())
	assert.EqualValues(t, 3, loader.calls.Load())

	loader.err = nil
	got, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func TestTableCache_ExpiryFollowsBuildTime(t *testing.T) {
	clock := newClock()
	built := clock.Now().Add(-4 * time.Minute)
	c := NewTableCache(func(context.Context) (*table.ResponseTable, error) {
		return oneRow("r1", built), nil
	}, 5*time.Minute, clock.Now, nil)

	_, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, built.Add(5*time.Minute), c.Expiry())
}

func TestTableCache_InvalidateAndRefresh(t *testing.T) {
	clock := newClock()
	loader := &countingLoader{clock: clock}
	c := NewTableCache(loader.Load, time.Minute, clock.Now, nil)

	var refreshed []int
	c.OnRefresh(func(t *table.ResponseTable) { refreshed = append(refreshed, t.Len()) })

	_, err := c.Get(context.Background())
	require.NoError(t, err)
	c.Invalidate()
	_, err = c.Get(context.Background())
	require.NoError(t, err)
	_, err = c.Refresh(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, loader.calls.Load())
	assert.Equal(t, []int{1, 1, 1}, refreshed)

	loader.err = errors.New("down")
	_, err = c.Refresh(context.Background())
	require.Error(t, err)
	assert.Len(t, refreshed, 3, "hooks only fire on success")
}

func TestTableCache_NilTableIsEmpty(t *testing.T) {
	c := NewTableCache(func(context.Context) (*table.ResponseTable, error) { return nil, nil }, 0, nil, nil)
	got, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestTableCache_ConcurrentGetsShareOneLoad(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newClock()
	release := make(chan struct{})
	var calls atomic.Int32
	c := NewTableCache(func(context.Context) (*table.ResponseTable, error) {
		calls.Add(1)
		<-release
		return oneRow("r1", clock.Now()), nil
	}, time.Minute, clock.Now, nil)

	const viewers = 8
	var wg sync.WaitGroup
	results := make([]*table.ResponseTable, viewers)
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Get(context.Background())
		}(i)
	}

	// let the viewers pile up behind the first load
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, 1, r.Len())
	}
	assert.LessOrEqual(t, calls.Load(), int32(viewers))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))

	before := calls.Load()
	_, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, calls.Load())
}

func TestTableCache_CancelledCallerDoesNotAbortSharedLoad(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newClock()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	c := NewTableCache(func(ctx context.Context) (*table.ResponseTable, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
		case <-ctx.Done():
			return table.Empty(), ctx.Err()
		}
		return oneRow("r1", clock.Now()), nil
	}, time.Minute, clock.Now, nil)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Get(firstCtx)
		firstErr <- err
	}()
	<-started

	type result struct {
		tbl *table.ResponseTable
		err error
	}
	second := make(chan result, 1)
	go func() {
		tbl, err := c.Get(context.Background())
		second <- result{tbl, err}
	}()

	cancel()
	err := <-firstErr
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, table.IsDataSourceError(err))

	time.Sleep(20 * time.Millisecond)
	close(release)

	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.tbl.Len())
	assert.EqualValues(t, 1, calls.Load(), "the abandoned request's load still fills the cache")

	cached, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cached.Len())
}
