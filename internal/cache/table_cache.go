package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"shespeaks/internal/logger"
	"shespeaks/internal/table"
)

// DefaultTTL is how long a loaded table is served before the next Get reloads it
const DefaultTTL = 5 * time.Minute

// LoadTimeout bounds one reload. The reload outlives the request that
// started it, since other callers may be waiting on the same result.
const LoadTimeout = time.Minute

// Loader fetches a fresh response table
type Loader func(ctx context.Context) (*table.ResponseTable, error)

// TableCache memoizes the response table for a fixed TTL.
// A failed reload clears the cached table; it is never served stale.
type TableCache struct {
	mu     sync.RWMutex
	value  *table.ResponseTable
	expiry time.Time

	ttl   time.Duration
	now   func() time.Time
	load  Loader
	group singleflight.Group
	hooks []func(*table.ResponseTable)
	log   *logger.Logger
}

// NewTableCache creates a cache around load. A zero ttl uses DefaultTTL and a
// nil clock uses time.Now.
func NewTableCache(load Loader, ttl time.Duration, now func() time.Time, log *logger.Logger) *TableCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TableCache{
		ttl:  ttl,
		now:  now,
		load: load,
		log:  log.WithComponent("table-cache"),
	}
}

// OnRefresh registers fn to run after every successful reload
func (c *TableCache) OnRefresh(fn func(*table.ResponseTable)) {
	c.mu.Lock()
	c.hooks = append(c.hooks, fn)
	c.mu.Unlock()
}

// Get returns the cached table while it is fresh and reloads it otherwise.
// On a failed reload it returns an empty table along with the error.
func (c *TableCache) Get(ctx context.Context) (*table.ResponseTable, error) {
	c.mu.RLock()
	v, exp := c.value, c.expiry
	c.mu.RUnlock()

	if v != nil && c.now().Before(exp) {
		return v, nil
	}
	return c.reload(ctx)
}

// Refresh reloads regardless of expiry
func (c *TableCache) Refresh(ctx context.Context) (*table.ResponseTable, error) {
	return c.reload(ctx)
}

// Invalidate drops the cached table so the next Get reloads
func (c *TableCache) Invalidate() {
	c.mu.Lock()
	c.value = nil
	c.expiry = time.Time{}
	c.mu.Unlock()
}

// Expiry reports when the cached table goes stale; zero when nothing is cached
func (c *TableCache) Expiry() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expiry
}

func (c *TableCache) reload(ctx context.Context) (*table.ResponseTable, error) {
	ch := c.group.DoChan("table", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()

		t, err := c.load(loadCtx)
		if err != nil {
			c.Invalidate()
			c.log.WithError(err).Warn("table reload failed")
			return table.Empty(), err
		}
		if t == nil {
			t = table.Empty()
		}

		// a table restored from a snapshot keeps the age it was built with
		base := t.BuiltAt()
		if base.IsZero() {
			base = c.now()
		}

		c.mu.Lock()
		c.value = t
		c.expiry = base.Add(c.ttl)
		hooks := append([]func(*table.ResponseTable){}, c.hooks...)
		c.mu.Unlock()

		c.log.WithField("rows", t.Len()).Debug("table reloaded")
		for _, h := range hooks {
			h(t)
		}
		return t, nil
	})

	select {
	case res := <-ch:
		return res.Val.(*table.ResponseTable), res.Err
	case <-ctx.Done():
		return table.Empty(), &table.DataSourceError{Op: "wait", Err: ctx.Err()}
	}
}
