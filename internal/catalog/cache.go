// Package catalog provides a time-bounded cache of per-league item catalogs.
//
// Lookups within the TTL are served from memory with no upstream I/O.
// Refresh is lazy on access; concurrent misses for the same league coalesce
// into a single upstream fetch. A failed refresh propagates the error and
// leaves any stale entry untouched. Stale data is never served.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/logger"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/metrics"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/models"
)

// Fetcher retrieves the current item catalog for a league.
// *scout.Client satisfies this interface.
type Fetcher interface {
	FetchItems(ctx context.Context, league string) ([]models.ItemRecord, error)
}

// entry is one league's catalog. Entries are replaced wholesale on refresh,
// never mutated in place, so concurrent readers always see a complete list.
type entry struct {
	names     []string
	records   map[string]models.ItemRecord
	fetchedAt time.Time
}

// Cache is a TTL-bounded, capacity-bounded catalog cache keyed by league.
type Cache struct {
	fetcher    Fetcher
	ttl        time.Duration
	maxLeagues int
	metrics    *metrics.Manager

	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group

	now func() time.Time // injectable for tests
}

// New creates a Cache. maxLeagues 0 means unbounded; otherwise the
// least-recently-fetched entry is evicted when the bound is exceeded.
// mets may be nil.
func New(fetcher Fetcher, ttl time.Duration, maxLeagues int, mets *metrics.Manager) *Cache {
	return &Cache{
		fetcher:    fetcher,
		ttl:        ttl,
		maxLeagues: maxLeagues,
		metrics:    mets,
		entries:    make(map[string]*entry),
		now:        time.Now,
	}
}

// Names returns the deduplicated item names for a league, oldest catalog
// order first. Within the TTL this performs no I/O.
func (c *Cache) Names(ctx context.Context, league string) ([]string, error) {
	e, err := c.ensure(ctx, league)
	if err != nil {
		return nil, err
	}
	return e.names, nil
}

// Record returns the catalog record for an exact display name, as produced
// by the resolver. The boolean is false when the name is not in the catalog.
func (c *Cache) Record(ctx context.Context, league, name string) (models.ItemRecord, bool, error) {
	e, err := c.ensure(ctx, league)
	if err != nil {
		return models.ItemRecord{}, false, err
	}
	rec, ok := e.records[name]
	return rec, ok, nil
}

// Len reports the number of leagues currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ensure returns a fresh entry for the league, refreshing through a
// single-flight group so at most one fetch per league is in flight.
func (c *Cache) ensure(ctx context.Context, league string) (*entry, error) {
	if e, ok := c.fresh(league); ok {
		c.metrics.RecordCatalogHit()
		return e, nil
	}

	v, err, _ := c.group.Do(league, func() (interface{}, error) {
		// A refresh may have completed while this caller queued.
		if e, ok := c.fresh(league); ok {
			return e, nil
		}
		return c.refresh(ctx, league)
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry), nil
}

// fresh returns the league's entry when it exists and its age is below TTL.
func (c *Cache) fresh(league string) (*entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[league]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e, true
}

// refresh fetches the league catalog and replaces the entry wholesale.
// On failure the previous entry, stale or not, is left untouched.
func (c *Cache) refresh(ctx context.Context, league string) (*entry, error) {
	items, err := c.fetcher.FetchItems(ctx, league)
	if err != nil {
		c.metrics.RecordCatalogRefresh("error")
		return nil, fmt.Errorf("catalog refresh for %s: %w", league, err)
	}

	e := &entry{
		names:     make([]string, 0, len(items)),
		records:   make(map[string]models.ItemRecord, len(items)),
		fetchedAt: c.now(),
	}
	for _, item := range items {
		if _, seen := e.records[item.Name]; seen {
			continue
		}
		e.records[item.Name] = item
		e.names = append(e.names, item.Name)
	}

	c.mu.Lock()
	c.entries[league] = e
	c.evictLocked(league)
	leagues := len(c.entries)
	c.mu.Unlock()

	c.metrics.RecordCatalogRefresh("ok")
	c.metrics.SetCatalogLeagues(leagues)
	logger.Debug("catalog refreshed for %s: %d names", league, len(e.names))

	return e, nil
}

// evictLocked drops least-recently-fetched entries beyond maxLeagues,
// never evicting the entry just written. Caller holds c.mu.
func (c *Cache) evictLocked(keep string) {
	if c.maxLeagues <= 0 {
		return
	}
	for len(c.entries) > c.maxLeagues {
		oldest := ""
		var oldestAt time.Time
		for league, e := range c.entries {
			if league == keep {
				continue
			}
			if oldest == "" || e.fetchedAt.Before(oldestAt) {
				oldest = league
				oldestAt = e.fetchedAt
			}
		}
		if oldest == "" {
			return
		}
		delete(c.entries, oldest)
		logger.Debug("catalog evicted league %s", oldest)
	}
}
