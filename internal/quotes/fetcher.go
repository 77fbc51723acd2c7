// Package quotes puts a short-lived cache and request coalescing in front of
// a quote source.
package quotes

import (
	"context"
	"maps"
	"time"

	"tickerbot/internal/memorystore"
	"tickerbot/pkg/quote"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type cachedQuote struct {
	record    quote.Record
	fetchedAt time.Time
}

// Fetcher serves quotes from cache while they are younger than the TTL and
// lets at most one upstream call per symbol run at a time. Only successful
// lookups are cached.
type Fetcher struct {
	source  quote.Source
	cache   *memorystore.BoundedStore[string, cachedQuote]
	ttl     time.Duration
	timeout time.Duration
	group   singleflight.Group
	log     *zap.Logger

	now func() time.Time
}

func NewFetcher(source quote.Source, capacity int, ttl, timeout time.Duration, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		source:  source,
		cache:   memorystore.NewBoundedStore[string, cachedQuote](capacity),
		ttl:     ttl,
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

func (f *Fetcher) Name() string { return "cached-" + f.source.Name() }

// Quote returns a copy of the cached or freshly fetched record for symbol.
func (f *Fetcher) Quote(ctx context.Context, symbol string) (quote.Record, error) {
	if rec, ok := f.cached(symbol); ok {
		return rec, nil
	}

	ch := f.group.DoChan(symbol, func() (any, error) {
		// Joined callers may cancel independently of the one that started
		// the flight, so the upstream call gets its own deadline.
		fetchCtx := context.WithoutCancel(ctx)
		if f.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, f.timeout)
			defer cancel()
		}

		rec, err := f.source.Quote(fetchCtx, symbol)
		if err != nil {
			return nil, err
		}
		f.cache.Put(symbol, cachedQuote{record: rec, fetchedAt: f.now()})
		f.log.Debug("quote fetched", zap.String("symbol", symbol), zap.String("source", f.source.Name()))
		return rec, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return maps.Clone(res.Val.(quote.Record)), nil
	}
}

func (f *Fetcher) cached(symbol string) (quote.Record, bool) {
	entry, ok := f.cache.Get(symbol)
	if !ok || f.expired(entry) {
		return nil, false
	}
	return maps.Clone(entry.record), true
}

func (f *Fetcher) expired(entry cachedQuote) bool {
	return f.now().Sub(entry.fetchedAt) >= f.ttl
}

// Sweep drops expired entries and returns how many were removed.
func (f *Fetcher) Sweep() int {
	return f.cache.DeleteFunc(func(_ string, entry cachedQuote) bool {
		return f.expired(entry)
	})
}

// Len reports the number of cached entries, expired or not.
func (f *Fetcher) Len() int {
	return f.cache.Len()
}
