package icalfeed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/errs"

	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	blocks    []availability.DateRange
	fetchedAt time.Time
}

// Feed fetches external calendars, sharing one request per URL among concurrent callers
// and caching successful results for the configured TTL. Failures are never cached.
type Feed struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	ttl       time.Duration
	clock     clock.Clock

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func NewFeed(cfg config.CalendarConfig, clk clock.Clock) *Feed {
	return &Feed{
		client:    &http.Client{Timeout: cfg.FetchTimeout},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		ttl:       cfg.CacheTTL,
		clock:     clk,
		cache:     make(map[string]cacheEntry),
	}
}

func (f *Feed) Blocks(ctx context.Context, url string) ([]availability.DateRange, error) {
	if blocks, ok := f.cached(url); ok {
		return blocks, nil
	}

	// The shared fetch must not die with the first caller's request.
	v, err, _ := f.group.Do(url, func() (any, error) {
		if blocks, ok := f.cached(url); ok {
			return blocks, nil
		}
		blocks, err := f.fetch(context.WithoutCancel(ctx), url)
		if err != nil {
			return nil, err
		}
		f.store(url, blocks)
		return blocks, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]availability.DateRange), nil
}

func (f *Feed) cached(url string) ([]availability.DateRange, bool) {
	f.mu.RLock()
	e, ok := f.cache[url]
	f.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if f.expired(e, f.clock.Now()) {
		f.mu.Lock()
		if cur, ok := f.cache[url]; ok && f.expired(cur, f.clock.Now()) {
			delete(f.cache, url)
		}
		f.mu.Unlock()
		return nil, false
	}
	return e.blocks, true
}

// store caches blocks for url and drops every other expired entry,
// so feeds that are no longer requested do not stay resident.
func (f *Feed) store(url string, blocks []availability.DateRange) {
	now := f.clock.Now()
	f.mu.Lock()
	defer f.mu.Unlock()
	for u, e := range f.cache {
		if f.expired(e, now) {
			delete(f.cache, u)
		}
	}
	f.cache[url] = cacheEntry{blocks: blocks, fetchedAt: now}
}

func (f *Feed) expired(e cacheEntry, now time.Time) bool {
	return now.Sub(e.fetchedAt) >= f.ttl
}

func (f *Feed) fetch(ctx context.Context, url string) ([]availability.DateRange, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(err, "build calendar request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/calendar")

	res, err := f.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "fetch calendar feed")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errs.Newf("calendar feed returned %d", res.StatusCode)
	}

	var body io.Reader = res.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(res.Body, f.maxBytes)
	}
	events, skipped, err := Parse(body)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		slog.WarnContext(ctx, "calendar feed contained unreadable events",
			"url", url,
			"skipped", skipped,
			"parsed", len(events))
	}
	return Blocks(events), nil
}
