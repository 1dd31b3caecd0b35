// Package pager walks cursor-paginated board queries. The upstream cursor
// API cannot seek, so bounded windows are emulated by walking pages from the
// start and discarding until the offset; nothing outside this package needs
// to know that.
package pager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldops/boardgate/internal/boardapi"
	"github.com/fieldops/boardgate/internal/cache"
	"github.com/fieldops/boardgate/internal/model"
)

// Query identifies one logical traversal: the board, the columns requested,
// and a tag distinguishing scans whose downstream filtering differs. The
// cache key is derived from the whole query, never from individual pages.
type Query struct {
	BoardID   string
	ColumnIDs []string
	Tag       string
}

// CacheKey returns the cache identity of this query.
func (q Query) CacheKey() string {
	parts := []string{"pager", q.BoardID, strings.Join(q.ColumnIDs, ","), q.Tag}
	return strings.Join(parts, "|")
}

// Window is a bounded slice of a logically filtered item stream.
type Window struct {
	Offset int
	Limit  int
}

// windowResult is what a bounded traversal caches: the windowed items plus
// how many matching items the walk saw in total.
type windowResult struct {
	Items   []model.Record
	Matched int
}

// Coordinator drives page traversals against the board service, consulting
// the TTL cache per query identity before issuing any request.
type Coordinator struct {
	client boardapi.Client
	cache  *cache.Store
	ttl    time.Duration
}

// New creates a Coordinator. cache may be nil to disable caching entirely
// (tests, one-shot tools).
func New(client boardapi.Client, store *cache.Store, ttl time.Duration) *Coordinator {
	return &Coordinator{client: client, cache: store, ttl: ttl}
}

// ForEachPage walks the traversal page by page, invoking fn with each page's
// items in order. fn may stop the walk early. The cache is not involved:
// callers that need caching use FetchAll or FetchWindow, or cache their own
// joined results.
func (c *Coordinator) ForEachPage(ctx context.Context, q Query, fn func(items []model.Record) (stop bool, err error)) error {
	cursor := ""
	for {
		page, err := c.client.FetchPage(ctx, q.BoardID, cursor, q.ColumnIDs)
		if err != nil {
			return err
		}
		stop, err := fn(page.Items)
		if err != nil {
			return err
		}
		if stop || page.Cursor == "" {
			return nil
		}
		cursor = page.Cursor
	}
}

// FetchAll returns the complete item sequence for q. A cached complete
// traversal is returned without touching the upstream; otherwise every page
// is walked and the result cached only once the traversal finishes.
func (c *Coordinator) FetchAll(ctx context.Context, q Query) ([]model.Record, error) {
	key := q.CacheKey() + "|all"
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			if items, ok := v.([]model.Record); ok {
				return items, nil
			}
		}
	}

	var items []model.Record
	err := c.ForEachPage(ctx, q, func(page []model.Record) (bool, error) {
		items = append(items, page...)
		return false, nil
	})
	if err != nil {
		// Never cache or return a partial traversal.
		return nil, err
	}

	if c.cache != nil {
		c.cache.SetTTL(key, items, c.ttl)
	}
	log.Debug().Str("board", q.BoardID).Int("items", len(items)).Msg("full board traversal complete")
	return items, nil
}

// FetchWindow returns win.Limit items of the match-filtered stream starting
// at win.Offset, still physically walking pages from the start. The walk
// stops issuing page requests as soon as the window is satisfied: once
// limit items are collected and offset+limit matching items have been seen,
// further pages can only contain items past the window. Returns the
// windowed items and the count of matching items seen before stopping.
func (c *Coordinator) FetchWindow(ctx context.Context, q Query, win Window, match func(model.Record) bool) ([]model.Record, int, error) {
	key := fmt.Sprintf("%s|window|%d|%d", q.CacheKey(), win.Offset, win.Limit)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			if res, ok := v.(windowResult); ok {
				return res.Items, res.Matched, nil
			}
		}
	}
	if match == nil {
		match = func(model.Record) bool { return true }
	}

	collected := make([]model.Record, 0, win.Limit)
	matched := 0
	err := c.ForEachPage(ctx, q, func(page []model.Record) (bool, error) {
		for _, rec := range page {
			if !match(rec) {
				continue
			}
			matched++
			if matched > win.Offset && len(collected) < win.Limit {
				collected = append(collected, rec)
			}
		}
		done := len(collected) == win.Limit && matched >= win.Offset+win.Limit
		return done, nil
	})
	if err != nil {
		return nil, 0, err
	}

	if c.cache != nil {
		c.cache.SetTTL(key, windowResult{Items: collected, Matched: matched}, c.ttl)
	}
	return collected, matched, nil
}
