package paging

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for traversal operations.
var (
	pageFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotify_page_fetches_total",
		Help: "Total page transitions fetched by item kind and direction",
	}, []string{"kind", "direction"})

	collectWalkPages = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spotify_collect_walk_pages",
		Help:    "Number of pages materialized per collect walk by item kind",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
	}, []string{"kind"})
)

// CollectForward walks next URLs starting at this page (inclusive) and
// returns the pages in encounter order. It stops once maxPages pages have
// been collected (maxPages <= 0 means unbounded) or no next page exists.
//
// Pages are de-duplicated by href: some endpoints return a
// self-referential next URL at the true end of a collection, and the
// boundary page must not be counted twice. One round trip per hop,
// strictly sequential; on any error the partial walk is discarded.
func (p *Page[T]) CollectForward(ctx context.Context, maxPages int) ([]*Page[T], error) {
	pages := []*Page[T]{p}
	seen := map[string]struct{}{p.HREF: {}}

	cur := p
	for maxPages <= 0 || len(pages) < maxPages {
		next, err := cur.Next(ctx)
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		if _, dup := seen[next.HREF]; dup {
			log.Debug().
				Str("kind", string(p.kind)).
				Str("href", next.HREF).
				Msg("Stopping forward walk at repeated href")
			break
		}
		seen[next.HREF] = struct{}{}
		pages = append(pages, next)
		cur = next
	}

	collectWalkPages.WithLabelValues(string(p.kind)).Observe(float64(len(pages)))
	return pages, nil
}

// CollectAll materializes the whole collection this page belongs to.
// It walks previous URLs back to the first page, reverses that run,
// appends this page, then walks next URLs to exhaustion. The same
// de-duplication by href applies in both directions.
func (p *Page[T]) CollectAll(ctx context.Context) ([]*Page[T], error) {
	seen := map[string]struct{}{p.HREF: {}}

	var backward []*Page[T]
	cur := p
	for {
		prev, err := cur.Previous(ctx)
		if err != nil {
			return nil, err
		}
		if prev == nil {
			break
		}
		if _, dup := seen[prev.HREF]; dup {
			break
		}
		seen[prev.HREF] = struct{}{}
		backward = append(backward, prev)
		cur = prev
	}

	pages := make([]*Page[T], 0, len(backward)+1)
	for i := len(backward) - 1; i >= 0; i-- {
		pages = append(pages, backward[i])
	}
	pages = append(pages, p)

	cur = p
	for {
		next, err := cur.Next(ctx)
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		if _, dup := seen[next.HREF]; dup {
			break
		}
		seen[next.HREF] = struct{}{}
		pages = append(pages, next)
		cur = next
	}

	collectWalkPages.WithLabelValues(string(p.kind)).Observe(float64(len(pages)))
	return pages, nil
}

// CollectForward walks next URLs starting at this cursor page (inclusive),
// with the same bounds, ordering, and de-duplication semantics as the
// offset-paged variant.
func (c *CursorPage[T]) CollectForward(ctx context.Context, maxPages int) ([]*CursorPage[T], error) {
	pages := []*CursorPage[T]{c}
	seen := map[string]struct{}{c.HREF: {}}

	cur := c
	for maxPages <= 0 || len(pages) < maxPages {
		next, err := cur.Next(ctx)
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		if _, dup := seen[next.HREF]; dup {
			break
		}
		seen[next.HREF] = struct{}{}
		pages = append(pages, next)
		cur = next
	}

	collectWalkPages.WithLabelValues(string(c.kind)).Observe(float64(len(pages)))
	return pages, nil
}

// CollectAll materializes the forward closure of this cursor page. Cursor
// collections have no reverse direction, so no backward walk happens.
func (c *CursorPage[T]) CollectAll(ctx context.Context) ([]*CursorPage[T], error) {
	return c.CollectForward(ctx, 0)
}

// Flatten concatenates the items of every page in encounter order. Items
// are not de-duplicated; only pages are, by href, during collection.
func Flatten[T any](pages []*Page[T]) []T {
	var n int
	for _, p := range pages {
		n += p.Len()
	}
	items := make([]T, 0, n)
	for _, p := range pages {
		items = append(items, p.items...)
	}
	return items
}

// FlattenCursor concatenates the items of every cursor page in encounter order.
func FlattenCursor[T any](pages []*CursorPage[T]) []T {
	var n int
	for _, p := range pages {
		n += p.Len()
	}
	items := make([]T, 0, n)
	for _, p := range pages {
		items = append(items, p.items...)
	}
	return items
}
