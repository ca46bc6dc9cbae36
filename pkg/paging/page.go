package paging

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
)

// Page is one fetched slice of a larger ordered result set, addressable by
// offset and limit and traversable in both directions. A page is an
// immutable value once decoded; traversal returns new pages and never
// mutates an already-returned one.
type Page[T any] struct {
	// HREF is the canonical URL identifying the page's request.
	HREF string

	// Limit and Offset are the pagination counters supplied by the service.
	Limit  int
	Offset int

	// Total is the service-reported total number of items in the
	// collection. Some endpoints report an approximation.
	Total int

	// NextURL and PreviousURL are opaque absolute URLs supplied by the
	// service; nil means no further page exists in that direction. The
	// client only ever echoes these, it never constructs them.
	NextURL     *string
	PreviousURL *string

	items []T
	kind  Kind
	rq    Requester
}

// pageBody is the wire layout of a Spotify paging object.
type pageBody[T any] struct {
	HREF     string  `json:"href"`
	Items    []T     `json:"items"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Total    int     `json:"total"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// DecodePage decodes a raw paging object body into a Page bound to the
// given item kind and requester. Both are required at construction so a
// page can never exist in a non-traversable state.
//
// Returns *UnknownKindError if no decoder is registered for kind.
func DecodePage[T any](body []byte, kind Kind, rq Requester) (*Page[T], error) {
	if !Registered(kind) {
		return nil, &UnknownKindError{Kind: kind}
	}
	if rq == nil {
		return nil, fmt.Errorf("decode page %q: requester is required", string(kind))
	}

	var pb pageBody[T]
	if err := json.Unmarshal(body, &pb); err != nil {
		return nil, fmt.Errorf("decode page %q: %w", string(kind), err)
	}

	if pb.Limit > 0 && len(pb.Items) > pb.Limit {
		return nil, fmt.Errorf("decode page %q: %d items exceeds limit %d", string(kind), len(pb.Items), pb.Limit)
	}

	return &Page[T]{
		HREF:        pb.HREF,
		Limit:       pb.Limit,
		Offset:      pb.Offset,
		Total:       pb.Total,
		NextURL:     pb.Next,
		PreviousURL: pb.Previous,
		items:       pb.Items,
		kind:        kind,
		rq:          rq,
	}, nil
}

// Kind returns the item kind the page was decoded with.
func (p *Page[T]) Kind() Kind { return p.kind }

// HasNext reports whether the service supplied a next page URL.
func (p *Page[T]) HasNext() bool { return p.NextURL != nil }

// HasPrevious reports whether the service supplied a previous page URL.
func (p *Page[T]) HasPrevious() bool { return p.PreviousURL != nil }

// Next fetches the page after this one. It issues exactly one GET against
// the stored next URL and returns a new page with the same kind and
// requester. Returns (nil, nil) without issuing a request when no next
// page exists.
func (p *Page[T]) Next(ctx context.Context) (*Page[T], error) {
	return p.fetch(ctx, p.NextURL, "next")
}

// Previous fetches the page before this one. Returns (nil, nil) without
// issuing a request when no previous page exists.
func (p *Page[T]) Previous(ctx context.Context) (*Page[T], error) {
	return p.fetch(ctx, p.PreviousURL, "previous")
}

func (p *Page[T]) fetch(ctx context.Context, url *string, direction string) (*Page[T], error) {
	if url == nil {
		return nil, nil
	}
	body, err := p.rq.Get(ctx, *url)
	if err != nil {
		return nil, err
	}
	pageFetchesTotal.WithLabelValues(string(p.kind), direction).Inc()
	return DecodePage[T](body, p.kind, p.rq)
}

// Len returns the number of items on this page.
func (p *Page[T]) Len() int { return len(p.items) }

// At returns the item at index i. Panics if i is out of range, matching
// slice semantics.
func (p *Page[T]) At(i int) T { return p.items[i] }

// Items returns the page's items in service order. The slice must be
// treated as read-only.
func (p *Page[T]) Items() []T { return p.items }

// Slice returns the items in the half-open range [lo, hi).
func (p *Page[T]) Slice(lo, hi int) []T { return p.items[lo:hi] }

// Contains reports whether any item on this page satisfies match.
func (p *Page[T]) Contains(match func(T) bool) bool {
	for _, v := range p.items {
		if match(v) {
			return true
		}
	}
	return false
}

// All returns an iterator over the page's items in service order.
func (p *Page[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range p.items {
			if !yield(i, v) {
				return
			}
		}
	}
}
