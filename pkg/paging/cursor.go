package paging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
)

// ErrUnsupportedDirection is returned when backward traversal is requested
// on a cursor page. Cursor collections have no reverse direction; this is
// disallowed, not merely unimplemented.
var ErrUnsupportedDirection = errors.New("cursor pages cannot be traversed backward")

// Cursor holds the opaque cursor tokens the service uses to compute the
// next page of a cursor-addressed collection.
type Cursor struct {
	After  string `json:"after"`
	Before string `json:"before"`
}

// CursorPage is one fetched slice of a cursor-addressed collection.
// Unlike Page it is forward-only: there is no offset, no previous URL,
// and the total is reported by only some endpoints.
type CursorPage[T any] struct {
	// HREF is the canonical URL identifying the page's request.
	HREF string

	// Limit is the page size requested from the service.
	Limit int

	// Total is the collection size when the endpoint reports one, 0 otherwise.
	Total int

	// NextURL is the opaque absolute URL of the next page, nil at the end.
	NextURL *string

	// Cursors are the service-supplied cursor tokens for this page.
	Cursors Cursor

	items    []T
	kind     Kind
	rq       Requester
	envelope string
}

// cursorPageBody is the wire layout of a Spotify cursor paging object.
type cursorPageBody[T any] struct {
	HREF    string  `json:"href"`
	Items   []T     `json:"items"`
	Limit   int     `json:"limit"`
	Total   int     `json:"total"`
	Next    *string `json:"next"`
	Cursors Cursor  `json:"cursors"`
}

// DecodeCursorPage decodes a raw cursor paging object body into a
// CursorPage bound to the given item kind and requester.
//
// Returns *UnknownKindError if no decoder is registered for kind.
func DecodeCursorPage[T any](body []byte, kind Kind, rq Requester) (*CursorPage[T], error) {
	if !Registered(kind) {
		return nil, &UnknownKindError{Kind: kind}
	}
	if rq == nil {
		return nil, fmt.Errorf("decode cursor page %q: requester is required", string(kind))
	}

	var cb cursorPageBody[T]
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, fmt.Errorf("decode cursor page %q: %w", string(kind), err)
	}

	if cb.Limit > 0 && len(cb.Items) > cb.Limit {
		return nil, fmt.Errorf("decode cursor page %q: %d items exceeds limit %d", string(kind), len(cb.Items), cb.Limit)
	}

	return &CursorPage[T]{
		HREF:    cb.HREF,
		Limit:   cb.Limit,
		Total:   cb.Total,
		NextURL: cb.Next,
		Cursors: cb.Cursors,
		items:   cb.Items,
		kind:    kind,
		rq:      rq,
	}, nil
}

// DecodeEnvelopedCursorPage decodes a cursor paging object wrapped in a
// single-key JSON envelope, like the {"artists": {...}} wrapper on the
// followed-artists listing. Pages fetched through Next unwrap the same
// envelope.
func DecodeEnvelopedCursorPage[T any](body []byte, kind Kind, key string, rq Requester) (*CursorPage[T], error) {
	inner, err := unwrapEnvelope(body, kind, key)
	if err != nil {
		return nil, err
	}
	page, err := DecodeCursorPage[T](inner, kind, rq)
	if err != nil {
		return nil, err
	}
	page.envelope = key
	return page, nil
}

func unwrapEnvelope(body []byte, kind Kind, key string) ([]byte, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode cursor page %q: envelope: %w", string(kind), err)
	}
	inner, ok := env[key]
	if !ok {
		return nil, fmt.Errorf("decode cursor page %q: envelope missing %q", string(kind), key)
	}
	return inner, nil
}

// Kind returns the item kind the page was decoded with.
func (c *CursorPage[T]) Kind() Kind { return c.kind }

// HasNext reports whether the service supplied a next page URL.
func (c *CursorPage[T]) HasNext() bool { return c.NextURL != nil }

// Next fetches the page after this one. It issues exactly one GET against
// the stored next URL. Returns (nil, nil) without issuing a request when
// no next page exists.
func (c *CursorPage[T]) Next(ctx context.Context) (*CursorPage[T], error) {
	if c.NextURL == nil {
		return nil, nil
	}
	body, err := c.rq.Get(ctx, *c.NextURL)
	if err != nil {
		return nil, err
	}
	pageFetchesTotal.WithLabelValues(string(c.kind), "next").Inc()
	if c.envelope != "" {
		return DecodeEnvelopedCursorPage[T](body, c.kind, c.envelope, c.rq)
	}
	return DecodeCursorPage[T](body, c.kind, c.rq)
}

// Previous always fails: cursor collections are forward-only.
func (c *CursorPage[T]) Previous(ctx context.Context) (*CursorPage[T], error) {
	return nil, ErrUnsupportedDirection
}

// Len returns the number of items on this page.
func (c *CursorPage[T]) Len() int { return len(c.items) }

// At returns the item at index i.
func (c *CursorPage[T]) At(i int) T { return c.items[i] }

// Items returns the page's items in service order. The slice must be
// treated as read-only.
func (c *CursorPage[T]) Items() []T { return c.items }

// Slice returns the items in the half-open range [lo, hi).
func (c *CursorPage[T]) Slice(lo, hi int) []T { return c.items[lo:hi] }

// Contains reports whether any item on this page satisfies match.
func (c *CursorPage[T]) Contains(match func(T) bool) bool {
	for _, v := range c.items {
		if match(v) {
			return true
		}
	}
	return false
}

// All returns an iterator over the page's items in service order.
func (c *CursorPage[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range c.items {
			if !yield(i, v) {
				return
			}
		}
	}
}
