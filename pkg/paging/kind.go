package paging

import (
	"context"
	"fmt"
	"sync"
)

// Kind identifies the item schema of a paged collection. Each resource
// kind (track, album, artist, playlist-track, ...) decodes to a different
// item type; the kind selects the decoder.
type Kind string

// Requester is the capability that issues authenticated GET requests
// against the Spotify API and returns the raw response body. It is
// implemented by pkg/client and owns auth headers, caching, and retries;
// the traversal engine adds none of that.
type Requester interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// UnknownKindError indicates a page body was tagged with an item kind this
// library has no decoder for. This is a fatal schema mismatch with the
// service; no fallback decoding is attempted.
type UnknownKindError struct {
	Kind Kind
}

// Error implements the error interface.
func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unrecognized item kind %q (library/service schema mismatch)", string(e.Kind))
}

// decodeFunc turns a raw paginated response body into a page value.
type decodeFunc func(body []byte, rq Requester) (any, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[Kind]decodeFunc)
)

// Register binds an item kind to the offset-paged decoder for T.
// Registration happens once at package init time (see pkg/models);
// re-registering a kind panics.
func Register[T any](kind Kind) {
	registerDecoder(kind, func(body []byte, rq Requester) (any, error) {
		return DecodePage[T](body, kind, rq)
	})
}

// RegisterCursor binds an item kind to the cursor-paged decoder for T.
func RegisterCursor[T any](kind Kind) {
	registerDecoder(kind, func(body []byte, rq Requester) (any, error) {
		return DecodeCursorPage[T](body, kind, rq)
	})
}

// RegisterCursorEnveloped binds an item kind whose cursor page arrives
// wrapped in a single-key JSON envelope.
func RegisterCursorEnveloped[T any](kind Kind, key string) {
	registerDecoder(kind, func(body []byte, rq Requester) (any, error) {
		return DecodeEnvelopedCursorPage[T](body, kind, key, rq)
	})
}

func registerDecoder(kind Kind, fn decodeFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[kind]; exists {
		panic(fmt.Sprintf("paging: kind %q registered twice", string(kind)))
	}
	registry[kind] = fn
}

// Registered reports whether a decoder exists for the given kind.
func Registered(kind Kind) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[kind]
	return ok
}

// Decode dispatches a raw page body to the decoder registered for kind.
// The returned value is a *Page[T] or *CursorPage[T] depending on how the
// kind was registered. Returns *UnknownKindError for unregistered kinds.
func Decode(kind Kind, body []byte, rq Requester) (any, error) {
	registryMu.RLock()
	fn, ok := registry[kind]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}
	return fn(body, rq)
}
