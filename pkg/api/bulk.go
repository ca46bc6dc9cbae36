package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/bulk"
	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/models"
	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/scopes"
)

// Per-request ID limits documented for the catalog batch endpoints.
const (
	MaxTracksPerRequest     = 50
	MaxAlbumsPerRequest     = 20
	MaxArtistsPerRequest    = 50
	MaxCheckSavedPerRequest = 50
)

type bulkOptions struct {
	autoChunk bool
}

// BulkOption adjusts how a batch endpoint handles oversized ID lists.
type BulkOption func(*bulkOptions)

// WithAutoChunk splits an oversized ID list into sequential per-request
// chunks instead of failing fast. Each chunk costs one request against
// the rate limit; the combined results keep the input order.
func WithAutoChunk() BulkOption {
	return func(o *bulkOptions) { o.autoChunk = true }
}

func applyBulkOptions(opts []BulkOption) bulkOptions {
	var o bulkOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// idsQuery builds a path with the comma-joined ids parameter.
func idsQuery(path string, ids []string) string {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	return path + "?" + q.Encode()
}

// fetchBatch retrieves one batch from an enveloped catalog endpoint,
// e.g. /tracks?ids=... answering {"tracks": [...]}.
func fetchBatch[R any](ctx context.Context, a *API, path, envelope string, ids []string) ([]R, error) {
	body, err := a.client.Get(ctx, idsQuery(path, ids))
	if err != nil {
		return nil, err
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s batch: %w", envelope, err)
	}
	raw, ok := env[envelope]
	if !ok {
		return nil, fmt.Errorf("decode %s batch: envelope missing %q", envelope, envelope)
	}

	var out []R
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s batch: %w", envelope, err)
	}
	return out, nil
}

// runBulk applies the size policy: reject oversized lists unless
// auto-chunking was requested.
func runBulk[R any](ctx context.Context, max int, ids []string, opts []BulkOption, perChunk func(context.Context, []string) ([]R, error)) ([]R, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	if applyBulkOptions(opts).autoChunk {
		return bulk.ChunkedRequest(ctx, max, ids, perChunk)
	}

	if err := bulk.CheckSize(max, len(ids)); err != nil {
		return nil, err
	}
	return perChunk(ctx, ids)
}

// Tracks returns catalog information for up to MaxTracksPerRequest
// track IDs, in input order. Larger lists fail with TooManyIDsError
// unless WithAutoChunk is given.
func (a *API) Tracks(ctx context.Context, ids []string, opts ...BulkOption) ([]models.Track, error) {
	return runBulk(ctx, MaxTracksPerRequest, ids, opts, func(ctx context.Context, chunk []string) ([]models.Track, error) {
		return fetchBatch[models.Track](ctx, a, "/tracks", "tracks", chunk)
	})
}

// Albums returns catalog information for up to MaxAlbumsPerRequest
// album IDs, in input order.
func (a *API) Albums(ctx context.Context, ids []string, opts ...BulkOption) ([]models.SimpleAlbum, error) {
	return runBulk(ctx, MaxAlbumsPerRequest, ids, opts, func(ctx context.Context, chunk []string) ([]models.SimpleAlbum, error) {
		return fetchBatch[models.SimpleAlbum](ctx, a, "/albums", "albums", chunk)
	})
}

// Artists returns catalog information for up to MaxArtistsPerRequest
// artist IDs, in input order.
func (a *API) Artists(ctx context.Context, ids []string, opts ...BulkOption) ([]models.Artist, error) {
	return runBulk(ctx, MaxArtistsPerRequest, ids, opts, func(ctx context.Context, chunk []string) ([]models.Artist, error) {
		return fetchBatch[models.Artist](ctx, a, "/artists", "artists", chunk)
	})
}

// ContainsSavedTracks reports, for each track ID, whether the current
// user has saved it. Results align with the input order. Requires the
// user-library-read scope.
func (a *API) ContainsSavedTracks(ctx context.Context, ids []string, opts ...BulkOption) ([]bool, error) {
	if err := a.client.RequireScopes(scopes.ScopeUserLibraryRead); err != nil {
		return nil, err
	}
	return runBulk(ctx, MaxCheckSavedPerRequest, ids, opts, func(ctx context.Context, chunk []string) ([]bool, error) {
		body, err := a.client.Get(ctx, idsQuery("/me/tracks/contains", chunk))
		if err != nil {
			return nil, err
		}
		var out []bool
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode contains response: %w", err)
		}
		return out, nil
	})
}
