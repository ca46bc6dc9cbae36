// Package api implements typed access to the Web API endpoints. Paged
// listings come back as paging.Page or paging.CursorPage values bound to
// the executing client, so callers can walk large collections without
// touching URLs; catalog lookups accept ID batches subject to the
// documented per-request limits.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/client"
	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/models"
	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/paging"
	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/scopes"
)

// API exposes the typed endpoint surface on top of a configured client.
type API struct {
	client *client.Client
}

// New creates the endpoint surface for a client.
func New(c *client.Client) *API {
	return &API{client: c}
}

// Client returns the underlying request executor.
func (a *API) Client() *client.Client {
	return a.client
}

// pagedQuery builds a path with optional limit/offset parameters.
// Zero values are omitted so the service applies its own defaults.
func pagedQuery(path string, limit, offset int) string {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// Me returns the current user's profile.
func (a *API) Me(ctx context.Context) (*models.User, error) {
	body, err := a.client.Get(ctx, "/me")
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode user profile: %w", err)
	}
	return &user, nil
}

// SavedTracks lists the tracks saved in the current user's library,
// newest first. Requires the user-library-read scope.
func (a *API) SavedTracks(ctx context.Context, limit, offset int) (*paging.Page[models.SavedTrack], error) {
	if err := a.client.RequireScopes(scopes.ScopeUserLibraryRead); err != nil {
		return nil, err
	}
	body, err := a.client.Get(ctx, pagedQuery("/me/tracks", limit, offset))
	if err != nil {
		return nil, err
	}
	return paging.DecodePage[models.SavedTrack](body, models.KindSavedTrack, a.client)
}

// SavedAlbums lists the albums saved in the current user's library.
// Requires the user-library-read scope.
func (a *API) SavedAlbums(ctx context.Context, limit, offset int) (*paging.Page[models.SavedAlbum], error) {
	if err := a.client.RequireScopes(scopes.ScopeUserLibraryRead); err != nil {
		return nil, err
	}
	body, err := a.client.Get(ctx, pagedQuery("/me/albums", limit, offset))
	if err != nil {
		return nil, err
	}
	return paging.DecodePage[models.SavedAlbum](body, models.KindSavedAlbum, a.client)
}

// MyPlaylists lists the playlists the current user owns or follows.
// Requires the playlist-read-private scope to include private playlists.
func (a *API) MyPlaylists(ctx context.Context, limit, offset int) (*paging.Page[models.SimplePlaylist], error) {
	if err := a.client.RequireScopes(scopes.ScopePlaylistReadPrivate); err != nil {
		return nil, err
	}
	body, err := a.client.Get(ctx, pagedQuery("/me/playlists", limit, offset))
	if err != nil {
		return nil, err
	}
	return paging.DecodePage[models.SimplePlaylist](body, models.KindSimplePlaylist, a.client)
}

// PlaylistItems lists the tracks of a playlist in playlist order. Public
// playlists need no scope; the service enforces access to private ones.
func (a *API) PlaylistItems(ctx context.Context, playlistID string, limit, offset int) (*paging.Page[models.PlaylistTrack], error) {
	if playlistID == "" {
		return nil, fmt.Errorf("playlist id is required")
	}
	body, err := a.client.Get(ctx, pagedQuery("/playlists/"+playlistID+"/tracks", limit, offset))
	if err != nil {
		return nil, err
	}
	return paging.DecodePage[models.PlaylistTrack](body, models.KindPlaylistTrack, a.client)
}

// FollowedArtists lists the artists the current user follows. The
// collection is cursor-addressed and forward-only; pass the last page's
// Cursors.After as after to resume a walk. Requires the user-follow-read
// scope.
func (a *API) FollowedArtists(ctx context.Context, limit int, after string) (*paging.CursorPage[models.Artist], error) {
	if err := a.client.RequireScopes(scopes.ScopeUserFollowRead); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("type", "artist")
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if after != "" {
		q.Set("after", after)
	}

	body, err := a.client.Get(ctx, "/me/following?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return paging.DecodeEnvelopedCursorPage[models.Artist](body, models.KindFollowedArtist, "artists", a.client)
}

// RecentlyPlayed lists the current user's play history, most recent
// first. Cursor-addressed and forward-only. Requires the
// user-read-recently-played scope.
func (a *API) RecentlyPlayed(ctx context.Context, limit int) (*paging.CursorPage[models.PlayHistory], error) {
	if err := a.client.RequireScopes(scopes.ScopeUserReadRecentlyPlayed); err != nil {
		return nil, err
	}
	body, err := a.client.Get(ctx, pagedQuery("/me/player/recently-played", limit, 0))
	if err != nil {
		return nil, err
	}
	return paging.DecodeCursorPage[models.PlayHistory](body, models.KindPlayHistory, a.client)
}
