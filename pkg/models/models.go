// Package models defines the typed Spotify resource models used by the
// endpoint surface, and registers the item-kind decoders the paging
// engine dispatches on.
package models

import (
	"time"

	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/paging"
)

// Item kinds for the paged collections this library decodes. The kind is
// resolved to a decoder through the paging registry exactly once, at page
// construction time.
const (
	KindTrack          paging.Kind = "track"
	KindArtist         paging.Kind = "artist"
	KindSimpleAlbum    paging.Kind = "simple_album"
	KindSavedTrack     paging.Kind = "saved_track"
	KindSavedAlbum     paging.Kind = "saved_album"
	KindPlaylistTrack  paging.Kind = "playlist_track"
	KindSimplePlaylist paging.Kind = "simple_playlist"

	// Cursor-paged kinds. These collections are forward-only.
	KindFollowedArtist paging.Kind = "followed_artist"
	KindPlayHistory    paging.Kind = "play_history"
)

func init() {
	paging.Register[Track](KindTrack)
	paging.Register[Artist](KindArtist)
	paging.Register[SimpleAlbum](KindSimpleAlbum)
	paging.Register[SavedTrack](KindSavedTrack)
	paging.Register[SavedAlbum](KindSavedAlbum)
	paging.Register[PlaylistTrack](KindPlaylistTrack)
	paging.Register[SimplePlaylist](KindSimplePlaylist)
	paging.RegisterCursorEnveloped[Artist](KindFollowedArtist, "artists")
	paging.RegisterCursor[PlayHistory](KindPlayHistory)
}

// Image is a resource image in one resolution.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Followers is the follower count of a followable resource.
type Followers struct {
	Total int `json:"total"`
}

// Artist is a full artist object.
type Artist struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	HREF         string            `json:"href"`
	URI          string            `json:"uri"`
	Genres       []string          `json:"genres,omitempty"`
	Popularity   int               `json:"popularity,omitempty"`
	Followers    Followers         `json:"followers,omitempty"`
	Images       []Image           `json:"images,omitempty"`
	ExternalURLs map[string]string `json:"external_urls,omitempty"`
}

// SimpleAlbum is the simplified album object embedded in tracks and
// returned by album listings.
type SimpleAlbum struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	HREF         string            `json:"href"`
	URI          string            `json:"uri"`
	AlbumType    string            `json:"album_type"`
	ReleaseDate  string            `json:"release_date,omitempty"`
	TotalTracks  int               `json:"total_tracks,omitempty"`
	Artists      []Artist          `json:"artists,omitempty"`
	Images       []Image           `json:"images,omitempty"`
	ExternalURLs map[string]string `json:"external_urls,omitempty"`
}

// Track is a full track object.
type Track struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	HREF         string            `json:"href"`
	URI          string            `json:"uri"`
	Album        SimpleAlbum       `json:"album,omitempty"`
	Artists      []Artist          `json:"artists,omitempty"`
	DurationMS   int               `json:"duration_ms"`
	TrackNumber  int               `json:"track_number,omitempty"`
	DiscNumber   int               `json:"disc_number,omitempty"`
	Explicit     bool              `json:"explicit"`
	Popularity   int               `json:"popularity,omitempty"`
	IsLocal      bool              `json:"is_local,omitempty"`
	ExternalURLs map[string]string `json:"external_urls,omitempty"`
}

// SavedTrack is a track in the user's library, with the save timestamp.
type SavedTrack struct {
	AddedAt time.Time `json:"added_at"`
	Track   Track     `json:"track"`
}

// SavedAlbum is an album in the user's library, with the save timestamp.
type SavedAlbum struct {
	AddedAt time.Time   `json:"added_at"`
	Album   SimpleAlbum `json:"album"`
}

// User is a public user object.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	HREF        string `json:"href"`
	URI         string `json:"uri"`
}

// PlaylistTrack is a track inside a playlist, carrying playlist-level
// metadata about when and by whom it was added.
type PlaylistTrack struct {
	AddedAt time.Time `json:"added_at"`
	AddedBy User      `json:"added_by,omitempty"`
	IsLocal bool      `json:"is_local,omitempty"`
	Track   Track     `json:"track"`
}

// TracksRef is the href/total summary of a playlist's track collection.
type TracksRef struct {
	HREF  string `json:"href"`
	Total int    `json:"total"`
}

// SimplePlaylist is the simplified playlist object returned by playlist
// listings.
type SimplePlaylist struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	HREF          string            `json:"href"`
	URI           string            `json:"uri"`
	Description   string            `json:"description,omitempty"`
	Public        bool              `json:"public"`
	Collaborative bool              `json:"collaborative"`
	SnapshotID    string            `json:"snapshot_id,omitempty"`
	Owner         User              `json:"owner,omitempty"`
	Tracks        TracksRef         `json:"tracks,omitempty"`
	Images        []Image           `json:"images,omitempty"`
	ExternalURLs  map[string]string `json:"external_urls,omitempty"`
}

// PlayContext describes where a playback happened (album, playlist, ...).
type PlayContext struct {
	Type string `json:"type"`
	HREF string `json:"href"`
	URI  string `json:"uri"`
}

// PlayHistory is one entry in the user's recently-played feed. The feed
// is cursor-paged and forward-only.
type PlayHistory struct {
	Track    Track       `json:"track"`
	PlayedAt time.Time   `json:"played_at"`
	Context  PlayContext `json:"context,omitempty"`
}
