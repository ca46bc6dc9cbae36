package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/E-Corp-Inc/spotify-web-api-go/internal/testutil"
	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/bulk"
	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/scopes"
)

// echoBatchHandler answers a catalog batch endpoint by echoing the
// requested IDs back as objects under the given envelope key.
func echoBatchHandler(envelope string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		objs := make([]map[string]string, 0, len(ids))
		for _, id := range ids {
			objs = append(objs, map[string]string{"id": id, "name": "Name " + id})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{envelope: objs})
	}
}

func makeIDs(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return ids
}

func TestTracks_WithinLimit(t *testing.T) {
	mock := testutil.NewMockSpotify()
	defer mock.Close()
	mock.SetHandler("/tracks", echoBatchHandler("tracks"))

	api := newTestAPI(t, mock)

	ids := makeIDs("t", 50)
	tracks, err := api.Tracks(context.Background(), ids)
	if err != nil {
		t.Fatalf("Tracks failed: %v", err)
	}
	if len(tracks) != 50 {
		t.Fatalf("got %d tracks, want 50", len(tracks))
	}
	if tracks[0].ID != "t0" || tracks[49].ID != "t49" {
		t.Errorf("order not preserved: first=%q last=%q", tracks[0].ID, tracks[49].ID)
	}
	if mock.GetRequestCount() != 1 {
		t.Errorf("requests = %d, want 1", mock.GetRequestCount())
	}
}

func TestTracks_OverLimitFailsFast(t *testing.T) {
	mock := testutil.NewMockSpotify()
	defer mock.Close()
	mock.SetHandler("/tracks", echoBatchHandler("tracks"))

	api := newTestAPI(t, mock)

	_, err := api.Tracks(context.Background(), makeIDs("t", 51))

	var tooMany *bulk.TooManyIDsError
	if !errors.As(err, &tooMany) {
		t.Fatalf("Expected TooManyIDsError, got %v", err)
	}
	if tooMany.Requested != 51 || tooMany.Max != MaxTracksPerRequest {
		t.Errorf("TooManyIDsError = %+v, want Requested=51 Max=%d", tooMany, MaxTracksPerRequest)
	}
	// Rejection happens before any request is issued
	if mock.GetRequestCount() != 0 {
		t.Errorf("requests = %d, want 0", mock.GetRequestCount())
	}
}

func TestTracks_AutoChunk(t *testing.T) {
	mock := testutil.NewMockSpotify()
	defer mock.Close()
	mock.SetHandler("/tracks", echoBatchHandler("tracks"))

	api := newTestAPI(t, mock)

	ids := makeIDs("t", 120)
	tracks, err := api.Tracks(context.Background(), ids, WithAutoChunk())
	if err != nil {
		t.Fatalf("Tracks failed: %v", err)
	}
	if len(tracks) != 120 {
		t.Fatalf("got %d tracks, want 120", len(tracks))
	}
	// Combined results keep input order across chunk boundaries
	for i, id := range ids {
		if tracks[i].ID != id {
			t.Fatalf("track[%d] = %q, want %q", i, tracks[i].ID, id)
		}
	}
	// 120 ids at 50 per request
	if mock.GetRequestCount() != 3 {
		t.Errorf("requests = %d, want 3", mock.GetRequestCount())
	}
}

func TestAlbums_LimitIsTwenty(t *testing.T) {
	mock := testutil.NewMockSpotify()
	defer mock.Close()
	mock.SetHandler("/albums", echoBatchHandler("albums"))

	api := newTestAPI(t, mock)

	// 21 albums exceed the per-request limit of 20
	_, err := api.Albums(context.Background(), makeIDs("al", 21))
	var tooMany *bulk.TooManyIDsError
	if !errors.As(err, &tooMany) {
		t.Fatalf("Expected TooManyIDsError, got %v", err)
	}

	albums, err := api.Albums(context.Background(), makeIDs("al", 20))
	if err != nil {
		t.Fatalf("Albums failed: %v", err)
	}
	if len(albums) != 20 {
		t.Errorf("got %d albums, want 20", len(albums))
	}
}

func TestArtists(t *testing.T) {
	mock := testutil.NewMockSpotify()
	defer mock.Close()
	mock.SetHandler("/artists", echoBatchHandler("artists"))

	api := newTestAPI(t, mock)

	artists, err := api.Artists(context.Background(), []string{"a1", "a2"})
	if err != nil {
		t.Fatalf("Artists failed: %v", err)
	}
	if len(artists) != 2 || artists[1].Name != "Name a2" {
		t.Errorf("unexpected artists: %+v", artists)
	}
}

func TestBulk_EmptyIDs(t *testing.T) {
	mock := testutil.NewMockSpotify()
	defer mock.Close()

	api := newTestAPI(t, mock)

	tracks, err := api.Tracks(context.Background(), nil)
	if err != nil {
		t.Fatalf("Tracks failed: %v", err)
	}
	if tracks != nil {
		t.Errorf("expected nil result for empty input, got %v", tracks)
	}
	if mock.GetRequestCount() != 0 {
		t.Errorf("requests = %d, want 0", mock.GetRequestCount())
	}
}

func TestContainsSavedTracks(t *testing.T) {
	mock := testutil.NewMockSpotify()
	defer mock.Close()
	mock.SetHandler("/me/tracks/contains", func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		out := make([]bool, len(ids))
		for i, id := range ids {
			// saved tracks are the even-numbered fixtures
			out[i] = strings.HasSuffix(id, "0") || strings.HasSuffix(id, "2")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	})

	api := newTestAPI(t, mock, scopes.ScopeUserLibraryRead)

	got, err := api.ContainsSavedTracks(context.Background(), []string{"t0", "t1", "t2"})
	if err != nil {
		t.Fatalf("ContainsSavedTracks failed: %v", err)
	}
	want := []bool{true, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("contains[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestContainsSavedTracks_MissingScope(t *testing.T) {
	mock := testutil.NewMockSpotify()
	defer mock.Close()

	api := newTestAPI(t, mock)

	_, err := api.ContainsSavedTracks(context.Background(), []string{"t1"})
	var missErr *scopes.MissingScopeError
	if !errors.As(err, &missErr) {
		t.Fatalf("Expected MissingScopeError, got %v", err)
	}
	if mock.GetRequestCount() != 0 {
		t.Errorf("requests = %d, want 0", mock.GetRequestCount())
	}
}
