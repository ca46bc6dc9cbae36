package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "path only",
			key:  Key{Path: "/v1/me/tracks"},
			want: "spotify:v1/me/tracks",
		},
		{
			name: "path with query",
			key: Key{
				Path:  "/v1/me/tracks",
				Query: url.Values{"limit": []string{"50"}, "offset": []string{"0"}},
			},
			want: "spotify:v1/me/tracks:limit=50:offset=0",
		},
		{
			name: "query keys sorted for determinism",
			key: Key{
				Path:  "/v1/search",
				Query: url.Values{"type": []string{"track"}, "q": []string{"harvest"}},
			},
			want: "spotify:v1/search:q=harvest:type=track",
		},
		{
			name: "user scoped",
			key: Key{
				Path: "/v1/me/tracks",
				User: "wizzler",
			},
			want: "spotify:v1/me/tracks:user=wizzler",
		},
		{
			name: "empty path",
			key:  Key{},
			want: "spotify",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_String_Deterministic(t *testing.T) {
	key := Key{
		Path:  "/v1/me/tracks",
		Query: url.Values{"a": []string{"1"}, "b": []string{"2"}, "c": []string{"3"}},
		User:  "wizzler",
	}

	first := key.String()
	for i := 0; i < 20; i++ {
		if got := key.String(); got != first {
			t.Fatalf("key not deterministic: %q != %q", got, first)
		}
	}
}

func TestKeyForURL(t *testing.T) {
	key := KeyForURL("https://api.spotify.com/v1/me/tracks?offset=2&limit=2", "wizzler")

	if key.Path != "/v1/me/tracks" {
		t.Errorf("Path = %q, want /v1/me/tracks", key.Path)
	}
	if key.Query.Get("offset") != "2" {
		t.Errorf("Query offset = %q, want 2", key.Query.Get("offset"))
	}
	if key.User != "wizzler" {
		t.Errorf("User = %q, want wizzler", key.User)
	}
}

func TestKeyForURL_DistinctUsersDistinctKeys(t *testing.T) {
	a := KeyForURL("https://api.spotify.com/v1/me/tracks", "alice")
	b := KeyForURL("https://api.spotify.com/v1/me/tracks", "bob")

	if a.String() == b.String() {
		t.Error("keys for different users must not collide")
	}
}
