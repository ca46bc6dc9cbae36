package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key represents a unique identifier for a cached Spotify API response.
type Key struct {
	// Path is the request path (e.g., "/v1/me/tracks").
	Path string

	// Query are the request query parameters.
	Query url.Values

	// User is the user the credential belongs to; empty for requests
	// against public catalog data. Responses for user-scoped endpoints
	// must never be shared between users.
	User string
}

// String generates a deterministic cache key string.
// Format: spotify:path:query1=val1:query2=val2:user=abc
//
// Example:
//
//	spotify:v1/me/tracks:limit=50:offset=0:user=wizzler
func (k Key) String() string {
	parts := []string{"spotify"}

	path := strings.Trim(k.Path, "/")
	if path != "" {
		parts = append(parts, path)
	}

	// Query params sorted for determinism
	if len(k.Query) > 0 {
		queryKeys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	if k.User != "" {
		parts = append(parts, fmt.Sprintf("user=%s", k.User))
	}

	return strings.Join(parts, ":")
}

// KeyForURL builds a Key from a full request URL string.
// Invalid URLs degrade to using the raw string as the path.
func KeyForURL(rawURL, user string) Key {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Key{Path: rawURL, User: user}
	}
	return Key{
		Path:  u.Path,
		Query: u.Query(),
		User:  user,
	}
}
