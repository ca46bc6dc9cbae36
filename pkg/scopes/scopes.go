// Package scopes models Spotify OAuth permission scopes and enforces
// scope preconditions before any request is issued.
package scopes

import (
	"fmt"
	"sort"
	"strings"
)

// Scope is a named permission grant required by the Spotify API for a
// given operation.
type Scope string

// Scopes used by the endpoint surface of this library.
const (
	ScopeUserLibraryRead         Scope = "user-library-read"
	ScopeUserLibraryModify       Scope = "user-library-modify"
	ScopeUserFollowRead          Scope = "user-follow-read"
	ScopeUserFollowModify        Scope = "user-follow-modify"
	ScopeUserTopRead             Scope = "user-top-read"
	ScopeUserReadRecentlyPlayed  Scope = "user-read-recently-played"
	ScopeUserReadPlaybackState   Scope = "user-read-playback-state"
	ScopeUserReadPrivate         Scope = "user-read-private"
	ScopePlaylistReadPrivate     Scope = "playlist-read-private"
	ScopePlaylistReadCollab      Scope = "playlist-read-collaborative"
	ScopePlaylistModifyPublic    Scope = "playlist-modify-public"
	ScopePlaylistModifyPrivate   Scope = "playlist-modify-private"
)

// Set is the set of scopes granted to a credential.
type Set map[Scope]struct{}

// NewSet builds a Set from the given scopes.
func NewSet(scopes ...Scope) Set {
	s := make(Set, len(scopes))
	for _, sc := range scopes {
		s[sc] = struct{}{}
	}
	return s
}

// ParseSet parses the space-separated scope string returned in Spotify
// token responses.
func ParseSet(raw string) Set {
	s := make(Set)
	for _, field := range strings.Fields(raw) {
		s[Scope(field)] = struct{}{}
	}
	return s
}

// Contains reports whether the scope is present in the set.
func (s Set) Contains(sc Scope) bool {
	_, ok := s[sc]
	return ok
}

// Missing returns the required scopes absent from the set, in sorted order.
func (s Set) Missing(required ...Scope) []Scope {
	var missing []Scope
	for _, sc := range required {
		if !s.Contains(sc) {
			missing = append(missing, sc)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// String renders the set as a sorted space-separated scope string.
func (s Set) String() string {
	parts := make([]string, 0, len(s))
	for sc := range s {
		parts = append(parts, string(sc))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

// MissingScopeError reports that a credential lacks scopes an operation
// requires. It is raised locally, before any network call.
type MissingScopeError struct {
	// Missing are the absent scopes, sorted.
	Missing []Scope

	// AnyOf is true when any single one of the listed scopes would have
	// sufficed.
	AnyOf bool
}

// Error implements the error interface.
func (e *MissingScopeError) Error() string {
	names := make([]string, len(e.Missing))
	for i, sc := range e.Missing {
		names[i] = string(sc)
	}
	if e.AnyOf {
		return fmt.Sprintf("credential is missing all of the scopes (any one suffices): %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("credential is missing required scopes: %s", strings.Join(names, ", "))
}

// Require checks the caller-declared scope precondition against the
// granted set. With anyOf false, every required scope must be present;
// with anyOf true, at least one must be. Purely local, no network I/O.
func Require(granted Set, required []Scope, anyOf bool) error {
	if len(required) == 0 {
		return nil
	}

	missing := granted.Missing(required...)

	if anyOf {
		if len(missing) == len(required) {
			return &MissingScopeError{Missing: missing, AnyOf: true}
		}
		return nil
	}

	if len(missing) > 0 {
		return &MissingScopeError{Missing: missing}
	}
	return nil
}
