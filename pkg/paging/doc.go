// Package paging implements the paging and cursor traversal engine for
// Spotify Web API collections.
//
// Spotify returns large collections as pages: offset-addressed paging
// objects that carry next/previous URLs in both directions, and
// cursor-addressed paging objects that can only move forward. The engine
// fetches adjacent pages lazily (one GET per transition), never
// reconstructs a URL itself, and keeps every decoded page immutable.
//
// Example usage:
//
//	page, err := paging.DecodePage[models.SavedTrack](body, models.KindSavedTrack, client)
//	pages, err := page.CollectForward(ctx, 10)
//	tracks := paging.Flatten(pages)
//
// The traversal engine:
//   - Returns nil (no request issued) when no page exists in a direction
//   - Fails with ErrUnsupportedDirection for backward cursor traversal
//   - De-duplicates collected pages by href (some endpoints return a
//     self-referential next URL at the true end of a collection)
//   - Walks strictly sequentially; Spotify cursors are stateful per
//     request, so parallel fan-out is unsafe
//
// Decoding is dispatched through an explicit item-kind registry populated
// by pkg/models. An unregistered kind is a fatal schema mismatch between
// this library and the service, not a recoverable error.
package paging
