// Package cache provides Spotify API response caching with a Redis backend.
//
// Spotify signals response freshness through Cache-Control max-age and
// supports ETag conditional requests on catalog endpoints. The cache
// manager stores full response bodies keyed deterministically by request
// path, query, and user, and exposes prometheus metrics for hits, misses,
// and errors.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient)
//
//	key := cache.Key{
//		Path:  "/v1/albums/5Dbax7G8SWrP9xyzkOvy2F",
//		Query: url.Values{"market": []string{"DE"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from the API
//	}
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//		// the API returns 304 when the resource is unchanged
//	}
package cache
