package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/client"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// healthHandler answers the liveness probe.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// readyHandler answers the readiness probe. When Redis is configured it
// must be reachable; without Redis the proxy is ready as soon as it
// listens.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintf(w, "redis unavailable: %v", err)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}

// proxyHandler forwards /api/... requests to the Web API through the
// shared client. /api/me/tracks?limit=10 becomes /me/tracks?limit=10.
func proxyHandler(spotifyClient *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		endpoint := strings.TrimPrefix(r.URL.Path, "/api")
		if endpoint == "" || endpoint == "/" {
			http.Error(w, "missing endpoint path", http.StatusBadRequest)
			return
		}
		if r.URL.RawQuery != "" {
			endpoint += "?" + r.URL.RawQuery
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		body, err := spotifyClient.Get(ctx, endpoint)
		if err != nil {
			writeProxyError(w, endpoint, err)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			log.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to write proxy response")
		}
	}
}

// writeProxyError maps client errors onto proxy responses. Web API
// errors keep their status and error envelope; everything else is a
// 502.
func writeProxyError(w http.ResponseWriter, endpoint string, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(apiErr.StatusCode)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"status":  apiErr.StatusCode,
				"message": apiErr.Message,
			},
		})
		return
	}

	log.Error().Err(err).Str("endpoint", endpoint).Msg("Proxy request failed")
	http.Error(w, fmt.Sprintf("upstream request failed: %v", err), http.StatusBadGateway)
}
