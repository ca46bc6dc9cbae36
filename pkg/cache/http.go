package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTTL is the fallback TTL when the response carries no usable
	// freshness information.
	DefaultTTL = 2 * time.Minute
)

// ResponseToEntry converts an HTTP response to a cache Entry.
// It derives the expiry from Cache-Control max-age (preferred) or the
// Expires header and reads the response body. The body is restored for
// the caller after reading.
func ResponseToEntry(resp *http.Response) (*Entry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()

	// Restore body for caller
	resp.Body = io.NopCloser(bytes.NewReader(body))

	entry := &Entry{
		Data:       body,
		ETag:       resp.Header.Get("ETag"),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		CachedAt:   time.Now(),
	}
	entry.Expires = parseFreshness(resp.Header)

	return entry, nil
}

// parseFreshness derives the expiry time from response headers.
// Cache-Control max-age wins over Expires; no-store/no-cache yield an
// already-expired entry so it is never stored.
func parseFreshness(headers http.Header) time.Time {
	now := time.Now()

	cc := headers.Get("Cache-Control")
	if cc != "" {
		for _, directive := range strings.Split(cc, ",") {
			directive = strings.TrimSpace(directive)
			if directive == "no-store" || directive == "no-cache" {
				return now
			}
			if rest, ok := strings.CutPrefix(directive, "max-age="); ok {
				seconds, err := strconv.Atoi(rest)
				if err != nil || seconds <= 0 {
					return now
				}
				return now.Add(time.Duration(seconds) * time.Second)
			}
		}
	}

	expiresStr := headers.Get("Expires")
	if expiresStr != "" {
		expires, err := http.ParseTime(expiresStr)
		if err == nil {
			if expires.Before(now) {
				return now
			}
			return expires
		}
	}

	return now.Add(DefaultTTL)
}

// Freshness derives the expiry time from response headers using the
// same rules as ResponseToEntry. Used to refresh the TTL of a cached
// entry after a 304 Not Modified response.
func Freshness(headers http.Header) time.Time {
	return parseFreshness(headers)
}

// EntryToResponse converts a cache entry back into an HTTP response so
// callers can serve cached data through the normal response path.
func EntryToResponse(entry *Entry) *http.Response {
	if entry == nil {
		return nil
	}
	return &http.Response{
		StatusCode: entry.StatusCode,
		Status:     http.StatusText(entry.StatusCode),
		Header:     entry.Headers.Clone(),
		Body:       io.NopCloser(bytes.NewReader(entry.Data)),
	}
}

// ShouldMakeConditionalRequest determines if we should add an
// If-None-Match header based on the cache entry.
func ShouldMakeConditionalRequest(entry *Entry) bool {
	return entry != nil && entry.ETag != ""
}

// AddConditionalHeaders adds the If-None-Match header to the request if
// the cache entry supports conditional requests.
func AddConditionalHeaders(req *http.Request, entry *Entry) {
	if entry == nil || req == nil {
		return
	}
	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	}
}
