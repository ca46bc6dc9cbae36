// Package bulk splits oversized identifier lists into the per-request
// batch sizes the Spotify API permits and reassembles results in input
// order.
package bulk

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for bulk operations.
var (
	bulkChunksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spotify_bulk_chunks_total",
		Help: "Total chunk requests issued by bulk operations",
	})

	bulkRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spotify_bulk_rejected_total",
		Help: "Total bulk operations rejected for exceeding the batch size",
	})
)

// TooManyIDsError reports that a caller supplied more identifiers than the
// endpoint's batch size permits and auto-chunking was not enabled. Raised
// locally, before any network call.
type TooManyIDsError struct {
	Requested int
	Max       int
}

// Error implements the error interface.
func (e *TooManyIDsError) Error() string {
	return fmt.Sprintf("%d identifiers requested, endpoint accepts at most %d per call (enable auto-chunking to split)", e.Requested, e.Max)
}

// CheckSize fails fast with *TooManyIDsError when requested exceeds
// maxPerRequest. Chunking is opt-in: callers that want splitting use
// ChunkedRequest instead of relying on a silent default.
func CheckSize(maxPerRequest, requested int) error {
	if requested > maxPerRequest {
		bulkRejectedTotal.Inc()
		return &TooManyIDsError{Requested: requested, Max: maxPerRequest}
	}
	return nil
}

// Chunks partitions ids into contiguous chunks of at most maxPerRequest
// elements, preserving the original order.
func Chunks(ids []string, maxPerRequest int) [][]string {
	if maxPerRequest <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+maxPerRequest-1)/maxPerRequest)
	for start := 0; start < len(ids); start += maxPerRequest {
		end := start + maxPerRequest
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// ChunkedRequest partitions ids into chunks of at most maxPerRequest,
// invokes perChunk once per chunk strictly in sequence, and concatenates
// the per-chunk results into one list whose positions correspond 1:1 to
// the input identifiers.
//
// Any chunk failure aborts the whole operation: no partial results are
// returned and no later chunk is attempted. The context is checked
// between chunks so a cancelled bulk call stops at the next boundary.
func ChunkedRequest[R any](ctx context.Context, maxPerRequest int, ids []string, perChunk func(ctx context.Context, chunk []string) ([]R, error)) ([]R, error) {
	if maxPerRequest <= 0 {
		return nil, fmt.Errorf("max per request must be positive (got %d)", maxPerRequest)
	}

	chunks := Chunks(ids, maxPerRequest)
	results := make([]R, 0, len(ids))

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bulkChunksTotal.Inc()
		chunkResults, err := perChunk(ctx, chunk)
		if err != nil {
			log.Debug().
				Int("chunk", i).
				Int("chunks_total", len(chunks)).
				Err(err).
				Msg("Bulk request aborted by chunk failure")
			return nil, err
		}

		results = append(results, chunkResults...)
	}

	return results, nil
}
