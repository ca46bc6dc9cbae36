package bulk

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%03d", i)
	}
	return ids
}

func TestCheckSize(t *testing.T) {
	tests := []struct {
		name      string
		max       int
		requested int
		wantErr   bool
	}{
		{name: "under limit", max: 50, requested: 20},
		{name: "at limit", max: 50, requested: 50},
		{name: "over limit", max: 50, requested: 51, wantErr: true},
		{name: "zero requested", max: 50, requested: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSize(tt.max, tt.requested)

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("CheckSize failed: %v", err)
				}
				return
			}

			var sizeErr *TooManyIDsError
			if !errors.As(err, &sizeErr) {
				t.Fatalf("error = %v, want *TooManyIDsError", err)
			}
			if sizeErr.Requested != tt.requested || sizeErr.Max != tt.max {
				t.Errorf("error limits = (%d, %d), want (%d, %d)", sizeErr.Requested, sizeErr.Max, tt.requested, tt.max)
			}
		})
	}
}

func TestChunks(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		max      int
		wantLens []int
	}{
		{name: "even split", n: 100, max: 50, wantLens: []int{50, 50}},
		{name: "ragged tail", n: 120, max: 50, wantLens: []int{50, 50, 20}},
		{name: "single chunk", n: 10, max: 50, wantLens: []int{10}},
		{name: "empty input", n: 0, max: 50, wantLens: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunks(makeIDs(tt.n), tt.max)

			if len(chunks) != len(tt.wantLens) {
				t.Fatalf("got %d chunks, want %d", len(chunks), len(tt.wantLens))
			}
			pos := 0
			for i, chunk := range chunks {
				if len(chunk) != tt.wantLens[i] {
					t.Errorf("chunk %d has %d ids, want %d", i, len(chunk), tt.wantLens[i])
				}
				for _, id := range chunk {
					if want := fmt.Sprintf("id-%03d", pos); id != want {
						t.Fatalf("chunk %d out of order: got %s, want %s", i, id, want)
					}
					pos++
				}
			}
		})
	}
}

func TestChunkedRequest(t *testing.T) {
	ids := makeIDs(120)
	var calls [][]string

	results, err := ChunkedRequest(context.Background(), 50, ids, func(_ context.Context, chunk []string) ([]string, error) {
		calls = append(calls, chunk)
		// Echo back uppercase-tagged results so positions are verifiable.
		out := make([]string, len(chunk))
		for i, id := range chunk {
			out[i] = "R:" + id
		}
		return out, nil
	})
	if err != nil {
		t.Fatalf("ChunkedRequest failed: %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("perChunk called %d times, want 3", len(calls))
	}
	if len(calls[0]) != 50 || len(calls[1]) != 50 || len(calls[2]) != 20 {
		t.Errorf("chunk sizes = %d, %d, %d, want 50, 50, 20", len(calls[0]), len(calls[1]), len(calls[2]))
	}
	if len(results) != 120 {
		t.Fatalf("got %d results, want 120", len(results))
	}
	for i, r := range results {
		if want := "R:" + ids[i]; r != want {
			t.Fatalf("results[%d] = %s, want %s (order not preserved)", i, r, want)
		}
	}
}

func TestChunkedRequest_AbortsOnChunkFailure(t *testing.T) {
	wantErr := errors.New("boom")
	var calls int

	results, err := ChunkedRequest(context.Background(), 50, makeIDs(120), func(_ context.Context, chunk []string) ([]string, error) {
		calls++
		if calls == 2 {
			return nil, wantErr
		}
		return chunk, nil
	})

	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
	if results != nil {
		t.Errorf("got partial results %v, want nil", results)
	}
	if calls != 2 {
		t.Errorf("perChunk called %d times, want 2 (no continuation past failure)", calls)
	}
}

func TestChunkedRequest_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int

	_, err := ChunkedRequest(ctx, 10, makeIDs(30), func(_ context.Context, chunk []string) ([]string, error) {
		calls++
		cancel()
		return chunk, nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("perChunk called %d times after cancellation, want 1", calls)
	}
}

func TestChunkedRequest_InvalidMax(t *testing.T) {
	if _, err := ChunkedRequest(context.Background(), 0, makeIDs(5), func(_ context.Context, chunk []string) ([]string, error) {
		return chunk, nil
	}); err == nil {
		t.Error("Expected error for non-positive max")
	}
}

func TestChunkedRequest_EmptyIDs(t *testing.T) {
	results, err := ChunkedRequest(context.Background(), 50, nil, func(_ context.Context, chunk []string) ([]string, error) {
		t.Fatal("perChunk must not be called for empty input")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("ChunkedRequest failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
