package client

import (
	"errors"
	"strings"
	"testing"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name       string
		errorClass ErrorClass
		expected   bool
	}{
		{"client error no retry", ErrorClassClient, false},
		{"server error retry", ErrorClassServer, true},
		{"rate limit retry", ErrorClassRateLimit, true},
		{"network error retry", ErrorClassNetwork, true},
		{"unknown class no retry", ErrorClass("unknown"), false},
		{"empty class no retry", ErrorClass(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldRetry(tt.errorClass); got != tt.expected {
				t.Errorf("shouldRetry(%q) = %v, want %v", tt.errorClass, got, tt.expected)
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		contains []string
	}{
		{
			name: "without wrapped error",
			err: &APIError{
				StatusCode: 404,
				ErrorClass: ErrorClassClient,
				Message:    "Not Found",
			},
			contains: []string{"client", "404", "Not Found"},
		},
		{
			name: "with wrapped error",
			err: &APIError{
				StatusCode: 500,
				ErrorClass: ErrorClassServer,
				Message:    "Internal Server Error",
				Err:        errors.New("connection reset"),
			},
			contains: []string{"server", "500", "connection reset"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, should contain %q", msg, want)
				}
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	inner := errors.New("underlying")
	err := &APIError{
		StatusCode: 502,
		ErrorClass: ErrorClassServer,
		Message:    "Bad Gateway",
		Err:        inner,
	}

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestAPIError_UnwrapNil(t *testing.T) {
	err := &APIError{
		StatusCode: 404,
		ErrorClass: ErrorClassClient,
		Message:    "Not Found",
	}

	if err.Unwrap() != nil {
		t.Error("Unwrap() should return nil when no error is wrapped")
	}
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		fallback string
		expected string
	}{
		{
			name:     "standard error envelope",
			body:     `{"error": {"status": 404, "message": "Invalid playlist Id"}}`,
			fallback: "404 Not Found",
			expected: "Invalid playlist Id",
		},
		{
			name:     "empty message falls back",
			body:     `{"error": {"status": 500}}`,
			fallback: "500 Internal Server Error",
			expected: "500 Internal Server Error",
		},
		{
			name:     "non-JSON body falls back",
			body:     "<html>gateway timeout</html>",
			fallback: "504 Gateway Timeout",
			expected: "504 Gateway Timeout",
		},
		{
			name:     "empty body falls back",
			body:     "",
			fallback: "429 Too Many Requests",
			expected: "429 Too Many Requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseErrorMessage([]byte(tt.body), tt.fallback); got != tt.expected {
				t.Errorf("parseErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}
