package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsa-labs/dashcat/internal/testutil"
)

func fastClient(t *testing.T) *Client {
	t.Helper()
	return NewClient(testutil.NewTestLogger(t),
		WithTimeout(5*time.Second),
		WithRateLimit(1000, 100),
		WithMaxRetries(2),
	)
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "42", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": "ok"}`))
	}))
	defer srv.Close()

	var out struct {
		Value string `json:"value"`
	}
	params := url.Values{"page": {"42"}}
	err := fastClient(t).GetJSON(context.Background(), srv.URL, params, BearerHeader("tok"), &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Value)
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"token": "abc"}`))
	}))
	defer srv.Close()

	var out struct {
		Token string `json:"token"`
	}
	err := fastClient(t).PostJSON(context.Background(), srv.URL, map[string]string{"name": "k"}, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "abc", out.Token)
}

func TestRetryOn429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"value": "after retry"}`))
	}))
	defer srv.Close()

	var out struct {
		Value string `json:"value"`
	}
	err := fastClient(t).GetJSON(context.Background(), srv.URL, nil, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "after retry", out.Value)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := fastClient(t).GetJSON(context.Background(), srv.URL, nil, nil, nil)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

func TestNon429NotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := fastClient(t).GetJSON(context.Background(), srv.URL, nil, nil, nil)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load(), "only 429 is retried")
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want string // RFC3339, or "" for nil
	}{
		{"2025-06-01T10:30:00Z", "2025-06-01T10:30:00Z"},
		{"2025-06-01T10:30:00+02:00", "2025-06-01T08:30:00Z"},
		{"2025-06-01T10:30:00.123456", "2025-06-01T10:30:00Z"},
		{"2025-06-01 10:30:00", "2025-06-01T10:30:00Z"},
		{"2025-06-01 10:30:00.5", "2025-06-01T10:30:00Z"},
		{"", ""},
		{"not a time", ""},
		{"June 1st", ""},
	}
	for _, tt := range tests {
		got := ParseTimestamp(tt.in)
		if tt.want == "" {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, tt.want, got.Truncate(time.Second).Format(time.RFC3339), "input %q", tt.in)
	}
}

func TestCredentials(t *testing.T) {
	c := Credentials{"a": "1", "b": "2", "empty": ""}
	assert.True(t, c.Has("a", "b"))
	assert.False(t, c.Has("a", "empty"))
	assert.False(t, c.Has("a", "missing"))
	assert.Equal(t, "1", c.Get("a"))
	assert.Equal(t, "", c.Get("missing"))
}
