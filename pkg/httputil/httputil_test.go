package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	c := NewClient()
	assert.Equal(t, 30*time.Second, c.Timeout())
	assert.Equal(t, DefaultUserAgent, c.headers["User-Agent"])

	c = NewClient(WithTimeout(10*time.Second), WithHeaders(map[string]string{"X-A": "1"}), WithRetries(2))
	assert.Equal(t, 10*time.Second, c.Timeout())
	assert.Equal(t, "1", c.headers["X-A"])
	assert.Equal(t, 2, c.retries)
}

func TestClientGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"ok","count":2}`))
	}))
	defer srv.Close()

	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	err := NewClient().GetJSON(context.Background(), srv.URL, BearerAuth("tok"), &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Name)
	assert.Equal(t, 2, out.Count)
}

func TestClientGetJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid key"}`))
	}))
	defer srv.Close()

	var out map[string]any
	err := NewClient().GetJSON(context.Background(), srv.URL, nil, &out)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "invalid key")
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var out map[string]any
	err := NewClient(WithRetries(2)).GetJSON(context.Background(), srv.URL, nil, &out)
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var out map[string]any
	err := NewClient(WithTimeout(20*time.Millisecond)).GetJSON(context.Background(), srv.URL, nil, &out)
	assert.Error(t, err)
}

func TestBearerAuth(t *testing.T) {
	assert.Nil(t, BearerAuth(""))
	assert.Equal(t, map[string]string{"Authorization": "Bearer x"}, BearerAuth("x"))
}
