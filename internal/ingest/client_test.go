package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/adspend-efficiency/internal/utils"
)

// helper: hace la petición y devuelve código HTTP + error de red (si hubo)
func fetchURL(c HTTPClient, url string) (int, error) {
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	resp, err := c.Do(req)
	if err != nil {
		return 0, err // error de transporte (timeout, conexión, etc.)
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func TestHTTPClientHandles500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	code, err := fetchURL(NewHTTPClient(2*time.Second), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestHTTPClientHandles404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	code, err := fetchURL(NewHTTPClient(2*time.Second), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHTTPClientHandlesTimeout(t *testing.T) {
	// servidor fake que se tarda más del timeout
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := fetchURL(NewHTTPClient(100*time.Millisecond), srv.URL)
	assert.Error(t, err)
}

func fastRetry() utils.Backoff { return utils.NewBackoff(time.Millisecond, 2) }

func TestGetJSONWithRetryRecoversFrom5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct{ OK bool }
	err := GetJSONWithRetry(context.Background(), NewHTTPClient(time.Second), fastRetry(), srv.URL, nil, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGetJSONWithRetryStopsOn4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"message":"Invalid OAuth access token"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	var out map[string]any
	err := GetJSONWithRetry(context.Background(), NewHTTPClient(time.Second), fastRetry(), srv.URL, nil, &out)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Contains(t, se.Body, "Invalid OAuth")
	assert.EqualValues(t, 1, calls.Load())
}

func TestGetJSONWithRetryGivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var out map[string]any
	err := GetJSONWithRetry(context.Background(), NewHTTPClient(time.Second), fastRetry(), srv.URL, nil, &out)
	require.Error(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestGetJSONSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer tok")
	var out map[string]any
	require.NoError(t, getJSON(context.Background(), NewHTTPClient(time.Second), srv.URL, hdr, &out))
	assert.EqualError(t, getJSON(context.Background(), NewHTTPClient(time.Second), "", nil, &out), "empty url")
}
