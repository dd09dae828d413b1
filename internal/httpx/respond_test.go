package httpx

import (
	"bytes"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONEncodeFailureIs500(t *testing.T) {
	var logs bytes.Buffer
	a := &api{log: slog.New(slog.NewJSONHandler(&logs, nil))}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/efficiency", nil)

	a.writeJSON(rec, req, http.StatusOK, map[string]float64{"ratio": math.NaN()})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"failed to encode response"}`, rec.Body.String())
	assert.Contains(t, logs.String(), "response encode failed")
	assert.Contains(t, logs.String(), "/api/analytics/efficiency")
}

func TestWriteJSONSetsStatusAndBody(t *testing.T) {
	a := &api{log: slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/manual", nil)

	a.writeJSON(rec, req, http.StatusCreated, map[string]int{"deleted": 2})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"deleted":2}`, rec.Body.String())
}
