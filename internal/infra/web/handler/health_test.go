package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthStatus(t *testing.T, h http.Handler) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body.Status
}

func TestHealthHandler_ReportsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h, err := NewHealthHandler("gopos", "test", WithRedis(rdb), WithPostgres(nil), WithRabbitMQ(""))
	require.NoError(t, err)

	code, status := healthStatus(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", status)
}

func TestHealthHandler_UnavailableWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	h, err := NewHealthHandler("gopos", "test", WithRedis(rdb))
	require.NoError(t, err)

	code, status := healthStatus(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "Unavailable", status)
}

func TestHealthHandler_OptionalBrokerDoesNotFailProbe(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	// nothing listens on port 1
	h, err := NewHealthHandler("gopos", "test", WithRedis(rdb), WithKafka("127.0.0.1:1"))
	require.NoError(t, err)

	code, status := healthStatus(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Partially Available", status)
}
