package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func setupMockRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func serveReady(t *testing.T, c *Checker, req *http.Request) (int, report) {
	t.Helper()
	w := httptest.NewRecorder()
	c.ReadyHandler().ServeHTTP(w, req)

	var body report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestReadyHandler_QuandoTodosServicosDisponiveis_DeveRetornar200OK(t *testing.T) {
	checker := NewChecker(setupDB(t), setupMockRedis(t))

	code, body := serveReady(t, checker, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, body.Checks)
}

func TestReadyHandler_QuandoRedisENil_DevePularChecagem(t *testing.T) {
	checker := NewChecker(setupDB(t), nil)

	code, body := serveReady(t, checker, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, code)
	assert.NotContains(t, body.Checks, "redis")
}

func TestReadyHandler_QuandoAmbosNulos_DeveRetornar200(t *testing.T) {
	code, body := serveReady(t, NewChecker(nil, nil), httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
}

func TestReadyHandler_QuandoDBIndisponivel_DeveRetornar503(t *testing.T) {
	db := setupDB(t)
	db.Close()

	code, body := serveReady(t, NewChecker(db, setupMockRedis(t)), httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "database unavailable", body.Status)
	assert.Equal(t, "ok", body.Checks["redis"])
}

func TestReadyHandler_QuandoAmbosIndisponiveis_DeveRetornarPrimeiroErro(t *testing.T) {
	db := setupDB(t)
	db.Close()
	rdb := setupMockRedis(t)
	rdb.Close()

	code, body := serveReady(t, NewChecker(db, rdb), httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "database unavailable", body.Status)
	assert.Equal(t, "unavailable", body.Checks["redis"])
}

func TestReadyHandler_ComChecagemExtra(t *testing.T) {
	falha := Check{Name: "queue", Ping: func(context.Context) error { return errors.New("fora") }}

	code, body := serveReady(t, NewChecker(nil, nil, falha), httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "queue unavailable", body.Status)
}

func TestLiveHandler_DeveRetornar200(t *testing.T) {
	w := httptest.NewRecorder()
	LiveHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
