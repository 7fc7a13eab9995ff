package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagepass/gigmatch/internal/config"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          30 * time.Second,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func newCacheContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/leaderboard")
	return c, rec
}

func TestPayloadCodecRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"venues":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload(nil)
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte("short"))
	assert.False(t, ok)
}

func TestCacheKeyDependsOnQuery(t *testing.T) {
	cfg := testCacheConfig()

	c1, _ := newCacheContext("/v1/leaderboard?city=austin")
	c2, _ := newCacheContext("/v1/leaderboard?city=denver")
	c3, _ := newCacheContext("/v1/leaderboard?city=austin")

	k1 := cacheKeyFrom(cfg, c1)
	k2 := cacheKeyFrom(cfg, c2)
	k3 := cacheKeyFrom(cfg, c3)

	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, k3)
}

func TestCacheKeyRouteStrategyIgnoresQuery(t *testing.T) {
	cfg := testCacheConfig()
	cfg.KeyStrategy = "route"

	c1, _ := newCacheContext("/v1/leaderboard?city=austin")
	c2, _ := newCacheContext("/v1/leaderboard?city=denver")

	assert.Equal(t, cacheKeyFrom(cfg, c1), cacheKeyFrom(cfg, c2))
}

func TestCacheHitServesStoredResponse(t *testing.T) {
	cfg := testCacheConfig()
	rdb, mock := redismock.NewClientMock()

	body := []byte(`{"cached":true}`)
	payload, err := encodePayload(http.StatusOK, http.Header{"Content-Type": {"application/json"}}, body)
	require.NoError(t, err)

	c, rec := newCacheContext("/v1/leaderboard?limit=5")
	mock.ExpectGet(cacheKeyFrom(cfg, c)).SetVal(string(payload))

	called := false
	next := func(echo.Context) error {
		called = true
		return nil
	}

	require.NoError(t, NewRedisCache(cfg, rdb)(next)(c))
	assert.False(t, called, "handler must not run on a cache hit")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, string(body), rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheMissRunsHandler(t *testing.T) {
	cfg := testCacheConfig()
	rdb, mock := redismock.NewClientMock()

	c, rec := newCacheContext("/v1/leaderboard")
	mock.ExpectGet(cacheKeyFrom(cfg, c)).RedisNil()

	next := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"fresh": true})
	}

	require.NoError(t, NewRedisCache(cfg, rdb)(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "fresh")
}

func TestCacheSkipsUncachedMethods(t *testing.T) {
	cfg := testCacheConfig()
	rdb, _ := redismock.NewClientMock()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/leaderboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}
	require.NoError(t, NewRedisCache(cfg, rdb)(next)(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	cfg := testCacheConfig()
	cfg.Enabled = false

	c, rec := newCacheContext("/v1/leaderboard")
	next := func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}
	require.NoError(t, NewRedisCache(cfg, nil)(next)(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
