package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/stagepass/gigmatch/internal/config"
)

func rateContext(userID any) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/gigs", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/gigs")
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c
}

func TestBuildRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}
	assert.Equal(t, "rl:ip:10.0.0.9", buildRateKey(cfg, rateContext(nil)))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:77", buildRateKey(cfg, rateContext(float64(77))))

	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "rl:ip:10.0.0.9:route:GET /v1/gigs", buildRateKey(cfg, rateContext(nil)))

	// Unknown strategies fall back to the full composite key.
	cfg.KeyStrategy = "bogus"
	assert.Equal(t, "rl:ip:10.0.0.9:user:anon:route:GET /v1/gigs", buildRateKey(cfg, rateContext(nil)))
}

func TestCurrentUserID(t *testing.T) {
	assert.Equal(t, "anon", currentUserID(rateContext(nil)))
	assert.Equal(t, "5", currentUserID(rateContext(float64(5))))
	assert.Equal(t, "6", currentUserID(rateContext(uint64(6))))
	assert.Equal(t, "7", currentUserID(rateContext("7")))
	assert.Equal(t, "anon", currentUserID(rateContext("")))
}

func TestAsInt64(t *testing.T) {
	assert.EqualValues(t, 9, asInt64(int64(9)))
	assert.EqualValues(t, 9, asInt64(9))
	assert.EqualValues(t, 9, asInt64(float64(9.4)))
	assert.EqualValues(t, 9, asInt64("9"))
	assert.EqualValues(t, 0, asInt64("nope"))
	assert.EqualValues(t, 0, asInt64(nil))
}

func TestRateLimiterDisabledPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false}
	called := false
	next := func(echo.Context) error {
		called = true
		return nil
	}
	assert.NoError(t, NewTokenBucket(cfg, nil)(next)(rateContext(nil)))
	assert.True(t, called)
}
