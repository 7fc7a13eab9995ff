package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxWith(userID any, role any) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if userID != nil {
		c.Set("user_id", userID)
	}
	if role != nil {
		c.Set("role", role)
	}
	return c
}

func TestGetUserIDAcceptsClaimShapes(t *testing.T) {
	// JWT numeric claims decode as float64; other shapes show up from
	// tests and internal callers.
	for _, v := range []any{float64(12), uint64(12), int(12), int64(12), "12"} {
		got, err := getUserID(ctxWith(v, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 12, got)
	}
}

func TestGetUserIDRejectsGarbage(t *testing.T) {
	_, err := getUserID(ctxWith(nil, nil))
	assert.Error(t, err)
	_, err = getUserID(ctxWith("not-a-number", nil))
	assert.Error(t, err)
}

func TestGetRole(t *testing.T) {
	assert.Equal(t, "artist", getRole(ctxWith(nil, "artist")))
	assert.Equal(t, "", getRole(ctxWith(nil, nil)))
	assert.Equal(t, "", getRole(ctxWith(nil, 42)))
}

func TestPathID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("123")

	got, err := pathID(c, "id")
	require.NoError(t, err)
	assert.EqualValues(t, 123, got)

	c.SetParamValues("abc")
	_, err = pathID(c, "id")
	assert.Error(t, err)
}
