package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagepass/gigmatch/internal/config"
	"github.com/stagepass/gigmatch/internal/repository"
)

func newAuthHandlerMock(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
	h := NewAuthHandler(cfg, db,
		repository.NewUserRepo(db), repository.NewTokenRepo(db),
		repository.NewArtistRepo(db), repository.NewVenueRepo(db))
	return h, mock
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// Rotation revokes the presented token before issuing a new pair. When
// the revocation fails the request must fail too, otherwise the old
// token stays replayable alongside a fresh one.
func TestRefreshFailsWhenRevocationFails(t *testing.T) {
	h, mock := newAuthHandlerMock(t)

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(int64(7), time.Now().UTC().Add(24*time.Hour), nil))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at").
		WillReturnError(errors.New("connection reset"))

	c, rec := newJSONContext(http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"some-raw-token"}`)
	require.NoError(t, h.Refresh(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// No INSERT of a replacement token may have happened.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	h, mock := newAuthHandlerMock(t)

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}))

	c, rec := newJSONContext(http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"bogus"}`)
	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
