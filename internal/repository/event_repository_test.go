package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventRepoMock(t *testing.T) (*EventRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewEventRepo(db), mock
}

func TestEventCreateReturnsStoredRow(t *testing.T) {
	repo, mock := newEventRepoMock(t)
	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO events").
		WithArgs(int64(3), "Open Mic", "Sign up at the door", "2026-10-01").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery("SELECT id, venue_profile_id").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "venue_profile_id", "title", "description", "date", "created_at",
		}).AddRow(int64(9), int64(3), "Open Mic", "Sign up at the door", date, now))

	e, err := repo.Create(context.Background(), 3, "Open Mic", "Sign up at the door", date)
	require.NoError(t, err)
	assert.EqualValues(t, 9, e.ID)
	assert.EqualValues(t, 3, e.VenueProfileID)
	assert.Equal(t, "Open Mic", e.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventDeleteScopedToOwner(t *testing.T) {
	repo, mock := newEventRepoMock(t)

	// Someone else's event id affects zero rows and reads as not found.
	mock.ExpectExec("DELETE FROM events").
		WithArgs(int64(9), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Delete(context.Background(), 9, 4)
	assert.ErrorIs(t, err, ErrEventNotFound)

	mock.ExpectExec("DELETE FROM events").
		WithArgs(int64(9), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 9, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
