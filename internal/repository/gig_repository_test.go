package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagepass/gigmatch/internal/model"
)

func TestGigDetailSide(t *testing.T) {
	d := GigDetail{ArtistUserID: 11, VenueUserID: 22}

	side, err := d.Side(11)
	require.NoError(t, err)
	assert.Equal(t, model.SideArtist, side)

	side, err = d.Side(22)
	require.NoError(t, err)
	assert.Equal(t, model.SideVenue, side)

	_, err = d.Side(33)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestNullInt(t *testing.T) {
	assert.Nil(t, nullInt(nil))
	v := int64(42)
	assert.Equal(t, any(int64(42)), nullInt(&v))
}

func newGigRepoMock(t *testing.T) (*GigRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewGigRepo(db), mock
}

var gigRowCols = []string{
	"id", "artist_profile_id", "venue_profile_id", "title", "date",
	"status", "tickets_sold", "attendance", "ticket_price_cents", "gross_revenue_cents",
	"artist_confirmed", "venue_confirmed", "created_by_user_id", "created_at", "updated_at",
	"name", "venue_name", "artist_user_id", "venue_user_id",
}

func gigRow(artistConfirmed, venueConfirmed bool) *sqlmock.Rows {
	date := time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(gigRowCols).AddRow(
		int64(5), int64(10), int64(20), "Friday Night", date,
		"upcoming", int64(120), int64(150), nil, nil,
		artistConfirmed, venueConfirmed, int64(100), now, now,
		"The Band", "The Hall", int64(100), int64(200))
}

// Confirm must read the row under a lock so two simultaneous
// confirmations serialize: the second reader sees the first side's
// committed flag and the write-back keeps both flags set.
func TestConfirmReadsRowUnderLock(t *testing.T) {
	repo, mock := newGigRepoMock(t)

	mock.ExpectBegin()
	// The venue has already confirmed; this read must carry FOR UPDATE so
	// that flag cannot be overwritten from a stale snapshot.
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(5)).
		WillReturnRows(gigRow(false, true))
	mock.ExpectExec("UPDATE gigs SET").
		WithArgs("upcoming", int64(120), int64(150), nil, nil, true, true, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("WHERE g.id =").
		WithArgs(int64(5)).
		WillReturnRows(gigRow(true, true))
	mock.ExpectCommit()

	d, becameVerified, err := repo.Confirm(context.Background(), 5, 100)
	require.NoError(t, err)
	assert.True(t, becameVerified)
	assert.True(t, d.ArtistConfirmed)
	assert.True(t, d.VenueConfirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGigCreateRequiresMutualMatch(t *testing.T) {
	repo, mock := newGigRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id FROM artist_profiles").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(100)))
	mock.ExpectQuery("SELECT user_id FROM venue_profiles").
		WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(200)))
	// Only one direction exists: no mutual match, no gig.
	mock.ExpectQuery("FROM matches").
		WithArgs(int64(100), int64(200), int64(200), int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectRollback()

	date := time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC)
	_, err := repo.Create(context.Background(), 10, 20, "Friday Night", date, 100)
	assert.ErrorIs(t, err, ErrMatchRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGigCreateMapsDuplicateBooking(t *testing.T) {
	repo, mock := newGigRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id FROM artist_profiles").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(100)))
	mock.ExpectQuery("SELECT user_id FROM venue_profiles").
		WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(200)))
	mock.ExpectQuery("FROM matches").
		WithArgs(int64(100), int64(200), int64(200), int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
	mock.ExpectExec("INSERT INTO gigs").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '10-20-2026-09-19' for key 'uq_gigs_booking'"))
	mock.ExpectRollback()

	date := time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC)
	_, err := repo.Create(context.Background(), 10, 20, "Friday Night", date, 100)
	assert.ErrorIs(t, err, ErrDuplicateGig)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGigCreateRejectsOutsiders(t *testing.T) {
	repo, mock := newGigRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id FROM artist_profiles").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(100)))
	mock.ExpectQuery("SELECT user_id FROM venue_profiles").
		WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(200)))
	mock.ExpectRollback()

	date := time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC)
	_, err := repo.Create(context.Background(), 10, 20, "Friday Night", date, 999)
	assert.ErrorIs(t, err, ErrNotParticipant)
	assert.NoError(t, mock.ExpectationsWereMet())
}
