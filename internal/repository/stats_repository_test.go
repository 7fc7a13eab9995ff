package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, ClampLimit(0))
	assert.Equal(t, 20, ClampLimit(-5))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, 42, ClampLimit(42))
	assert.Equal(t, 100, ClampLimit(100))
	assert.Equal(t, 100, ClampLimit(5000))
}

func TestRound1(t *testing.T) {
	assert.Nil(t, round1(sql.NullFloat64{}))

	got := round1(sql.NullFloat64{Valid: true, Float64: 123.456})
	require.NotNil(t, got)
	assert.Equal(t, 123.5, *got)

	got = round1(sql.NullFloat64{Valid: true, Float64: 99.94})
	require.NotNil(t, got)
	assert.Equal(t, 99.9, *got)

	got = round1(sql.NullFloat64{Valid: true, Float64: 0})
	require.NotNil(t, got)
	assert.Equal(t, 0.0, *got)
}

func TestLocationFilters(t *testing.T) {
	clause, args := locationFilters("v", "", "")
	assert.Empty(t, clause)
	assert.Empty(t, args)

	clause, args = locationFilters("v", "Austin", "")
	assert.Equal(t, " AND LOWER(v.city) = ?", clause)
	assert.Equal(t, []any{"austin"}, args)

	clause, args = locationFilters("a", "Austin", "TX")
	assert.Equal(t, " AND LOWER(a.city) = ? AND LOWER(a.state) = ?", clause)
	assert.Equal(t, []any{"austin", "tx"}, args)
}

// One completed gig, both sides confirmed, attendance 150 and 120 tickets
// sold: the profile page must report one verified gig with those averages.
func TestArtistStatsSingleVerifiedGig(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewStatsRepo(db)

	mock.ExpectQuery("SELECT name FROM artist_profiles").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("The Band"))
	mock.ExpectQuery("FROM gigs").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"total", "verified", "avg_att", "avg_sold", "sum_sold", "venues",
		}).AddRow(int64(1), int64(1), 150.0, 120.0, int64(120), int64(1)))
	mock.ExpectQuery("JOIN venue_profiles").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "venue_name", "date", "attendance", "tickets_sold", "verified",
		}).AddRow(int64(5), "The Hall", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), int64(150), int64(120), true))

	out, err := repo.ArtistStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "The Band", out.ArtistName)
	assert.EqualValues(t, 1, out.TotalGigs)
	assert.EqualValues(t, 1, out.VerifiedGigs)
	require.NotNil(t, out.AvgAttendance)
	assert.Equal(t, 150.0, *out.AvgAttendance)
	require.NotNil(t, out.AvgTicketsSold)
	assert.Equal(t, 120.0, *out.AvgTicketsSold)
	assert.EqualValues(t, 120, out.TotalTicketsSold)
	assert.EqualValues(t, 1, out.UniqueVenues)
	require.Len(t, out.History, 1)
	assert.True(t, out.History[0].Verified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtistStatsUnknownArtist(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewStatsRepo(db)

	mock.ExpectQuery("SELECT name FROM artist_profiles").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.ArtistStats(context.Background(), 99)
	assert.ErrorIs(t, err, ErrArtistNotFound)
}

func TestNullableSumScan(t *testing.T) {
	var dst int64 = 7
	s := nullableSum{dst: &dst}
	require.NoError(t, s.Scan(nil))
	assert.EqualValues(t, 0, dst)

	require.NoError(t, s.Scan(int64(350)))
	assert.EqualValues(t, 350, dst)
}
