package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatchRepoMock(t *testing.T) (*MatchRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMatchRepo(db), mock
}

func TestMatchCreateFormsMutualOnReciprocal(t *testing.T) {
	repo, mock := newMatchRepoMock(t)

	// No (1 -> 2) edge yet, so a new row is inserted; the (2 -> 1) edge
	// already exists, which makes the pair mutual.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM matches WHERE from_user_id").
		WithArgs(int64(1), int64(2)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO matches").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT 1 FROM matches WHERE from_user_id").
		WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectCommit()

	id, mutual, err := repo.Create(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)
	assert.True(t, mutual)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchCreateIsIdempotent(t *testing.T) {
	repo, mock := newMatchRepoMock(t)

	// The edge already exists: no insert happens and the existing id comes
	// back, still one-sided.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM matches WHERE from_user_id").
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT 1 FROM matches WHERE from_user_id").
		WithArgs(int64(2), int64(1)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	id, mutual, err := repo.Create(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)
	assert.False(t, mutual)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchCreateRejectsSelf(t *testing.T) {
	repo, _ := newMatchRepoMock(t)
	_, _, err := repo.Create(context.Background(), 5, 5)
	assert.ErrorIs(t, err, ErrSelfMatch)
}

func TestMatchAcceptRequiresInboundEdge(t *testing.T) {
	repo, mock := newMatchRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM matches WHERE from_user_id").
		WithArgs(int64(2), int64(1)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNoIncomingRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchDeleteRemovesBothDirections(t *testing.T) {
	repo, mock := newMatchRepoMock(t)

	mock.ExpectExec("DELETE FROM matches").
		WithArgs(int64(1), int64(2), int64(2), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.Delete(context.Background(), 1, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
