package repository

import (
	"context"
	"database/sql"

	"github.com/stagepass/gigmatch/internal/model"
)

// ArtistRepo provides access to artist_profiles.  Together with VenueRepo
// it doubles as the identity directory: resolving a profile id to its
// owning user and a user id to its profile.
type ArtistRepo struct{ DB *sql.DB }

func NewArtistRepo(db *sql.DB) *ArtistRepo { return &ArtistRepo{DB: db} }

const artistCols = "id, user_id, name, bio, city, state, min_draw, max_draw, created_at, updated_at"

func scanArtist(row *sql.Row) (model.ArtistProfile, error) {
	var p model.ArtistProfile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Bio, &p.City, &p.State,
		&p.MinDraw, &p.MaxDraw, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateTx inserts the profile row during registration.  One profile per
// user is enforced by the unique key on user_id.
func (r *ArtistRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.ArtistProfile) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO artist_profiles (user_id, name, bio, city, state, min_draw, max_draw) VALUES (?,?,?,?,?,?,?)",
		p.UserID, p.Name, p.Bio, p.City, p.State, p.MinDraw, p.MaxDraw)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID returns a profile or ErrArtistNotFound.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (model.ArtistProfile, error) {
	p, err := scanArtist(r.DB.QueryRowContext(ctx,
		"SELECT "+artistCols+" FROM artist_profiles WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return p, ErrArtistNotFound
	}
	return p, err
}

// GetByUserID returns the profile owned by a user or ErrArtistNotFound.
func (r *ArtistRepo) GetByUserID(ctx context.Context, userID uint64) (model.ArtistProfile, error) {
	p, err := scanArtist(r.DB.QueryRowContext(ctx,
		"SELECT "+artistCols+" FROM artist_profiles WHERE user_id=? LIMIT 1", userID))
	if err == sql.ErrNoRows {
		return p, ErrArtistNotFound
	}
	return p, err
}

// ResolveOwner maps a profile id to its owning user id, the narrow lookup
// the match and gig ledgers gate on.
func (r *ArtistRepo) ResolveOwner(ctx context.Context, profileID uint64) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM artist_profiles WHERE id=? LIMIT 1", profileID).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, ErrArtistNotFound
	}
	return userID, err
}

// Update overwrites the mutable profile fields for the owning user.
func (r *ArtistRepo) Update(ctx context.Context, userID uint64, p model.ArtistProfile) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE artist_profiles SET name=?, bio=?, city=?, state=?, min_draw=?, max_draw=? WHERE user_id=?",
		p.Name, p.Bio, p.City, p.State, p.MinDraw, p.MaxDraw, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Zero rows can also mean "no change"; confirm existence.
		var one int
		if scanErr := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM artist_profiles WHERE user_id=? LIMIT 1", userID).Scan(&one); scanErr == sql.ErrNoRows {
			return ErrArtistNotFound
		}
	}
	return nil
}
