package repository

import (
	"context"
	"database/sql"

	"github.com/stagepass/gigmatch/internal/model"
)

// VenueRepo provides access to venue_profiles and the venue half of the
// identity directory.
type VenueRepo struct{ DB *sql.DB }

func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{DB: db} }

const venueCols = "id, user_id, venue_name, description, address, city, state, capacity, created_at, updated_at"

func scanVenue(row *sql.Row) (model.VenueProfile, error) {
	var p model.VenueProfile
	err := row.Scan(&p.ID, &p.UserID, &p.VenueName, &p.Description, &p.Address,
		&p.City, &p.State, &p.Capacity, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateTx inserts the profile row during registration.
func (r *VenueRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.VenueProfile) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO venue_profiles (user_id, venue_name, description, address, city, state, capacity) VALUES (?,?,?,?,?,?,?)",
		p.UserID, p.VenueName, p.Description, p.Address, p.City, p.State, p.Capacity)
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

// GetByID returns a profile or ErrVenueNotFound.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (model.VenueProfile, error) {
	p, err := scanVenue(r.DB.QueryRowContext(ctx,
		"SELECT "+venueCols+" FROM venue_profiles WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return p, ErrVenueNotFound
	}
	return p, err
}

// GetByUserID returns the profile owned by a user or ErrVenueNotFound.
func (r *VenueRepo) GetByUserID(ctx context.Context, userID uint64) (model.VenueProfile, error) {
	p, err := scanVenue(r.DB.QueryRowContext(ctx,
		"SELECT "+venueCols+" FROM venue_profiles WHERE user_id=? LIMIT 1", userID))
	if err == sql.ErrNoRows {
		return p, ErrVenueNotFound
	}
	return p, err
}

// ResolveOwner maps a profile id to its owning user id.
func (r *VenueRepo) ResolveOwner(ctx context.Context, profileID uint64) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM venue_profiles WHERE id=? LIMIT 1", profileID).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, ErrVenueNotFound
	}
	return userID, err
}

// Update overwrites the mutable profile fields for the owning user.
func (r *VenueRepo) Update(ctx context.Context, userID uint64, p model.VenueProfile) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE venue_profiles SET venue_name=?, description=?, address=?, city=?, state=?, capacity=? WHERE user_id=?",
		p.VenueName, p.Description, p.Address, p.City, p.State, p.Capacity, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if scanErr := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM venue_profiles WHERE user_id=? LIMIT 1", userID).Scan(&one); scanErr == sql.ErrNoRows {
			return ErrVenueNotFound
		}
	}
	return nil
}
