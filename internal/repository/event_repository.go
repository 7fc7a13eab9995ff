package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/stagepass/gigmatch/internal/model"
)

// EventRepo stores the public listings a venue posts.  Every operation is
// scoped to one venue profile; a venue can never see or delete another
// venue's listings.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

const eventCols = "id, venue_profile_id, title, description, date, created_at"

// Create inserts a listing for the venue and returns the stored row.
func (r *EventRepo) Create(ctx context.Context, venueProfileID uint64, title, description string, date time.Time) (model.Event, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO events (venue_profile_id, title, description, date) VALUES (?,?,?,?)",
		venueProfileID, title, description, date.Format("2006-01-02"))
	if err != nil {
		return model.Event{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Event{}, err
	}

	var e model.Event
	err = r.DB.QueryRowContext(ctx,
		"SELECT "+eventCols+" FROM events WHERE id=? LIMIT 1", id).
		Scan(&e.ID, &e.VenueProfileID, &e.Title, &e.Description, &e.Date, &e.CreatedAt)
	return e, err
}

// ListForVenue returns the venue's listings, soonest date first.
func (r *EventRepo) ListForVenue(ctx context.Context, venueProfileID uint64) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+eventCols+" FROM events WHERE venue_profile_id=? ORDER BY date ASC",
		venueProfileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.VenueProfileID, &e.Title, &e.Description, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Delete removes one of the venue's own listings.  The venue filter is
// part of the statement, so targeting someone else's event reports
// ErrEventNotFound rather than leaking its existence.
func (r *EventRepo) Delete(ctx context.Context, eventID, venueProfileID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM events WHERE id=? AND venue_profile_id=?", eventID, venueProfileID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}
