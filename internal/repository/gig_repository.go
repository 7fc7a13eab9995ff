package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/stagepass/gigmatch/internal/model"
)

// GigRepo stores bookings between an artist profile and a venue profile.
// Every mutation runs as a single transaction: the row is read under a row
// lock, the state machine on model.Gig is applied, and the result is
// written back, so concurrent calls serialize instead of overwriting each
// other (both parties confirming at once must end with both flags set).  The
// (artist_profile_id, venue_profile_id, date) triple carries a UNIQUE key
// and duplicate creation fails deterministically for the loser.
type GigRepo struct{ DB *sql.DB }

func NewGigRepo(db *sql.DB) *GigRepo { return &GigRepo{DB: db} }

// GigDetail is a gig row joined with the owning users and display names of
// both profiles.  The owner ids drive participant checks; the names are
// denormalized for responses.
type GigDetail struct {
	model.Gig
	ArtistName   string
	VenueName    string
	ArtistUserID uint64
	VenueUserID  uint64
}

// Side returns which side of the gig the user is on, or ErrNotParticipant
// when they own neither profile.
func (d *GigDetail) Side(userID uint64) (model.Side, error) {
	switch userID {
	case d.ArtistUserID:
		return model.SideArtist, nil
	case d.VenueUserID:
		return model.SideVenue, nil
	}
	return 0, ErrNotParticipant
}

const gigSelect = `SELECT g.id, g.artist_profile_id, g.venue_profile_id, g.title, g.date,
       g.status, g.tickets_sold, g.attendance, g.ticket_price_cents, g.gross_revenue_cents,
       g.artist_confirmed, g.venue_confirmed, g.created_by_user_id, g.created_at, g.updated_at,
       a.name, v.venue_name, a.user_id, v.user_id
  FROM gigs g
  JOIN artist_profiles a ON a.id = g.artist_profile_id
  JOIN venue_profiles v ON v.id = g.venue_profile_id`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanGigDetail(row rowScanner) (GigDetail, error) {
	var (
		d          GigDetail
		sold, att  sql.NullInt64
		price, rev sql.NullInt64
		status     string
	)
	err := row.Scan(&d.ID, &d.ArtistProfileID, &d.VenueProfileID, &d.Title, &d.Date,
		&status, &sold, &att, &price, &rev,
		&d.ArtistConfirmed, &d.VenueConfirmed, &d.CreatedByUserID, &d.CreatedAt, &d.UpdatedAt,
		&d.ArtistName, &d.VenueName, &d.ArtistUserID, &d.VenueUserID)
	if err != nil {
		return d, err
	}
	d.Status = model.GigStatus(status)
	if sold.Valid {
		d.TicketsSold = &sold.Int64
	}
	if att.Valid {
		d.Attendance = &att.Int64
	}
	if price.Valid {
		d.TicketPriceCents = &price.Int64
	}
	if rev.Valid {
		d.GrossRevenueCents = &rev.Int64
	}
	return d, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadGig(ctx context.Context, q queryRower, gigID uint64) (GigDetail, error) {
	d, err := scanGigDetail(q.QueryRowContext(ctx, gigSelect+" WHERE g.id = ?", gigID))
	if err == sql.ErrNoRows {
		return d, ErrGigNotFound
	}
	return d, err
}

// Create books a gig.  The creator must own one of the two profiles and a
// mutual match must exist between the owners at creation time; a later
// unmatch does not retroactively invalidate the gig.  New gigs start
// upcoming with both confirmation flags false and all metrics null.
func (r *GigRepo) Create(ctx context.Context, artistProfileID, venueProfileID uint64, title string, date time.Time, creatorUserID uint64) (GigDetail, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return GigDetail{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var artistUserID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT user_id FROM artist_profiles WHERE id=? LIMIT 1", artistProfileID).Scan(&artistUserID)
	if err == sql.ErrNoRows {
		return GigDetail{}, ErrArtistNotFound
	}
	if err != nil {
		return GigDetail{}, err
	}
	var venueUserID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT user_id FROM venue_profiles WHERE id=? LIMIT 1", venueProfileID).Scan(&venueUserID)
	if err == sql.ErrNoRows {
		return GigDetail{}, ErrVenueNotFound
	}
	if err != nil {
		return GigDetail{}, err
	}

	if creatorUserID != artistUserID && creatorUserID != venueUserID {
		return GigDetail{}, ErrNotParticipant
	}

	mutual, err := MutualExistsTx(ctx, tx, artistUserID, venueUserID)
	if err != nil {
		return GigDetail{}, err
	}
	if !mutual {
		return GigDetail{}, ErrMatchRequired
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO gigs (artist_profile_id, venue_profile_id, title, date, status, created_by_user_id)
		 VALUES (?,?,?,?,?,?)`,
		artistProfileID, venueProfileID, title, date.Format("2006-01-02"), string(model.GigUpcoming), creatorUserID)
	if err != nil {
		if isDuplicateKey(err) {
			return GigDetail{}, ErrDuplicateGig
		}
		return GigDetail{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return GigDetail{}, err
	}

	d, err := loadGig(ctx, tx, uint64(id))
	if err != nil {
		return GigDetail{}, err
	}
	if err := tx.Commit(); err != nil {
		return GigDetail{}, err
	}
	committed = true
	return d, nil
}

// Get returns a gig to one of its participants.
func (r *GigRepo) Get(ctx context.Context, gigID, callerUserID uint64) (GigDetail, error) {
	d, err := loadGig(ctx, r.DB, gigID)
	if err != nil {
		return GigDetail{}, err
	}
	if _, err := d.Side(callerUserID); err != nil {
		return GigDetail{}, err
	}
	return d, nil
}

// ListForUser returns the gigs of the profile owned by userID, newest date
// first, optionally filtered by status.  Users without a profile (admins)
// see an empty list.
func (r *GigRepo) ListForUser(ctx context.Context, userID uint64, status model.GigStatus) ([]GigDetail, error) {
	q := gigSelect + " WHERE (a.user_id = ? OR v.user_id = ?)"
	args := []any{userID, userID}
	if status != "" {
		q += " AND g.status = ?"
		args = append(args, string(status))
	}
	q += " ORDER BY g.date DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gigs := make([]GigDetail, 0)
	for rows.Next() {
		d, err := scanGigDetail(rows)
		if err != nil {
			return nil, err
		}
		gigs = append(gigs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return gigs, nil
}

// mutate loads the gig inside a transaction, applies fn to the in-memory
// row, writes the full mutable state back and commits.  The read takes a
// row lock (SELECT ... FOR UPDATE) so two concurrent mutations serialize:
// the second transaction blocks on the lock and then reads the first one's
// committed flags instead of a stale snapshot.  Without the lock, two
// simultaneous confirmations could each read (false,false) and the later
// write-back would erase the earlier side's flag.  All state-machine
// decisions live in fn (model.Gig methods); this function guarantees
// atomicity and isolation of the read-modify-write.
func (r *GigRepo) mutate(ctx context.Context, gigID, actorUserID uint64, fn func(d *GigDetail, side model.Side) error) (GigDetail, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return GigDetail{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	d, err := scanGigDetail(tx.QueryRowContext(ctx, gigSelect+" WHERE g.id = ? FOR UPDATE", gigID))
	if err == sql.ErrNoRows {
		return GigDetail{}, ErrGigNotFound
	}
	if err != nil {
		return GigDetail{}, err
	}
	side, err := d.Side(actorUserID)
	if err != nil {
		return GigDetail{}, err
	}
	if err := fn(&d, side); err != nil {
		return GigDetail{}, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE gigs SET status=?, tickets_sold=?, attendance=?, ticket_price_cents=?,
		        gross_revenue_cents=?, artist_confirmed=?, venue_confirmed=?
		 WHERE id=?`,
		string(d.Status), nullInt(d.TicketsSold), nullInt(d.Attendance),
		nullInt(d.TicketPriceCents), nullInt(d.GrossRevenueCents),
		d.ArtistConfirmed, d.VenueConfirmed, d.ID)
	if err != nil {
		return GigDetail{}, err
	}
	// Re-read so UpdatedAt reflects this write.
	d, err = loadGig(ctx, tx, gigID)
	if err != nil {
		return GigDetail{}, err
	}
	if err := tx.Commit(); err != nil {
		return GigDetail{}, err
	}
	committed = true
	return d, nil
}

// UpdateMetrics applies a partial metrics submission from a participant.
// The counterpart's confirmation flag is reset by the state machine; the
// actor's own flag stays as it was.
func (r *GigRepo) UpdateMetrics(ctx context.Context, gigID, actorUserID uint64, m model.MetricsUpdate) (GigDetail, error) {
	return r.mutate(ctx, gigID, actorUserID, func(d *GigDetail, side model.Side) error {
		return d.ApplyMetrics(side, m)
	})
}

// Confirm sets the acting participant's confirmation flag.  The returned
// bool reports whether this call made the gig verified (both flags true
// where they were not before), which callers use to publish the
// gig.verified event exactly once per verification.
func (r *GigRepo) Confirm(ctx context.Context, gigID, actorUserID uint64) (GigDetail, bool, error) {
	var wasVerified bool
	d, err := r.mutate(ctx, gigID, actorUserID, func(d *GigDetail, side model.Side) error {
		wasVerified = d.Verified()
		return d.ConfirmBy(side)
	})
	if err != nil {
		return GigDetail{}, false, err
	}
	return d, d.Verified() && !wasVerified, nil
}

// SetStatus transitions the gig's status on behalf of a participant.
// Status never changes automatically; completion and cancellation are
// always explicit caller decisions.
func (r *GigRepo) SetStatus(ctx context.Context, gigID, actorUserID uint64, next model.GigStatus) (GigDetail, error) {
	return r.mutate(ctx, gigID, actorUserID, func(d *GigDetail, _ model.Side) error {
		return d.TransitionStatus(next)
	})
}

// nullInt converts an optional int64 into a driver-friendly value.
func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
