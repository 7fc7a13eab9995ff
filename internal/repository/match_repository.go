package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/stagepass/gigmatch/internal/model"
)

// MatchRepo is the ledger of directed interest edges between users.  A
// mutual match exists when both directions are present.  Each direction is
// protected by a UNIQUE (from_user_id, to_user_id) key, so concurrent
// duplicate creation loses with a deterministic constraint error instead of
// corrupting the ledger.
type MatchRepo struct{ DB *sql.DB }

func NewMatchRepo(db *sql.DB) *MatchRepo { return &MatchRepo{DB: db} }

// MatchEntry is a row in the matched/incoming/outgoing list views with the
// counterpart's display data denormalized in.
type MatchEntry struct {
	MatchID    uint64    `json:"id"`
	TargetType string    `json:"target_type"` // "artist" or "venue"
	ProfileID  uint64    `json:"target_id"`
	Name       string    `json:"name"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}

// reciprocalExistsTx reports whether the (b -> a) edge exists.
func reciprocalExistsTx(ctx context.Context, tx *sql.Tx, a, b uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM matches WHERE from_user_id=? AND to_user_id=? LIMIT 1",
		b, a).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MutualExistsTx reports whether both the (a -> b) and (b -> a) edges exist
// within the given transaction.  Gig creation calls this inside its own
// transaction so the gate and the insert see a consistent ledger.
func MutualExistsTx(ctx context.Context, tx *sql.Tx, a, b uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches
		 WHERE (from_user_id=? AND to_user_id=?) OR (from_user_id=? AND to_user_id=?)`,
		a, b, b, a).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == 2, nil
}

// Create records a directed interest edge from fromUser to targetUser and
// returns the edge id plus whether the pair is now mutually matched.
// Creating an edge that already exists is idempotent: the existing edge and
// the current reciprocity state are returned.  Targeting oneself fails with
// ErrSelfMatch.
func (r *MatchRepo) Create(ctx context.Context, fromUser, targetUser uint64) (uint64, bool, error) {
	if fromUser == targetUser {
		return 0, false, ErrSelfMatch
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	id, err := createEdgeTx(ctx, tx, fromUser, targetUser)
	if err != nil {
		return 0, false, err
	}
	mutual, err := reciprocalExistsTx(ctx, tx, fromUser, targetUser)
	if err != nil {
		return 0, false, err
	}
	if err := tx.Commit(); err != nil {
		return 0, false, err
	}
	committed = true
	return id, mutual, nil
}

// Accept reciprocates a pending inbound interest.  It fails with
// ErrNoIncomingRequest when targetUser has not already expressed interest
// in fromUser; it never silently creates a one-sided edge.  On success the
// pair is mutually matched by construction.
func (r *MatchRepo) Accept(ctx context.Context, fromUser, targetUser uint64) (uint64, error) {
	if fromUser == targetUser {
		return 0, ErrSelfMatch
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	inbound, err := reciprocalExistsTx(ctx, tx, fromUser, targetUser)
	if err != nil {
		return 0, err
	}
	if !inbound {
		return 0, ErrNoIncomingRequest
	}
	id, err := createEdgeTx(ctx, tx, fromUser, targetUser)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return id, nil
}

// createEdgeTx inserts the (from -> to) edge, returning the existing row's
// id when the edge is already present.  A duplicate-key race with a
// concurrent insert resolves to the winner's row.
func createEdgeTx(ctx context.Context, tx *sql.Tx, from, to uint64) (uint64, error) {
	var id uint64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM matches WHERE from_user_id=? AND to_user_id=? LIMIT 1",
		from, to).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO matches (from_user_id, to_user_id) VALUES (?,?)", from, to)
	if err != nil {
		if isDuplicateKey(err) {
			err = tx.QueryRowContext(ctx,
				"SELECT id FROM matches WHERE from_user_id=? AND to_user_id=? LIMIT 1",
				from, to).Scan(&id)
			return id, err
		}
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(newID), nil
}

// Delete removes both directions between the two users.  Unmatching is
// bilateral: neither side keeps a dangling edge.  Deleting a pair with no
// edges is a no-op.
func (r *MatchRepo) Delete(ctx context.Context, userA, userB uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM matches
		 WHERE (from_user_id=? AND to_user_id=?) OR (from_user_id=? AND to_user_id=?)`,
		userA, userB, userB, userA)
	return err
}

// The three list views partition the edges touching a user: an edge appears
// in exactly one of matched/outgoing/incoming depending on direction and
// reciprocity.  counterpartRole selects which profile table supplies the
// display fields (an artist's counterparts are venues and vice versa).

// ListMatched returns the user's own edges whose reciprocal exists, newest
// first.
func (r *MatchRepo) ListMatched(ctx context.Context, userID uint64, counterpartRole string) ([]MatchEntry, error) {
	return r.listEdges(ctx, userID, counterpartRole, "m.from_user_id", "m.to_user_id", true)
}

// ListOutgoing returns the user's own edges with no reciprocal yet.
func (r *MatchRepo) ListOutgoing(ctx context.Context, userID uint64, counterpartRole string) ([]MatchEntry, error) {
	return r.listEdges(ctx, userID, counterpartRole, "m.from_user_id", "m.to_user_id", false)
}

// ListIncoming returns edges pointing at the user with no reciprocal yet.
func (r *MatchRepo) ListIncoming(ctx context.Context, userID uint64, counterpartRole string) ([]MatchEntry, error) {
	return r.listEdges(ctx, userID, counterpartRole, "m.to_user_id", "m.from_user_id", false)
}

func (r *MatchRepo) listEdges(ctx context.Context, userID uint64, counterpartRole, selfCol, otherCol string, reciprocated bool) ([]MatchEntry, error) {
	join := "JOIN venue_profiles p ON p.user_id = " + otherCol
	nameCol := "p.venue_name"
	targetType := model.RoleVenue
	if counterpartRole == model.RoleArtist {
		join = "JOIN artist_profiles p ON p.user_id = " + otherCol
		nameCol = "p.name"
		targetType = model.RoleArtist
	}
	recip := "NOT EXISTS"
	if reciprocated {
		recip = "EXISTS"
	}
	q := `SELECT m.id, p.id, ` + nameCol + `, p.city, p.state, m.created_at
	      FROM matches m ` + join + `
	      WHERE ` + selfCol + ` = ?
	        AND ` + recip + ` (SELECT 1 FROM matches r
	                           WHERE r.from_user_id = m.to_user_id
	                             AND r.to_user_id = m.from_user_id)
	      ORDER BY m.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]MatchEntry, 0)
	for rows.Next() {
		var e MatchEntry
		if err := rows.Scan(&e.MatchID, &e.ProfileID, &e.Name, &e.City, &e.State, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.TargetType = targetType
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
