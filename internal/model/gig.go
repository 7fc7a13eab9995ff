package model

import (
	"errors"
	"time"
)

// GigStatus enumerates the lifecycle states of a gig.  Status and the two
// confirmation flags are independent axes: a gig can be completed with zero
// confirmations and upcoming with both, by design.
type GigStatus string

const (
	GigUpcoming  GigStatus = "upcoming"
	GigCompleted GigStatus = "completed"
	GigCancelled GigStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s GigStatus) Valid() bool {
	switch s {
	case GigUpcoming, GigCompleted, GigCancelled:
		return true
	}
	return false
}

// Side identifies which participant of a gig is acting.
type Side int

const (
	SideArtist Side = iota
	SideVenue
)

// Rule violations raised by the gig state machine.  Handlers translate
// these into 400-class responses; none of them is retried internally.
var (
	// ErrGigFrozen: the gig is cancelled and no further mutation is allowed.
	ErrGigFrozen = errors.New("gig is cancelled and frozen")
	// ErrAlreadyCompleted: a completed gig was asked to complete again.
	ErrAlreadyCompleted = errors.New("gig is already completed")
	// ErrNoMetrics: confirmation attempted before any metrics were reported.
	ErrNoMetrics = errors.New("no metrics to confirm")
	// ErrInvalidStatus: the requested status is not a known state.
	ErrInvalidStatus = errors.New("invalid gig status")
)

// Gig is a booking between one artist profile and one venue profile, stored
// in the `gigs` table.  The (artist_profile_id, venue_profile_id, date)
// triple carries a UNIQUE key.  Metrics are self-reported and nullable
// until one side submits them; the two confirmation flags record each
// side's agreement with the current numbers.
//
// Fields:
//  ID                - primary key identifier.
//  ArtistProfileID   - performing artist profile.
//  VenueProfileID    - hosting venue profile.
//  Title             - human-readable billing for the night.
//  Date              - calendar date of the performance.
//  Status            - upcoming, completed or cancelled.
//  TicketsSold       - reported ticket count (nullable).
//  Attendance        - reported headcount (nullable).
//  TicketPriceCents  - reported ticket price in cents (nullable).
//  GrossRevenueCents - reported gross revenue in cents (nullable).
//  ArtistConfirmed   - artist agrees with the current metrics.
//  VenueConfirmed    - venue agrees with the current metrics.
//  CreatedByUserID   - the participant who created the booking.
//  CreatedAt         - creation timestamp.
//  UpdatedAt         - last update timestamp.
type Gig struct {
	ID                uint64    // gigs.id
	ArtistProfileID   uint64    // gigs.artist_profile_id
	VenueProfileID    uint64    // gigs.venue_profile_id
	Title             string    // gigs.title
	Date              time.Time // gigs.date (date only, UTC midnight)
	Status            GigStatus // gigs.status
	TicketsSold       *int64    // gigs.tickets_sold (nullable)
	Attendance        *int64    // gigs.attendance (nullable)
	TicketPriceCents  *int64    // gigs.ticket_price_cents (nullable)
	GrossRevenueCents *int64    // gigs.gross_revenue_cents (nullable)
	ArtistConfirmed   bool      // gigs.artist_confirmed
	VenueConfirmed    bool      // gigs.venue_confirmed
	CreatedByUserID   uint64    // gigs.created_by_user_id
	CreatedAt         time.Time // gigs.created_at
	UpdatedAt         time.Time // gigs.updated_at
}

// MetricsUpdate carries a partial metrics submission.  Nil fields are left
// untouched on the gig, so re-submitting the same values is a safe no-op.
type MetricsUpdate struct {
	TicketsSold       *int64
	Attendance        *int64
	TicketPriceCents  *int64
	GrossRevenueCents *int64
}

// Empty reports whether the update carries no fields at all.
func (m MetricsUpdate) Empty() bool {
	return m.TicketsSold == nil && m.Attendance == nil &&
		m.TicketPriceCents == nil && m.GrossRevenueCents == nil
}

// ApplyMetrics merges the provided fields into the gig and resets the
// counterpart's confirmation flag.  The actor's own flag is deliberately
// left untouched: they already agree with their own edit, while the other
// side must re-confirm because the numbers changed under them.  Fails with
// ErrGigFrozen once the gig is cancelled.
func (g *Gig) ApplyMetrics(actor Side, m MetricsUpdate) error {
	if g.Status == GigCancelled {
		return ErrGigFrozen
	}
	if m.TicketsSold != nil {
		v := *m.TicketsSold
		g.TicketsSold = &v
	}
	if m.Attendance != nil {
		v := *m.Attendance
		g.Attendance = &v
	}
	if m.TicketPriceCents != nil {
		v := *m.TicketPriceCents
		g.TicketPriceCents = &v
	}
	if m.GrossRevenueCents != nil {
		v := *m.GrossRevenueCents
		g.GrossRevenueCents = &v
	}
	if actor == SideArtist {
		g.VenueConfirmed = false
	} else {
		g.ArtistConfirmed = false
	}
	return nil
}

// ConfirmBy sets the acting side's confirmation flag.  Confirming twice is
// an idempotent no-op.  Fails with ErrGigFrozen when cancelled and with
// ErrNoMetrics when neither tickets_sold nor attendance has been reported,
// since there is nothing to agree to yet.
func (g *Gig) ConfirmBy(actor Side) error {
	if g.Status == GigCancelled {
		return ErrGigFrozen
	}
	if g.TicketsSold == nil && g.Attendance == nil {
		return ErrNoMetrics
	}
	if actor == SideArtist {
		g.ArtistConfirmed = true
	} else {
		g.VenueConfirmed = true
	}
	return nil
}

// TransitionStatus moves the gig to a new status.  Cancelled is absolutely
// terminal (ErrGigFrozen).  Re-completing a completed gig is rejected with
// ErrAlreadyCompleted; any other transition is allowed regardless of the
// confirmation flags, which live on their own axis.
func (g *Gig) TransitionStatus(next GigStatus) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if g.Status == GigCancelled {
		return ErrGigFrozen
	}
	if g.Status == GigCompleted && next == GigCompleted {
		return ErrAlreadyCompleted
	}
	g.Status = next
	return nil
}

// Verified reports whether both participants have confirmed the metrics.
func (g *Gig) Verified() bool {
	return g.ArtistConfirmed && g.VenueConfirmed
}

// VerifiedForStats reports whether the gig counts as verified in the
// artist-stats view, which only trusts settled history.
func (g *Gig) VerifiedForStats() bool {
	return g.Status == GigCompleted && g.Verified()
}
