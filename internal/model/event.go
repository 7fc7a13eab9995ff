package model

import "time"

// Event is a public listing a venue posts for an upcoming night, stored in
// the `events` table.  Events are announcements only: they carry no
// artist, no metrics and no confirmation flow, and deleting one never
// touches the gig ledger.
//
// Fields:
//  ID             - primary key identifier.
//  VenueProfileID - the venue that posted the listing.
//  Title          - headline for the night.
//  Description    - free-form details.
//  Date           - calendar date of the event.
//  CreatedAt      - creation timestamp.
type Event struct {
	ID             uint64    // events.id
	VenueProfileID uint64    // events.venue_profile_id
	Title          string    // events.title
	Description    string    // events.description
	Date           time.Time // events.date (date only, UTC midnight)
	CreatedAt      time.Time // events.created_at
}
