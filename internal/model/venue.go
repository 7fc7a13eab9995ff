package model

import "time"

// VenueProfile is the public face of a venue user.  Exactly one row exists
// per venue user (unique user_id).
//
// Fields:
//  ID          - primary key identifier.
//  UserID      - owning user (unique).
//  VenueName   - display name of the venue.
//  Description - free-form description.
//  Address     - street address.
//  City        - city, matched case-insensitively by the leaderboard filter.
//  State       - state/region code.
//  Capacity    - room capacity.
//  CreatedAt   - creation timestamp.
//  UpdatedAt   - last update timestamp.
type VenueProfile struct {
	ID          uint64    // venue_profiles.id
	UserID      uint64    // venue_profiles.user_id
	VenueName   string    // venue_profiles.venue_name
	Description string    // venue_profiles.description
	Address     string    // venue_profiles.address
	City        string    // venue_profiles.city
	State       string    // venue_profiles.state
	Capacity    int       // venue_profiles.capacity
	CreatedAt   time.Time // venue_profiles.created_at
	UpdatedAt   time.Time // venue_profiles.updated_at
}
