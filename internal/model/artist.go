package model

import "time"

// ArtistProfile is the public face of an artist user.  Exactly one row
// exists per artist user (unique user_id).  City and state are the fields
// the leaderboard filters on; the rest is display data shown on match and
// search results.
//
// Fields:
//  ID        - primary key identifier.
//  UserID    - owning user (unique).
//  Name      - act or band name.
//  Bio       - free-form description.
//  City      - home city.
//  State     - home state/region code.
//  MinDraw   - smallest expected audience.
//  MaxDraw   - largest expected audience.
//  CreatedAt - creation timestamp.
//  UpdatedAt - last update timestamp.
type ArtistProfile struct {
	ID        uint64    // artist_profiles.id
	UserID    uint64    // artist_profiles.user_id
	Name      string    // artist_profiles.name
	Bio       string    // artist_profiles.bio
	City      string    // artist_profiles.city
	State     string    // artist_profiles.state
	MinDraw   int       // artist_profiles.min_draw
	MaxDraw   int       // artist_profiles.max_draw
	CreatedAt time.Time // artist_profiles.created_at
	UpdatedAt time.Time // artist_profiles.updated_at
}
