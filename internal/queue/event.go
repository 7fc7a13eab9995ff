// Package queue defines message payloads exchanged over the message broker.
package queue

// MatchFormedEvent is published when both sides of a match have expressed
// interest and the pair becomes mutual. It carries enough information for
// downstream consumers to log or notify without querying the primary
// database.
type MatchFormedEvent struct {
	ArtistUserID uint64 `json:"artist_user_id"`
	VenueUserID  uint64 `json:"venue_user_id"`
	ArtistName   string `json:"artist_name"`
	VenueName    string `json:"venue_name"`
	FormedAt     string `json:"formed_at"`
}

// GigVerifiedEvent is published when the second participant confirms a
// gig's metrics, i.e. the moment both confirmation flags become true.
type GigVerifiedEvent struct {
	GigID             uint64 `json:"gig_id"`
	ArtistProfileID   uint64 `json:"artist_profile_id"`
	VenueProfileID    uint64 `json:"venue_profile_id"`
	ArtistName        string `json:"artist_name"`
	VenueName         string `json:"venue_name"`
	Title             string `json:"title"`
	Date              string `json:"date"`
	TicketsSold       *int64 `json:"tickets_sold"`
	Attendance        *int64 `json:"attendance"`
	GrossRevenueCents *int64 `json:"gross_revenue_cents"`
	VerifiedAt        string `json:"verified_at"`
}
