// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// string matching. Rule errors belonging to the gig state machine itself
// (frozen, already completed, no metrics) live in the model package next
// to the type that raises them.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrNotParticipant is returned when a user who owns neither the artist
// nor the venue profile of a gig tries to create or mutate it. Handlers
// translate this into HTTP 403.
var ErrNotParticipant = errors.New("not a participant of this gig")

// ErrArtistNotFound / ErrVenueNotFound / ErrGigNotFound / ErrEventNotFound
// signal that a referenced row does not exist. Handlers translate these
// into HTTP 404.
var (
	ErrArtistNotFound = errors.New("artist profile not found")
	ErrVenueNotFound  = errors.New("venue profile not found")
	ErrGigNotFound    = errors.New("gig not found")
	ErrEventNotFound  = errors.New("event not found")
)

// ErrSelfMatch is returned when a user targets their own profile with a
// match request. Handlers translate this into HTTP 409.
var ErrSelfMatch = errors.New("cannot match with yourself")

// ErrNoIncomingRequest is returned by accept when there is no inbound
// interest edge to reciprocate. Acceptance never creates a one-sided
// interest. Handlers translate this into HTTP 409.
var ErrNoIncomingRequest = errors.New("no incoming match request to accept")

// ErrMatchRequired is returned when a gig is created between two users
// who are not currently mutually matched. Handlers translate this into
// HTTP 409.
var ErrMatchRequired = errors.New("a mutual match is required before creating a gig")

// ErrDuplicateGig is returned when a gig already exists for the same
// artist, venue and date. Handlers translate this into HTTP 409.
var ErrDuplicateGig = errors.New("a gig already exists for this artist, venue and date")
