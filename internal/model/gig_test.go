package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }

func upcomingGig() Gig {
	return Gig{ID: 1, ArtistProfileID: 10, VenueProfileID: 20, Status: GigUpcoming}
}

func TestApplyMetricsMergesOnlyProvidedFields(t *testing.T) {
	g := upcomingGig()
	require.NoError(t, g.ApplyMetrics(SideArtist, MetricsUpdate{TicketsSold: i64(120), Attendance: i64(100)}))
	require.NotNil(t, g.TicketsSold)
	assert.EqualValues(t, 120, *g.TicketsSold)
	require.NotNil(t, g.Attendance)
	assert.EqualValues(t, 100, *g.Attendance)
	assert.Nil(t, g.TicketPriceCents)
	assert.Nil(t, g.GrossRevenueCents)

	// A later partial update must not clear fields it does not mention.
	require.NoError(t, g.ApplyMetrics(SideVenue, MetricsUpdate{Attendance: i64(95)}))
	assert.EqualValues(t, 120, *g.TicketsSold)
	assert.EqualValues(t, 95, *g.Attendance)
}

func TestApplyMetricsResetsCounterpartFlagOnly(t *testing.T) {
	g := upcomingGig()
	g.ArtistConfirmed = true
	g.VenueConfirmed = true

	require.NoError(t, g.ApplyMetrics(SideArtist, MetricsUpdate{TicketsSold: i64(50)}))
	assert.True(t, g.ArtistConfirmed, "actor's own flag stays")
	assert.False(t, g.VenueConfirmed, "counterpart must re-confirm")

	g.VenueConfirmed = true
	require.NoError(t, g.ApplyMetrics(SideVenue, MetricsUpdate{Attendance: i64(40)}))
	assert.False(t, g.ArtistConfirmed)
	assert.True(t, g.VenueConfirmed)
}

func TestApplyMetricsOnCancelledGig(t *testing.T) {
	g := upcomingGig()
	g.Status = GigCancelled
	err := g.ApplyMetrics(SideArtist, MetricsUpdate{TicketsSold: i64(1)})
	assert.ErrorIs(t, err, ErrGigFrozen)
	assert.Nil(t, g.TicketsSold)
}

func TestConfirmRequiresMetrics(t *testing.T) {
	g := upcomingGig()
	assert.ErrorIs(t, g.ConfirmBy(SideArtist), ErrNoMetrics)

	// Price alone is not enough; tickets_sold or attendance must exist.
	require.NoError(t, g.ApplyMetrics(SideArtist, MetricsUpdate{TicketPriceCents: i64(1500)}))
	assert.ErrorIs(t, g.ConfirmBy(SideVenue), ErrNoMetrics)

	require.NoError(t, g.ApplyMetrics(SideArtist, MetricsUpdate{Attendance: i64(80)}))
	require.NoError(t, g.ConfirmBy(SideVenue))
	assert.True(t, g.VenueConfirmed)
}

func TestConfirmIsIdempotentPerSide(t *testing.T) {
	g := upcomingGig()
	require.NoError(t, g.ApplyMetrics(SideArtist, MetricsUpdate{TicketsSold: i64(10)}))
	require.NoError(t, g.ConfirmBy(SideArtist))
	require.NoError(t, g.ConfirmBy(SideArtist))
	assert.True(t, g.ArtistConfirmed)
	assert.False(t, g.Verified())

	require.NoError(t, g.ConfirmBy(SideVenue))
	assert.True(t, g.Verified())
}

func TestConfirmOnCancelledGig(t *testing.T) {
	g := upcomingGig()
	g.TicketsSold = i64(10)
	g.Status = GigCancelled
	assert.ErrorIs(t, g.ConfirmBy(SideVenue), ErrGigFrozen)
}

func TestTransitionStatus(t *testing.T) {
	g := upcomingGig()
	assert.ErrorIs(t, g.TransitionStatus(GigStatus("postponed")), ErrInvalidStatus)
	assert.Equal(t, GigUpcoming, g.Status)

	require.NoError(t, g.TransitionStatus(GigCompleted))
	assert.ErrorIs(t, g.TransitionStatus(GigCompleted), ErrAlreadyCompleted)

	// Completed gigs can still be reopened or cancelled.
	require.NoError(t, g.TransitionStatus(GigUpcoming))
	require.NoError(t, g.TransitionStatus(GigCompleted))
	require.NoError(t, g.TransitionStatus(GigCancelled))

	assert.ErrorIs(t, g.TransitionStatus(GigUpcoming), ErrGigFrozen)
	assert.ErrorIs(t, g.TransitionStatus(GigCancelled), ErrGigFrozen)
	assert.Equal(t, GigCancelled, g.Status)
}

func TestStatusAndConfirmationAreIndependent(t *testing.T) {
	g := upcomingGig()
	require.NoError(t, g.ApplyMetrics(SideVenue, MetricsUpdate{Attendance: i64(200)}))
	require.NoError(t, g.ConfirmBy(SideArtist))
	require.NoError(t, g.ConfirmBy(SideVenue))

	// Verified while still upcoming: counts for the live view but not for
	// the settled stats view.
	assert.True(t, g.Verified())
	assert.False(t, g.VerifiedForStats())

	require.NoError(t, g.TransitionStatus(GigCompleted))
	assert.True(t, g.VerifiedForStats())

	// Completing never touches the flags, and a completed gig with zero
	// confirmations is perfectly legal.
	h := upcomingGig()
	require.NoError(t, h.TransitionStatus(GigCompleted))
	assert.False(t, h.ArtistConfirmed)
	assert.False(t, h.VenueConfirmed)
}

func TestVerificationRoundTripAfterDispute(t *testing.T) {
	g := upcomingGig()
	require.NoError(t, g.ApplyMetrics(SideArtist, MetricsUpdate{TicketsSold: i64(300), Attendance: i64(280)}))
	require.NoError(t, g.ConfirmBy(SideArtist))
	require.NoError(t, g.ConfirmBy(SideVenue))
	require.True(t, g.Verified())

	// The venue disputes the numbers by submitting its own count: the
	// artist's confirmation is invalidated, the venue's stands.
	require.NoError(t, g.ApplyMetrics(SideVenue, MetricsUpdate{Attendance: i64(250)}))
	assert.False(t, g.Verified())
	assert.False(t, g.ArtistConfirmed)
	assert.True(t, g.VenueConfirmed)

	require.NoError(t, g.ConfirmBy(SideArtist))
	assert.True(t, g.Verified())
}

func TestGigStatusValid(t *testing.T) {
	assert.True(t, GigUpcoming.Valid())
	assert.True(t, GigCompleted.Valid())
	assert.True(t, GigCancelled.Valid())
	assert.False(t, GigStatus("").Valid())
	assert.False(t, GigStatus("UPCOMING").Valid())
}

func TestMetricsUpdateEmpty(t *testing.T) {
	assert.True(t, MetricsUpdate{}.Empty())
	assert.False(t, MetricsUpdate{GrossRevenueCents: i64(0)}.Empty())
}
