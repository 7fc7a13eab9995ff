package repository

import (
	"context"
	"database/sql"
	"math"
	"strings"
	"time"
)

// StatsRepo derives aggregate statistics from the gig ledger.  The two
// views intentionally use different scopes: ArtistStats only counts settled
// history (status = completed) because it backs a trust-building profile
// page, while Leaderboard counts every non-cancelled gig because it is an
// activity ranking that includes in-flight bookings.  Do not unify them.
type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// GigHistoryItem is one line of an artist's public gig history.  Verified
// is computed per row from the two confirmation flags.
type GigHistoryItem struct {
	GigID       uint64    `json:"gig_id"`
	VenueName   string    `json:"venue_name"`
	Date        time.Time `json:"-"`
	Attendance  *int64    `json:"attendance"`
	TicketsSold *int64    `json:"tickets_sold"`
	Verified    bool      `json:"verified"`
}

// ArtistStats summarizes an artist's completed gigs.
type ArtistStats struct {
	ArtistProfileID  uint64           `json:"artist_profile_id"`
	ArtistName       string           `json:"artist_name"`
	TotalGigs        int64            `json:"total_gigs"`
	VerifiedGigs     int64            `json:"verified_gigs"`
	AvgAttendance    *float64         `json:"avg_attendance"`
	AvgTicketsSold   *float64         `json:"avg_tickets_sold"`
	TotalTicketsSold int64            `json:"total_tickets_sold"`
	UniqueVenues     int64            `json:"unique_venues_count"`
	History          []GigHistoryItem `json:"gig_history"`
}

// ArtistStats aggregates over the artist's completed gigs only.
// Averages ignore null metric rows and are rounded to one decimal;
// the tickets-sold total treats null as zero.
func (r *StatsRepo) ArtistStats(ctx context.Context, artistProfileID uint64) (*ArtistStats, error) {
	var name string
	err := r.DB.QueryRowContext(ctx,
		"SELECT name FROM artist_profiles WHERE id=? LIMIT 1", artistProfileID).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, err
	}

	out := &ArtistStats{ArtistProfileID: artistProfileID, ArtistName: name}

	var avgAtt, avgSold sql.NullFloat64
	err = r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        SUM(CASE WHEN artist_confirmed AND venue_confirmed THEN 1 ELSE 0 END),
		        AVG(attendance),
		        AVG(tickets_sold),
		        COALESCE(SUM(tickets_sold), 0),
		        COUNT(DISTINCT venue_profile_id)
		   FROM gigs
		  WHERE artist_profile_id = ? AND status = 'completed'`,
		artistProfileID).Scan(&out.TotalGigs, &nullableSum{&out.VerifiedGigs},
		&avgAtt, &avgSold, &out.TotalTicketsSold, &out.UniqueVenues)
	if err != nil {
		return nil, err
	}
	out.AvgAttendance = round1(avgAtt)
	out.AvgTicketsSold = round1(avgSold)

	rows, err := r.DB.QueryContext(ctx,
		`SELECT g.id, v.venue_name, g.date, g.attendance, g.tickets_sold,
		        g.artist_confirmed AND g.venue_confirmed
		   FROM gigs g
		   JOIN venue_profiles v ON v.id = g.venue_profile_id
		  WHERE g.artist_profile_id = ? AND g.status = 'completed'
		  ORDER BY g.date DESC`,
		artistProfileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out.History = make([]GigHistoryItem, 0)
	for rows.Next() {
		var (
			item      GigHistoryItem
			att, sold sql.NullInt64
		)
		if err := rows.Scan(&item.GigID, &item.VenueName, &item.Date, &att, &sold, &item.Verified); err != nil {
			return nil, err
		}
		if att.Valid {
			item.Attendance = &att.Int64
		}
		if sold.Valid {
			item.TicketsSold = &sold.Int64
		}
		out.History = append(out.History, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// VenueLeaderboardEntry ranks one venue by non-cancelled gig activity.
type VenueLeaderboardEntry struct {
	VenueProfileID    uint64   `json:"venue_profile_id"`
	VenueName         string   `json:"venue_name"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	TotalGigs         int64    `json:"total_gigs"`
	VerifiedGigs      int64    `json:"verified_gigs"`
	TotalAttendance   *int64   `json:"total_attendance"`
	AvgAttendance     *float64 `json:"avg_attendance"`
	TotalTicketsSold  *int64   `json:"total_tickets_sold"`
	TotalGrossRevenue *int64   `json:"total_gross_revenue_cents"`
	UniqueArtists     int64    `json:"unique_artists"`
}

// ArtistLeaderboardEntry ranks one artist by non-cancelled gig activity.
type ArtistLeaderboardEntry struct {
	ArtistProfileID  uint64   `json:"artist_profile_id"`
	ArtistName       string   `json:"artist_name"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	TotalGigs        int64    `json:"total_gigs"`
	VerifiedGigs     int64    `json:"verified_gigs"`
	TotalAttendance  *int64   `json:"total_attendance"`
	AvgAttendance    *float64 `json:"avg_attendance"`
	TotalTicketsSold *int64   `json:"total_tickets_sold"`
	UniqueVenues     int64    `json:"unique_venues"`
}

// Leaderboard holds both rankings plus the filters they were built with.
type Leaderboard struct {
	City    string                  `json:"city,omitempty"`
	State   string                  `json:"state,omitempty"`
	Venues  []VenueLeaderboardEntry `json:"venues"`
	Artists []ArtistLeaderboardEntry `json:"artists"`
}

// ClampLimit bounds a requested leaderboard size to [1,100], defaulting to
// 20 when unset or non-positive.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// Leaderboard aggregates venues and artists independently over all
// non-cancelled gigs (upcoming counts as activity here; see the scope note
// on StatsRepo).  verified_gigs counts both-flags-true rows regardless of
// status.  City and state filter case-insensitively on the profile's
// stored location.
func (r *StatsRepo) Leaderboard(ctx context.Context, city, state string, limit int) (*Leaderboard, error) {
	limit = ClampLimit(limit)
	out := &Leaderboard{
		City:    city,
		State:   state,
		Venues:  make([]VenueLeaderboardEntry, 0),
		Artists: make([]ArtistLeaderboardEntry, 0),
	}

	filters, args := locationFilters("p", city, state)

	venueQ := `SELECT p.id, p.venue_name, p.city, p.state,
	        COUNT(g.id),
	        SUM(CASE WHEN g.artist_confirmed AND g.venue_confirmed THEN 1 ELSE 0 END),
	        SUM(g.attendance), AVG(g.attendance),
	        SUM(g.tickets_sold), SUM(g.gross_revenue_cents),
	        COUNT(DISTINCT g.artist_profile_id)
	   FROM venue_profiles p
	   JOIN gigs g ON g.venue_profile_id = p.id
	  WHERE g.status <> 'cancelled'` + filters + `
	  GROUP BY p.id
	  ORDER BY COUNT(g.id) DESC
	  LIMIT ?`
	rows, err := r.DB.QueryContext(ctx, venueQ, append(args, limit)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			e                   VenueLeaderboardEntry
			verified, att, sold sql.NullInt64
			rev                 sql.NullInt64
			avgAtt              sql.NullFloat64
		)
		if err := rows.Scan(&e.VenueProfileID, &e.VenueName, &e.City, &e.State,
			&e.TotalGigs, &verified, &att, &avgAtt, &sold, &rev, &e.UniqueArtists); err != nil {
			return nil, err
		}
		e.VerifiedGigs = verified.Int64
		if att.Valid {
			e.TotalAttendance = &att.Int64
		}
		e.AvgAttendance = round1(avgAtt)
		if sold.Valid {
			e.TotalTicketsSold = &sold.Int64
		}
		if rev.Valid {
			e.TotalGrossRevenue = &rev.Int64
		}
		out.Venues = append(out.Venues, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	artistQ := `SELECT p.id, p.name, p.city, p.state,
	        COUNT(g.id),
	        SUM(CASE WHEN g.artist_confirmed AND g.venue_confirmed THEN 1 ELSE 0 END),
	        SUM(g.attendance), AVG(g.attendance),
	        SUM(g.tickets_sold),
	        COUNT(DISTINCT g.venue_profile_id)
	   FROM artist_profiles p
	   JOIN gigs g ON g.artist_profile_id = p.id
	  WHERE g.status <> 'cancelled'` + filters + `
	  GROUP BY p.id
	  ORDER BY COUNT(g.id) DESC
	  LIMIT ?`
	arows, err := r.DB.QueryContext(ctx, artistQ, append(args, limit)...)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var (
			e                   ArtistLeaderboardEntry
			verified, att, sold sql.NullInt64
			avgAtt              sql.NullFloat64
		)
		if err := arows.Scan(&e.ArtistProfileID, &e.ArtistName, &e.City, &e.State,
			&e.TotalGigs, &verified, &att, &avgAtt, &sold, &e.UniqueVenues); err != nil {
			return nil, err
		}
		e.VerifiedGigs = verified.Int64
		if att.Valid {
			e.TotalAttendance = &att.Int64
		}
		e.AvgAttendance = round1(avgAtt)
		if sold.Valid {
			e.TotalTicketsSold = &sold.Int64
		}
		out.Artists = append(out.Artists, e)
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Cities returns venue cities having at least one non-cancelled gig,
// busiest first.
func (r *StatsRepo) Cities(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT p.city
		   FROM venue_profiles p
		   JOIN gigs g ON g.venue_profile_id = p.id
		  WHERE g.status <> 'cancelled' AND p.city <> ''
		  GROUP BY p.city
		  ORDER BY COUNT(g.id) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cities := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cities, nil
}

// locationFilters builds the optional case-insensitive city/state clauses
// for the given profile alias.
func locationFilters(alias, city, state string) (string, []any) {
	var b strings.Builder
	args := []any{}
	if city != "" {
		b.WriteString(" AND LOWER(" + alias + ".city) = ?")
		args = append(args, strings.ToLower(city))
	}
	if state != "" {
		b.WriteString(" AND LOWER(" + alias + ".state) = ?")
		args = append(args, strings.ToLower(state))
	}
	return b.String(), args
}

// round1 rounds a nullable SQL average to one decimal, or nil when the
// aggregate had no rows with data.
func round1(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	r := math.Round(v.Float64*10) / 10
	return &r
}

// nullableSum scans SUM() results, which are NULL over an empty set, into
// an int64 defaulting to zero.
type nullableSum struct{ dst *int64 }

func (n *nullableSum) Scan(src any) error {
	var v sql.NullInt64
	if err := v.Scan(src); err != nil {
		return err
	}
	*n.dst = v.Int64
	return nil
}
