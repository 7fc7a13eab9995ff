package repository

import (
	"context"
	"strings"
)

// ProfileSearchQuery defines filters & pagination for browsing artist and
// venue profiles.
type ProfileSearchQuery struct {
	Name     string
	City     string
	State    string
	Page     int
	PageSize int
}

func (q *ProfileSearchQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
}

// PublicArtistRow is the sanitized artist result returned to guests.
type PublicArtistRow struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Bio     string `json:"bio"`
	City    string `json:"city"`
	State   string `json:"state"`
	MinDraw int    `json:"min_draw"`
	MaxDraw int    `json:"max_draw"`
}

// PublicVenueRow is the sanitized venue result returned to guests.
type PublicVenueRow struct {
	ID          uint64 `json:"id"`
	VenueName   string `json:"venue_name"`
	Description string `json:"description"`
	City        string `json:"city"`
	State       string `json:"state"`
	Capacity    int    `json:"capacity"`
}

// SearchArtists returns artists matching the query plus the total count for
// pagination.  Name matches are case-insensitive substrings; city and state
// are case-insensitive exact matches.
func (r *ArtistRepo) SearchArtists(ctx context.Context, q ProfileSearchQuery) ([]PublicArtistRow, int64, error) {
	q.normalize()
	cond, args := profileSearchCond("name", q)

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM artist_profiles WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := `SELECT id, name, bio, city, state, min_draw, max_draw
	   FROM artist_profiles
	  WHERE ` + cond + `
	  ORDER BY name
	  LIMIT ? OFFSET ?`
	rows, err := r.DB.QueryContext(ctx, dataSQL, append(args, q.PageSize, (q.Page-1)*q.PageSize)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]PublicArtistRow, 0)
	for rows.Next() {
		var a PublicArtistRow
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio, &a.City, &a.State, &a.MinDraw, &a.MaxDraw); err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SearchVenues is the venue counterpart of SearchArtists.
func (r *VenueRepo) SearchVenues(ctx context.Context, q ProfileSearchQuery) ([]PublicVenueRow, int64, error) {
	q.normalize()
	cond, args := profileSearchCond("venue_name", q)

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM venue_profiles WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := `SELECT id, venue_name, description, city, state, capacity
	   FROM venue_profiles
	  WHERE ` + cond + `
	  ORDER BY venue_name
	  LIMIT ? OFFSET ?`
	rows, err := r.DB.QueryContext(ctx, dataSQL, append(args, q.PageSize, (q.Page-1)*q.PageSize)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]PublicVenueRow, 0)
	for rows.Next() {
		var v PublicVenueRow
		if err := rows.Scan(&v.ID, &v.VenueName, &v.Description, &v.City, &v.State, &v.Capacity); err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func profileSearchCond(nameCol string, q ProfileSearchQuery) (string, []any) {
	where := []string{}
	args := []any{}
	if q.Name != "" {
		where = append(where, "LOWER("+nameCol+") LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.City != "" {
		where = append(where, "LOWER(city) = ?")
		args = append(args, strings.ToLower(q.City))
	}
	if q.State != "" {
		where = append(where, "LOWER(state) = ?")
		args = append(args, strings.ToLower(q.State))
	}
	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}
