package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/gigmatch/internal/model"
	"github.com/stagepass/gigmatch/internal/queue"
	"github.com/stagepass/gigmatch/internal/repository"
	queue_publisher "github.com/stagepass/gigmatch/internal/service"
)

// GigHandler implements the gig lifecycle: creation between matched
// parties, metrics reporting, dual confirmation and status transitions.
type GigHandler struct {
	Gigs    *repository.GigRepo
	Artists *repository.ArtistRepo
	Venues  *repository.VenueRepo
}

func NewGigHandler(g *repository.GigRepo, a *repository.ArtistRepo, v *repository.VenueRepo) *GigHandler {
	return &GigHandler{Gigs: g, Artists: a, Venues: v}
}

type createGigReq struct {
	ArtistProfileID uint64 `json:"artist_profile_id"`
	VenueProfileID  uint64 `json:"venue_profile_id"`
	Title           string `json:"title"`
	Date            string `json:"date"` // YYYY-MM-DD
}

type gigResp struct {
	ID                uint64 `json:"id"`
	ArtistProfileID   uint64 `json:"artist_profile_id"`
	VenueProfileID    uint64 `json:"venue_profile_id"`
	ArtistName        string `json:"artist_name"`
	VenueName         string `json:"venue_name"`
	Title             string `json:"title"`
	Date              string `json:"date"`
	Status            string `json:"status"`
	TicketsSold       *int64 `json:"tickets_sold"`
	Attendance        *int64 `json:"attendance"`
	TicketPriceCents  *int64 `json:"ticket_price_cents"`
	GrossRevenueCents *int64 `json:"gross_revenue_cents"`
	ArtistConfirmed   bool   `json:"artist_confirmed"`
	VenueConfirmed    bool   `json:"venue_confirmed"`
	Verified          bool   `json:"verified"`
	CreatedByUserID   uint64 `json:"created_by_user_id"`
}

func gigRespFrom(d repository.GigDetail) gigResp {
	return gigResp{
		ID:                d.ID,
		ArtistProfileID:   d.ArtistProfileID,
		VenueProfileID:    d.VenueProfileID,
		ArtistName:        d.ArtistName,
		VenueName:         d.VenueName,
		Title:             d.Title,
		Date:              d.Date.Format("2006-01-02"),
		Status:            string(d.Status),
		TicketsSold:       d.TicketsSold,
		Attendance:        d.Attendance,
		TicketPriceCents:  d.TicketPriceCents,
		GrossRevenueCents: d.GrossRevenueCents,
		ArtistConfirmed:   d.ArtistConfirmed,
		VenueConfirmed:    d.VenueConfirmed,
		Verified:          d.Verified(),
		CreatedByUserID:   d.CreatedByUserID,
	}
}

func gigErrStatus(c echo.Context, err error) error {
	switch err {
	case repository.ErrGigNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
	case repository.ErrArtistNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
	case repository.ErrVenueNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	case repository.ErrNotParticipant:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant of this gig"})
	case repository.ErrMatchRequired:
		return c.JSON(http.StatusConflict, echo.Map{"error": "parties are not matched"})
	case repository.ErrDuplicateGig:
		return c.JSON(http.StatusConflict, echo.Map{"error": "gig already exists for this pair and date"})
	case model.ErrGigFrozen:
		return c.JSON(http.StatusConflict, echo.Map{"error": "gig is cancelled"})
	case model.ErrAlreadyCompleted:
		return c.JSON(http.StatusConflict, echo.Map{"error": "gig is already completed"})
	case model.ErrNoMetrics:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no metrics to confirm"})
	case model.ErrInvalidStatus:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "gig operation failed"})
}

// Create books a gig between the caller's profile and the counterpart
// profile from the request. The caller only names the other side; their
// own profile is resolved from the token so nobody can book on behalf of
// a third party. Requires a mutual match.
func (h *GigHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createGigReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	artistID := req.ArtistProfileID
	venueID := req.VenueProfileID
	switch getRole(c) {
	case model.RoleArtist:
		p, err := h.Artists.GetByUserID(ctx, uid)
		if err != nil {
			if isProfileNotFound(err) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		artistID = p.ID
		if venueID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue_profile_id required"})
		}
	case model.RoleVenue:
		p, err := h.Venues.GetByUserID(ctx, uid)
		if err != nil {
			if isProfileNotFound(err) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		venueID = p.ID
		if artistID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "artist_profile_id required"})
		}
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	d, err := h.Gigs.Create(ctx, artistID, venueID, req.Title, date, uid)
	if err != nil {
		return gigErrStatus(c, err)
	}
	return c.JSON(http.StatusCreated, gigRespFrom(d))
}

// List returns the caller's gigs, newest date first, optionally filtered
// by status.
func (h *GigHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var status model.GigStatus
	if s := strings.TrimSpace(c.QueryParam("status")); s != "" {
		status = model.GigStatus(strings.ToLower(s))
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ds, err := h.Gigs.ListForUser(ctx, uid, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items := make([]gigResp, 0, len(ds))
	for _, d := range ds {
		items = append(items, gigRespFrom(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get returns one gig. Only participants can see it.
func (h *GigHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Gigs.Get(ctx, id, uid)
	if err != nil {
		return gigErrStatus(c, err)
	}
	return c.JSON(http.StatusOK, gigRespFrom(d))
}

type metricsReq struct {
	TicketsSold       *int64 `json:"tickets_sold"`
	Attendance        *int64 `json:"attendance"`
	TicketPriceCents  *int64 `json:"ticket_price_cents"`
	GrossRevenueCents *int64 `json:"gross_revenue_cents"`
}

// SubmitMetrics merges the caller's reported numbers into the gig. The
// counterpart's confirmation is reset because the numbers changed under
// them; the caller's own flag is left as-is.
func (h *GigHandler) SubmitMetrics(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req metricsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m := model.MetricsUpdate{
		TicketsSold:       req.TicketsSold,
		Attendance:        req.Attendance,
		TicketPriceCents:  req.TicketPriceCents,
		GrossRevenueCents: req.GrossRevenueCents,
	}
	if m.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one metric required"})
	}
	for _, v := range []*int64{m.TicketsSold, m.Attendance, m.TicketPriceCents, m.GrossRevenueCents} {
		if v != nil && *v < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "metrics cannot be negative"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Gigs.UpdateMetrics(ctx, id, uid, m)
	if err != nil {
		return gigErrStatus(c, err)
	}
	return c.JSON(http.StatusOK, gigRespFrom(d))
}

// Confirm records the caller's agreement with the current metrics. When
// this is the second side to agree the gig becomes verified and a
// gig.verified event is published, exactly once per verification.
func (h *GigHandler) Confirm(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, becameVerified, err := h.Gigs.Confirm(ctx, id, uid)
	if err != nil {
		return gigErrStatus(c, err)
	}

	if becameVerified {
		ev := queue.GigVerifiedEvent{
			GigID:             d.ID,
			ArtistProfileID:   d.ArtistProfileID,
			VenueProfileID:    d.VenueProfileID,
			ArtistName:        d.ArtistName,
			VenueName:         d.VenueName,
			Title:             d.Title,
			Date:              d.Date.Format("2006-01-02"),
			TicketsSold:       d.TicketsSold,
			Attendance:        d.Attendance,
			GrossRevenueCents: d.GrossRevenueCents,
			VerifiedAt:        time.Now().UTC().Format(time.RFC3339),
		}
		go func() { _ = queue_publisher.PublishGigVerified(context.Background(), ev) }()
	}

	return c.JSON(http.StatusOK, gigRespFrom(d))
}

type statusReq struct {
	Status string `json:"status"`
}

// SetStatus moves the gig between upcoming, completed and cancelled.
// Cancelled is terminal; completing twice is rejected so clients notice
// double submissions.
func (h *GigHandler) SetStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Gigs.SetStatus(ctx, id, uid, model.GigStatus(strings.ToLower(strings.TrimSpace(req.Status))))
	if err != nil {
		return gigErrStatus(c, err)
	}
	return c.JSON(http.StatusOK, gigRespFrom(d))
}
