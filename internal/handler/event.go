package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/gigmatch/internal/model"
	"github.com/stagepass/gigmatch/internal/repository"
)

// EventHandler serves the venue-owned event listings. The routes carry a
// venue role gate; the handler only resolves the caller's venue profile
// and scopes every repository call to it.
type EventHandler struct {
	Events *repository.EventRepo
	Venues *repository.VenueRepo
}

func NewEventHandler(e *repository.EventRepo, v *repository.VenueRepo) *EventHandler {
	return &EventHandler{Events: e, Venues: v}
}

type createEventReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"` // YYYY-MM-DD
}

type eventResp struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func toEventResp(e model.Event) eventResp {
	return eventResp{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.Format("2006-01-02"),
	}
}

// Create posts a new listing for the caller's venue.
func (h *EventHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len(req.Title) > 200 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required (max 200 chars)"})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Venues.GetByUserID(ctx, uid)
	if err != nil {
		if isProfileNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	ev, err := h.Events.Create(ctx, p.ID, req.Title, strings.TrimSpace(req.Description), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, toEventResp(ev))
}

// ListMine returns the caller's listings, soonest first. A venue user
// without a profile row gets an empty list, not an error.
func (h *EventHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Venues.GetByUserID(ctx, uid)
	if err != nil {
		if isProfileNotFound(err) {
			return c.JSON(http.StatusOK, echo.Map{"items": []eventResp{}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	events, err := h.Events.ListForVenue(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items := make([]eventResp, 0, len(events))
	for _, e := range events {
		items = append(items, toEventResp(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Delete removes one of the caller's listings.
func (h *EventHandler) Delete(c echo.Context) error {
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

	p, err := h.Venues.GetByUserID(ctx, uid)
	if err != nil {
		if isProfileNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Events.Delete(ctx, id, p.ID); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
