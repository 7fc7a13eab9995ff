package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/gigmatch/internal/model"
	"github.com/stagepass/gigmatch/internal/repository"
)

// ProfileHandler serves both the owner-facing profile endpoints and the
// public directory (browse by id, paginated search).
type ProfileHandler struct {
	Artists *repository.ArtistRepo
	Venues  *repository.VenueRepo
}

func NewProfileHandler(a *repository.ArtistRepo, v *repository.VenueRepo) *ProfileHandler {
	return &ProfileHandler{Artists: a, Venues: v}
}

type artistProfileResp struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Bio     string `json:"bio"`
	City    string `json:"city"`
	State   string `json:"state"`
	MinDraw int    `json:"min_draw"`
	MaxDraw int    `json:"max_draw"`
}

type venueProfileResp struct {
	ID          uint64 `json:"id"`
	VenueName   string `json:"venue_name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Capacity    int    `json:"capacity"`
}

func artistResp(p model.ArtistProfile) artistProfileResp {
	return artistProfileResp{ID: p.ID, Name: p.Name, Bio: p.Bio, City: p.City, State: p.State, MinDraw: p.MinDraw, MaxDraw: p.MaxDraw}
}

func venueResp(p model.VenueProfile) venueProfileResp {
	return venueProfileResp{ID: p.ID, VenueName: p.VenueName, Description: p.Description, Address: p.Address, City: p.City, State: p.State, Capacity: p.Capacity}
}

// MyProfile returns the caller's own profile for their role.
func (h *ProfileHandler) MyProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch getRole(c) {
	case model.RoleArtist:
		p, err := h.Artists.GetByUserID(ctx, uid)
		if err != nil {
			if isProfileNotFound(err) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, artistResp(p))
	case model.RoleVenue:
		p, err := h.Venues.GetByUserID(ctx, uid)
		if err != nil {
			if isProfileNotFound(err) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, venueResp(p))
	}
	return c.JSON(http.StatusForbidden, echo.Map{"error": "no profile for this role"})
}

type updateArtistReq struct {
	Name    *string `json:"name"`
	Bio     *string `json:"bio"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	MinDraw *int    `json:"min_draw"`
	MaxDraw *int    `json:"max_draw"`
}

type updateVenueReq struct {
	VenueName   *string `json:"venue_name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Capacity    *int    `json:"capacity"`
}

// UpdateMyProfile applies a partial update to the caller's profile. Nil
// fields keep their current value.
func (h *ProfileHandler) UpdateMyProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch getRole(c) {
	case model.RoleArtist:
		var req updateArtistReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		p, err := h.Artists.GetByUserID(ctx, uid)
		if err != nil {
			if isProfileNotFound(err) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
			}
			p.Name = strings.TrimSpace(*req.Name)
		}
		if req.Bio != nil {
			p.Bio = strings.TrimSpace(*req.Bio)
		}
		if req.City != nil {
			p.City = strings.TrimSpace(*req.City)
		}
		if req.State != nil {
			p.State = strings.TrimSpace(*req.State)
		}
		if req.MinDraw != nil {
			p.MinDraw = *req.MinDraw
		}
		if req.MaxDraw != nil {
			p.MaxDraw = *req.MaxDraw
		}
		if p.MinDraw < 0 || p.MaxDraw < 0 || (p.MaxDraw > 0 && p.MinDraw > p.MaxDraw) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid draw range"})
		}
		if err := h.Artists.Update(ctx, uid, p); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		return c.JSON(http.StatusOK, artistResp(p))
	case model.RoleVenue:
		var req updateVenueReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		p, err := h.Venues.GetByUserID(ctx, uid)
		if err != nil {
			if isProfileNotFound(err) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if req.VenueName != nil {
			if strings.TrimSpace(*req.VenueName) == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue_name cannot be empty"})
			}
			p.VenueName = strings.TrimSpace(*req.VenueName)
		}
		if req.Description != nil {
			p.Description = strings.TrimSpace(*req.Description)
		}
		if req.Address != nil {
			p.Address = strings.TrimSpace(*req.Address)
		}
		if req.City != nil {
			p.City = strings.TrimSpace(*req.City)
		}
		if req.State != nil {
			p.State = strings.TrimSpace(*req.State)
		}
		if req.Capacity != nil {
			if *req.Capacity < 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid capacity"})
			}
			p.Capacity = *req.Capacity
		}
		if err := h.Venues.Update(ctx, uid, p); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		return c.JSON(http.StatusOK, venueResp(p))
	}
	return c.JSON(http.StatusForbidden, echo.Map{"error": "no profile for this role"})
}

// GetArtist returns one artist profile by id (public).
func (h *ProfileHandler) GetArtist(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Artists.GetByID(ctx, id)
	if err != nil {
		if isProfileNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, artistResp(p))
}

// GetVenue returns one venue profile by id (public).
func (h *ProfileHandler) GetVenue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Venues.GetByID(ctx, id)
	if err != nil {
		if isProfileNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, venueResp(p))
}

func searchQueryFrom(c echo.Context) repository.ProfileSearchQuery {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	return repository.ProfileSearchQuery{
		Name:     strings.TrimSpace(c.QueryParam("name")),
		City:     strings.TrimSpace(c.QueryParam("city")),
		State:    strings.TrimSpace(c.QueryParam("state")),
		Page:     page,
		PageSize: size,
	}
}

// SearchArtists lists artists filtered by name/city/state (public,
// paginated).
func (h *ProfileHandler) SearchArtists(c echo.Context) error {
	q := searchQueryFrom(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, total, err := h.Artists.SearchArtists(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows, "total": total})
}

// SearchVenues lists venues filtered by name/city/state (public,
// paginated).
func (h *ProfileHandler) SearchVenues(c echo.Context) error {
	q := searchQueryFrom(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, total, err := h.Venues.SearchVenues(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows, "total": total})
}
