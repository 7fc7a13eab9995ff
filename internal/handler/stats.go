package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/gigmatch/internal/repository"
)

// StatsHandler serves the public aggregates: per-artist track record and
// the venue/artist leaderboards.
type StatsHandler struct {
	Stats *repository.StatsRepo
}

func NewStatsHandler(s *repository.StatsRepo) *StatsHandler {
	return &StatsHandler{Stats: s}
}

type historyItemResp struct {
	repository.GigHistoryItem
	Date string `json:"date"`
}

type artistStatsResp struct {
	*repository.ArtistStats
	History []historyItemResp `json:"gig_history"`
}

// ArtistStats returns the aggregate track record for one artist profile.
func (h *StatsHandler) ArtistStats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stats, err := h.Stats.ArtistStats(ctx, id)
	if err != nil {
		if err == repository.ErrArtistNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	history := make([]historyItemResp, 0, len(stats.History))
	for _, it := range stats.History {
		history = append(history, historyItemResp{GigHistoryItem: it, Date: it.Date.Format("2006-01-02")})
	}
	return c.JSON(http.StatusOK, artistStatsResp{ArtistStats: stats, History: history})
}

// Leaderboard ranks venues and artists, optionally scoped to a city
// and/or state. The limit is clamped server-side.
func (h *StatsHandler) Leaderboard(c echo.Context) error {
	city := strings.TrimSpace(c.QueryParam("city"))
	state := strings.TrimSpace(c.QueryParam("state"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	lb, err := h.Stats.Leaderboard(ctx, city, state, repository.ClampLimit(limit))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, lb)
}

// Cities lists the distinct cities that have leaderboard activity, for
// populating filter dropdowns.
func (h *StatsHandler) Cities(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cities, err := h.Stats.Cities(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cities": cities})
}
