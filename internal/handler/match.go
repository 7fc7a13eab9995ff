package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/gigmatch/internal/model"
	"github.com/stagepass/gigmatch/internal/queue"
	"github.com/stagepass/gigmatch/internal/repository"
	queue_publisher "github.com/stagepass/gigmatch/internal/service"
)

// MatchHandler implements the interest / match endpoints. Artists target
// venue profiles and venues target artist profiles; the handler resolves
// the target profile to its owning user before touching the match ledger,
// which keys edges by user id.
type MatchHandler struct {
	Matches *repository.MatchRepo
	Artists *repository.ArtistRepo
	Venues  *repository.VenueRepo
}

func NewMatchHandler(m *repository.MatchRepo, a *repository.ArtistRepo, v *repository.VenueRepo) *MatchHandler {
	return &MatchHandler{Matches: m, Artists: a, Venues: v}
}

type matchTargetReq struct {
	TargetID uint64 `json:"target_id"`
}

// resolveTarget maps the caller's role to the opposite profile table and
// returns the target profile's owner. Artists may only target venues and
// vice versa; any other role has no seat at this table.
func (h *MatchHandler) resolveTarget(ctx context.Context, callerRole string, targetID uint64) (uint64, error) {
	switch callerRole {
	case model.RoleArtist:
		return h.Venues.ResolveOwner(ctx, targetID)
	case model.RoleVenue:
		return h.Artists.ResolveOwner(ctx, targetID)
	}
	return 0, repository.ErrForbidden
}

func matchErrStatus(c echo.Context, err error) error {
	switch err {
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case repository.ErrArtistNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
	case repository.ErrVenueNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	case repository.ErrSelfMatch:
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot match with yourself"})
	case repository.ErrNoIncomingRequest:
		return c.JSON(http.StatusConflict, echo.Map{"error": "no incoming request to accept"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "match operation failed"})
}

// Create records the caller's interest in the target profile. Repeating
// the same request is a no-op that returns the existing edge. When the
// reciprocal edge already exists the pair becomes mutual and a
// match.formed event is published.
func (h *MatchHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req matchTargetReq
	if err := c.Bind(&req); err != nil || req.TargetID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "target_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role := getRole(c)
	targetUser, err := h.resolveTarget(ctx, role, req.TargetID)
	if err != nil {
		return matchErrStatus(c, err)
	}

	id, mutual, err := h.Matches.Create(ctx, uid, targetUser)
	if err != nil {
		return matchErrStatus(c, err)
	}

	if mutual {
		h.publishFormed(ctx, role, uid, targetUser)
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": id, "mutual": mutual})
}

// Accept reciprocates an incoming request from the target profile. Unlike
// Create it fails when no inbound edge exists, so a client cannot
// "accept" its way into initiating interest.
func (h *MatchHandler) Accept(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req matchTargetReq
	if err := c.Bind(&req); err != nil || req.TargetID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "target_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role := getRole(c)
	targetUser, err := h.resolveTarget(ctx, role, req.TargetID)
	if err != nil {
		return matchErrStatus(c, err)
	}

	id, err := h.Matches.Accept(ctx, uid, targetUser)
	if err != nil {
		return matchErrStatus(c, err)
	}

	h.publishFormed(ctx, role, uid, targetUser)

	return c.JSON(http.StatusOK, echo.Map{"id": id, "mutual": true})
}

// Delete removes the connection with the target profile in both
// directions, whatever state it was in. Deleting a non-existent
// connection is a no-op.
func (h *MatchHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := pathID(c, "target_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid target_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	targetUser, err := h.resolveTarget(ctx, getRole(c), targetID)
	if err != nil {
		return matchErrStatus(c, err)
	}

	if err := h.Matches.Delete(ctx, uid, targetUser); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// counterpartRole names the profile type shown in the caller's lists.
func counterpartRole(callerRole string) (string, bool) {
	switch callerRole {
	case model.RoleArtist:
		return model.RoleVenue, true
	case model.RoleVenue:
		return model.RoleArtist, true
	}
	return "", false
}

func (h *MatchHandler) list(c echo.Context, fn func(ctx context.Context, userID uint64, counterpart string) ([]repository.MatchEntry, error)) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	other, ok := counterpartRole(getRole(c))
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := fn(ctx, uid, other)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}

// ListMatched returns mutual connections.
func (h *MatchHandler) ListMatched(c echo.Context) error {
	return h.list(c, h.Matches.ListMatched)
}

// ListIncoming returns unanswered requests pointing at the caller.
func (h *MatchHandler) ListIncoming(c echo.Context) error {
	return h.list(c, h.Matches.ListIncoming)
}

// ListOutgoing returns the caller's unanswered requests.
func (h *MatchHandler) ListOutgoing(c echo.Context) error {
	return h.list(c, h.Matches.ListOutgoing)
}

// publishFormed emits a match.formed event, resolving display names
// best-effort. Broker trouble never fails the request.
func (h *MatchHandler) publishFormed(ctx context.Context, callerRole string, callerUser, targetUser uint64) {
	ev := queue.MatchFormedEvent{FormedAt: time.Now().UTC().Format(time.RFC3339)}
	switch callerRole {
	case model.RoleArtist:
		ev.ArtistUserID = callerUser
		ev.VenueUserID = targetUser
	case model.RoleVenue:
		ev.ArtistUserID = targetUser
		ev.VenueUserID = callerUser
	default:
		return
	}
	if p, err := h.Artists.GetByUserID(ctx, ev.ArtistUserID); err == nil {
		ev.ArtistName = p.Name
	}
	if p, err := h.Venues.GetByUserID(ctx, ev.VenueUserID); err == nil {
		ev.VenueName = p.VenueName
	}
	go func() { _ = queue_publisher.PublishMatchFormed(context.Background(), ev) }()
}
