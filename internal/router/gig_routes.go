package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stagepass/gigmatch/internal/handler"
	"github.com/stagepass/gigmatch/internal/middleware"
	"github.com/stagepass/gigmatch/internal/model"
)

// RegisterGig registers the gig lifecycle endpoints under /v1/gigs.  Every
// route requires a participant role; per-gig access is enforced in the
// repository, which rejects callers that own neither side.
func RegisterGig(e *echo.Echo, h *handler.GigHandler, jwtSecret string) {
	g := e.Group(
		"/v1/gigs",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleArtist, model.RoleVenue),
	)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PATCH("/:id/metrics", h.SubmitMetrics)
	g.POST("/:id/confirm", h.Confirm)
	g.PATCH("/:id/status", h.SetStatus)
}
