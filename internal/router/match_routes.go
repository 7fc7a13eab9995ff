package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stagepass/gigmatch/internal/handler"
	"github.com/stagepass/gigmatch/internal/middleware"
	"github.com/stagepass/gigmatch/internal/model"
)

// RegisterMatch registers the match ledger endpoints under /v1/matches.
// All routes require a valid JWT and an artist or venue role; admins have
// no profile and therefore nothing to match with.
func RegisterMatch(e *echo.Echo, h *handler.MatchHandler, jwtSecret string) {
	g := e.Group(
		"/v1/matches",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleArtist, model.RoleVenue),
	)
	g.POST("", h.Create)
	g.POST("/accept", h.Accept)
	g.DELETE("/:target_id", h.Delete)
	g.GET("", h.ListMatched)
	g.GET("/incoming", h.ListIncoming)
	g.GET("/outgoing", h.ListOutgoing)
}
