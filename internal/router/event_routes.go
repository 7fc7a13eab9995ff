package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stagepass/gigmatch/internal/handler"
	"github.com/stagepass/gigmatch/internal/middleware"
	"github.com/stagepass/gigmatch/internal/model"
)

// RegisterEvents registers the venue event listing endpoints under
// /v1/events.  Listings are venue-only; artists have no event surface.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, jwtSecret string) {
	g := e.Group(
		"/v1/events",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleVenue),
	)
	g.POST("", h.Create)
	g.GET("/mine", h.ListMine)
	g.DELETE("/:id", h.Delete)
}
