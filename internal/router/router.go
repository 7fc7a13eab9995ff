package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/stagepass/gigmatch/internal/handler"
	"github.com/stagepass/gigmatch/internal/middleware"
	"github.com/stagepass/gigmatch/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// Logout needs the access token to know whose sessions to revoke when
	// no refresh token is supplied in the body.
	auth.POST("/auth/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints: profile
// search, profile detail, artist stats and the leaderboard.  The cache
// middleware wraps the aggregate endpoints, which are the expensive ones.
func RegisterPublic(e *echo.Echo, p *handler.ProfileHandler, s *handler.StatsHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/artists", p.SearchArtists, cache)
	e.GET("/v1/venues", p.SearchVenues, cache)
	e.GET("/v1/artists/:id", p.GetArtist)
	e.GET("/v1/venues/:id", p.GetVenue)
	e.GET("/v1/artists/:id/stats", s.ArtistStats, cache)
	e.GET("/v1/leaderboard", s.Leaderboard, cache)
	e.GET("/v1/leaderboard/cities", s.Cities, cache)
}

// RegisterProfile registers the owner-facing profile endpoints.  Both
// artist and venue roles use the same paths; the handler dispatches on
// the role claim.
func RegisterProfile(e *echo.Echo, p *handler.ProfileHandler, jwtSecret string) {
	g := e.Group(
		"/v1/me",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleArtist, model.RoleVenue),
	)
	g.GET("/profile", p.MyProfile)
	g.PUT("/profile", p.UpdateMyProfile)
}
