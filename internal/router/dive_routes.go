package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dive-booking/internal/handler"    // dive handlers
	"github.com/iliyamo/dive-booking/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/dive-booking/internal/model"
	"github.com/iliyamo/dive-booking/internal/repository"
)

// RegisterDive registers the /dive route group.  Every route requires a
// valid JWT; the admin routes additionally require the admin role, checked
// against the user record resolved by the guard.  The response cache only
// wraps the GET list endpoints and keys by user, so cached lists are never
// shared between callers.
func RegisterDive(e *echo.Echo, h *handler.DiveHandler, users *repository.UserRepo, jwtSecret string, limiter, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/dive",
		limiter,
		middleware.JWTAuth(jwtSecret, users),
	)

	// ---- Any authenticated user ----
	g.POST("/createDive", h.CreateDive)
	g.GET("/myDives", h.MyDives, cache)

	// ---- Admin only ----
	g.GET("/all", h.AllDives, middleware.RequireRole(model.RoleAdmin), cache)
	g.PATCH("/:id", h.UpdateDive, middleware.RequireRole(model.RoleAdmin))
}
