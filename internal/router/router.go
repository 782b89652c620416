package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/dive-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/dive-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/dive-booking/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterUser registers the /user route group: signup and login are open,
// the protected probe requires a valid bearer token.  The rate limiter runs
// first so unauthenticated credential endpoints are throttled too.
func RegisterUser(e *echo.Echo, a *handler.AuthHandler, users *repository.UserRepo, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/user", limiter)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	// The probe resolves the full user record, so a token for a deleted
	// account is rejected here just like on the dive endpoints.
	g.GET("/protected", a.Protected, middleware.JWTAuth(jwtSecret, users))
}
