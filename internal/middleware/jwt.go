package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/dive-booking/internal/auth"
    "github.com/iliyamo/dive-booking/internal/repository"
)

// Context keys set by JWTAuth.  Handlers read the resolved user via
// c.Get(UserKey) and the numeric ID via c.Get(UserIDKey).
const (
    UserKey   = "user"
    UserIDKey = "user_id"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and resolves it to a full user record.  The provided secret must match
// the one used when issuing tokens.  Verification alone is not enough: the
// token only carries the user ID, so the middleware loads the row from the
// users table and rejects tokens whose account no longer exists.  On
// success the resolved model.User is stored in the request context; every
// protected route must run this middleware before any business logic.
func JWTAuth(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            header := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(header, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(header, "Bearer ")

            userID, err := auth.VerifyAccessToken(secret, raw)
            if err != nil {
                if err == auth.ErrTokenExpired {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()

            // A verified token whose user row is gone is still unauthorized:
            // this covers accounts deleted or recreated after issuance.
            u, err := users.GetByID(ctx, userID)
            if err != nil {
                if err == sql.ErrNoRows {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
            }

            c.Set(UserKey, u)
            c.Set(UserIDKey, u.ID)
            return next(c)
        }
    }
}
