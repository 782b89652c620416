package handler

import (
    "context"      // provides context with cancellation for DB calls
    "database/sql" // SQL database interactions
    "net/http"     // HTTP status codes and primitives
    "strings"      // string manipulation utilities
    "time"         // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/dive-booking/internal/auth"       // token issuing and password hashing
    "github.com/iliyamo/dive-booking/internal/config"     // app configuration
    "github.com/iliyamo/dive-booking/internal/middleware" // context keys set by the guard
    "github.com/iliyamo/dive-booking/internal/model"
    "github.com/iliyamo/dive-booking/internal/repository" // DB repositories
)

// AuthHandler bundles dependencies for signup/login endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type signupReq struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FullName      string `json:"fullName"`
	LicenseNumber string `json:"licenseNumber"`
	Role          string `json:"role"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPart is the non-sensitive projection of a user record returned by
// signup and login.  The password hash never appears on the wire.
type userPart struct {
	ID            uint64 `json:"id"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	Role          string `json:"role"`
}

func userPartFrom(u model.User) userPart {
	return userPart{
		ID:            u.ID,
		FullName:      u.FullName,
		Email:         u.Email,
		LicenseNumber: u.LicenseNumber,
		Role:          u.Role,
	}
}

// Signup: create user and return its summary.  No token is issued here;
// clients log in afterwards.  The requested role is honored when it is one
// of the known role names and falls back to student otherwise.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email, password and fullName are required"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !model.KnownRole(role) {
		role = model.RoleStudent
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.FullName, req.Email, req.Password,
		strings.TrimSpace(req.LicenseNumber), role, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"message": "user with this email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user created successfully",
		"user": userPart{
			ID:            uid,
			FullName:      req.FullName,
			Email:         req.Email,
			LicenseNumber: strings.TrimSpace(req.LicenseNumber),
			Role:          role,
		},
	})
}

// Login: verify credentials and return a fresh access token plus the user
// summary.  Unknown email and wrong password produce byte-identical 401
// responses so the endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
	}

	token, err := auth.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "issue token failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login successful",
		"token":   token.Token,
		"expires": token.Exp,
		"user":    userPartFrom(u),
	})
}

// Protected: trivial authenticated probe.  Useful for clients checking
// whether their token is still accepted.
func (h *AuthHandler) Protected(c echo.Context) error {
	u, ok := c.Get(middleware.UserKey).(model.User)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "you are authenticated",
		"user":    userPartFrom(u),
	})
}
