package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dive-booking/internal/model"
)

func invokeRole(t *testing.T, user interface{}, roles ...string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dive/all", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(UserKey, user)
	}

	called := false
	err := RequireRole(roles...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return rec, called
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	rec, called := invokeRole(t, model.User{ID: 1, Role: model.RoleAdmin}, model.RoleAdmin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRequireRole_ForbidsOtherRoles(t *testing.T) {
	for _, role := range []string{model.RoleStudent, model.RoleDeveloper, model.RoleQA} {
		rec, called := invokeRole(t, model.User{ID: 1, Role: role}, model.RoleAdmin)
		assert.Equal(t, http.StatusForbidden, rec.Code, "role=%s", role)
		assert.False(t, called, "role=%s", role)
	}
}

func TestRequireRole_ForbidsMissingUser(t *testing.T) {
	// No resolved user in context, e.g. RequireRole misordered before JWTAuth.
	rec, called := invokeRole(t, nil, model.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}
