package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dive-booking/internal/middleware"
	"github.com/iliyamo/dive-booking/internal/model"
	"github.com/iliyamo/dive-booking/internal/repository"
)

var (
	diveColumns      = []string{"id", "user_id", "dive_date", "status", "created_at", "updated_at"}
	diveOwnerColumns = []string{"id", "user_id", "dive_date", "status", "created_at", "updated_at", "full_name", "email"}
)

// newDiveEnv builds a DiveHandler backed by sqlmock with event publishing
// disabled; tests must not depend on a running broker.
func newDiveEnv(t *testing.T) (*DiveHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &DiveHandler{Dives: repository.NewDiveRepo(db)}, mock
}

func diveRequest(t *testing.T, h echo.HandlerFunc, method, path, body string, u *model.User, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if u != nil {
		c.Set(middleware.UserKey, *u)
		c.Set(middleware.UserIDKey, u.ID)
	}
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	require.NoError(t, h(c))
	return rec
}

var ann = model.User{ID: 7, FullName: "Ann Diver", Email: "ann@example.com", Role: model.RoleStudent}

func TestCreateDive_MissingDate(t *testing.T) {
	h, _ := newDiveEnv(t)

	rec := diveRequest(t, h.CreateDive, http.MethodPost, "/dive/createDive", `{}`, &ann)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "date is required")
}

func TestCreateDive_MalformedDate(t *testing.T) {
	h, _ := newDiveEnv(t)

	for _, body := range []string{`{"date":"not-a-date"}`, `{"date":"2024-13-45"}`, `{"date":"15/03/2024"}`} {
		rec := diveRequest(t, h.CreateDive, http.MethodPost, "/dive/createDive", body, &ann)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body=%s", body)
	}
}

func TestCreateDive_NoResolvedUser(t *testing.T) {
	h, _ := newDiveEnv(t)

	rec := diveRequest(t, h.CreateDive, http.MethodPost, "/dive/createDive", `{"date":"2024-03-15"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateDive_NormalizesToCalendarDay(t *testing.T) {
	h, mock := newDiveEnv(t)
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO dives")).
		WithArgs(ann.ID, day, model.StatusPending).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("FROM dives WHERE id=").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows(diveColumns).AddRow(11, ann.ID, day, model.StatusPending, now, now))

	// RFC3339 input: time-of-day must be dropped.
	rec := diveRequest(t, h.CreateDive, http.MethodPost, "/dive/createDive",
		`{"date":"2024-03-15T18:30:00Z"}`, &ann)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"date":"2024-03-15"`)
	assert.Contains(t, rec.Body.String(), `"status":"Pending"`)
	assert.Contains(t, rec.Body.String(), `"fullName":"Ann Diver"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMyDives_ScopedToCaller(t *testing.T) {
	h, mock := newDiveEnv(t)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id=? ORDER BY dive_date ASC, created_at DESC")).
		WithArgs(ann.ID).
		WillReturnRows(sqlmock.NewRows(diveColumns).
			AddRow(1, ann.ID, day, model.StatusApproved, now, now))

	rec := diveRequest(t, h.MyDives, http.MethodGet, "/dive/myDives", "", &ann)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMyDives_EmptyList(t *testing.T) {
	h, mock := newDiveEnv(t)

	mock.ExpectQuery("FROM dives WHERE user_id=").
		WithArgs(ann.ID).
		WillReturnRows(sqlmock.NewRows(diveColumns))

	rec := diveRequest(t, h.MyDives, http.MethodGet, "/dive/myDives", "", &ann)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dives":[]`)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

func TestAllDives_IncludesOwnerInfo(t *testing.T) {
	h, mock := newDiveEnv(t)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery("JOIN users u ON u.id = d.user_id").
		WillReturnRows(sqlmock.NewRows(diveOwnerColumns).
			AddRow(1, ann.ID, day, model.StatusApproved, now, now, ann.FullName, ann.Email))

	admin := model.User{ID: 1, FullName: "Root", Email: "root@example.com", Role: model.RoleAdmin}
	rec := diveRequest(t, h.AllDives, http.MethodGet, "/dive/all", "", &admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Approved"`)
	assert.Contains(t, rec.Body.String(), `"fullName":"Ann Diver"`)
	assert.Contains(t, rec.Body.String(), `"email":"ann@example.com"`)
}

func TestUpdateDive_RejectsUnknownStatus(t *testing.T) {
	h, _ := newDiveEnv(t)

	rec := diveRequest(t, h.UpdateDive, http.MethodPatch, "/dive/1",
		`{"status":"Cancelled"}`, &ann, "id", "1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid status value")
}

func TestUpdateDive_RejectsEmptyPayload(t *testing.T) {
	h, _ := newDiveEnv(t)

	rec := diveRequest(t, h.UpdateDive, http.MethodPatch, "/dive/1", `{}`, &ann, "id", "1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no valid fields")
}

func TestUpdateDive_RejectsEmptyDate(t *testing.T) {
	h, _ := newDiveEnv(t)

	rec := diveRequest(t, h.UpdateDive, http.MethodPatch, "/dive/1",
		`{"date":"  "}`, &ann, "id", "1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateDive_NotFound(t *testing.T) {
	h, mock := newDiveEnv(t)

	mock.ExpectExec("UPDATE dives SET status=").
		WithArgs(model.StatusApproved, uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("WHERE d.id=").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows(diveOwnerColumns))

	rec := diveRequest(t, h.UpdateDive, http.MethodPatch, "/dive/404",
		`{"status":"Approved"}`, &ann, "id", "404")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateDive_ApprovesAndReturnsOwner(t *testing.T) {
	h, mock := newDiveEnv(t)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE dives SET status=? WHERE id=?")).
		WithArgs(model.StatusApproved, uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("WHERE d.id=").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(diveOwnerColumns).
			AddRow(1, ann.ID, day, model.StatusApproved, now, now, ann.FullName, ann.Email))

	rec := diveRequest(t, h.UpdateDive, http.MethodPatch, "/dive/1",
		`{"status":"Approved"}`, &ann, "id", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Approved"`)
	assert.Contains(t, rec.Body.String(), `"fullName":"Ann Diver"`)
	assert.Contains(t, rec.Body.String(), `"email":"ann@example.com"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseDiveDate(t *testing.T) {
	d, err := parseDiveDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())

	_, err = parseDiveDate("not-a-date")
	assert.Error(t, err)
}
