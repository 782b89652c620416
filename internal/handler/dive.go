package handler

import (
    "context"  // timeouts for DB calls and event publishing
    "errors"   // errors.Is comparisons against repository sentinels
    "net/http" // HTTP status codes
    "strconv"  // parsing path parameters
    "strings"  // trimming request input
    "time"     // date parsing and truncation

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/dive-booking/internal/middleware" // context keys set by the guard
    "github.com/iliyamo/dive-booking/internal/model"
    "github.com/iliyamo/dive-booking/internal/queue"
    "github.com/iliyamo/dive-booking/internal/repository"
    queue_publisher "github.com/iliyamo/dive-booking/internal/service"
)

// dateLayout is the wire format for dive dates.
const dateLayout = "2006-01-02"

// parseDiveDate parses a request-supplied date string.  The canonical wire
// format is YYYY-MM-DD; full RFC3339 timestamps are also accepted since the
// time-of-day is discarded on write anyway.
func parseDiveDate(s string) (time.Time, error) {
    s = strings.TrimSpace(s)
    if t, err := time.Parse(dateLayout, s); err == nil {
        return t, nil
    }
    return time.Parse(time.RFC3339, s)
}

// DiveHandler groups the repository and event publisher used by the dive
// endpoints.  All methods assume that JWT authentication (and, for the
// admin endpoints, role validation) has already been performed by
// middleware.  Methods return 401 if the resolved user cannot be read from
// the context.
type DiveHandler struct {
    Dives *repository.DiveRepo
    // publish sends a lifecycle event to the broker.  Nil disables
    // publishing (used by tests); failures are logged by the publisher and
    // never fail the request.
    publish func(context.Context, queue.DiveEvent) error
}

// NewDiveHandler constructs a DiveHandler wired to the RabbitMQ publisher.
func NewDiveHandler(dives *repository.DiveRepo) *DiveHandler {
    if dives == nil {
        panic("nil repository passed to NewDiveHandler")
    }
    return &DiveHandler{Dives: dives, publish: queue_publisher.PublishDiveEvent}
}

func (h *DiveHandler) emit(ev queue.DiveEvent) {
    if h.publish == nil {
        return
    }
    // Detached from the request: the response must not wait on the broker.
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = h.publish(ctx, ev)
    }()
}

// currentUser reads the user record resolved by the JWTAuth middleware.
func currentUser(c echo.Context) (model.User, bool) {
    u, ok := c.Get(middleware.UserKey).(model.User)
    return u, ok
}

// ----- response shapes -----

type diveOwnerPart struct {
    ID       uint64 `json:"id"`
    FullName string `json:"fullName"`
    Email    string `json:"email"`
}

type divePart struct {
    ID        uint64         `json:"id"`
    Date      string         `json:"date"` // YYYY-MM-DD
    Status    string         `json:"status"`
    User      *diveOwnerPart `json:"user,omitempty"`
    CreatedAt time.Time      `json:"createdAt"`
    UpdatedAt time.Time      `json:"updatedAt"`
}

func divePartFrom(d model.Dive) divePart {
    return divePart{
        ID:        d.ID,
        Date:      d.Date.Format(dateLayout),
        Status:    d.Status,
        CreatedAt: d.CreatedAt,
        UpdatedAt: d.UpdatedAt,
    }
}

func divePartWithOwner(d repository.DiveWithOwner) divePart {
    p := divePartFrom(d.Dive)
    p.User = &diveOwnerPart{ID: d.UserID, FullName: d.OwnerName, Email: d.OwnerEmail}
    return p
}

// CreateDive handles POST /dive/createDive.  The caller books a dive for
// themselves on the given calendar day; the booking starts out Pending and
// waits for an admin decision.
func (h *DiveHandler) CreateDive(c echo.Context) error {
    u, ok := currentUser(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
    }

    var body struct {
        Date string `json:"date"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
    }
    if strings.TrimSpace(body.Date) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "date is required"})
    }
    day, err := parseDiveDate(body.Date)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date format, expected YYYY-MM-DD"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    d, err := h.Dives.Create(ctx, u.ID, day)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create dive failed"})
    }

    h.emit(queue.DiveEvent{
        Type:       queue.EventDiveCreated,
        DiveID:     d.ID,
        UserID:     u.ID,
        DiverName:  u.FullName,
        DiverEmail: u.Email,
        Date:       d.Date.Format(dateLayout),
        Status:     d.Status,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    })

    resp := divePartFrom(d)
    resp.User = &diveOwnerPart{ID: u.ID, FullName: u.FullName, Email: u.Email}
    return c.JSON(http.StatusCreated, echo.Map{
        "message": "dive created successfully",
        "dive":    resp,
    })
}

// MyDives handles GET /dive/myDives.  Returns the caller's own bookings
// ordered by dive day ascending, newest booking first within a day.  An
// empty list is a normal 200 response.
func (h *DiveHandler) MyDives(c echo.Context) error {
    u, ok := currentUser(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    dives, err := h.Dives.ListByUser(ctx, u.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "list dives failed"})
    }

    out := make([]divePart, 0, len(dives))
    for _, d := range dives {
        out = append(out, divePartFrom(d))
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": "dives retrieved successfully",
        "dives":   out,
        "count":   len(out),
    })
}

// AllDives handles GET /dive/all.  Admin-only (enforced by RequireRole):
// every booking across all users, each enriched with the owner's name and
// email.
func (h *DiveHandler) AllDives(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    dives, err := h.Dives.ListAllWithOwner(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "list dives failed"})
    }

    out := make([]divePart, 0, len(dives))
    for _, d := range dives {
        out = append(out, divePartWithOwner(d))
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": "all dives retrieved successfully",
        "dives":   out,
        "count":   len(out),
    })
}

// UpdateDive handles PATCH /dive/:id.  Admin-only.  The body carries two
// independently optional fields, status and date; at least one must be
// present.  Status may move between any of the three values — decided
// dives can be re-opened.  Unknown JSON keys are ignored.
func (h *DiveHandler) UpdateDive(c echo.Context) error {
    diveID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || diveID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid dive id"})
    }

    var body struct {
        Status *string `json:"status"`
        Date   *string `json:"date"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
    }

    if body.Status != nil && !model.ValidStatus(*body.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status value"})
    }
    var day *time.Time
    if body.Date != nil {
        if strings.TrimSpace(*body.Date) == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "date is required when provided"})
        }
        parsed, err := parseDiveDate(*body.Date)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date format, expected YYYY-MM-DD"})
        }
        day = &parsed
    }
    if body.Status == nil && day == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "no valid fields provided to update"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    updated, err := h.Dives.UpdatePartial(ctx, diveID, body.Status, day)
    if err != nil {
        if errors.Is(err, repository.ErrDiveNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "dive not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update dive failed"})
    }

    if body.Status != nil {
        h.emit(queue.DiveEvent{
            Type:       queue.EventDiveStatusChanged,
            DiveID:     updated.ID,
            UserID:     updated.UserID,
            DiverName:  updated.OwnerName,
            DiverEmail: updated.OwnerEmail,
            Date:       updated.Date.Format(dateLayout),
            Status:     updated.Status,
            OccurredAt: time.Now().UTC().Format(time.RFC3339),
        })
    }

    return c.JSON(http.StatusOK, echo.Map{
        "message": "dive updated successfully",
        "dive":    divePartWithOwner(updated),
    })
}
