package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/dive-booking/internal/model"
)

// DiveRepo provides CRUD operations for dive bookings.  A dive groups a
// requested calendar day with its approval status and owning user.  All
// timestamp fields are assumed to be stored in UTC.
type DiveRepo struct {
    db *sql.DB
}

// NewDiveRepo returns a new DiveRepo bound to the given database.
func NewDiveRepo(db *sql.DB) *DiveRepo { return &DiveRepo{db: db} }

// DiveWithOwner combines a dive row with the owning user's display fields.
// It is returned by the admin-facing listing and update operations so that
// an administrator sees whose request they are deciding without a second
// query per row.
type DiveWithOwner struct {
    model.Dive
    OwnerName  string
    OwnerEmail string
}

// TruncateToDay strips the time-of-day component, keeping only the calendar
// day at midnight UTC.  Every write of dives.dive_date goes through this so
// the stored value never carries hours or minutes.
func TruncateToDay(t time.Time) time.Time {
    t = t.UTC()
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Create inserts a new Pending dive owned by userID and returns the stored
// row.  The date is truncated to its calendar day before insertion.  The
// row is queried back to populate database-assigned timestamps.
func (r *DiveRepo) Create(ctx context.Context, userID uint64, date time.Time) (model.Dive, error) {
    day := TruncateToDay(date)
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO dives (user_id, dive_date, status) VALUES (?,?,?)",
        userID, day, model.StatusPending)
    if err != nil {
        return model.Dive{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.Dive{}, err
    }
    var d model.Dive
    err = r.db.QueryRowContext(ctx,
        "SELECT id,user_id,dive_date,status,created_at,updated_at FROM dives WHERE id=? LIMIT 1",
        uint64(id)).Scan(&d.ID, &d.UserID, &d.Date, &d.Status, &d.CreatedAt, &d.UpdatedAt)
    if err != nil {
        return model.Dive{}, err
    }
    return d, nil
}

// ListByUser returns all dives owned by userID ordered by dive day
// ascending, ties broken by newest booking first.  An empty result is not
// an error.
func (r *DiveRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Dive, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT id,user_id,dive_date,status,created_at,updated_at FROM dives WHERE user_id=? ORDER BY dive_date ASC, created_at DESC",
        userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    dives := make([]model.Dive, 0)
    for rows.Next() {
        var d model.Dive
        if err := rows.Scan(&d.ID, &d.UserID, &d.Date, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
            return nil, err
        }
        dives = append(dives, d)
    }
    return dives, rows.Err()
}

// ListAllWithOwner returns every dive joined with the owner's name and
// email, using the same ordering as ListByUser.  Intended for admins only;
// the role check happens in middleware, not here.
func (r *DiveRepo) ListAllWithOwner(ctx context.Context) ([]DiveWithOwner, error) {
    const q = `SELECT d.id,d.user_id,d.dive_date,d.status,d.created_at,d.updated_at,u.full_name,u.email
FROM dives d
JOIN users u ON u.id = d.user_id
ORDER BY d.dive_date ASC, d.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    dives := make([]DiveWithOwner, 0)
    for rows.Next() {
        var d DiveWithOwner
        if err := rows.Scan(&d.ID, &d.UserID, &d.Date, &d.Status, &d.CreatedAt, &d.UpdatedAt,
            &d.OwnerName, &d.OwnerEmail); err != nil {
            return nil, err
        }
        dives = append(dives, d)
    }
    return dives, rows.Err()
}

// GetWithOwner loads a single dive joined with its owner.  Returns
// ErrDiveNotFound when no such row exists.
func (r *DiveRepo) GetWithOwner(ctx context.Context, id uint64) (DiveWithOwner, error) {
    const q = `SELECT d.id,d.user_id,d.dive_date,d.status,d.created_at,d.updated_at,u.full_name,u.email
FROM dives d
JOIN users u ON u.id = d.user_id
WHERE d.id=? LIMIT 1`
    var d DiveWithOwner
    err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.UserID, &d.Date, &d.Status,
        &d.CreatedAt, &d.UpdatedAt, &d.OwnerName, &d.OwnerEmail)
    if err == sql.ErrNoRows {
        return DiveWithOwner{}, ErrDiveNotFound
    }
    if err != nil {
        return DiveWithOwner{}, err
    }
    return d, nil
}

// UpdatePartial applies only the provided fields to a dive.  A nil pointer
// leaves the column untouched; callers must pass at least one non-nil
// field.  The update is a single statement with no version check, so
// concurrent admin edits resolve last-write-wins.  The updated row is
// returned joined with owner info; ErrDiveNotFound when the ID is unknown.
func (r *DiveRepo) UpdatePartial(ctx context.Context, id uint64, status *string, date *time.Time) (DiveWithOwner, error) {
    set := ""
    args := make([]interface{}, 0, 3)
    if status != nil {
        set += "status=?"
        args = append(args, *status)
    }
    if date != nil {
        if set != "" {
            set += ", "
        }
        set += "dive_date=?"
        args = append(args, TruncateToDay(*date))
    }
    args = append(args, id)
    // RowsAffected is 0 both for a missing row and for a no-op update, so
    // existence is decided by the SELECT below instead.
    if _, err := r.db.ExecContext(ctx, "UPDATE dives SET "+set+" WHERE id=?", args...); err != nil {
        return DiveWithOwner{}, err
    }
    return r.GetWithOwner(ctx, id)
}
