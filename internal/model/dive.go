package model

import "time"

// Dive status values mirroring the dives.status enum column.  New dives
// always start as StatusPending; an admin may later move them to any of the
// three values, including re-opening a decided dive back to Pending.
const (
    StatusPending  = "Pending"
    StatusApproved = "Approved"
    StatusRejected = "Rejected"
)

// ValidStatus reports whether the given string is one of the three
// enumerated dive statuses.  Anything else must be rejected before it
// reaches the database.
func ValidStatus(status string) bool {
    switch status {
    case StatusPending, StatusApproved, StatusRejected:
        return true
    }
    return false
}

// Dive represents a dive booking as stored in the `dives` table.  Date
// carries only the calendar day: the repository truncates any time-of-day
// component to midnight UTC before writing.
//
// Fields:
//  ID        – primary key identifier of the dive.
//  UserID    – owner of the booking (references users.id).
//  Date      – requested dive day at midnight UTC.
//  Status    – Pending/Approved/Rejected.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Dive struct {
    ID        uint64    // dives.id
    UserID    uint64    // dives.user_id
    Date      time.Time // dives.dive_date
    Status    string    // dives.status
    CreatedAt time.Time // dives.created_at
    UpdatedAt time.Time // dives.updated_at
}
