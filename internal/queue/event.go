// Package queue defines message payloads exchanged over the message broker.
package queue

// Event type values carried in DiveEvent.Type.
const (
    EventDiveCreated       = "dive.created"
    EventDiveStatusChanged = "dive.status_changed"
)

// DiveEvent is published when a dive is booked or when an admin decides
// one. It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type DiveEvent struct {
    Type       string `json:"type"`
    DiveID     uint64 `json:"dive_id"`
    UserID     uint64 `json:"user_id"`
    DiverName  string `json:"diver_name,omitempty"`
    DiverEmail string `json:"diver_email,omitempty"`
    Date       string `json:"date"`   // YYYY-MM-DD
    Status     string `json:"status"` // Pending/Approved/Rejected
    OccurredAt string `json:"occurred_at"`
}
