package model

import "time"

// EventKind identifies one of the four lifecycle occurrences a client
// account can go through. The set is closed.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventDeleted  EventKind = "deleted"
	EventRestored EventKind = "restored"
	EventPurged   EventKind = "purged"
)

// LifecycleEvent is one occurrence in a client's reconstructed history.
// Actor and Reason are absent for system-generated Created events.
type LifecycleEvent struct {
	Kind       EventKind `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Actor      *string   `json:"actor,omitempty"`
	Reason     *string   `json:"reason,omitempty"`
}

// AccountRecord is the core row for a client: creation timestamp plus the
// current deletion state, if any. A nil CreatedAt marks a malformed source
// row; the creation event is simply omitted, it is not an error.
type AccountRecord struct {
	ClientID       string     `json:"client_id"`
	CompanyName    string     `json:"company_name"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	DeletedBy      *string    `json:"deleted_by,omitempty"`
	DeletionReason *string    `json:"deletion_reason,omitempty"`
	PurgeAt        *time.Time `json:"purge_at,omitempty"`
}

// DeletionCycle is one completed delete-then-restore round trip sourced
// from the restoration log. Each cycle expands into exactly two lifecycle
// events: Deleted followed by Restored.
type DeletionCycle struct {
	DeletedAt         time.Time `json:"deleted_at"`
	DeletedBy         *string   `json:"deleted_by,omitempty"`
	DeletionReason    *string   `json:"deletion_reason,omitempty"`
	RestoredAt        time.Time `json:"restored_at"`
	RestoredBy        string    `json:"restored_by"`
	RestorationReason string    `json:"restoration_reason"`
}

// PurgeRecord marks the irreversible end of a client's lifecycle.
// At most one exists per client.
type PurgeRecord struct {
	PurgedAt    time.Time `json:"purged_at"`
	PurgedBy    string    `json:"purged_by"`
	PurgeReason string    `json:"purge_reason"`
}
