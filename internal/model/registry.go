package model

import "time"

// Urgency bands for the deleted-accounts registry. The band drives
// user-facing prioritization, so the thresholds are contractual:
// 60 or more days remaining is low, 31-59 medium, 30 or fewer high.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// DeletedAccount is one row in the deleted-accounts registry.
// DaysUntilPurge and Urgency are derived at read time, never stored.
type DeletedAccount struct {
	ClientID       string    `json:"client_id"`
	CompanyName    string    `json:"company_name"`
	DeletedAt      time.Time `json:"deleted_at"`
	DeletedBy      *string   `json:"deleted_by,omitempty"`
	DeletionReason *string   `json:"deletion_reason,omitempty"`
	PurgeAt        time.Time `json:"purge_at"`
	DaysUntilPurge int       `json:"days_until_purge"`
	Urgency        Urgency   `json:"urgency"`
}

// RestorationInfo summarizes the most recent restoration of a client, if
// one exists. When WasRestored is false every other field is absent.
type RestorationInfo struct {
	WasRestored       bool       `json:"was_restored"`
	RestoredAt        *time.Time `json:"restored_at,omitempty"`
	RestoredBy        *string    `json:"restored_by,omitempty"`
	RestorationReason *string    `json:"restoration_reason,omitempty"`
	DaysAgo           *int       `json:"days_ago,omitempty"`
}

// RestorationRecord is one row of the restoration audit history.
// DaysDeleted is derived: whole days between deletion and restoration,
// rounded up.
type RestorationRecord struct {
	RestorationID     string    `json:"restoration_id"`
	ClientID          string    `json:"client_id"`
	CompanyName       string    `json:"company_name"`
	RestoredAt        time.Time `json:"restored_at"`
	RestoredBy        string    `json:"restored_by"`
	RestorationReason string    `json:"restoration_reason"`
	DeletedAt         time.Time `json:"deleted_at"`
	DeletedBy         *string   `json:"deleted_by,omitempty"`
	DeletionReason    *string   `json:"deletion_reason,omitempty"`
	DaysDeleted       int       `json:"days_deleted"`
}

// ProcedureResult is the outcome shape returned by the lifecycle stored
// procedures (restore_client, immediate_purge_client).
type ProcedureResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// HistoryQuery filters the restoration history view. Search matches
// company name or restoring actor, case-insensitively. From/To bound the
// restoration time.
type HistoryQuery struct {
	Search string
	From   time.Time
	To     time.Time
}
