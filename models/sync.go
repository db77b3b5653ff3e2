package models

import "time"

// SyncStatus is the machine-readable tag carried by every SyncEvent.
type SyncStatus string

const (
	SyncStatusSyncing  SyncStatus = "syncing"
	SyncStatusSuccess  SyncStatus = "success"
	SyncStatusConflict SyncStatus = "conflict"
	SyncStatusError    SyncStatus = "error"
)

// SyncEvent is emitted for cycle start, success, conflict and failure.
type SyncEvent struct {
	Status    SyncStatus `json:"status"`
	Message   string     `json:"message"`
	At        time.Time  `json:"at"`
	Conflicts int        `json:"conflicts,omitempty"`
}

// SchedulerState is the posture of the sync scheduler.
type SchedulerState string

const (
	SchedulerIdle               SchedulerState = "idle"
	SchedulerSyncing            SchedulerState = "syncing"
	SchedulerAwaitingResolution SchedulerState = "awaiting-resolution"
	SchedulerBackoff            SchedulerState = "idle-with-backoff"
)

// SyncState describes the engine's current posture.
type SyncState struct {
	LastSyncAt *time.Time      `json:"last_sync_at,omitempty"`
	InFlight   bool            `json:"-"`
	Pending    []PendingChange `json:"-"`
	Strategy   Strategy        `json:"strategy"`
}

// PushRequest carries pending local changes to the remote store in creation
// order. Deleted holds the ids removed locally.
type PushRequest struct {
	Records []Record `json:"records"`
	Deleted []string `json:"deleted,omitempty"`
	Length  int      `json:"length"`
}

// Empty reports whether there is nothing to push.
func (p PushRequest) Empty() bool {
	return len(p.Records) == 0 && len(p.Deleted) == 0
}

// Snapshot is the full remote collection returned by a pull.
type Snapshot struct {
	Records   []Record  `json:"records"`
	Timestamp time.Time `json:"timestamp"`
}
