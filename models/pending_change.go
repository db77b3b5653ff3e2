package models

import "time"

// ChangeKind is the kind of a local mutation waiting to be pushed.
type ChangeKind string

const (
	ChangeAdd    ChangeKind = "add"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// PendingChange is a local mutation not yet confirmed synced.
type PendingChange struct {
	// Seq is assigned by the pending log and only grows. A sync cycle clears
	// the entries up to the last Seq it pushed, so changes recorded while the
	// cycle was suspended survive.
	Seq      int64      `json:"seq"`
	Kind     ChangeKind `json:"kind"`
	RecordID string     `json:"record_id"`

	// Record is nil for ChangeDelete.
	Record    *Record   `json:"record,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
