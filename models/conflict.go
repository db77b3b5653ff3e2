package models

import "time"

// ConflictKind classifies a divergence between local and remote state.
type ConflictKind string

const (
	// ConflictUpdate means both sides hold the id with different content and
	// the remote copy is strictly newer.
	ConflictUpdate ConflictKind = "update"
	// ConflictAddition means the remote has an id the local store lacks.
	ConflictAddition ConflictKind = "addition"
	// ConflictDeletion means the remote dropped an id the local store still
	// holds after having synced it.
	ConflictDeletion ConflictKind = "deletion"
)

// Conflict is a detected divergence for one record id. Conflicts live only
// for the resolution phase of a single sync cycle.
type Conflict struct {
	Kind       ConflictKind `json:"kind"`
	RecordID   string       `json:"record_id"`
	Local      *Record      `json:"local,omitempty"`
	Remote     *Record      `json:"remote,omitempty"`
	DetectedAt time.Time    `json:"detected_at"`
}

// Resolution is a per-conflict decision supplied by an external decider
// under the manual strategy.
type Resolution struct {
	RecordID string   `json:"record_id"`
	Choice   Strategy `json:"choice"`
}
