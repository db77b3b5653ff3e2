package models

import "time"

// Origin tags where a record came from. It is diagnostic only: no sync
// decision is ever taken on it.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
	OriginMerged Origin = "merged"
)

// Payload is the domain content of a quote record. The engine treats it as
// opaque apart from equality and the conflict marker.
type Payload struct {
	Text     string `json:"text"`
	Category string `json:"category"`

	// ConflictMarked is set on the local copy kept by the merge-keep-both
	// strategy so callers can tell it apart from the remote duplicate.
	ConflictMarked bool `json:"conflict_marked,omitempty"`
}

// Equal reports whether two payloads carry the same content.
func (p Payload) Equal(other Payload) bool {
	return p.Text == other.Text &&
		p.Category == other.Category &&
		p.ConflictMarked == other.ConflictMarked
}

// Record is the unit of synchronized data.
type Record struct {
	ID           string    `json:"id"`
	Payload      Payload   `json:"payload"`
	Version      int64     `json:"version"`
	LastModified time.Time `json:"last_modified"`
	Origin       Origin    `json:"origin,omitempty"`

	// SyncedVersion is the version last acknowledged by (or adopted from)
	// the remote store. Zero means the record has never left this device.
	SyncedVersion int64 `json:"synced_version,omitempty"`
}

// Synced reports whether the remote store has ever known this record.
func (r Record) Synced() bool {
	return r.SyncedVersion > 0
}

// Clone returns a pointer to a copy of r.
func (r Record) Clone() *Record {
	c := r
	return &c
}
