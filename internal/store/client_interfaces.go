package store

import (
	"context"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// Keys under which the client state is persisted.
const (
	KeyRecords   = "records"
	KeyPending   = "pending"
	KeySyncLog   = "sync_log"
	KeySyncState = "sync_state"
)

// Entry is one key/value pair written by Persistence.SaveAll.
type Entry struct {
	Key   string
	Value []byte
}

// Persistence is the durable key/value collaborator of the client stores.
// Values are opaque JSON documents.
type Persistence interface {
	// Load returns the value stored under key. found is false when the key
	// was never written.
	Load(ctx context.Context, key string) (value []byte, found bool, err error)
	// Save writes one key.
	Save(ctx context.Context, key string, value []byte) error
	// SaveAll writes every entry or none of them.
	SaveAll(ctx context.Context, entries ...Entry) error
}
