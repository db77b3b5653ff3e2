package store

import (
	"context"

	"github.com/MKhiriev/go-quote-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// StoredRecord is a record as held by the reference remote, together with
// the fingerprint of its payload.
type StoredRecord struct {
	models.Record
	PayloadHash string
}

// RemoteRecordRepository is the reference server's record table.
type RemoteRecordRepository interface {
	// ListRecords returns every record in insertion order.
	ListRecords(ctx context.Context) ([]StoredRecord, error)
	// GetRecords returns the stored records among ids, keyed by id.
	GetRecords(ctx context.Context, ids []string) (map[string]StoredRecord, error)
	// ApplyChanges upserts and deletes in one transaction.
	ApplyChanges(ctx context.Context, upserts []StoredRecord, deleted []string) error
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
